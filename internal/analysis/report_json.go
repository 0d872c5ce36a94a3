package analysis

import (
	"math"

	"github.com/KaramelBytes/scalecheck/internal/utils"
)

// JSON output types. Undefined and infinite numbers are encoded as null.
type jsonReport struct {
	RunID      string          `json:"run_id"`
	File       string          `json:"file"`
	Total      int             `json:"total_rows"`
	Valid      int             `json:"valid_rows"`
	Filter     string          `json:"filter"`
	Partitions []jsonPartition `json:"partitions"`
	Pivot      *jsonPivot      `json:"pivot,omitempty"`
	Verdict    jsonVerdict     `json:"verdict"`
}

type jsonPartition struct {
	Magnitude       string     `json:"magnitude"`
	Target          *string    `json:"target"`
	SmallestFactor  *string    `json:"smallest_factor"`
	Points          int        `json:"points"`
	Fit             *jsonFit   `json:"fit"`
	FitError        string     `json:"fit_error,omitempty"`
	RatioMean       *float64   `json:"ratio_mean"`
	RatioStdDev     *float64   `json:"ratio_stddev"`
	CV              *float64   `json:"cv"`
	CVInfinite      bool       `json:"cv_infinite,omitempty"`
	RatioEvidence   Evidence   `json:"ratio_evidence"`
	Trend           *jsonTrend `json:"residual_trend"`
	MeanConvergence *float64   `json:"mean_convergence"`
}

type jsonFit struct {
	Slope     float64    `json:"slope"`
	Intercept float64    `json:"intercept"`
	RSquared  float64    `json:"r_squared"`
	StdErr    float64    `json:"slope_stderr"`
	PValue    *float64   `json:"p_value"`
	Quality   FitQuality `json:"quality"`
}

type jsonTrend struct {
	Rho       *float64       `json:"rho"`
	PValue    *float64       `json:"p_value"`
	Direction TrendDirection `json:"direction"`
}

type jsonPivot struct {
	ArraySizes []int64      `json:"array_sizes"`
	Magnitudes []string     `json:"magnitudes"`
	Cells      [][]*float64 `json:"mean_convergence"`
}

type jsonVerdict struct {
	Defined      bool     `json:"defined"`
	Evidence     Evidence `json:"evidence,omitempty"`
	Partitions   int      `json:"partitions"`
	MeanRSquared *float64 `json:"mean_r_squared"`
	MeanCV       *float64 `json:"mean_cv"`
}

// JSON returns the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	out := jsonReport{
		RunID:   r.RunID,
		File:    r.Name,
		Total:   r.Total,
		Valid:   r.Valid,
		Filter:  r.Predicate.Describe(),
		Verdict: jsonVerdict{Defined: r.Verdict.Defined, Evidence: r.Verdict.Evidence, Partitions: r.Verdict.Partitions, MeanRSquared: num(r.Verdict.MeanRSquared), MeanCV: num(r.Verdict.MeanCV)},
	}
	out.Partitions = make([]jsonPartition, 0, len(r.Partitions))
	for _, p := range r.Partitions {
		jp := jsonPartition{
			Magnitude:       p.Magnitude,
			Points:          p.Points,
			RatioMean:       num(p.Ratio.Mean),
			RatioStdDev:     num(p.Ratio.StdDev),
			CV:              num(p.Ratio.CV),
			CVInfinite:      math.IsInf(p.Ratio.CV, 1),
			RatioEvidence:   ClassifyRatio(p.Ratio.CV),
			MeanConvergence: num(p.MeanConvergence),
		}
		if p.Target != nil {
			s := p.Target.String()
			jp.Target = &s
		}
		if p.SmallestFactor != nil {
			s := p.SmallestFactor.String()
			jp.SmallestFactor = &s
		}
		if f := p.Fit; f != nil {
			jp.Fit = &jsonFit{Slope: f.Slope, Intercept: f.Intercept, RSquared: f.RSquared, StdErr: f.StdErr, PValue: num(f.PValue), Quality: ClassifyFit(f.RSquared)}
		} else if p.FitErr != nil {
			jp.FitError = p.FitErr.Reason
		}
		if t := p.Trend; t != nil {
			jp.Trend = &jsonTrend{Rho: num(t.Rho), PValue: num(t.PValue), Direction: t.Direction()}
		}
		out.Partitions = append(out.Partitions, jp)
	}
	if pv := r.Pivot; pv != nil {
		jp := &jsonPivot{ArraySizes: pv.ArraySizes, Magnitudes: pv.Magnitudes, Cells: make([][]*float64, len(pv.Cells))}
		for i, row := range pv.Cells {
			jp.Cells[i] = make([]*float64, len(row))
			for j, c := range row {
				if c.OK {
					jp.Cells[i][j] = num(c.Mean)
				}
			}
		}
		out.Pivot = jp
	}
	return utils.PrettyJSON(out)
}

func num(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
