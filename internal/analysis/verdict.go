package analysis

import "math"

// FitQuality grades R².
type FitQuality string

const (
	FitExcellent FitQuality = "excellent"
	FitGood      FitQuality = "good"
	FitModerate  FitQuality = "moderate"
	FitPoor      FitQuality = "poor"
)

// ClassifyFit maps R² onto the fixed fit-quality bands.
func ClassifyFit(r2 float64) FitQuality {
	switch {
	case r2 > 0.98:
		return FitExcellent
	case r2 > 0.95:
		return FitGood
	case r2 > 0.90:
		return FitModerate
	default:
		return FitPoor
	}
}

// Evidence grades how well the data supports linear scaling.
type Evidence string

const (
	EvidenceStrong       Evidence = "strong"
	EvidenceModerate     Evidence = "moderate"
	EvidenceWeak         Evidence = "weak"
	EvidenceInsufficient Evidence = "insufficient"
)

// ClassifyRatio maps a coefficient of variation (percent) onto O(n) evidence.
// An infinite CV is weak evidence.
func ClassifyRatio(cv float64) Evidence {
	switch {
	case cv < 10:
		return EvidenceStrong
	case cv < 20:
		return EvidenceModerate
	default:
		return EvidenceWeak
	}
}

// TrendDirection describes a detected residual trend.
type TrendDirection string

const (
	TrendNone        TrendDirection = "none"
	TrendSuperLinear TrendDirection = "super-linear"
	TrendSubLinear   TrendDirection = "sub-linear"
)

// Direction reports whether the residuals drift from the line. A p-value that is
// not above 0.05 is a detected deviation; NaN p-values (two points) count as none.
func (t *ResidualTrend) Direction() TrendDirection {
	if t == nil || math.IsNaN(t.PValue) || t.PValue > 0.05 {
		return TrendNone
	}
	if t.Rho > 0 {
		return TrendSuperLinear
	}
	return TrendSubLinear
}

// Verdict is the cross-partition conclusion about O(n) scaling.
type Verdict struct {
	// Defined is false when no partition produced a linear fit.
	Defined      bool
	Partitions   int
	MeanRSquared float64
	MeanCV       float64
	Evidence     Evidence
}

// OverallVerdict averages R² and CV over partitions with a defined fit.
func OverallVerdict(reports []PartitionReport) Verdict {
	var v Verdict
	var sumR2, sumCV float64
	for _, r := range reports {
		if r.Fit == nil {
			continue
		}
		v.Partitions++
		sumR2 += r.Fit.RSquared
		sumCV += r.Ratio.CV
	}
	if v.Partitions == 0 {
		v.MeanRSquared = math.NaN()
		v.MeanCV = math.NaN()
		return v
	}
	v.Defined = true
	v.MeanRSquared = sumR2 / float64(v.Partitions)
	v.MeanCV = sumCV / float64(v.Partitions)
	switch {
	case v.MeanRSquared > 0.95 && v.MeanCV < 15:
		v.Evidence = EvidenceStrong
	case v.MeanRSquared > 0.90 && v.MeanCV < 25:
		v.Evidence = EvidenceModerate
	default:
		v.Evidence = EvidenceInsufficient
	}
	return v
}
