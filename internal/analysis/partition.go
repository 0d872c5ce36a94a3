package analysis

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"

	"github.com/apex/log"
	"github.com/montanaflynn/stats"
)

// PartitionReport holds every statistic computed for one magnitude.
type PartitionReport struct {
	Magnitude      string
	Target         *big.Int
	SmallestFactor *big.Int
	Points         int

	// Fit is nil when the regression is degenerate; FitErr says why.
	Fit    *LinearFit
	FitErr *RegressionError

	Ratio RatioStats

	// Trend is nil when Fit is nil or there are fewer than three points.
	Trend *ResidualTrend

	// MeanConvergence is the mean convergenceRate; NaN when every cell was blank.
	MeanConvergence float64
}

// RatioStats summarizes stepsPerElement across a partition.
type RatioStats struct {
	Mean   float64
	StdDev float64
	// CV is StdDev/Mean*100, +Inf when Mean <= 0.
	CV float64
}

// ResidualTrend is the Spearman test of arraySize against fit residuals.
type ResidualTrend struct {
	// Rho is NaN when the residuals are all zero.
	Rho    float64
	PValue float64
}

// Partition is the set of records sharing one magnitude label.
type Partition struct {
	Magnitude string
	Records   Dataset
}

// GroupByMagnitude splits ds into partitions ordered by magnitude. Labels sort
// numerically when all of them parse as numbers, lexically otherwise.
func GroupByMagnitude(ds Dataset) []Partition {
	byKey := map[string]Dataset{}
	var labels []string
	for _, r := range ds {
		if _, ok := byKey[r.Magnitude]; !ok {
			labels = append(labels, r.Magnitude)
		}
		byKey[r.Magnitude] = append(byKey[r.Magnitude], r)
	}
	sortLabels(labels)
	out := make([]Partition, len(labels))
	for i, l := range labels {
		out[i] = Partition{Magnitude: l, Records: byKey[l]}
	}
	return out
}

// AnalyzePartition computes the fit, ratio statistics, residual trend and mean
// convergence for one partition. A degenerate fit is recorded, not returned.
func AnalyzePartition(p Partition, minPoints int) PartitionReport {
	if minPoints < 2 {
		minPoints = 2
	}
	rep := PartitionReport{Magnitude: p.Magnitude, Points: len(p.Records)}
	if len(p.Records) > 0 {
		rep.Target = p.Records[0].Target
		rep.SmallestFactor = p.Records[0].SmallestFactor
	}
	x := make([]float64, len(p.Records))
	y := make([]float64, len(p.Records))
	ratios := make([]float64, len(p.Records))
	var conv []float64
	for i, r := range p.Records {
		x[i] = float64(r.ArraySize)
		y[i] = r.MeanSteps
		ratios[i] = r.StepsPerElement
		if !math.IsNaN(r.ConvergenceRate) {
			conv = append(conv, r.ConvergenceRate)
		}
	}

	if len(p.Records) < minPoints {
		reason := fmt.Sprintf("%v (%d < %d)", errTooFewPoints, len(p.Records), minPoints)
		rep.FitErr = &RegressionError{Magnitude: p.Magnitude, Reason: reason}
	} else if fit, err := FitLinear(x, y); err != nil {
		rep.FitErr = &RegressionError{Magnitude: p.Magnitude, Reason: err.Error()}
	} else {
		rep.Fit = fit
	}
	if rep.FitErr != nil {
		log.WithField("magnitude", p.Magnitude).Debug(rep.FitErr.Reason)
	}

	rep.Ratio = ratioStats(ratios)

	if rep.Fit != nil && len(p.Records) >= 3 {
		res := rep.Fit.Residuals(x, y)
		if rho, pv, ok := Spearman(x, res); ok {
			rep.Trend = &ResidualTrend{Rho: rho, PValue: pv}
		} else if allZero(res) {
			rep.Trend = &ResidualTrend{Rho: math.NaN(), PValue: 1}
		}
	}

	rep.MeanConvergence = math.NaN()
	if m, err := stats.Mean(conv); err == nil {
		rep.MeanConvergence = m
	}
	return rep
}

func ratioStats(vals []float64) RatioStats {
	var rs RatioStats
	mean, err := stats.Mean(vals)
	if err != nil {
		return RatioStats{Mean: math.NaN(), StdDev: math.NaN(), CV: math.Inf(1)}
	}
	rs.Mean = mean
	if len(vals) > 1 && !identical(vals) {
		sd, err := stats.StandardDeviationSample(vals)
		if err != nil {
			sd = math.NaN()
		}
		rs.StdDev = sd
	}
	if rs.Mean > 0 {
		rs.CV = rs.StdDev / rs.Mean * 100
	} else {
		rs.CV = math.Inf(1)
	}
	return rs
}

func identical(vals []float64) bool {
	for _, v := range vals[1:] {
		if v != vals[0] {
			return false
		}
	}
	return true
}

func allZero(vals []float64) bool {
	for _, v := range vals {
		if v != 0 {
			return false
		}
	}
	return true
}

func sortLabels(labels []string) {
	nums := make(map[string]float64, len(labels))
	numeric := true
	for _, l := range labels {
		f, err := strconv.ParseFloat(l, 64)
		if err != nil {
			numeric = false
			break
		}
		nums[l] = f
	}
	sort.SliceStable(labels, func(i, j int) bool {
		if numeric && nums[labels[i]] != nums[labels[j]] {
			return nums[labels[i]] < nums[labels[j]]
		}
		return labels[i] < labels[j]
	})
}
