package analysis

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	errTooFewPoints = errors.New("too few data points for a linear fit")
	errZeroVariance = errors.New("all arraySize values are identical")
)

// residualTolerance is the fraction of max |y| below which a residual counts as zero.
const residualTolerance = 1e-9

// LinearFit is an ordinary least squares fit of meanSteps on arraySize.
type LinearFit struct {
	N         int
	Slope     float64
	Intercept float64
	R         float64
	RSquared  float64
	// StdErr is the standard error of the slope; 0 when n == 2.
	StdErr float64
	// PValue is the two-sided p-value for slope != 0; NaN when n == 2.
	PValue float64
}

// FitLinear regresses y on x. It fails when there are fewer than two points or x
// has no spread. A constant y yields r = 0.
func FitLinear(x, y []float64) (*LinearFit, error) {
	n := len(x)
	if n < 2 || len(y) != n {
		return nil, errTooFewPoints
	}
	if floats.Max(x) == floats.Min(x) {
		return nil, errZeroVariance
	}
	_, vx := stat.MeanVariance(x, nil)
	_, vy := stat.MeanVariance(y, nil)
	intercept, slope := stat.LinearRegression(x, y, nil, false)

	fit := &LinearFit{N: n, Slope: slope, Intercept: intercept}
	if floats.Max(y) != floats.Min(y) {
		fit.R = clampUnit(stat.Correlation(x, y, nil))
	}
	fit.RSquared = fit.R * fit.R

	df := float64(n - 2)
	if n == 2 {
		fit.PValue = math.NaN()
		return fit, nil
	}
	fit.PValue = twoSidedP(fit.R, df)
	ssxm := vx * float64(n-1)
	ssym := vy * float64(n-1)
	fit.StdErr = math.Sqrt(math.Max(0, (1-fit.RSquared)*ssym/ssxm/df))
	return fit, nil
}

// Predict evaluates the fitted line at x.
func (f *LinearFit) Predict(x float64) float64 { return f.Slope*x + f.Intercept }

// Residuals returns observed minus predicted values. Residuals that are numerical
// noise relative to the largest |y| are reported as exactly zero.
func (f *LinearFit) Residuals(x, y []float64) []float64 {
	scale := 0.0
	for _, v := range y {
		scale = math.Max(scale, math.Abs(v))
	}
	out := make([]float64, len(x))
	for i := range x {
		r := y[i] - f.Predict(x[i])
		if math.Abs(r) <= residualTolerance*scale {
			r = 0
		}
		out[i] = r
	}
	return out
}

// Spearman computes the rank correlation of x and y with average ranks for ties,
// and its two-sided p-value from the t approximation with n-2 degrees of freedom.
// ok is false when either input has no spread.
func Spearman(x, y []float64) (rho, p float64, ok bool) {
	n := len(x)
	if n < 2 || len(y) != n {
		return math.NaN(), math.NaN(), false
	}
	rx, ry := rankAverage(x), rankAverage(y)
	if floats.Max(rx) == floats.Min(rx) || floats.Max(ry) == floats.Min(ry) {
		return math.NaN(), math.NaN(), false
	}
	rho = clampUnit(stat.Correlation(rx, ry, nil))
	if n < 3 {
		return rho, math.NaN(), true
	}
	return rho, twoSidedP(rho, float64(n-2)), true
}

// twoSidedP returns P(|T| > |t|) for the correlation r, T ~ Student's t(df).
func twoSidedP(r, df float64) float64 {
	if math.Abs(r) >= 1 {
		return 0
	}
	t := r * math.Sqrt(df/((1-r)*(1+r)))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return math.Min(1, 2*dist.Survival(math.Abs(t)))
}

// rankAverage assigns 1-based ranks, giving tied values the mean of their positions.
func rankAverage(vals []float64) []float64 {
	idx := make([]int, len(vals))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return vals[idx[a]] < vals[idx[b]] })
	ranks := make([]float64, len(vals))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && vals[idx[j+1]] == vals[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

func clampUnit(r float64) float64 {
	if r > 1 {
		return 1
	}
	if r < -1 {
		return -1
	}
	return r
}
