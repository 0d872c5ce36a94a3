package analysis

import (
	"fmt"
	"strings"
)

// Predicate names the rule that marks a record as a converged trial.
type Predicate string

const (
	// MeanStepsPositive keeps rows with meanSteps > 0.
	MeanStepsPositive Predicate = "mean-steps"
	// ConvergenceRatePositive keeps rows with convergenceRate > 0, which also admits
	// rows where only some sub-trials converged.
	ConvergenceRatePositive Predicate = "convergence-rate"
)

// ParsePredicate maps a flag or config value to a Predicate. Empty selects the default.
func ParsePredicate(s string) (Predicate, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mean-steps", "meansteps", "steps":
		return MeanStepsPositive, nil
	case "convergence-rate", "convergencerate", "convergence", "rate":
		return ConvergenceRatePositive, nil
	default:
		return "", fmt.Errorf("unsupported convergence filter: %s (use mean-steps|convergence-rate)", s)
	}
}

// Describe renders the predicate as an inequality.
func (p Predicate) Describe() string {
	if p == ConvergenceRatePositive {
		return ColConvergenceRate + " > 0"
	}
	return ColMeanSteps + " > 0"
}

// Valid reports whether r passes the predicate. NaN convergence rates never pass.
func (p Predicate) Valid(r Record) bool {
	if p == ConvergenceRatePositive {
		return r.ConvergenceRate > 0
	}
	return r.MeanSteps > 0
}

// FilterValid returns the records accepted by p, in input order. An empty result is
// a NoValidDataError.
func FilterValid(ds Dataset, p Predicate) (Dataset, error) {
	out := make(Dataset, 0, len(ds))
	for _, r := range ds {
		if p.Valid(r) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, &NoValidDataError{Total: len(ds), Predicate: p}
	}
	return out, nil
}
