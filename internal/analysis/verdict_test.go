package analysis

import (
	"math"
	"testing"
)

func fitted(r2, cv float64) PartitionReport {
	return PartitionReport{Fit: &LinearFit{RSquared: r2}, Ratio: RatioStats{CV: cv}}
}

func TestClassifyFit(t *testing.T) {
	cases := map[float64]FitQuality{
		1:     FitExcellent,
		0.981: FitExcellent,
		0.98:  FitGood,
		0.951: FitGood,
		0.95:  FitModerate,
		0.91:  FitModerate,
		0.90:  FitPoor,
		0:     FitPoor,
	}
	for r2, want := range cases {
		if got := ClassifyFit(r2); got != want {
			t.Errorf("ClassifyFit(%v) = %s, want %s", r2, got, want)
		}
	}
}

func TestClassifyRatio(t *testing.T) {
	cases := map[float64]Evidence{
		0:           EvidenceStrong,
		9.99:        EvidenceStrong,
		10:          EvidenceModerate,
		19.99:       EvidenceModerate,
		20:          EvidenceWeak,
		math.Inf(1): EvidenceWeak,
	}
	for cv, want := range cases {
		if got := ClassifyRatio(cv); got != want {
			t.Errorf("ClassifyRatio(%v) = %s, want %s", cv, got, want)
		}
	}
}

func TestOverallVerdict(t *testing.T) {
	cases := []struct {
		name    string
		reports []PartitionReport
		want    Evidence
	}{
		{"strong", []PartitionReport{fitted(1, 0), fitted(0.99, 5)}, EvidenceStrong},
		{"moderate by cv", []PartitionReport{fitted(0.99, 20)}, EvidenceModerate},
		{"moderate by r2", []PartitionReport{fitted(0.93, 5)}, EvidenceModerate},
		{"insufficient", []PartitionReport{fitted(0.5, 40)}, EvidenceInsufficient},
		{"infinite cv", []PartitionReport{fitted(1, math.Inf(1))}, EvidenceInsufficient},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := OverallVerdict(tc.reports)
			if !v.Defined || v.Evidence != tc.want {
				t.Fatalf("verdict = %+v, want %s", v, tc.want)
			}
		})
	}
}

func TestOverallVerdictSkipsUnfitPartitions(t *testing.T) {
	v := OverallVerdict([]PartitionReport{
		fitted(1, 2),
		{Ratio: RatioStats{CV: 90}, FitErr: &RegressionError{Magnitude: "x", Reason: "too few"}},
	})
	if v.Partitions != 1 || v.MeanCV != 2 || v.Evidence != EvidenceStrong {
		t.Fatalf("verdict = %+v", v)
	}

	v = OverallVerdict([]PartitionReport{{FitErr: &RegressionError{Magnitude: "x", Reason: "too few"}}})
	if v.Defined || v.Evidence != "" || !math.IsNaN(v.MeanRSquared) {
		t.Fatalf("undefined verdict = %+v", v)
	}
}
