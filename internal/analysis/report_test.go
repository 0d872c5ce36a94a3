package analysis

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func sampleDataset() Dataset {
	return Dataset{
		rec("10", 100, 50, 100), rec("10", 200, 100, 100), rec("10", 300, 150, 100),
		rec("20", 100, 80, 100), rec("20", 200, 160, 100), rec("20", 300, 240, 100),
	}
}

func sampleReport(t *testing.T) *Report {
	t.Helper()
	rep, err := AnalyzeDataset("scaling.csv", sampleDataset(), DefaultOptions())
	if err != nil {
		t.Fatalf("AnalyzeDataset: %v", err)
	}
	return rep
}

func TestAnalyzeDatasetLinearScaling(t *testing.T) {
	rep := sampleReport(t)
	if rep.Total != 6 || rep.Valid != 6 || rep.ValidPct() != 100 || rep.RunID == "" {
		t.Fatalf("report header = %+v", rep)
	}
	if len(rep.Partitions) != 2 || rep.Partitions[0].Magnitude != "10" {
		t.Fatalf("partitions = %+v", rep.Partitions)
	}
	if !rep.Verdict.Defined || rep.Verdict.Evidence != EvidenceStrong || rep.Verdict.MeanCV != 0 {
		t.Fatalf("verdict = %+v", rep.Verdict)
	}
}

func TestAnalyzeDatasetNoValidData(t *testing.T) {
	ds := Dataset{rec("10", 100, 0, 0), rec("10", 200, 0, 0)}
	_, err := AnalyzeDataset("zeros.csv", ds, DefaultOptions())
	var nv *NoValidDataError
	if !errors.As(err, &nv) || nv.Path != "zeros.csv" || nv.Total != 2 {
		t.Fatalf("expected NoValidDataError for zeros.csv, got %v", err)
	}
}

func TestWriteTextPlain(t *testing.T) {
	var b strings.Builder
	if err := sampleReport(t).WriteText(&b, false); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := b.String()
	for _, want := range []string{
		"SCALING VERIFICATION ANALYSIS",
		"Valid data points: 6 (100.0%, filter meanSteps > 0)",
		"Magnitude 10:",
		"Magnitude 20:",
		"LINEAR FIT: steps = 0.5000 × n",
		"LINEAR FIT: steps = 0.8000 × n",
		"Coefficient of variation: 0.00%",
		"✓ EXCELLENT linear fit",
		"✓ STRONG O(n) evidence",
		"✓ No systematic deviation from linearity",
		"CROSS-MAGNITUDE COMPARISON:",
		"CONCLUSION: ✓ Strong evidence for O(n) scaling",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q", want)
		}
	}
	if strings.Count(out, "R² = 1.000000") != 2 {
		t.Errorf("expected two perfect fits:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("plain report should not contain escape codes")
	}
}

func TestWriteTextUndefinedVerdict(t *testing.T) {
	rep, err := AnalyzeDataset("tiny.csv", Dataset{rec("10", 100, 50, 100), rec("20", 100, 80, 100)}, DefaultOptions())
	if err != nil {
		t.Fatalf("AnalyzeDataset: %v", err)
	}
	var b strings.Builder
	if err := rep.WriteText(&b, false); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "CONCLUSION: undefined") || !strings.Contains(out, "insufficient data") {
		t.Fatalf("undefined report:\n%s", out)
	}
	if !strings.Contains(rep.Markdown(), "- undefined: no magnitude produced a linear fit") {
		t.Fatalf("markdown should state the undefined verdict")
	}
}

func TestMarkdownSections(t *testing.T) {
	md := sampleReport(t).Markdown()
	for _, want := range []string{
		"[SCALING SUMMARY]",
		"[PER-MAGNITUDE FITS]",
		"- magnitude 10 (n=3",
		"[CONVERGENCE BY ARRAY SIZE]",
		"| arraySize | 10 | 20 |",
		"| 100 | 100.0 | 100.0 |",
		"[VERDICT]",
		"- strong evidence for O(n) scaling",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestJSONEncodesUndefinedAsNull(t *testing.T) {
	ds := Dataset{rec("10", 100, 50, 100), rec("10", 200, 100, 100)}
	ds[0].StepsPerElement = 0
	ds[1].StepsPerElement = 0
	rep, err := AnalyzeDataset("flat.csv", ds, DefaultOptions())
	if err != nil {
		t.Fatalf("AnalyzeDataset: %v", err)
	}
	data, err := rep.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var got struct {
		Partitions []struct {
			Magnitude  string   `json:"magnitude"`
			CV         *float64 `json:"cv"`
			CVInfinite bool     `json:"cv_infinite"`
			Fit        *struct {
				PValue *float64 `json:"p_value"`
			} `json:"fit"`
		} `json:"partitions"`
		Verdict struct {
			Defined  bool   `json:"defined"`
			Evidence string `json:"evidence"`
		} `json:"verdict"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, data)
	}
	if len(got.Partitions) != 1 {
		t.Fatalf("partitions = %d", len(got.Partitions))
	}
	p := got.Partitions[0]
	if p.CV != nil || !p.CVInfinite {
		t.Fatalf("cv = %v, infinite = %v", p.CV, p.CVInfinite)
	}
	if p.Fit == nil || p.Fit.PValue != nil {
		t.Fatalf("two-point fit should carry a null p-value: %s", data)
	}
	if !got.Verdict.Defined || got.Verdict.Evidence != string(EvidenceInsufficient) {
		t.Fatalf("verdict = %+v", got.Verdict)
	}
}
