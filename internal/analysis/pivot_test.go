package analysis

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCrossPartitionSummary(t *testing.T) {
	ds := Dataset{
		rec("20", 200, 160, 80),
		rec("10", 100, 50, 100),
		rec("10", 100, 50, 90),
		rec("10", 300, 150, math.NaN()),
		rec("20", 100, 80, 60),
	}
	p := CrossPartitionSummary(ds)
	if diff := cmp.Diff([]int64{100, 200, 300}, p.ArraySizes); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"10", "20"}, p.Magnitudes); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	want := [][]PivotCell{
		{{Mean: 95, Count: 2, OK: true}, {Mean: 60, Count: 1, OK: true}},
		{{}, {Mean: 80, Count: 1, OK: true}},
		{{}, {}},
	}
	if diff := cmp.Diff(want, p.Cells); diff != "" {
		t.Fatalf("cells mismatch (-want +got):\n%s", diff)
	}
}

func TestPivotLinesLeavesMissingCellsBlank(t *testing.T) {
	p := CrossPartitionSummary(Dataset{rec("10", 100, 50, 100), rec("20", 200, 160, 80)})
	lines := pivotLines(p)
	if len(lines) != 4 {
		t.Fatalf("lines = %q", lines)
	}
	if diff := cmp.Diff("100        100.0", lines[2]); diff != "" {
		t.Fatalf("row 100 mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("200               80.0", lines[3]); diff != "" {
		t.Fatalf("row 200 mismatch (-want +got):\n%s", diff)
	}
	if got := pivotLines(nil); len(got) != 1 || got[0] != "(no data)" {
		t.Fatalf("nil pivot = %q", got)
	}
}
