package source_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/scalecheck/internal/source"
)

var wantHeader = []string{"magnitude", "arraySize", "meanSteps"}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func cells(tb *source.Table) [][]string {
	out := make([][]string, len(tb.Rows))
	for i, r := range tb.Rows {
		out[i] = r.Cells
	}
	return out
}

func TestReadFileCSV(t *testing.T) {
	p := writeFile(t, "scaling.csv", "\ufeffmagnitude, arraySize ,meanSteps\n10,100,50\n\n10,200,100\n")
	tb, err := source.ReadFile(p, source.Options{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff(wantHeader, tb.Header); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	want := [][]string{{"10", "100", "50"}, {"10", "200", "100"}}
	if diff := cmp.Diff(want, cells(tb)); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if tb.Rows[1].Line != 4 {
		t.Fatalf("expected second row on line 4, got %d", tb.Rows[1].Line)
	}
	if tb.Name != "scaling.csv" {
		t.Fatalf("unexpected name %q", tb.Name)
	}
}

func TestReadFileTSVSniffsTab(t *testing.T) {
	p := writeFile(t, "scaling.tsv", "magnitude\tarraySize\tmeanSteps\n10\t100\t50\n")
	tb, err := source.ReadFile(p, source.Options{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if tb.Column("meanSteps") != 2 || tb.Rows[0].Cell(2) != "50" {
		t.Fatalf("unexpected table: %+v", tb)
	}
}

func TestReadFileExplicitDelimiter(t *testing.T) {
	p := writeFile(t, "scaling.csv", "magnitude;arraySize;meanSteps\n10;100;50\n")
	tb, err := source.ReadFile(p, source.Options{Delimiter: ';'})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff(wantHeader, tb.Header); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFileCSVErrors(t *testing.T) {
	empty := writeFile(t, "empty.csv", "")
	if _, err := source.ReadFile(empty, source.Options{}); !errors.Is(err, source.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	wide := writeFile(t, "wide.csv", "a,b\n1,2,3\n")
	_, err := source.ReadFile(wide, source.Options{})
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected too-many-cells error on line 2, got %v", err)
	}
	quote := writeFile(t, "quote.csv", "a,b\n1,\"2\n")
	if _, err := source.ReadFile(quote, source.Options{}); err == nil {
		t.Fatalf("expected quoting error")
	}
}

func TestRowCellShortRow(t *testing.T) {
	r := source.Row{Cells: []string{" 1 "}}
	if r.Cell(0) != "1" || r.Cell(3) != "" || r.Cell(-1) != "" {
		t.Fatalf("unexpected cells: %q %q", r.Cell(0), r.Cell(3))
	}
}

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetRow("Sheet1", "A1", &[]interface{}{"ignored"}); err != nil {
		t.Fatalf("row: %v", err)
	}
	if _, err := f.NewSheet("Data"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	rows := [][]interface{}{
		{"magnitude", "arraySize", "meanSteps"},
		{"10", 100, 50},
		{"10", 200, 100},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow("Data", cell, &row); err != nil {
			t.Fatalf("row: %v", err)
		}
	}
	p := filepath.Join(t.TempDir(), "scaling.xlsx")
	if err := f.SaveAs(p); err != nil {
		t.Fatalf("save: %v", err)
	}
	return p
}

func TestReadFileXLSXSheetSelection(t *testing.T) {
	p := writeWorkbook(t)
	for _, opt := range []source.Options{{SheetName: "data"}, {SheetIndex: 2}} {
		tb, err := source.ReadFile(p, opt)
		if err != nil {
			t.Fatalf("read %+v: %v", opt, err)
		}
		if diff := cmp.Diff(wantHeader, tb.Header); diff != "" {
			t.Fatalf("header mismatch (-want +got):\n%s", diff)
		}
		want := [][]string{{"10", "100", "50"}, {"10", "200", "100"}}
		if diff := cmp.Diff(want, cells(tb)); diff != "" {
			t.Fatalf("rows mismatch (-want +got):\n%s", diff)
		}
		if tb.Rows[0].Line != 3 {
			t.Fatalf("expected first data row on sheet row 3, got %d", tb.Rows[0].Line)
		}
	}
	if _, err := source.ReadFile(p, source.Options{SheetName: "missing"}); err == nil {
		t.Fatalf("expected missing sheet error")
	}
	if _, err := source.ReadFile(p, source.Options{SheetIndex: 5}); err == nil {
		t.Fatalf("expected out of range error")
	}
}
