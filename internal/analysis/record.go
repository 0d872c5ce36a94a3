package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/apex/log"

	"github.com/KaramelBytes/scalecheck/internal/source"
)

// Column names required in every input file.
const (
	ColMagnitude       = "magnitude"
	ColTarget          = "target"
	ColSmallestFactor  = "smallestFactor"
	ColArraySize       = "arraySize"
	ColMeanSteps       = "meanSteps"
	ColStepsPerElement = "stepsPerElement"
	ColConvergenceRate = "convergenceRate"
)

// RequiredColumns lists the header names in the order they are validated.
var RequiredColumns = []string{
	ColMagnitude, ColTarget, ColSmallestFactor, ColArraySize,
	ColMeanSteps, ColStepsPerElement, ColConvergenceRate,
}

// Record is one experiment row.
type Record struct {
	// Line is the source line (CSV) or sheet row (XLSX) the record came from.
	Line            int
	Magnitude       string
	Target          *big.Int
	SmallestFactor  *big.Int
	ArraySize       int64
	MeanSteps       float64
	StepsPerElement float64
	// ConvergenceRate is a percentage in [0,100]; NaN when the cell was blank.
	ConvergenceRate float64
}

// Dataset is the ordered list of records loaded from one file.
type Dataset []Record

// Options controls loading and analysis.
type Options struct {
	// Delimiter for CSV. If 0, picked from the file extension.
	Delimiter rune
	// DecimalSeparator for numeric cells: '.' (default) or ','.
	DecimalSeparator rune
	// XLSX sheet selection.
	SheetName  string
	SheetIndex int
	// Predicate decides which rows count as converged trials.
	Predicate Predicate
	// MinPoints is the smallest partition that gets a linear fit. Values below 2 are raised to 2.
	MinPoints int
}

// DefaultOptions returns the settings used when no flags or config override them.
func DefaultOptions() Options {
	return Options{
		DecimalSeparator: '.',
		SheetIndex:       1,
		Predicate:        MeanStepsPositive,
		MinPoints:        2,
	}
}

// Load reads path into a Dataset, validating the schema and cell types.
func Load(path string, opt Options) (Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("stat input: %w", err)
	}
	name := filepath.Base(path)
	tb, err := source.ReadFile(path, source.Options{
		Delimiter:  opt.Delimiter,
		SheetName:  opt.SheetName,
		SheetIndex: opt.SheetIndex,
	})
	if err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}

	idx := make(map[string]int, len(RequiredColumns))
	var missing []string
	for _, c := range RequiredColumns {
		i := tb.Column(c)
		if i < 0 {
			missing = append(missing, c)
			continue
		}
		idx[c] = i
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Path: name, Missing: missing}
	}

	ds := make(Dataset, 0, len(tb.Rows))
	for _, row := range tb.Rows {
		rec, err := convertRow(row, idx, opt)
		if err != nil {
			err.Path = name
			return nil, err
		}
		ds = append(ds, rec)
	}
	log.WithFields(log.Fields{"file": name, "rows": len(ds)}).Debug("loaded dataset")
	return ds, nil
}

func convertRow(row source.Row, idx map[string]int, opt Options) (Record, *ParseError) {
	rec := Record{Line: row.Line, Magnitude: row.Cell(idx[ColMagnitude])}
	fail := func(col string, err error) (Record, *ParseError) {
		return Record{}, &ParseError{Line: row.Line, Column: col, Err: err}
	}
	if rec.Magnitude == "" {
		return fail(ColMagnitude, errors.New("empty magnitude label"))
	}

	var err error
	if rec.Target, err = parseBigInt(row.Cell(idx[ColTarget])); err != nil {
		return fail(ColTarget, err)
	}
	if rec.SmallestFactor, err = parseBigInt(row.Cell(idx[ColSmallestFactor])); err != nil {
		return fail(ColSmallestFactor, err)
	}

	size, ok := parseNumeric(row.Cell(idx[ColArraySize]), opt)
	if !ok || size != math.Trunc(size) || size <= 0 || size > math.MaxInt64 {
		return fail(ColArraySize, fmt.Errorf("want a positive integer, got %q", row.Cell(idx[ColArraySize])))
	}
	rec.ArraySize = int64(size)

	// Blank meanSteps marks a non-converged trial.
	if raw := row.Cell(idx[ColMeanSteps]); raw != "" {
		v, ok := parseNumeric(raw, opt)
		if !ok || v < 0 {
			return fail(ColMeanSteps, fmt.Errorf("want a non-negative number, got %q", raw))
		}
		rec.MeanSteps = v
	}

	if raw := row.Cell(idx[ColStepsPerElement]); raw != "" {
		v, ok := parseNumeric(raw, opt)
		if !ok {
			return fail(ColStepsPerElement, fmt.Errorf("want a number, got %q", raw))
		}
		rec.StepsPerElement = v
	} else {
		rec.StepsPerElement = rec.MeanSteps / float64(rec.ArraySize)
	}

	rec.ConvergenceRate = math.NaN()
	if raw := row.Cell(idx[ColConvergenceRate]); raw != "" {
		v, ok := parseNumeric(raw, opt)
		if !ok || v < 0 || v > 100 {
			return fail(ColConvergenceRate, fmt.Errorf("want a percentage in [0,100], got %q", raw))
		}
		rec.ConvergenceRate = v
	}
	return rec, nil
}

// parseNumeric accepts plain and scientific notation, an optional trailing
// percent sign, and thousands separators that differ from the decimal separator.
func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if raw == "" {
		return 0, false
	}
	dec := opt.DecimalSeparator
	if dec == 0 {
		dec = '.'
	}
	thou := ','
	if dec == ',' {
		thou = '.'
	}
	raw = strings.ReplaceAll(raw, string(thou), "")
	raw = strings.ReplaceAll(raw, " ", "")
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseBigInt reads an arbitrary precision integer. Blank cells yield nil.
// Integral floats such as "1.0e6" are accepted since spreadsheet exports produce them.
func parseBigInt(s string) (*big.Int, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if raw == "" {
		return nil, nil
	}
	if n, ok := new(big.Int).SetString(raw, 10); ok {
		return n, nil
	}
	f, ok := new(big.Float).SetPrec(256).SetString(raw)
	if !ok || !f.IsInt() {
		return nil, fmt.Errorf("want an integer, got %q", s)
	}
	n, _ := f.Int(nil)
	return n, nil
}
