package analysis

import (
	"fmt"
	"strings"
)

// UsageError indicates the command was invoked without an input path.
type UsageError struct{ Msg string }

func (e *UsageError) Error() string {
	if e.Msg == "" {
		return "usage: scalecheck analyze <file>"
	}
	return e.Msg
}

// NotFoundError indicates the input path does not exist.
type NotFoundError struct{ Path string }

func (e *NotFoundError) Error() string { return fmt.Sprintf("file not found: %s", e.Path) }

// ParseError indicates the tabular input is malformed. Line and Column are set
// when the failure is tied to a single cell.
type ParseError struct {
	Path   string
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("parse %s: line %d, column %s: %v", e.Path, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("parse %s: line %d: %v", e.Path, e.Line, e.Err)
	default:
		return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError indicates required columns are absent from the header.
type SchemaError struct {
	Path    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Path, strings.Join(e.Missing, ", "))
}

// NoValidDataError indicates every row was dropped by the convergence filter.
type NoValidDataError struct {
	Path      string
	Total     int
	Predicate Predicate
}

func (e *NoValidDataError) Error() string {
	return fmt.Sprintf("%s: no valid data points among %d rows (filter %s): all experiments failed or did not converge",
		e.Path, e.Total, e.Predicate.Describe())
}

// RegressionError reports a degenerate linear fit for one partition. It never aborts a run.
type RegressionError struct {
	Magnitude string
	Reason    string
}

func (e *RegressionError) Error() string {
	return fmt.Sprintf("magnitude %s: insufficient data: %s", e.Magnitude, e.Reason)
}
