package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Table is a raw header plus string rows, as read from disk.
type Table struct {
	Name   string
	Header []string
	Rows   []Row
}

// Row is one data row. Line is the 1-based position in the source (CSV line or sheet row).
type Row struct {
	Line  int
	Cells []string
}

// Options controls how a source file is read.
type Options struct {
	// Delimiter for CSV. If 0, picked from the file extension (".tsv" is tab, otherwise comma).
	Delimiter rune
	// SheetName selects an XLSX sheet by name (case-insensitive).
	SheetName string
	// SheetIndex is the 1-based XLSX sheet index used when SheetName is empty.
	SheetIndex int
}

// Reader defines a tabular source implementation.
type Reader interface {
	CanRead(filename string) bool
	Read(path string, opt Options) (*Table, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// ErrEmpty indicates the source has no header row.
var ErrEmpty = errors.New("no header row")

// ReadFile selects a reader based on filename. Unknown extensions are read as CSV.
func ReadFile(path string, opt Options) (*Table, error) {
	for _, r := range registry {
		if r.CanRead(path) {
			return r.Read(path, opt)
		}
	}
	return csvReader{}.Read(path, opt)
}

// Column returns the index of the named header cell, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed value at column idx, or "" when the row is short.
func (r Row) Cell(idx int) string {
	if idx < 0 || idx >= len(r.Cells) {
		return ""
	}
	return strings.TrimSpace(r.Cells[idx])
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func newTable(path string, header []string) *Table {
	return &Table{Name: filepath.Base(path), Header: cleanHeader(header)}
}

func (t *Table) add(line int, cells []string) error {
	if len(cells) > len(t.Header) {
		return fmt.Errorf("line %d: %d cells but header has %d columns", line, len(cells), len(t.Header))
	}
	cp := make([]string, len(cells))
	copy(cp, cells)
	t.Rows = append(t.Rows, Row{Line: line, Cells: cp})
	return nil
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}
