package analysis

import (
	"math"
	"sort"
)

// Pivot is mean convergenceRate by arraySize (rows) and magnitude (columns).
type Pivot struct {
	ArraySizes []int64
	Magnitudes []string
	// Cells is row-major, Cells[i][j] for ArraySizes[i] and Magnitudes[j].
	Cells [][]PivotCell
}

// PivotCell is one aggregated value. OK is false when no record, or no
// non-blank convergence rate, exists for the pair.
type PivotCell struct {
	Mean  float64
	Count int
	OK    bool
}

// CrossPartitionSummary builds the arraySize x magnitude table of mean convergence rates.
func CrossPartitionSummary(ds Dataset) *Pivot {
	type key struct {
		size int64
		mag  string
	}
	type acc struct {
		sum float64
		n   int
	}
	cells := map[key]*acc{}
	sizeSet := map[int64]struct{}{}
	magSet := map[string]struct{}{}
	var mags []string
	for _, r := range ds {
		sizeSet[r.ArraySize] = struct{}{}
		if _, ok := magSet[r.Magnitude]; !ok {
			magSet[r.Magnitude] = struct{}{}
			mags = append(mags, r.Magnitude)
		}
		if math.IsNaN(r.ConvergenceRate) {
			continue
		}
		k := key{r.ArraySize, r.Magnitude}
		a := cells[k]
		if a == nil {
			a = &acc{}
			cells[k] = a
		}
		a.sum += r.ConvergenceRate
		a.n++
	}
	sizes := make([]int64, 0, len(sizeSet))
	for s := range sizeSet {
		sizes = append(sizes, s)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })
	sortLabels(mags)

	p := &Pivot{ArraySizes: sizes, Magnitudes: mags, Cells: make([][]PivotCell, len(sizes))}
	for i, s := range sizes {
		row := make([]PivotCell, len(mags))
		for j, m := range mags {
			if a := cells[key{s, m}]; a != nil {
				row[j] = PivotCell{Mean: a.sum / float64(a.n), Count: a.n, OK: true}
			}
		}
		p.Cells[i] = row
	}
	return p
}
