package analysis

import (
	"fmt"
	"strings"
)

// Markdown renders the report as compact sections suitable for standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[SCALING SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Run: %s\n", r.RunID))
	b.WriteString(fmt.Sprintf("Rows: %d (valid %d, %.1f%%, filter %s)\n", r.Total, r.Valid, r.ValidPct(), r.Predicate.Describe()))
	b.WriteString(fmt.Sprintf("Magnitudes: %d\n", len(r.Partitions)))

	b.WriteString("\n[PER-MAGNITUDE FITS]\n")
	for _, p := range r.Partitions {
		b.WriteString(fmt.Sprintf("- magnitude %s (n=%d, target %s, smallest factor %s)\n",
			safeVal(p.Magnitude), p.Points, bigComma(p.Target), bigComma(p.SmallestFactor)))
		if f := p.Fit; f != nil {
			b.WriteString(fmt.Sprintf("  • fit: steps = %.4g·n %s; R²=%.4f (%s); slope SE %.4g; p=%s\n",
				f.Slope, signed(f.Intercept, "%.4g"), f.RSquared, ClassifyFit(f.RSquared), f.StdErr, fmtNum(f.PValue, "%.2e")))
		} else {
			b.WriteString(fmt.Sprintf("  • fit: insufficient data (%s)\n", p.FitErr.Reason))
		}
		b.WriteString(fmt.Sprintf("  • steps/n: mean %s, std %s, CV %s%% (%s O(n) evidence)\n",
			fmtNum(p.Ratio.Mean, "%.4g"), fmtNum(p.Ratio.StdDev, "%.4g"), fmtNum(p.Ratio.CV, "%.2f"), ClassifyRatio(p.Ratio.CV)))
		if p.Trend != nil {
			dir := p.Trend.Direction()
			if dir == TrendNone {
				b.WriteString(fmt.Sprintf("  • residual trend: none (rho=%s, p=%s)\n", fmtNum(p.Trend.Rho, "%.3f"), fmtNum(p.Trend.PValue, "%.4f")))
			} else {
				b.WriteString(fmt.Sprintf("  • residual trend: %s (rho=%.3f, p=%.4f)\n", dir, p.Trend.Rho, p.Trend.PValue))
			}
		}
		b.WriteString(fmt.Sprintf("  • mean convergence: %s%%\n", fmtNum(p.MeanConvergence, "%.1f")))
	}

	if r.Pivot != nil && len(r.Pivot.ArraySizes) > 0 {
		b.WriteString("\n[CONVERGENCE BY ARRAY SIZE]\n")
		b.WriteString("| arraySize")
		for _, m := range r.Pivot.Magnitudes {
			b.WriteString(" | ")
			b.WriteString(safeVal(m))
		}
		b.WriteString(" |\n|---")
		for range r.Pivot.Magnitudes {
			b.WriteString(" | ---")
		}
		b.WriteString(" |\n")
		for i, s := range r.Pivot.ArraySizes {
			b.WriteString(fmt.Sprintf("| %d", s))
			for j := range r.Pivot.Magnitudes {
				b.WriteString(" | ")
				b.WriteString(pivotCell(r.Pivot.Cells[i][j]))
			}
			b.WriteString(" |\n")
		}
	}

	b.WriteString("\n[VERDICT]\n")
	v := r.Verdict
	if !v.Defined {
		b.WriteString("- undefined: no magnitude produced a linear fit\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("- %s evidence for O(n) scaling\n", v.Evidence))
	b.WriteString(fmt.Sprintf("- mean R² %.4f, mean CV %s%% over %d magnitudes\n", v.MeanRSquared, fmtNum(v.MeanCV, "%.2f"), v.Partitions))
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
