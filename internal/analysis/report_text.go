package analysis

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

const ruleWidth = 70

type palette struct {
	ok, warn, bad, bold func(a ...interface{}) string
}

func newPalette(colored bool) palette {
	if !colored {
		return palette{ok: fmt.Sprint, warn: fmt.Sprint, bad: fmt.Sprint, bold: fmt.Sprint}
	}
	return palette{
		ok:   color.New(color.FgGreen).SprintFunc(),
		warn: color.New(color.FgYellow).SprintFunc(),
		bad:  color.New(color.FgRed).SprintFunc(),
		bold: color.New(color.Bold).SprintFunc(),
	}
}

// WriteText renders the console report: banner, one block per magnitude, the
// convergence pivot and the overall summary.
func (r *Report) WriteText(w io.Writer, colored bool) error {
	pal := newPalette(colored)
	var b strings.Builder
	banner(&b, pal, "SCALING VERIFICATION ANALYSIS")
	fmt.Fprintln(&b)
	if r.Name != "" {
		fmt.Fprintf(&b, "File: %s\n", r.Name)
	}
	fmt.Fprintf(&b, "Total experiments: %s\n", humanize.Comma(int64(r.Total)))
	fmt.Fprintf(&b, "Valid data points: %s (%.1f%%, filter %s)\n", humanize.Comma(int64(r.Valid)), r.ValidPct(), r.Predicate.Describe())
	fmt.Fprintln(&b)

	for _, p := range r.Partitions {
		writePartitionText(&b, pal, p)
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, strings.Repeat("-", ruleWidth))
		fmt.Fprintln(&b)
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, pal.bold("CROSS-MAGNITUDE COMPARISON:"))
	fmt.Fprintln(&b, "Does array size requirement scale with magnitude?")
	fmt.Fprintln(&b)
	for _, line := range pivotLines(r.Pivot) {
		fmt.Fprintln(&b, line)
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Interpretation:")
	fmt.Fprintln(&b, "- If rows are similar → array size independent of magnitude (GOOD)")
	fmt.Fprintln(&b, "- If diagonal pattern → array size scales with magnitude")
	fmt.Fprintln(&b)

	banner(&b, pal, "SUMMARY")
	fmt.Fprintln(&b)
	writeVerdictText(&b, pal, r.Verdict)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, strings.Repeat("=", ruleWidth))

	_, err := io.WriteString(w, b.String())
	return err
}

func banner(b *strings.Builder, pal palette, title string) {
	fmt.Fprintln(b, strings.Repeat("=", ruleWidth))
	fmt.Fprintln(b, pal.bold(" "+title))
	fmt.Fprintln(b, strings.Repeat("=", ruleWidth))
}

func writePartitionText(b *strings.Builder, pal palette, p PartitionReport) {
	fmt.Fprintf(b, "%s\n", pal.bold("Magnitude "+p.Magnitude+":"))
	fmt.Fprintf(b, "  Target: %s\n", bigComma(p.Target))
	fmt.Fprintf(b, "  Smallest factor: %s\n", bigComma(p.SmallestFactor))
	fmt.Fprintf(b, "  Data points: %d\n", p.Points)
	fmt.Fprintln(b)

	if f := p.Fit; f != nil {
		fmt.Fprintf(b, "  LINEAR FIT: steps = %.4f × n %s\n", f.Slope, signed(f.Intercept, "%.2f"))
		fmt.Fprintf(b, "  R² = %.6f  (1.0 = perfect linear)\n", f.RSquared)
		fmt.Fprintf(b, "  Slope std error: ±%.4f\n", f.StdErr)
		fmt.Fprintf(b, "  p-value: %s\n", fmtNum(f.PValue, "%.2e"))
		switch ClassifyFit(f.RSquared) {
		case FitExcellent:
			fmt.Fprintln(b, "  "+pal.ok("✓ EXCELLENT linear fit"))
		case FitGood:
			fmt.Fprintln(b, "  "+pal.ok("✓ GOOD linear fit"))
		case FitModerate:
			fmt.Fprintln(b, "  "+pal.warn("~ MODERATE linear fit"))
		default:
			fmt.Fprintln(b, "  "+pal.bad("✗ POOR linear fit (non-linear behavior)"))
		}
	} else {
		fmt.Fprintf(b, "  LINEAR FIT: %s\n", pal.warn("insufficient data ("+p.FitErr.Reason+")"))
	}

	fmt.Fprintln(b)
	fmt.Fprintf(b, "  STEPS/N RATIO: %s ± %s\n", fmtNum(p.Ratio.Mean, "%.4f"), fmtNum(p.Ratio.StdDev, "%.4f"))
	fmt.Fprintf(b, "  Coefficient of variation: %s%%\n", fmtNum(p.Ratio.CV, "%.2f"))
	switch ClassifyRatio(p.Ratio.CV) {
	case EvidenceStrong:
		fmt.Fprintln(b, "  "+pal.ok("✓ STRONG O(n) evidence (ratio very stable)"))
	case EvidenceModerate:
		fmt.Fprintln(b, "  "+pal.warn("~ MODERATE O(n) evidence (some variation)"))
	default:
		fmt.Fprintln(b, "  "+pal.bad("✗ WEAK O(n) evidence (high variation)"))
	}

	fmt.Fprintln(b)
	switch {
	case p.Fit == nil:
		fmt.Fprintln(b, "  Residual trend: not tested (no linear fit)")
	case p.Trend == nil:
		fmt.Fprintf(b, "  Residual trend: not tested (%d points, need 3)\n", p.Points)
	default:
		switch p.Trend.Direction() {
		case TrendNone:
			fmt.Fprintln(b, "  "+pal.ok("✓ No systematic deviation from linearity"))
		case TrendSuperLinear:
			fmt.Fprintln(b, "  "+pal.warn(fmt.Sprintf("⚠ Systematic residual trend detected (p=%.4f)", p.Trend.PValue)))
			fmt.Fprintln(b, "     → Steps grow faster than linear (super-linear)")
		case TrendSubLinear:
			fmt.Fprintln(b, "  "+pal.warn(fmt.Sprintf("⚠ Systematic residual trend detected (p=%.4f)", p.Trend.PValue)))
			fmt.Fprintln(b, "     → Steps grow slower than linear (sub-linear)")
		}
	}

	fmt.Fprintln(b)
	fmt.Fprintf(b, "  Average convergence rate: %s%%\n", fmtNum(p.MeanConvergence, "%.1f"))
}

func writeVerdictText(b *strings.Builder, pal palette, v Verdict) {
	if !v.Defined {
		fmt.Fprintln(b, "CONCLUSION: "+pal.bad("undefined (no magnitude produced a linear fit)"))
		return
	}
	fmt.Fprintf(b, "Average R² across magnitudes: %.4f\n", v.MeanRSquared)
	fmt.Fprintf(b, "Average coefficient of variation: %s%%\n", fmtNum(v.MeanCV, "%.2f"))
	fmt.Fprintln(b)
	switch v.Evidence {
	case EvidenceStrong:
		fmt.Fprintln(b, "CONCLUSION: "+pal.ok("✓ Strong evidence for O(n) scaling"))
		fmt.Fprintln(b, "The algorithm demonstrates linear scaling with array size.")
	case EvidenceModerate:
		fmt.Fprintln(b, "CONCLUSION: "+pal.warn("~ Moderate evidence for O(n) scaling"))
		fmt.Fprintln(b, "The algorithm shows mostly linear behavior with some variance.")
	default:
		fmt.Fprintln(b, "CONCLUSION: "+pal.bad("✗ Insufficient evidence for strict O(n) scaling"))
		fmt.Fprintln(b, "The relationship may be non-linear or highly variable.")
	}
}

// pivotLines lays the pivot out as right-aligned columns, arraySize down the side.
// Missing cells are left blank.
func pivotLines(p *Pivot) []string {
	if p == nil || len(p.ArraySizes) == 0 {
		return []string{"(no data)"}
	}
	const first1, first2 = "magnitude", "arraySize"
	lead := len(first1)
	for _, s := range p.ArraySizes {
		lead = max(lead, len(fmt.Sprint(s)))
	}
	widths := make([]int, len(p.Magnitudes))
	for j, m := range p.Magnitudes {
		widths[j] = len(m)
		for i := range p.ArraySizes {
			widths[j] = max(widths[j], len(pivotCell(p.Cells[i][j])))
		}
	}
	var lines []string
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-*s", lead, first1))
	for j, m := range p.Magnitudes {
		b.WriteString(fmt.Sprintf("  %*s", widths[j], m))
	}
	lines = append(lines, b.String())
	lines = append(lines, first2)
	for i, s := range p.ArraySizes {
		b.Reset()
		b.WriteString(fmt.Sprintf("%-*d", lead, s))
		for j := range p.Magnitudes {
			b.WriteString(fmt.Sprintf("  %*s", widths[j], pivotCell(p.Cells[i][j])))
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return lines
}

func pivotCell(c PivotCell) string {
	if !c.OK {
		return ""
	}
	return fmt.Sprintf("%.1f", c.Mean)
}

// fmtNum formats v, spelling out the values that have no numeric rendering.
func fmtNum(v float64, format string) string {
	switch {
	case math.IsNaN(v):
		return "n/a"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return fmt.Sprintf(format, v)
}

func signed(v float64, format string) string {
	if v < 0 {
		return "- " + fmt.Sprintf(format, -v)
	}
	return "+ " + fmt.Sprintf(format, v)
}

func bigComma(n *big.Int) string {
	if n == nil {
		return "n/a"
	}
	return humanize.BigComma(n)
}
