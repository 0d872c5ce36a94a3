package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/scalecheck/internal/analysis"
	"github.com/KaramelBytes/scalecheck/internal/utils"
)

// analysisFlags are shared by analyze and analyze-batch.
type analysisFlags struct {
	format     string
	filter     string
	minPoints  int
	delimiter  string
	decimal    string
	sheetName  string
	sheetIndex int
	noColor    bool
}

var (
	anaFlags      analysisFlags
	anaOutputPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze one results file and print the scaling report",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return &analysis.UsageError{Msg: "missing input file: usage: scalecheck analyze <file>"}
		}
		if len(args) > 1 {
			return &analysis.UsageError{Msg: fmt.Sprintf("expected exactly one input file, got %d (use analyze-batch for several)", len(args))}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := anaFlags.options(cmd)
		if err != nil {
			return err
		}
		format, err := anaFlags.outputFormat(cmd)
		if err != nil {
			return err
		}
		rep, err := analysis.Analyze(path, opt)
		if err != nil {
			return err
		}
		colored := anaFlags.colored() && anaOutputPath == ""
		out, err := render(rep, format, colored)
		if err != nil {
			return err
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report instead of stdout")
	anaFlags.register(analyzeCmd)
}

func (f *analysisFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&f.format, "format", "", "report format: text|markdown|json (default from config: text)")
	c.Flags().StringVar(&f.filter, "filter", "", "convergence filter: mean-steps|convergence-rate (default from config: mean-steps)")
	c.Flags().IntVar(&f.minPoints, "min-points", 0, "minimum points per magnitude for a linear fit (>= 2)")
	c.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	c.Flags().StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	c.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	c.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	c.Flags().BoolVar(&f.noColor, "no-color", false, "disable colored verdict marks")
}

// options merges config values with flags; flags win when set.
func (f *analysisFlags) options(c *cobra.Command) (analysis.Options, error) {
	s := settings()
	opt := analysis.DefaultOptions()

	filter := s.ConvergenceFilter
	if c.Flags().Changed("filter") {
		filter = f.filter
	}
	pred, err := analysis.ParsePredicate(filter)
	if err != nil {
		return opt, err
	}
	opt.Predicate = pred

	opt.MinPoints = s.MinPoints
	if c.Flags().Changed("min-points") {
		if f.minPoints < 2 {
			return opt, fmt.Errorf("invalid --min-points: %d (must be >= 2)", f.minPoints)
		}
		opt.MinPoints = f.minPoints
	}

	delim := s.Delimiter
	if c.Flags().Changed("delimiter") {
		delim = f.delimiter
	}
	switch delim {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", delim)
	}

	switch strings.ToLower(strings.TrimSpace(f.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot", "":
		opt.DecimalSeparator = '.'
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", f.decimal)
	}

	opt.SheetName = f.sheetName
	opt.SheetIndex = f.sheetIndex
	log.Debugf("analysis options: filter=%s min_points=%d delimiter=%q", opt.Predicate, opt.MinPoints, opt.Delimiter)
	return opt, nil
}

func (f *analysisFlags) outputFormat(c *cobra.Command) (string, error) {
	format := settings().OutputFormat
	if c.Flags().Changed("format") {
		format = f.format
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text", "txt":
		return "text", nil
	case "markdown", "md":
		return "markdown", nil
	case "json":
		return "json", nil
	default:
		return "", fmt.Errorf("unsupported --format: %s (use text|markdown|json)", format)
	}
}

func (f *analysisFlags) colored() bool {
	return settings().Color && !f.noColor
}

func render(rep *analysis.Report, format string, colored bool) ([]byte, error) {
	switch format {
	case "markdown":
		return []byte(rep.Markdown()), nil
	case "json":
		return rep.JSON()
	default:
		var buf bytes.Buffer
		if err := rep.WriteText(&buf, colored); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}
