package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/scalecheck/internal/analysis"
	"github.com/KaramelBytes/scalecheck/internal/utils"
)

var (
	abFlags     analysisFlags
	abOutputDir string
	abQuiet     bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze several results files (globs allowed), one report per file",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return &analysis.UsageError{Msg: "missing input files: usage: scalecheck analyze-batch <files...>"}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		opt, err := abFlags.options(cmd)
		if err != nil {
			return err
		}
		format, err := abFlags.outputFormat(cmd)
		if err != nil {
			return err
		}
		colored := abFlags.colored() && abOutputDir == ""
		out := cmd.OutOrStdout()

		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			rep, err := analysis.Analyze(path, opt)
			if err != nil {
				return err
			}
			body, err := render(rep, format, colored)
			if err != nil {
				return err
			}
			if abOutputDir == "" {
				if _, err := out.Write(body); err != nil {
					return err
				}
				continue
			}
			target := reportPath(abOutputDir, path, format)
			if _, statErr := os.Stat(target); statErr == nil {
				base := strings.TrimSuffix(target, filepath.Ext(target))
				for idx := 2; ; idx++ {
					cand := fmt.Sprintf("%s__%d%s", base, idx, filepath.Ext(target))
					if _, err := os.Stat(cand); os.IsNotExist(err) {
						log.Warnf("existing report detected, writing to %s to avoid overwrite", filepath.Base(cand))
						target = cand
						break
					}
				}
			}
			if err := utils.SafeWriteFile(target, body); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if !abQuiet {
				fmt.Fprintf(out, "✓ Wrote analysis to %s\n", target)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutputDir, "output-dir", "", "directory for per-file reports instead of stdout")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
	abFlags.register(analyzeBatchCmd)
}

// expandInputs resolves globs and literal paths, dropping duplicates. A literal
// path that does not exist is kept so the analysis reports it as not found.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, &analysis.UsageError{Msg: fmt.Sprintf("bad pattern %q: %v", arg, err)}
		}
		if len(matches) == 0 {
			if strings.ContainsAny(arg, "*?[") {
				return nil, &analysis.NotFoundError{Path: arg}
			}
			matches = []string{arg}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

func reportPath(dir, input, format string) string {
	base := filepath.Base(input)
	safe := strings.TrimSuffix(base, filepath.Ext(base))
	ext := ".txt"
	switch format {
	case "markdown":
		ext = ".md"
	case "json":
		ext = ".json"
	}
	return filepath.Join(dir, safe+".scaling"+ext)
}
