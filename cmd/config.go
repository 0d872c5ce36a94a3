package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/scalecheck/internal/analysis"
	cfgpkg "github.com/KaramelBytes/scalecheck/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set scalecheck configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "# no config loaded, showing defaults")
		}
		fmt.Fprintf(out, "convergence_filter: %s\n", c.ConvergenceFilter)
		fmt.Fprintf(out, "min_points: %d\n", c.MinPoints)
		fmt.Fprintf(out, "output_format: %s\n", c.OutputFormat)
		fmt.Fprintf(out, "color: %t\n", c.Color)
		if c.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "convergence_filter":
			p, err := analysis.ParsePredicate(val)
			if err != nil {
				return err
			}
			cfg.ConvergenceFilter = string(p)
		case "min_points":
			i, err := strconv.Atoi(val)
			if err != nil || i < 2 {
				return fmt.Errorf("invalid int for min_points: %v (must be >= 2)", val)
			}
			cfg.MinPoints = i
		case "output_format":
			switch val {
			case "text", "markdown", "json":
				cfg.OutputFormat = val
			default:
				return fmt.Errorf("invalid output_format: %s (use text|markdown|json)", val)
			}
		case "color":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for color: %w", err)
			}
			cfg.Color = b
		case "delimiter":
			switch val {
			case ",", ";", "tab", "":
				cfg.Delimiter = val
			default:
				return fmt.Errorf("invalid delimiter: %q (use ','|';'|'tab')", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
