package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/scalecheck/internal/analysis"
	cfgpkg "github.com/KaramelBytes/scalecheck/internal/config"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "scalecheck",
	Short: "scalecheck: verify O(n) scaling in factorization experiment results",
	Long: `scalecheck reads a CSV/TSV/XLSX file of experiment results, fits meanSteps against
arraySize for every magnitude, and reports fit quality, steps-per-element stability,
residual trends, a convergence pivot and an overall verdict on linear scaling.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(setupLogging, loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.scalecheck/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func setupLogging() {
	log.SetHandler(cli.New(os.Stderr))
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		log.WithError(err).Warn("failed to load config, using defaults")
		return
	}
	log.Debugf("config: filter=%s min_points=%d format=%s", c.ConvergenceFilter, c.MinPoints, c.OutputFormat)
	cfg = c
}

// settings returns the loaded config, or defaults when none was loaded.
func settings() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return cfgpkg.Defaults()
}

// Exit statuses by failure kind.
const (
	exitFailure  = 1
	exitUsage    = 2
	exitNotFound = 3
	exitParse    = 4
	exitSchema   = 5
	exitNoData   = 6
)

func exitCode(err error) int {
	var (
		ue *analysis.UsageError
		nf *analysis.NotFoundError
		pe *analysis.ParseError
		se *analysis.SchemaError
		nv *analysis.NoValidDataError
	)
	switch {
	case errors.As(err, &ue):
		return exitUsage
	case errors.As(err, &nf):
		return exitNotFound
	case errors.As(err, &pe):
		return exitParse
	case errors.As(err, &se):
		return exitSchema
	case errors.As(err, &nv):
		return exitNoData
	default:
		return exitFailure
	}
}
