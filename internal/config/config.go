package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// ConvergenceFilter selects the row filter: mean-steps or convergence-rate.
	ConvergenceFilter string `mapstructure:"convergence_filter" yaml:"convergence_filter"`
	// MinPoints is the smallest partition that gets a linear fit.
	MinPoints int `mapstructure:"min_points" yaml:"min_points"`
	// OutputFormat is text, markdown or json.
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	Color        bool   `mapstructure:"color" yaml:"color"`
	// Delimiter overrides CSV delimiter detection: "," ";" or "tab".
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

const dirName = ".scalecheck"

// Defaults returns the configuration used when nothing else is set.
func Defaults() *Global {
	return &Global{
		ConvergenceFilter: "mean-steps",
		MinPoints:         2,
		OutputFormat:      "text",
		Color:             true,
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.scalecheck/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, dirName)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SCALECHECK")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("convergence_filter", d.ConvergenceFilter)
	v.SetDefault("min_points", d.MinPoints)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("color", d.Color)
	v.SetDefault("delimiter", d.Delimiter)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, dirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.MinPoints < 2 {
		c.MinPoints = 2
	}
	return &c, nil
}
