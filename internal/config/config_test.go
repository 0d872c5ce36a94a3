package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Defaults(), c); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	want := &Global{ConvergenceFilter: "convergence-rate", MinPoints: 3, OutputFormat: "json", Color: false, Delimiter: ";"}
	if err := Save(want, ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	p := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(p, []byte("output_format: markdown\nmin_points: 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("SCALECHECK_CONVERGENCE_FILTER", "convergence-rate")
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.OutputFormat != "markdown" {
		t.Fatalf("output_format = %q", c.OutputFormat)
	}
	if c.ConvergenceFilter != "convergence-rate" {
		t.Fatalf("convergence_filter = %q", c.ConvergenceFilter)
	}
	if c.MinPoints != 2 {
		t.Fatalf("min_points should be raised to 2, got %d", c.MinPoints)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}
