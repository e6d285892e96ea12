package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "symtab.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
version = 1

[table]
buckets = 10

[trace]
verbose = true
labels = "Hierarchical"

[output]
color = true
format = "markdown"

[watch]
debounce = "1s"
ignore = ["*.swp", " "]

[observability]
enabled = true
address = "127.0.0.1:9100"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Table.Buckets != 10 {
		t.Errorf("Expected 10 buckets, got %d", cfg.Table.Buckets)
	}
	if !cfg.Trace.Verbose {
		t.Error("Expected trace.verbose to be true")
	}
	if cfg.Trace.Labels != "hierarchical" {
		t.Errorf("Expected labels normalized to hierarchical, got %q", cfg.Trace.Labels)
	}
	if !cfg.Output.Color || cfg.Output.Format != "markdown" {
		t.Errorf("Unexpected output section: %+v", cfg.Output)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if len(cfg.Watch.Ignore) != 1 || cfg.Watch.Ignore[0] != "*.swp" {
		t.Errorf("Unexpected ignore patterns: %v", cfg.Watch.Ignore)
	}
	if !cfg.Observability.Enabled || cfg.Observability.Address != "127.0.0.1:9100" {
		t.Errorf("Unexpected observability section: %+v", cfg.Observability)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ``))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := DefaultConfig()
	if cfg.Version != 1 || cfg.Table.Buckets != DefaultBuckets {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if cfg.Trace.Labels != want.Trace.Labels || cfg.Output.Format != want.Output.Format {
		t.Errorf("Expected defaults %+v, got %+v", want, cfg)
	}
	if cfg.Watch.Debounce != DefaultDebounce {
		t.Errorf("Expected default debounce %v, got %v", DefaultDebounce, cfg.Watch.Debounce)
	}
	if cfg.Observability.Address != DefaultAddress {
		t.Errorf("Expected default address %q, got %q", DefaultAddress, cfg.Observability.Address)
	}
}

func TestLoadError(t *testing.T) {
	if _, err := Load("nonexistent.toml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
	if _, err := Load(writeConfig(t, "bad = toml = format")); err == nil {
		t.Error("Expected error for malformed TOML")
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "NegativeBuckets", content: "[table]\nbuckets = -1", wantErr: "table.buckets"},
		{name: "UnknownLabels", content: "[trace]\nlabels = \"dotted\"", wantErr: "trace.labels"},
		{name: "UnknownFormat", content: "[output]\nformat = \"html\"", wantErr: "output.format"},
		{name: "BadVersion", content: "version = 3", wantErr: "version"},
		{name: "BadIgnoreGlob", content: "[watch]\nignore = [\"[\"]", wantErr: "watch.ignore[0]"},
		{name: "BadAddress", content: "[observability]\nenabled = true\naddress = \"nowhere\"", wantErr: "observability.address"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Table.Buckets = 0
	cfg.Output.Format = "pdf"

	errs := Validate(cfg)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SYMTAB_TABLE_BUCKETS", "31")
	t.Setenv("SYMTAB_TRACE_VERBOSE", "TRUE")
	t.Setenv("SYMTAB_OUTPUT_FORMAT", "markdown")
	t.Setenv("SYMTAB_WATCH_DEBOUNCE", "2s")
	t.Setenv("SYMTAB_OBSERVABILITY_ENABLED", "not-a-bool")

	cfg, err := Load(writeConfig(t, "[table]\nbuckets = 5"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Table.Buckets != 31 {
		t.Errorf("Expected env to override buckets to 31, got %d", cfg.Table.Buckets)
	}
	if !cfg.Trace.Verbose {
		t.Error("Expected env to enable verbose tracing")
	}
	if cfg.Output.Format != "markdown" {
		t.Errorf("Expected format markdown, got %q", cfg.Output.Format)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("Expected debounce 2s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Observability.Enabled {
		t.Error("Unparseable bool must leave the value unchanged")
	}
}

func TestLoadDefault(t *testing.T) {
	t.Setenv("SYMTAB_TRACE_LABELS", " HIERARCHICAL ")
	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}
	if cfg.Trace.Labels != "hierarchical" {
		t.Errorf("Expected hierarchical labels, got %q", cfg.Trace.Labels)
	}

	t.Setenv("SYMTAB_TABLE_BUCKETS", "0")
	if _, err := LoadDefault(); err == nil {
		t.Error("Expected error for zero buckets from env")
	}
}
