package svgcrop

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
addr = ":9090"
output_format = "jpeg"
timeout_seconds = 10
concurrency = 8
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %s", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.OutputFormat != "jpeg" {
		t.Errorf("OutputFormat = %q", cfg.OutputFormat)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("Concurrency = %d", cfg.Concurrency)
	}
	if got := cfg.httpTimeout(); got != 10*time.Second {
		t.Errorf("httpTimeout = %s", got)
	}
	// Unset keys keep their defaults.
	if cfg.UserAgent != DefaultConfig().UserAgent {
		t.Errorf("UserAgent = %q, want default", cfg.UserAgent)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %s", err)
	}
	cfg.OutputFormat = "gif"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unsupported format")
	}
}
