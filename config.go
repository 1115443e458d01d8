package svgcrop

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Eryk-dev/svg-crop-api/svgraster"
)

// Config holds the processing and server settings. Zero-value fields fall
// back to the defaults when passed to New.
type Config struct {
	// Addr is the HTTP listen address of the server binary.
	Addr string `toml:"addr"`

	// APIKey enables bearer-token authentication when non-empty.
	APIKey string `toml:"api_key"`

	// WorkRoot is the parent directory for per-request working
	// directories. Empty means the system temp directory.
	WorkRoot string `toml:"work_root"`

	// OutputFormat is the default crop encoding, png or jpeg.
	OutputFormat string `toml:"output_format"`

	// TimeoutSeconds bounds each outbound HTTP fetch.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// Concurrency caps the number of regions processed in parallel.
	Concurrency int `toml:"concurrency"`

	// UserAgent is sent on outbound fetches.
	UserAgent string `toml:"user_agent"`
}

// DefaultConfig returns the settings the service ships with.
func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		OutputFormat:   svgraster.FormatPNG,
		TimeoutSeconds: 30,
		Concurrency:    4,
		UserAgent:      "svg-crop-api/1.0",
	}
}

// LoadConfig reads a TOML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings that cannot be defaulted away.
func (c Config) Validate() error {
	if !svgraster.SupportedFormat(c.OutputFormat) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, c.OutputFormat)
	}
	return nil
}

func (c Config) httpTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
