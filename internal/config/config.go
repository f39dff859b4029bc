// Package config defines service configuration and its layered loader.
package config

import (
	"fmt"

	"github.com/okian/areacheck/internal/adapters/repository"
	"github.com/okian/areacheck/internal/domain/area"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Variant names the bounds and hit rule pair, see area.VariantNames.
	Variant string `koanf:"variant"`

	// HistoryBackend is one of file, sqlite, badger, memory.
	HistoryBackend string `koanf:"history_backend"`

	// HistoryPath is the session directory (file), database file (sqlite)
	// or database directory (badger). Ignored for memory.
	HistoryPath string `koanf:"history_path"`

	// Optional overrides of the variant's numeric bounds, as decimal strings.
	XMin     string   `koanf:"x_min"`
	XMax     string   `koanf:"x_max"`
	YMin     string   `koanf:"y_min"`
	YMax     string   `koanf:"y_max"`
	RMin     string   `koanf:"r_min"`
	RMax     string   `koanf:"r_max"`
	RAllowed []string `koanf:"r_allowed"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		Variant:        area.DefaultVariant,
		HistoryBackend: repository.BackendFile,
		HistoryPath:    "sessions",
	}
}

// AreaVariant resolves the configured variant with any bound overrides applied.
func (c *Config) AreaVariant() (area.Variant, error) {
	v, err := area.LookupVariant(c.Variant)
	if err != nil {
		return area.Variant{}, err
	}
	return area.Overrides{
		XMin: c.XMin, XMax: c.XMax,
		YMin: c.YMin, YMax: c.YMax,
		RMin: c.RMin, RMax: c.RMax,
		RAllowed: c.RAllowed,
	}.Apply(v)
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.HistoryBackend {
	case repository.BackendFile, repository.BackendSQLite, repository.BackendBadger:
		if c.HistoryPath == "" {
			return fmt.Errorf("%w: history_path must not be empty for %s backend", ErrInvalidConfig, c.HistoryBackend)
		}
	case repository.BackendMemory:
	default:
		return fmt.Errorf("%w: unknown history_backend %q", ErrInvalidConfig, c.HistoryBackend)
	}
	if _, err := c.AreaVariant(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
