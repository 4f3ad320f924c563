// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package querykit

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the options of a [DB].
type Config struct {
	// MaxStatements caps the number of statements cached on the DB. Once it
	// is reached, queries that would add a statement run unprepared. Zero
	// means no limit.
	MaxStatements int `yaml:"max_statements"`

	// DisableCache makes every query run unprepared.
	DisableCache bool `yaml:"disable_cache"`

	// Logger receives debug records about cache activity. If nil,
	// slog.Default() is used.
	Logger *slog.Logger `yaml:"-"`

	// Metrics receives the cache metrics of the DB. If nil, the metrics
	// registered by [MustRegisterMetrics] are used.
	Metrics *Metrics `yaml:"-"`
}

// DefaultConfig returns the configuration used by [NewDB].
func DefaultConfig() Config {
	return Config{}
}

// LoadConfig reads a YAML configuration from r. Options missing from r keep
// their default values.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "cannot parse config")
	}
	if cfg.MaxStatements < 0 {
		return Config{}, errors.Errorf("max_statements must not be negative, got %d", cfg.MaxStatements)
	}
	return cfg, nil
}
