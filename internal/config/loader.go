package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and env
// vars. Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if RACEDATA_CONFIG is set
//  3. env (prefix RACEDATA_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("RACEDATA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// RACEDATA_GRAND_PRIX -> grand_prix; underscores are preserved to
	// match the koanf tags on the struct.
	envProvider := env.Provider("RACEDATA_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "racedata_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading env config: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Year <= 0 {
		return ErrInvalidYear
	}
	if c.GrandPrix == "" {
		return ErrMissingGrandPrix
	}
	if c.SessionType == "" {
		return ErrMissingSessionType
	}
	if c.TrackPathRule != "first" && c.TrackPathRule != "longest" {
		return fmt.Errorf("%w: %q", ErrInvalidPathRule, c.TrackPathRule)
	}
	return nil
}
