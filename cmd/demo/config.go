package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// ErrUnknownFormat is returned for an unsupported STATEDEMO_FORMAT.
var ErrUnknownFormat = errors.New("unknown output format")

const (
	formatText = "text"
	formatYAML = "yaml"
)

type config struct {
	Cycles   int        `env:"STATEDEMO_CYCLES" envDefault:"1"`
	Format   string     `env:"STATEDEMO_FORMAT" envDefault:"text"`
	DOT      bool       `env:"STATEDEMO_DOT" envDefault:"false"`
	LogLevel slog.Level `env:"STATEDEMO_LOG_LEVEL" envDefault:"WARN"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Format != formatText && cfg.Format != formatYAML {
		return config{}, fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.Format)
	}
	if cfg.Cycles < 0 {
		return config{}, fmt.Errorf("cycles must not be negative, got %d", cfg.Cycles)
	}
	return cfg, nil
}
