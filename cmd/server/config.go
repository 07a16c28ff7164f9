package main

import (
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/checkoutkit/pkg/logger"
)

const (
	storeMongo  = "mongo"
	storeMemory = "memory"
)

type appConfig struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Name string `env:"APP_NAME" envDefault:"checkoutkit"`
	// LogLevel overrides the per-environment default when set.
	LogLevel    string `env:"LOG_LEVEL"`
	SigningKey  string `env:"AUTH_SIGNING_KEY,required"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"mongo"`
}

func (c appConfig) loggerOptions() ([]logger.Option, error) {
	opts := []logger.Option{logger.WithEnvironment(c.Env, c.Name)}
	if c.LogLevel != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
		}
		opts = append(opts, logger.WithLevel(lvl))
	}
	return opts, nil
}
