// Package config loads process configuration from environment variables into
// typed structs.
//
// Values come from the process environment, optionally seeded from a .env
// file in the working directory. Field tags follow github.com/caarlos0/env:
//
//	type Config struct {
//		SuccessURL string `env:"CHECKOUT_SUCCESS_URL,required"`
//		Collection string `env:"USERS_COLLECTION" envDefault:"users"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Each struct type is parsed once and cached for the lifetime of the process,
// so every component that loads the same type observes the same values.
// Parse skips the cache and is meant for tests and one-off reads.
package config
