// Package config reads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full configuration surface of the API process.
type Config struct {
	Port          int           `env:"AUTHGATE_PORT" envDefault:"8080"`
	DatabaseDSN   string        `env:"AUTHGATE_PG_DSN"`
	SigningKey    string        `env:"AUTHGATE_AUTH_SECRET"`
	Issuer        string        `env:"AUTHGATE_TOKEN_ISSUER" envDefault:"authgate"`
	Audience      string        `env:"AUTHGATE_TOKEN_AUDIENCE" envDefault:"authgate-clients"`
	MigrationsDir string        `env:"AUTHGATE_MIGRATIONS_DIR" envDefault:"migrations"`
	BootAttempts  int           `env:"AUTHGATE_BOOT_ATTEMPTS" envDefault:"10"`
	BootDelay     time.Duration `env:"AUTHGATE_BOOT_DELAY" envDefault:"5s"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.BootAttempts <= 0 {
		return Config{}, errors.New("bootstrap attempts must be positive")
	}
	return cfg, nil
}
