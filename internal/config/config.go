package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains process configuration parameters. It is loaded once at
// startup and treated as immutable afterwards.
type Config struct {
	LogLevel   int    `env:"LOG_LEVEL" envDefault:"0"`
	Token      Token  `envPrefix:"TOKEN_"`
	JWT        JWT    `envPrefix:"JWT_"`
	Sweep      Sweep  `envPrefix:"SWEEP_"`
	LocalUsers string `env:"LOCAL_USERS" envDefault:""`
}

// Token contains claim parameters for issued tokens.
type Token struct {
	Issuer       string   `env:"ISSUER" envDefault:"BOILERPLATE"`
	TTLMinutes   int      `env:"TTL_MINUTES" envDefault:"15"`
	DefaultScope []string `env:"DEFAULT_SCOPE" envDefault:"user"`
}

// TTL returns the configured token lifetime as a duration.
func (t Token) TTL() time.Duration {
	return time.Duration(t.TTLMinutes) * time.Minute
}

// JWT contains signing parameters.
type JWT struct {
	Secret string `env:"SECRET" envDefault:"devsecret"`
}

// Sweep contains expiry sweeper parameters.
type Sweep struct {
	Interval time.Duration `env:"INTERVAL" envDefault:"5m"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Token.TTLMinutes <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %d", cfg.Token.TTLMinutes)
	}
	if cfg.Sweep.Interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %s", cfg.Sweep.Interval)
	}

	return &cfg, nil
}
