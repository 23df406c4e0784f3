package config

import (
	"fmt"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
)

// Config captures application runtime configuration. It is loaded once at
// startup from environment variables and never mutated afterwards.
type Config struct {
	AppName  string `env:"APP_NAME" envDefault:"RailPay"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// RedisURL enables the idempotency middleware when set.
	RedisURL string `env:"REDIS_URL"`

	ShutdownPeriod time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	// MonitorPollDelay is the fixed interval between rail state polls for an
	// outstanding withdrawal. The interval never changes; there is no backoff.
	MonitorPollDelay time.Duration `env:"MONITOR_POLL_DELAY" envDefault:"100ms"`
	// MonitorWorkers bounds how many rail polls may run concurrently.
	MonitorWorkers int `env:"MONITOR_WORKERS" envDefault:"50"`

	// GatewaySettleDelay is how long the simulated rail keeps a withdrawal in
	// PROCESSING before settling it.
	GatewaySettleDelay time.Duration `env:"GATEWAY_SETTLE_DELAY" envDefault:"500ms"`
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.MonitorPollDelay <= 0 {
		return fmt.Errorf("MONITOR_POLL_DELAY must be positive, got %s", c.MonitorPollDelay)
	}
	if c.MonitorWorkers <= 0 {
		return fmt.Errorf("MONITOR_WORKERS must be positive, got %d", c.MonitorWorkers)
	}
	if c.GatewaySettleDelay <= 0 {
		return fmt.Errorf("GATEWAY_SETTLE_DELAY must be positive, got %s", c.GatewaySettleDelay)
	}
	if c.ShutdownPeriod <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownPeriod)
	}
	return nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}
