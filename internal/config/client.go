package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Client configures feedctl. Everything comes from FEEDCTL_* variables.
type Client struct {
	APIURL    string        `env:"API_URL" envDefault:"http://localhost:8080/api"`
	StatePath string        `env:"STATE_PATH" envDefault:".feedctl.db"`
	LogLevel  string        `env:"LOG_LEVEL" envDefault:"warn"`
	PageSize  int           `env:"PAGE_SIZE" envDefault:"10"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

const clientEnvPrefix = "FEEDCTL_"

// LoadClient parses the FEEDCTL_* environment.
func LoadClient() (*Client, error) {
	cfg := &Client{}
	if err := env.Parse(cfg, env.Options{Prefix: clientEnvPrefix}); err != nil {
		return nil, fmt.Errorf("read client config: %w", err)
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("FEEDCTL_PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}
	return cfg, nil
}
