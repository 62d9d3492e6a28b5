package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config is read from the environment once at startup. Defaults suit local
// development; production deployments override AUTH_TOKEN and JWT_SECRET.
type Config struct {
	Port          string        `env:"PORT" envDefault:"8080"`
	AuthToken     string        `env:"AUTH_TOKEN" envDefault:"demo-token-001"`
	JWTSecret     string        `env:"JWT_SECRET" envDefault:"insecure-dev-secret"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	DemoUserID    string        `env:"DEMO_USER_ID" envDefault:"USER001"`
	DemoUsername  string        `env:"DEMO_USERNAME" envDefault:"demo"`
	DemoPassword  string        `env:"DEMO_PASSWORD" envDefault:"demo123"`
	QuoteInterval time.Duration `env:"QUOTE_INTERVAL" envDefault:"2s"`
}

func Load() (Config, error) {
	var cfg Config
	return cfg, env.Parse(&cfg)
}
