package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all process settings read from the environment.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   int    `env:"PORT"    envDefault:"5000"`

	DBDriver    string `env:"DB_DRIVER"    envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	PGHost      string `env:"PG_HOST"      envDefault:"localhost"`
	PGPort      string `env:"PG_PORT"      envDefault:"5432"`
	PGUser      string `env:"PG_USER"`
	PGDatabase  string `env:"PG_DB"`
	PGPassword  string `env:"PG_PASSWORD"`
	SQLitePath  string `env:"SQLITE_PATH"  envDefault:"inspections.db"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	MaxBodyBytes       int64    `env:"MAX_BODY_BYTES"       envDefault:"52428800"`

	// RateLimitRPS of 0 disables the per-IP limiter.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DBDriver != DriverPostgres && cfg.DBDriver != DriverSQLite {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return &cfg, nil
}

// PostgresDSN returns DATABASE_URL when set, otherwise a DSN built from the PG_* variables.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
