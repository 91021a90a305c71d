package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is loaded from environment variables (with an optional .env file
// for development). The signing key and algorithm are fixed for the process
// lifetime; there is no runtime rotation in this design.
type Config struct {
	// SecretKey signs access tokens. Required; must be at least 32 bytes.
	SecretKey string `env:"QUIZD_SECRET_KEY"`

	// Algorithm is the token signing algorithm. Only HS256 is supported;
	// anything else is a fatal configuration error.
	Algorithm string `env:"QUIZD_ALGORITHM" envDefault:"HS256"`

	// Issuer is the iss claim stamped into every token.
	Issuer string `env:"QUIZD_ISSUER" envDefault:"quizd"`

	// AccessTTL is the access token lifetime.
	AccessTTL time.Duration `env:"QUIZD_ACCESS_TTL" envDefault:"30m"`

	// DatabaseFile is the path to the SQLite database file.
	DatabaseFile string `env:"QUIZD_DATABASE_FILE" envDefault:"quizd.db"`

	// Seed loads the static credential table and starter questions into an
	// empty database at startup.
	Seed bool `env:"QUIZD_SEED" envDefault:"true"`

	Env                 string        `env:"ENV" envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`
	Port                int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// LoadConfig reads configuration from the environment. A missing .env file
// is fine; explicit environment variables always win.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.SecretKey == "" {
		return errors.New("QUIZD_SECRET_KEY is required")
	}
	if c.Algorithm != "HS256" {
		return fmt.Errorf("unsupported signing algorithm %q (only HS256)", c.Algorithm)
	}
	if c.AccessTTL <= 0 {
		return errors.New("QUIZD_ACCESS_TTL must be positive")
	}
	return nil
}
