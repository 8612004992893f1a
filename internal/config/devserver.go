package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// DevServerConfig configures the local development backend
type DevServerConfig struct {
	Port          int           `env:"PORT" envDefault:"8080"`
	JWTSecret     string        `env:"JWT_SECRET" envDefault:"jobportal-dev-secret-change-me"`
	JWTTTL        time.Duration `env:"JWT_TTL" envDefault:"24h"`
	ChatRateLimit int           `env:"CHAT_RATE_LIMIT" envDefault:"5"` // Requests per minute per user
	SeedDemoData  bool          `env:"SEED_DEMO_DATA" envDefault:"true"`
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"10"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadDevServer reads .env (if present) and the environment
func LoadDevServer() (*DevServerConfig, error) {
	if err := loadDotenv(".env"); err != nil {
		return nil, err
	}
	var cfg DevServerConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

func (c *DevServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 bytes")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	if c.ChatRateLimit < 1 {
		return fmt.Errorf("CHAT_RATE_LIMIT must be positive, got %d", c.ChatRateLimit)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	return nil
}
