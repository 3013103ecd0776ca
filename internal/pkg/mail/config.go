package mail

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ManuelReschke/PayFox/internal/pkg/env"
)

// Config holds the SMTP relay settings.
type Config struct {
	Host        string        `validate:"required"`
	Port        string        `validate:"required,numeric"`
	Username    string
	Password    string
	Sender      string        `validate:"required,email"`
	SendTimeout time.Duration `validate:"gt=0"`
}

// LoadConfig reads SMTP_* from the environment.
func LoadConfig() (*Config, error) {
	timeout := 10 * time.Second
	if raw := env.GetEnv("SMTP_TIMEOUT_SECONDS", ""); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_TIMEOUT_SECONDS: %w", err)
		}
		timeout = time.Duration(secs) * time.Second
	}

	cfg := &Config{
		Host:        env.GetEnv("SMTP_HOST", ""),
		Port:        env.GetEnv("SMTP_PORT", ""),
		Username:    env.GetEnv("SMTP_USERNAME", ""),
		Password:    env.GetEnv("SMTP_PASSWORD", ""),
		Sender:      env.GetEnv("SMTP_SENDER", ""),
		SendTimeout: timeout,
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid smtp config: %w", err)
	}
	return cfg, nil
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
