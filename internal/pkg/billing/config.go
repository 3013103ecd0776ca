package billing

import (
	"fmt"
	"strings"

	"github.com/ManuelReschke/PayFox/internal/pkg/env"
)

// Config carries the processor credentials and callback policy. It is built
// once at startup and shared by reference.
type Config struct {
	MerchantKey  string `json:"merchantKey" validate:"required"`
	MerchantSalt string `json:"merchantSalt" validate:"required"`

	// RedirectAllowedHosts restricts browser redirect targets. Empty allows
	// any absolute http(s) target.
	RedirectAllowedHosts []string `json:"redirectAllowedHosts"`

	NotificationsEnabled bool `json:"notificationsEnabled"`
}

// LoadConfig reads the processor configuration from the environment and fails
// when credentials are missing.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		MerchantKey:          strings.TrimSpace(env.GetEnv("PAYU_MERCHANT_KEY", "")),
		MerchantSalt:         strings.TrimSpace(env.GetEnv("PAYU_MERCHANT_SALT", "")),
		RedirectAllowedHosts: splitList(env.GetEnv("PAYU_REDIRECT_ALLOWED_HOSTS", "")),
		NotificationsEnabled: env.GetEnv("NOTIFY_PAYMENT_CONFIRMATION", "true") == "true",
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the processor credentials are present.
func (c *Config) Validate() error {
	if err := validationError(validate.Struct(c)); err != nil {
		return fmt.Errorf("%w: %v", ErrProviderNotConfigured, err)
	}
	return nil
}

// Credentials returns the signing credentials.
func (c *Config) Credentials() Credentials {
	return Credentials{Key: c.MerchantKey, Salt: c.MerchantSalt}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
