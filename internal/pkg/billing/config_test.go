package billing

import (
	"errors"
	"testing"

	"github.com/ManuelReschke/PayFox/internal/pkg/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	env.Env = map[string]string{
		"PAYU_MERCHANT_KEY":           "key",
		"PAYU_MERCHANT_SALT":          "salt",
		"PAYU_REDIRECT_ALLOWED_HOSTS": "App.Example.com, ,www.example.com",
	}
	t.Cleanup(func() { env.Env = nil })

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Credentials{Key: "key", Salt: "salt"}, cfg.Credentials())
	assert.Equal(t, []string{"app.example.com", "www.example.com"}, cfg.RedirectAllowedHosts)
	assert.True(t, cfg.NotificationsEnabled)
}

func TestLoadConfigFailsWithoutCredentials(t *testing.T) {
	env.Env = map[string]string{"PAYU_MERCHANT_KEY": "key"}
	t.Cleanup(func() { env.Env = nil })
	t.Setenv("PAYU_MERCHANT_SALT", "")

	cfg, err := LoadConfig()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, ErrProviderNotConfigured))
	assert.Contains(t, err.Error(), "merchantSalt")
}
