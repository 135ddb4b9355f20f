package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults in development", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		t.Setenv("JWT_SECRET", "")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, defaultJWTSecret, cfg.JWTSecret)
		assert.Equal(t, 10*time.Second, cfg.GatewayTimeout)
		assert.Equal(t, 2, cfg.GatewayMaxRetries)
		assert.Equal(t, 20, cfg.RateLimitBurst)
	})

	t.Run("Overrides from environment", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("GATEWAY_TIMEOUT", "3s")
		t.Setenv("GATEWAY_MAX_RETRIES", "5")
		t.Setenv("RATE_LIMIT_RPS", "2.5")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, 3*time.Second, cfg.GatewayTimeout)
		assert.Equal(t, 5, cfg.GatewayMaxRetries)
		assert.Equal(t, 2.5, cfg.RateLimitRPS)
	})

	t.Run("Malformed numbers fall back to defaults", func(t *testing.T) {
		t.Setenv("SMTP_PORT", "not-a-port")
		t.Setenv("GATEWAY_TIMEOUT", "soon")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 587, cfg.SMTPPort)
		assert.Equal(t, 10*time.Second, cfg.GatewayTimeout)
	})

	t.Run("Default secret rejected in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET", "")

		cfg, err := Load()

		assert.ErrorIs(t, err, ErrDefaultJWTSecret)
		assert.Nil(t, cfg)
	})

	t.Run("Custom secret accepted in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET", "a-real-secret")
		t.Setenv("GATEWAY_STORE_ID", "irontemple_live")
		t.Setenv("GATEWAY_STORE_PASSWORD", "store-pass")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "a-real-secret", cfg.JWTSecret)
		assert.Equal(t, "store-pass", cfg.GatewayStorePassword)
	})

	t.Run("Missing gateway credentials rejected in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET", "a-real-secret")
		t.Setenv("GATEWAY_STORE_ID", "irontemple_live")
		t.Setenv("GATEWAY_STORE_PASSWORD", "")

		cfg, err := Load()

		assert.ErrorIs(t, err, ErrMissingGatewayCredentials)
		assert.Nil(t, cfg)
	})

	t.Run("Missing gateway credentials allowed in development", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		t.Setenv("GATEWAY_STORE_ID", "")
		t.Setenv("GATEWAY_STORE_PASSWORD", "")

		_, err := Load()

		assert.NoError(t, err)
	})
}
