package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProductionConfig() *Config {
	return &Config{
		Port:         "8392",
		JWTSecret:    strings.Repeat("s", 32),
		DBPassword:   "a-real-database-password",
		GeminiAPIKey: "real-api-key",
		DBSSLMode:    "require",
		Env:          "production",
	}
}

func TestValidate_Development(t *testing.T) {
	cfg := &Config{
		Port:      "8392",
		JWTSecret: "dev-secret",
		Env:       "development",
	}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RequiredFields(t *testing.T) {
	cfg := &Config{JWTSecret: "secret"}
	require.Error(t, cfg.Validate())
	assert.Contains(t, cfg.Validate().Error(), "PORT")

	cfg = &Config{Port: "8392"}
	require.Error(t, cfg.Validate())
	assert.Contains(t, cfg.Validate().Error(), "JWT_SECRET")
}

func TestValidate_Production(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validProductionConfig().Validate())
	})

	t.Run("default JWT secret rejected", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.JWTSecret = "your-secret-key-change-in-production"
		assert.ErrorContains(t, cfg.Validate(), "must be changed from the default")
	})

	t.Run("short JWT secret rejected", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.JWTSecret = "short"
		assert.ErrorContains(t, cfg.Validate(), "at least 32 characters")
	})

	t.Run("weak DB password rejected", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.DBPassword = "password"
		assert.ErrorContains(t, cfg.Validate(), "DB_PASSWORD")
	})

	t.Run("missing Gemini key rejected", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.GeminiAPIKey = ""
		assert.ErrorContains(t, cfg.Validate(), "GEMINI_API_KEY")
	})

	t.Run("prod alias behaves like production", func(t *testing.T) {
		cfg := validProductionConfig()
		cfg.Env = "prod"
		cfg.JWTSecret = "short"
		assert.Error(t, cfg.Validate())
	})
}
