package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifportal/portal-estudante/internal/config"
)

func validConfig() *config.AppConfig {
	cfg, _ := config.Load("")
	cfg.SUAP.ClientID = "client-id"
	cfg.SUAP.ClientSecret = "client-secret"
	cfg.Session.SigningSecret = "0123456789abcdef0123456789abcdef"
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "extended", cfg.ClassifierPolicy)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 8*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "portal_session", cfg.Session.CookieName)
	assert.False(t, cfg.Redis.Enabled)
	assert.Contains(t, cfg.SUAP.AuthURL, "/o/authorize/")
	assert.Equal(t, []string{"identificacao", "email", "documentos_pessoais"}, cfg.SUAP.Scopes)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SUAP_CLIENT_ID", "env-client")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CLASSIFIER_POLICY", "situacao")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-client", cfg.SUAP.ClientID)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "situacao", cfg.ClassifierPolicy)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoad_MissingConfigFileFails(t *testing.T) {
	_, err := config.Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing client credentials", func(t *testing.T) {
		cfg := validConfig()
		cfg.SUAP.ClientID = ""
		assert.Error(t, cfg.Validate())

		cfg = validConfig()
		cfg.SUAP.ClientSecret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("short signing secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.Session.SigningSecret = "too-short"
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown environment", func(t *testing.T) {
		cfg := validConfig()
		cfg.Environment = "qa"
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown classifier policy", func(t *testing.T) {
		cfg := validConfig()
		cfg.ClassifierPolicy = "lenient"
		assert.Error(t, cfg.Validate())
	})
}

func TestIsProduction(t *testing.T) {
	cfg := validConfig()
	assert.False(t, cfg.IsProduction())

	cfg.Environment = "production"
	assert.True(t, cfg.IsProduction())
}
