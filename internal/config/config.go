// Package config provides application configuration loaded from the
// environment, an optional .env file, and an optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// SUAPConfig holds the OAuth2 credentials and endpoints of the upstream
// academic API. Immutable after process start.
type SUAPConfig struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	APIURL       string
	Scopes       []string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// RedisConfig holds the optional redis backend settings. When disabled the
// session store and cache fall back to in-memory backends.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// SessionConfig holds session lifetime and cookie signing settings.
type SessionConfig struct {
	TTL           time.Duration
	SigningSecret string
	CookieName    string
	CookieSecure  bool
}

// AppConfig is the process-wide configuration.
type AppConfig struct {
	Environment      string
	LogLevel         string
	ClassifierPolicy string
	SUAP             SUAPConfig
	Server           ServerConfig
	Redis            RedisConfig
	Session          SessionConfig
}

// Load reads configuration with precedence: environment variables, then an
// optional .env file, then built-in defaults. A config file path may be
// supplied by the CLI and is read through the same viper instance.
func Load(cfgFile string) (*AppConfig, error) {
	// Best effort; absence of a .env file is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}

	cfg := &AppConfig{
		Environment:      v.GetString("environment"),
		LogLevel:         v.GetString("log_level"),
		ClassifierPolicy: v.GetString("classifier_policy"),
		SUAP: SUAPConfig{
			ClientID:     v.GetString("suap_client_id"),
			ClientSecret: v.GetString("suap_client_secret"),
			AuthURL:      v.GetString("suap_auth_url"),
			TokenURL:     v.GetString("suap_token_url"),
			APIURL:       v.GetString("suap_api_url"),
			Scopes:       v.GetStringSlice("suap_scopes"),
		},
		Server: ServerConfig{
			Port:         v.GetString("server_port"),
			ReadTimeout:  v.GetDuration("read_timeout"),
			WriteTimeout: v.GetDuration("write_timeout"),
			IdleTimeout:  v.GetDuration("idle_timeout"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis_enabled"),
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		Session: SessionConfig{
			TTL:           v.GetDuration("session_ttl"),
			SigningSecret: v.GetString("session_secret"),
			CookieName:    v.GetString("session_cookie_name"),
			CookieSecure:  v.GetBool("session_cookie_secure"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("classifier_policy", "extended")

	v.SetDefault("suap_auth_url", "https://suap.ifms.edu.br/o/authorize/")
	v.SetDefault("suap_token_url", "https://suap.ifms.edu.br/o/token/")
	v.SetDefault("suap_api_url", "https://suap.ifms.edu.br/api/")
	v.SetDefault("suap_scopes", []string{"identificacao", "email", "documentos_pessoais"})

	v.SetDefault("server_port", "8080")
	v.SetDefault("read_timeout", "15s")
	v.SetDefault("write_timeout", "15s")
	v.SetDefault("idle_timeout", "60s")

	v.SetDefault("redis_enabled", false)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	v.SetDefault("session_ttl", "8h")
	v.SetDefault("session_cookie_name", "portal_session")
	v.SetDefault("session_cookie_secure", true)
}

// Validate checks that the configuration can actually drive the service.
func (c *AppConfig) Validate() error {
	if c.SUAP.ClientID == "" {
		return fmt.Errorf("SUAP_CLIENT_ID cannot be empty")
	}
	if c.SUAP.ClientSecret == "" {
		return fmt.Errorf("SUAP_CLIENT_SECRET cannot be empty")
	}
	if c.SUAP.APIURL == "" || c.SUAP.AuthURL == "" || c.SUAP.TokenURL == "" {
		return fmt.Errorf("SUAP endpoint URLs cannot be empty")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if c.Session.SigningSecret == "" {
		return fmt.Errorf("SESSION_SECRET cannot be empty")
	}
	if len(c.Session.SigningSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters long")
	}
	if c.Environment != "development" && c.Environment != "staging" && c.Environment != "production" {
		return fmt.Errorf("environment must be one of: development, staging, production")
	}
	if c.ClassifierPolicy != "extended" && c.ClassifierPolicy != "situacao" {
		return fmt.Errorf("classifier policy must be one of: extended, situacao")
	}
	return nil
}

// IsProduction returns true when running in the production environment.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}
