package main

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/wrale/tiktok-api-v2/pkg/oauth"
)

// Config holds server configuration loaded from environment variables. The
// REST prefix override is read separately by endpoint.FromEnv.
type Config struct {
	Port              int           `envconfig:"PORT" default:"8080"`
	ClientKey         string        `envconfig:"CLIENT_KEY" required:"true"`
	ClientSecret      string        `envconfig:"CLIENT_SECRET" required:"true"`
	CallbackURL       string        `envconfig:"CALLBACK_URL" required:"true"`
	Scopes            []string      `envconfig:"SCOPES" default:"user.info.basic,user.info.profile,user.info.stats,video.list"`
	RedisURL          string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	StateTTL          time.Duration `envconfig:"STATE_TTL" default:"10m"`
	CookieSecure      bool          `envconfig:"COOKIE_SECURE" default:"true"`
	APITimeout        time.Duration `envconfig:"API_TIMEOUT" default:"10s"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"5s"`
	ReadTimeout       time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout      time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout       time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("processing environment: %w", err)
	}
	return cfg, nil
}

// Credentials returns the client credentials for the OAuth manager
func (c Config) Credentials() oauth.Credentials {
	return oauth.Credentials{
		ClientKey:    c.ClientKey,
		ClientSecret: c.ClientSecret,
		RedirectURI:  c.CallbackURL,
	}
}

// ParsedScopes converts SCOPES into typed scopes, keeping their order
func (c Config) ParsedScopes() ([]oauth.Scope, error) {
	scopes := make([]oauth.Scope, 0, len(c.Scopes))
	for _, raw := range c.Scopes {
		s, err := oauth.ParseScope(raw)
		if err != nil {
			return nil, fmt.Errorf("SCOPES: %w", err)
		}
		scopes = append(scopes, s)
	}
	return scopes, nil
}
