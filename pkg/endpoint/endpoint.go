// Package endpoint resolves the base URL used by REST calls against the TikTok Open API.
//
// A URL is resolved in this order: the per-call Options.PrefixURL, the
// override held by a Config, then DefaultPrefixURL.
package endpoint

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// DefaultPrefixURL is the compiled-in REST prefix
	DefaultPrefixURL = "https://open.tiktokapis.com/v2"

	// EnvKey names the environment variable read by FromEnv
	EnvKey = "TIKTOK_V2_PREFIX_API"
)

// Options holds per-call overrides. Zero values mean "not set".
type Options struct {
	PrefixURL string
	Timeout   time.Duration
}

// Config holds an optional prefix override shared by every call that uses it.
//
// The override is read on every call, so a test harness can point a whole
// suite at a mock server with Set and undo it with Clear. Set it before
// starting concurrent calls; calls already in flight may observe either value.
type Config struct {
	mu     sync.RWMutex
	prefix string
}

// Default is the process-wide Config used when a caller supplies none.
var Default = NewConfig()

// NewConfig creates a Config with no override
func NewConfig() *Config {
	return &Config{}
}

// FromEnv creates a Config whose override is taken from TIKTOK_V2_PREFIX_API
func FromEnv() (*Config, error) {
	var env struct {
		PrefixURL string `envconfig:"TIKTOK_V2_PREFIX_API"`
	}
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("loading %s: %w", EnvKey, err)
	}

	cfg := NewConfig()
	cfg.Set(env.PrefixURL)
	return cfg, nil
}

// Set installs a prefix override. An empty url is the same as Clear.
func (c *Config) Set(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefix = url
}

// Clear removes the prefix override
func (c *Config) Clear() {
	c.Set("")
}

// Prefix returns the override, or DefaultPrefixURL when none is set
func (c *Config) Prefix() string {
	if c == nil {
		return DefaultPrefixURL
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.prefix == "" {
		return DefaultPrefixURL
	}
	return c.prefix
}

// SetPrefixURL sets the override on Default
func SetPrefixURL(url string) {
	Default.Set(url)
}

// ClearPrefixURL clears the override on Default
func ClearPrefixURL() {
	Default.Clear()
}

// BaseURL returns the prefix for a call: opts.PrefixURL, else cfg's prefix.
// A nil cfg falls back to Default.
func BaseURL(opts Options, cfg *Config) string {
	if opts.PrefixURL != "" {
		return opts.PrefixURL
	}
	if cfg == nil {
		cfg = Default
	}
	return cfg.Prefix()
}

// Resolve joins the resolved prefix with path. The result is not validated;
// malformed URLs fail later in the transport.
func Resolve(opts Options, cfg *Config, path string) string {
	return strings.TrimSuffix(BaseURL(opts, cfg), "/") + path
}
