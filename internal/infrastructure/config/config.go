package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Env       string `envconfig:"ENV" default:"development"`
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Proxy     ProxyConfig
	Storage   StorageConfig
	Auth      AuthConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8090"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
	File        string `envconfig:"LOG_FILE" default:""`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// ProxyConfig bounds the outbound relay.
type ProxyConfig struct {
	TimeoutSeconds    int   `envconfig:"PROXY_TIMEOUT_SECONDS" default:"30"`
	PreviewLimitBytes int64 `envconfig:"PROXY_PREVIEW_LIMIT_BYTES" default:"10485760"`
}

// Timeout returns the relay deadline as a duration.
func (p ProxyConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	Path string `envconfig:"STORAGE_PATH" default:"data/quiver.db"`
}

// AuthConfig holds session configuration.
type AuthConfig struct {
	SessionTTLHours int `envconfig:"AUTH_SESSION_TTL_HOURS" default:"24"`
}

// SessionTTL returns the session lifetime as a duration.
func (a AuthConfig) SessionTTL() time.Duration {
	return time.Duration(a.SessionTTLHours) * time.Hour
}

// Production reports whether the process runs with production hardening
// (error details suppressed in responses).
func (c *Config) Production() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Env: "development",
		Server: ServerConfig{
			Port: "8090",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Proxy: ProxyConfig{
			TimeoutSeconds:    30,
			PreviewLimitBytes: 10 << 20,
		},
		Storage: StorageConfig{
			Path: "data/quiver.db",
		},
		Auth: AuthConfig{
			SessionTTLHours: 24,
		},
	}
}
