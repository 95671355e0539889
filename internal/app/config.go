package app

import (
	"errors"
	"strings"
)

// Config holds the command-line level settings for an App instance. Non-zero
// fields override the values loaded from configuration files.
type Config struct {
	// ConfigPaths are .hcl files or directories, merged in order.
	ConfigPaths []string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// SearchPaths are extra roots registered after the resource path query.
	SearchPaths []string
	// DefaultPath replaces the configured fallback root.
	DefaultPath string
	// NoQuery skips the socket.io request and reads the environment variable
	// instead.
	NoQuery   bool
	Traversal string
}

// NewConfig validates the flag values that can be checked before any file
// is read.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if cfg.LogFormat != "" && cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	if cfg.HealthcheckPort < 0 {
		return nil, errors.New("invalid healthcheck-port: must not be negative")
	}
	return &cfg, nil
}
