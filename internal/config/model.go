package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Model is the unified, format-agnostic representation of the spawner's
// configuration.
type Model struct {
	LogLevel        string
	LogFormat       string
	HealthcheckPort int

	// SearchPaths are always scanned in addition to whatever the resource
	// path query returns.
	SearchPaths []string
	// DefaultPath is registered when the resource path query fails.
	DefaultPath string
	// ResourcePathEnv names an environment variable consulted when the query
	// is disabled.
	ResourcePathEnv string
	Traversal       string
	ScanWorkers     int
	SDFVersion      string

	ResourceQuery ResourceQuery
	Bridge        Bridge
	Highlight     Highlight
}

// ResourceQuery configures the socket.io resource-path request.
type ResourceQuery struct {
	Enabled   bool
	URL       string
	Namespace string
	Event     string
	Timeout   time.Duration
}

// Bridge configures the socket.io spawn bridge served by `serve`.
type Bridge struct {
	Listen     string
	SpawnEvent string
	PathsEvent string
}

// Highlight configures terminal syntax highlighting of payloads.
type Highlight struct {
	Enabled bool
	Style   string
}

// Default returns the configuration used when no file sets a value.
func Default() *Model {
	return &Model{
		LogLevel:        "info",
		LogFormat:       "text",
		ResourcePathEnv: "IGN_GAZEBO_RESOURCE_PATH",
		Traversal:       "recursive",
		ScanWorkers:     4,
		SDFVersion:      "1.8",
		ResourceQuery: ResourceQuery{
			Enabled:   true,
			URL:       "http://127.0.0.1:11345",
			Namespace: "/",
			Event:     "/gazebo/resource_paths/get",
			Timeout:   5000 * time.Millisecond,
		},
		Bridge: Bridge{
			Listen:     "127.0.0.1:11346",
			SpawnEvent: "spawn_preview_model",
			PathsEvent: "/gazebo/resource_paths/get",
		},
		Highlight: Highlight{
			Enabled: true,
			Style:   "monokai",
		},
	}
}

// Validate rejects values no component can work with.
func (m *Model) Validate() error {
	var errs []error

	switch m.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log_level %q: must be 'debug', 'info', 'warn', or 'error'", m.LogLevel))
	}
	switch m.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log_format %q: must be 'text' or 'json'", m.LogFormat))
	}
	switch strings.ToLower(m.Traversal) {
	case "recursive", "children":
	default:
		errs = append(errs, fmt.Errorf("invalid traversal %q: must be 'recursive' or 'children'", m.Traversal))
	}
	if m.ScanWorkers < 1 {
		errs = append(errs, fmt.Errorf("scan_workers must be at least 1, got %d", m.ScanWorkers))
	}
	if m.HealthcheckPort < 0 || m.HealthcheckPort > 65535 {
		errs = append(errs, fmt.Errorf("healthcheck_port out of range: %d", m.HealthcheckPort))
	}
	if m.ResourceQuery.Enabled && m.ResourceQuery.Timeout <= 0 {
		errs = append(errs, errors.New("resource_query.timeout must be positive"))
	}
	return errors.Join(errs...)
}
