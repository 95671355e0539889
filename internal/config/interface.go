package config

import (
	"context"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given files or directories, merges
	// them in discovery order on top of Default(), and returns the result.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
