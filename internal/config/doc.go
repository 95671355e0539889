// Package config defines the format-agnostic configuration model for the
// spawner, along with the Loader interface implemented by format-specific
// adapters such as hcl_adapter.
//
// The Model is the single source of truth for the app package: command-line
// flags are applied on top of it, never the other way round.
package config
