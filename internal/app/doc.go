// Package app wires the spawner together: it loads configuration, builds the
// logger, scanner, registry, querier, spawner and sinks, and exposes the two
// panels plus the serve lifecycle to whatever front end drives them (the CLI
// commands or the terminal browser).
package app
