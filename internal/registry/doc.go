// Package registry holds the ordered set of search roots the panels scan.
//
// At activation the registry is filled from the running simulation's
// resource-path service. When that service cannot be reached the registry
// falls back to a configured default root, so a panel always has something
// to scan when one is configured.
package registry
