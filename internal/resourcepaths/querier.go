// Package resourcepaths asks a running simulation process for its resource
// search paths.
package resourcepaths

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// DefaultEvent is the request name answered by the simulation process.
const DefaultEvent = "/gazebo/resource_paths/get"

// EnvVar is the environment variable the simulation reads its resource
// paths from.
const EnvVar = "IGN_GAZEBO_RESOURCE_PATH"

var (
	// ErrUnavailable means the simulation process could not be reached or did
	// not answer in time.
	ErrUnavailable = errors.New("resource path service unavailable")
	// ErrEmptyResponse means the service answered without any paths.
	ErrEmptyResponse = errors.New("resource path service returned no paths")
	// ErrDisabled is returned by the Disabled querier.
	ErrDisabled = errors.New("resource path query disabled")
)

// Querier returns the ordered list of resource paths.
type Querier interface {
	Query(ctx context.Context) ([]string, error)
}

// QuerierFunc adapts a function to the Querier interface.
type QuerierFunc func(ctx context.Context) ([]string, error)

// Query calls f.
func (f QuerierFunc) Query(ctx context.Context) ([]string, error) {
	return f(ctx)
}

// Static answers with a fixed list.
type Static []string

// Query implements Querier.
func (s Static) Query(context.Context) ([]string, error) {
	paths := clean(s)
	if len(paths) == 0 {
		return nil, ErrEmptyResponse
	}
	return paths, nil
}

// Disabled always fails with ErrDisabled.
type Disabled struct{}

// Query implements Querier.
func (Disabled) Query(context.Context) ([]string, error) {
	return nil, ErrDisabled
}

// Env reads a path list from an environment variable.
type Env struct {
	Name string
}

// Query implements Querier.
func (e Env) Query(context.Context) ([]string, error) {
	name := e.Name
	if name == "" {
		name = EnvVar
	}
	paths := SplitList(os.Getenv(name))
	if len(paths) == 0 {
		return nil, ErrEmptyResponse
	}
	return paths, nil
}

// SplitList splits a path list using the platform separator, dropping empty
// entries.
func SplitList(list string) []string {
	if list == "" {
		return nil
	}
	return clean(filepath.SplitList(list))
}

// clean trims entries and drops empty ones.
func clean(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
