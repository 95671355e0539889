package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/luccosta/ign-gazebo/internal/ctxlog"
	"github.com/luccosta/ign-gazebo/internal/resourcepaths"
)

// ErrNoSearchPaths means neither the query nor the fallback produced a root.
var ErrNoSearchPaths = errors.New("no search paths: resource path query failed and no default path is configured")

// Source records where the registered paths came from.
type Source string

const (
	SourceNone     Source = "none"
	SourceQuery    Source = "query"
	SourceFallback Source = "fallback"
)

// PathRegistry is an ordered, duplicate-free list of search roots.
type PathRegistry struct {
	mu    sync.RWMutex
	paths []string
	seen  map[string]struct{}
}

// New creates an empty registry.
func New() *PathRegistry {
	return &PathRegistry{seen: make(map[string]struct{})}
}

// Add appends path unless it is empty or already registered. It reports
// whether the path was added.
func (r *PathRegistry) Add(path string) bool {
	path = strings.TrimSpace(path)
	if path == "" {
		return false
	}
	key := filepath.Clean(path)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[key]; ok {
		return false
	}
	r.seen[key] = struct{}{}
	r.paths = append(r.paths, path)
	return true
}

// AddAll adds every path in order and returns how many were new.
func (r *PathRegistry) AddAll(paths ...string) int {
	n := 0
	for _, p := range paths {
		if r.Add(p) {
			n++
		}
	}
	return n
}

// All returns a copy of the registered paths in insertion order.
func (r *PathRegistry) All() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.paths...)
}

// Len returns the number of registered paths.
func (r *PathRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.paths)
}

// AddFromEnv adds every entry of the path list held by the environment
// variable name, or resourcepaths.EnvVar when name is empty. It returns how
// many entries were new.
func (r *PathRegistry) AddFromEnv(name string) int {
	if name == "" {
		name = resourcepaths.EnvVar
	}
	return r.AddAll(resourcepaths.SplitList(os.Getenv(name))...)
}

// Replace swaps the registered paths for the contents of other in one step,
// so readers never observe a partially rebuilt list.
func (r *PathRegistry) Replace(other *PathRegistry) {
	paths := other.All()
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		seen[filepath.Clean(p)] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = paths
	r.seen = seen
}

// Populate registers the paths returned by q. When q fails or returns
// nothing, fallback is registered instead. A nil q behaves like a failed
// query.
func (r *PathRegistry) Populate(ctx context.Context, q resourcepaths.Querier, fallback string) (Source, error) {
	logger := ctxlog.FromContext(ctx)

	var (
		paths []string
		err   error = resourcepaths.ErrDisabled
	)
	if q != nil {
		paths, err = q.Query(ctx)
	}
	if err == nil && len(paths) == 0 {
		err = resourcepaths.ErrEmptyResponse
	}
	if err == nil {
		added := r.AddAll(paths...)
		logger.Info("Resource paths registered from simulation.", "count", added)
		return SourceQuery, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return SourceNone, ctxErr
	}

	logger.Warn(resourcepaths.EnvVar+" not found. Falling back to the default model path.",
		"error", err, "default_path", fallback)

	if r.Add(fallback) || (fallback != "" && r.Len() > 0) {
		return SourceFallback, nil
	}
	return SourceNone, ErrNoSearchPaths
}
