package panel

import (
	"context"
	"errors"
	"sync"

	"github.com/luccosta/ign-gazebo/internal/ctxlog"
	"github.com/luccosta/ign-gazebo/internal/model"
	"github.com/luccosta/ign-gazebo/internal/presentation"
	"github.com/luccosta/ign-gazebo/internal/registry"
	"github.com/luccosta/ign-gazebo/internal/resourcepaths"
	"github.com/luccosta/ign-gazebo/internal/scanner"
	"github.com/luccosta/ign-gazebo/internal/spawn"
)

// ResourceSpawnerOptions wires a ResourceSpawner. Nil models and registry
// are created on demand.
type ResourceSpawnerOptions struct {
	Registry    *registry.PathRegistry
	Querier     resourcepaths.Querier
	DefaultPath string
	// PathEnv names an environment variable whose path list is registered
	// when the query does not answer. Empty disables it.
	PathEnv string
	// ExtraPaths are registered after the query or fallback, e.g. from the
	// command line.
	ExtraPaths []string
	Scanner    *scanner.Scanner
	Spawner    *spawn.Spawner
	Grid       *presentation.GridModel
	Paths      *presentation.PathModel
}

// ResourceSpawner lists every model under the simulation's resource paths
// and spawns the selected one.
type ResourceSpawner struct {
	opts   ResourceSpawnerOptions
	worker worker

	mu     sync.RWMutex
	models []model.DiscoveredModel
	source registry.Source
}

// NewResourceSpawner builds the panel.
func NewResourceSpawner(opts ResourceSpawnerOptions) *ResourceSpawner {
	if opts.Registry == nil {
		opts.Registry = registry.New()
	}
	if opts.Grid == nil {
		opts.Grid = presentation.NewGridModel()
	}
	if opts.Paths == nil {
		opts.Paths = presentation.NewPathModel()
	}
	return &ResourceSpawner{opts: opts, source: registry.SourceNone}
}

// Activate loads the panel on a background goroutine. The channel yields
// the load result.
func (r *ResourceSpawner) Activate(ctx context.Context) <-chan error {
	scope := r.worker.activate(ctx)
	return r.worker.goCtx(scope, r.Load)
}

// Deactivate cancels in-flight work and waits for it to stop.
func (r *ResourceSpawner) Deactivate() {
	r.worker.deactivate()
}

// Load rebuilds the registry, scans every registered path and then publishes
// the path list and the grid together. A cancelled or failed scan publishes
// nothing and leaves the registry as it was.
func (r *ResourceSpawner) Load(ctx context.Context) error {
	ctx = ctxlog.With(ctx, "panel", "resource_spawner")
	logger := ctxlog.FromContext(ctx)

	next := registry.New()
	src, err := next.Populate(ctx, r.opts.Querier, r.opts.DefaultPath)
	if src != registry.SourceQuery && r.opts.PathEnv != "" && ctx.Err() == nil {
		if n := next.AddFromEnv(r.opts.PathEnv); n > 0 {
			logger.Info("Resource paths registered from environment.", "variable", r.opts.PathEnv, "count", n)
		}
	}
	next.AddAll(r.opts.ExtraPaths...)
	if err != nil && !(errors.Is(err, registry.ErrNoSearchPaths) && next.Len() > 0) {
		if errors.Is(err, registry.ErrNoSearchPaths) {
			r.publish(next, nil, registry.SourceNone)
		}
		return err
	}

	paths := next.All()
	models, err := r.scan(ctx, paths)
	if err != nil {
		return err
	}

	r.publish(next, models, src)
	logger.Info("Resource spawner loaded.", "paths", len(paths), "models", len(models), "source", src)
	return nil
}

// publish makes the result of a finished load visible to readers.
func (r *ResourceSpawner) publish(paths *registry.PathRegistry, models []model.DiscoveredModel, src registry.Source) {
	r.opts.Registry.Replace(paths)

	r.mu.Lock()
	r.models = models
	r.source = src
	r.mu.Unlock()

	r.opts.Paths.ReplaceAll(paths.All())
	r.opts.Grid.ReplaceAll(models)
}

func (r *ResourceSpawner) scan(ctx context.Context, paths []string) ([]model.DiscoveredModel, error) {
	if r.opts.Scanner == nil {
		return nil, errors.New("resource spawner: no scanner configured")
	}
	return r.opts.Scanner.Scan(ctx, paths)
}

// Spawn sends the description at path to the spawn sink.
func (r *ResourceSpawner) Spawn(ctx context.Context, descriptionPath string) error {
	if r.opts.Spawner == nil {
		return errors.New("resource spawner: no spawner configured")
	}
	return r.opts.Spawner.SpawnPath(ctxlog.With(ctx, "panel", "resource_spawner"), descriptionPath)
}

// OnResourceSpawn is the selection handler: it reads and forwards the
// description on a background goroutine.
func (r *ResourceSpawner) OnResourceSpawn(ctx context.Context, descriptionPath string) <-chan error {
	return r.worker.goCtx(ctx, func(ctx context.Context) error {
		err := r.Spawn(ctx, descriptionPath)
		if err != nil {
			ctxlog.FromContext(ctx).Error("Spawn failed.", "path", descriptionPath, "error", err)
		}
		return err
	})
}

// Models returns the records from the last completed scan.
func (r *ResourceSpawner) Models() []model.DiscoveredModel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.DiscoveredModel(nil), r.models...)
}

// Source reports where the current search paths came from.
func (r *ResourceSpawner) Source() registry.Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.source
}

// Grid returns the grid model widgets bind to.
func (r *ResourceSpawner) Grid() *presentation.GridModel { return r.opts.Grid }

// Paths returns the path-list model widgets bind to.
func (r *ResourceSpawner) Paths() *presentation.PathModel { return r.opts.Paths }

// Registry returns the panel's path registry.
func (r *ResourceSpawner) Registry() *registry.PathRegistry { return r.opts.Registry }
