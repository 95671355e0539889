package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/luccosta/ign-gazebo/internal/config"
	"github.com/luccosta/ign-gazebo/internal/ctxlog"
	"github.com/luccosta/ign-gazebo/internal/model"
	"github.com/luccosta/ign-gazebo/internal/panel"
	"github.com/luccosta/ign-gazebo/internal/registry"
	"github.com/luccosta/ign-gazebo/internal/resourcepaths"
	"github.com/luccosta/ign-gazebo/internal/scanner"
	"github.com/luccosta/ign-gazebo/internal/sdf"
	"github.com/luccosta/ign-gazebo/internal/sink"
	"github.com/luccosta/ign-gazebo/internal/spawn"
)

// Option customises NewApp. Used by tests and embedding front ends.
type Option func(*options)

type options struct {
	querier resourcepaths.Querier
}

// WithQuerier replaces the querier chosen from configuration.
func WithQuerier(q resourcepaths.Querier) Option {
	return func(o *options) { o.querier = q }
}

// App encapsulates the spawner's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *config.Model

	registry *registry.PathRegistry
	querier  resourcepaths.Querier
	scanner  *scanner.Scanner
	spawner  *spawn.Spawner
	writer   *sink.Writer
	bridge   *sink.Bridge

	resource *panel.ResourceSpawner
	insert   *panel.InsertModel

	// serving routes payloads to the bridge as well as the writer.
	serving atomic.Bool

	mu         sync.Mutex
	httpServer *http.Server
}

// NewApp loads configuration through loader, applies the command-line
// overrides in appConfig and builds every component. Spawn payloads are
// written to outW; logs go to logW.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Flags may set the level before the file is read.
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	cfg, err := loader.Load(ctx, appConfig.ConfigPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	applyOverrides(cfg, appConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger = newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Configuration loaded.", "search_paths", len(cfg.SearchPaths), "default_path", cfg.DefaultPath)

	policy, err := scanner.ParsePolicy(cfg.Traversal)
	if err != nil {
		return nil, err
	}

	a := &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: registry.New(),
		querier:  o.querier,
		scanner: scanner.New(
			sdf.NewConfigLocator(cfg.SDFVersion),
			scanner.WithPolicy(policy),
			scanner.WithWorkers(cfg.ScanWorkers),
		),
		writer: sink.NewWriter(outW, cfg.Highlight.Enabled, cfg.Highlight.Style),
	}
	if a.querier == nil {
		a.querier = newQuerier(cfg)
	}
	a.bridge = sink.NewBridge(ctx, sink.BridgeOptions{
		SpawnEvent: cfg.Bridge.SpawnEvent,
		PathsEvent: cfg.Bridge.PathsEvent,
		Paths:      a.registry.All,
	})
	a.spawner = spawn.NewSpawner(spawn.NewBuilder(), spawn.SinkFunc(a.dispatch))

	a.resource = panel.NewResourceSpawner(panel.ResourceSpawnerOptions{
		Registry:    a.registry,
		Querier:     a.querier,
		DefaultPath: cfg.DefaultPath,
		PathEnv:     fallbackPathEnv(cfg),
		ExtraPaths:  cfg.SearchPaths,
		Scanner:     a.scanner,
		Spawner:     a.spawner,
	})
	a.insert = panel.NewInsertModel(panel.InsertModelOptions{
		Roots:   insertRoots(cfg),
		Scanner: a.scanner,
		Spawner: a.spawner,
	})

	logger.Debug("Components wired.", "querier", fmt.Sprint(a.querier), "traversal", policy)
	return a, nil
}

func applyOverrides(cfg *config.Model, ac *Config) {
	if ac.LogLevel != "" {
		cfg.LogLevel = ac.LogLevel
	}
	if ac.LogFormat != "" {
		cfg.LogFormat = ac.LogFormat
	}
	if ac.HealthcheckPort > 0 {
		cfg.HealthcheckPort = ac.HealthcheckPort
	}
	if ac.DefaultPath != "" {
		cfg.DefaultPath = ac.DefaultPath
	}
	if ac.Traversal != "" {
		cfg.Traversal = ac.Traversal
	}
	if ac.NoQuery {
		cfg.ResourceQuery.Enabled = false
	}
	cfg.SearchPaths = append(cfg.SearchPaths, ac.SearchPaths...)
}

// newQuerier picks the socket.io request when enabled and the environment
// variable otherwise.
func newQuerier(cfg *config.Model) resourcepaths.Querier {
	if !cfg.ResourceQuery.Enabled {
		return resourcepaths.Env{Name: cfg.ResourcePathEnv}
	}
	return resourcepaths.NewSocketIO(resourcepaths.SocketIOOptions{
		URL:       cfg.ResourceQuery.URL,
		Namespace: cfg.ResourceQuery.Namespace,
		Event:     cfg.ResourceQuery.Event,
		Timeout:   cfg.ResourceQuery.Timeout,
	})
}

// fallbackPathEnv is the variable consulted when the socket.io request gets
// no answer. With the request disabled the Env querier already reads it.
func fallbackPathEnv(cfg *config.Model) string {
	if !cfg.ResourceQuery.Enabled {
		return ""
	}
	return cfg.ResourcePathEnv
}

// insertRoots are the directories the shape panel scans for its box model.
func insertRoots(cfg *config.Model) []string {
	var roots []string
	if cfg.DefaultPath != "" {
		roots = append(roots, cfg.DefaultPath)
	}
	return append(roots, cfg.SearchPaths...)
}

func (a *App) dispatch(ctx context.Context, p model.SpawnPayload) error {
	a.mu.Lock()
	w := a.writer
	a.mu.Unlock()

	if a.serving.Load() {
		return spawn.MultiSink{w, a.bridge}.Spawn(ctx, p)
	}
	return w.Spawn(ctx, p)
}

// SetOutput redirects printed payloads, e.g. into a terminal UI pane.
func (a *App) SetOutput(w io.Writer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.writer = sink.NewWriter(w, a.config.Highlight.Enabled, a.config.Highlight.Style)
}

// Context returns parent carrying the app's logger.
func (a *App) Context(parent context.Context) context.Context {
	return ctxlog.WithLogger(parent, a.logger)
}

// Config returns the effective configuration.
func (a *App) Config() *config.Model { return a.config }

// Logger returns the app's logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// ResourceSpawner returns the resource spawner panel.
func (a *App) ResourceSpawner() *panel.ResourceSpawner { return a.resource }

// InsertModel returns the shape panel.
func (a *App) InsertModel() *panel.InsertModel { return a.insert }

// Bridge returns the socket.io bridge. It only receives payloads while Run
// is active.
func (a *App) Bridge() *sink.Bridge { return a.bridge }

// LoadResources populates the registry and scans every registered path.
func (a *App) LoadResources(ctx context.Context) ([]model.DiscoveredModel, error) {
	if err := a.resource.Load(a.Context(ctx)); err != nil {
		return nil, err
	}
	return a.resource.Models(), nil
}

// Paths returns the registered search roots from the last load.
func (a *App) Paths() []string {
	return a.registry.All()
}

// SpawnPath emits the description file at path.
func (a *App) SpawnPath(ctx context.Context, path string) error {
	return a.resource.Spawn(a.Context(ctx), path)
}

// Insert scans the shape panel's roots and handles keyword.
func (a *App) Insert(ctx context.Context, keyword string) error {
	ctx = a.Context(ctx)
	if err := a.insert.Load(ctx); err != nil {
		return err
	}
	return a.insert.OnMode(ctx, keyword)
}
