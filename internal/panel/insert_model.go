package panel

import (
	"context"
	"errors"
	"sync"

	"github.com/luccosta/ign-gazebo/internal/ctxlog"
	"github.com/luccosta/ign-gazebo/internal/model"
	"github.com/luccosta/ign-gazebo/internal/scanner"
	"github.com/luccosta/ign-gazebo/internal/spawn"
)

// InsertModelOptions wires an InsertModel panel.
type InsertModelOptions struct {
	// Roots are scanned on load; normally the configured default path.
	Roots   []string
	Scanner *scanner.Scanner
	Spawner *spawn.Spawner
}

// InsertModel offers primitive shapes. "box" spawns the first model found
// under its roots.
type InsertModel struct {
	opts   InsertModelOptions
	worker worker

	mu     sync.RWMutex
	models []model.DiscoveredModel
}

// NewInsertModel builds the panel.
func NewInsertModel(opts InsertModelOptions) *InsertModel {
	return &InsertModel{opts: opts}
}

// Activate scans the roots on a background goroutine.
func (p *InsertModel) Activate(ctx context.Context) <-chan error {
	scope := p.worker.activate(ctx)
	return p.worker.goCtx(scope, p.Load)
}

// Deactivate cancels in-flight work and waits for it to stop.
func (p *InsertModel) Deactivate() {
	p.worker.deactivate()
}

// Load scans the configured roots and keeps the records.
func (p *InsertModel) Load(ctx context.Context) error {
	ctx = ctxlog.With(ctx, "panel", "insert_model")
	if p.opts.Scanner == nil {
		return errors.New("insert model: no scanner configured")
	}
	models, err := p.opts.Scanner.Scan(ctx, p.opts.Roots)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.models = models
	p.mu.Unlock()

	ctxlog.FromContext(ctx).Info("Insert model loaded.", "roots", len(p.opts.Roots), "models", len(models))
	return nil
}

// Models returns the records from the last completed scan.
func (p *InsertModel) Models() []model.DiscoveredModel {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]model.DiscoveredModel(nil), p.models...)
}

// fallbackDescription is the description of the first discovered model.
func (p *InsertModel) fallbackDescription() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.models) == 0 {
		return ""
	}
	return p.models[0].DescriptionPath
}

// OnMode handles a shape keyword chosen by the user.
func (p *InsertModel) OnMode(ctx context.Context, keyword string) error {
	if p.opts.Spawner == nil {
		return errors.New("insert model: no spawner configured")
	}
	ctx = ctxlog.With(ctx, "panel", "insert_model")
	return p.opts.Spawner.SpawnShape(ctx, keyword, p.fallbackDescription())
}

// OnModeAsync runs OnMode on a background goroutine.
func (p *InsertModel) OnModeAsync(ctx context.Context, keyword string) <-chan error {
	return p.worker.goCtx(ctx, func(ctx context.Context) error {
		err := p.OnMode(ctx, keyword)
		if err != nil {
			ctxlog.FromContext(ctx).Error("Insert failed.", "keyword", keyword, "error", err)
		}
		return err
	})
}
