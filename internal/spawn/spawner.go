package spawn

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/luccosta/ign-gazebo/internal/ctxlog"
	"github.com/luccosta/ign-gazebo/internal/model"
)

// Sink receives spawn payloads. Implementations must not interpret SDF.
type Sink interface {
	Spawn(ctx context.Context, p model.SpawnPayload) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, p model.SpawnPayload) error

// Spawn calls f.
func (f SinkFunc) Spawn(ctx context.Context, p model.SpawnPayload) error {
	return f(ctx, p)
}

// MultiSink fans a payload out to every sink in order, stopping at the first
// error.
type MultiSink []Sink

// Spawn implements Sink.
func (m MultiSink) Spawn(ctx context.Context, p model.SpawnPayload) error {
	for _, s := range m {
		if err := s.Spawn(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Spawner builds payloads and hands them to a sink synchronously.
type Spawner struct {
	builder *Builder
	sink    Sink
}

// NewSpawner wires a builder to a sink.
func NewSpawner(builder *Builder, sink Sink) *Spawner {
	if builder == nil {
		builder = NewBuilder()
	}
	return &Spawner{builder: builder, sink: sink}
}

// SpawnPath spawns the description file at path.
func (s *Spawner) SpawnPath(ctx context.Context, path string) error {
	p, err := s.builder.BuildFromPath(ctx, path)
	if err != nil {
		return err
	}
	return s.emit(ctx, p)
}

// SpawnShape spawns a primitive by keyword. Recognised shapes without a
// description source are logged and ignored; invalid keywords are logged
// with the accepted set and returned.
func (s *Spawner) SpawnShape(ctx context.Context, keyword, fallbackDescriptionPath string) error {
	logger := ctxlog.FromContext(ctx).With("keyword", keyword)

	p, err := s.builder.BuildFromKeyword(ctx, keyword, fallbackDescriptionPath)
	var invalid *InvalidKeywordError
	switch {
	case err == nil:
	case errors.Is(err, ErrShapeNotImplemented):
		logger.Warn("Shape is not available yet; nothing spawned.")
		return nil
	case errors.As(err, &invalid):
		logger.Warn("Invalid model string " + strings.ToLower(keyword) + ". The valid options are: " + strings.Join(invalid.Valid, ", "))
		return err
	default:
		return err
	}
	return s.emit(ctx, p)
}

func (s *Spawner) emit(ctx context.Context, p model.SpawnPayload) error {
	if s.sink == nil {
		return fmt.Errorf("spawn %s: no sink configured", p.Source)
	}
	if p.Empty() {
		return fmt.Errorf("spawn %s: %w", p.Source, ErrEmptyDescription)
	}
	if err := s.sink.Spawn(ctx, p); err != nil {
		return fmt.Errorf("spawn %s: %w", p.Source, err)
	}
	ctxlog.FromContext(ctx).Info("Spawn requested.", "source", p.Source, "bytes", len(p.SDF))
	return nil
}
