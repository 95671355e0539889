// Package spawn turns a model selection into a payload for a spawn sink.
package spawn

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/luccosta/ign-gazebo/internal/ctxlog"
	"github.com/luccosta/ign-gazebo/internal/model"
)

var (
	// ErrEmptyPath is returned when no description path was given.
	ErrEmptyPath = errors.New("description path is empty")
	// ErrDescriptionUnreadable wraps filesystem errors reading a description.
	ErrDescriptionUnreadable = errors.New("description file unreadable")
	// ErrEmptyDescription is returned by Spawner when a description file has
	// no content. The sink is not called.
	ErrEmptyDescription = errors.New("description file is empty")
	// ErrNoFallbackModel is returned for "box" when no model was discovered.
	ErrNoFallbackModel = errors.New("no discovered model to use for the box shape")
	// ErrShapeNotImplemented is returned for recognised shapes that have no
	// description source yet.
	ErrShapeNotImplemented = errors.New("shape not implemented")
	// ErrInvalidKeyword is the sentinel wrapped by InvalidKeywordError.
	ErrInvalidKeyword = errors.New("invalid shape keyword")
)

// InvalidKeywordError names the rejected keyword and the accepted ones.
type InvalidKeywordError struct {
	Keyword string
	Valid   []string
}

func (e *InvalidKeywordError) Error() string {
	return fmt.Sprintf("invalid shape keyword %q: valid options are %s", e.Keyword, strings.Join(e.Valid, ", "))
}

// Unwrap lets errors.Is match ErrInvalidKeyword.
func (e *InvalidKeywordError) Unwrap() error {
	return ErrInvalidKeyword
}

// Builder reads description files into payloads. The zero value is usable.
type Builder struct {
	readFile func(string) ([]byte, error)
}

// NewBuilder returns a Builder reading from the local filesystem.
func NewBuilder() *Builder {
	return &Builder{readFile: os.ReadFile}
}

// BuildFromPath returns the file's lines, each terminated by a newline. A
// file that already ends with a newline is returned byte for byte.
func (b *Builder) BuildFromPath(ctx context.Context, path string) (model.SpawnPayload, error) {
	if path == "" {
		return model.SpawnPayload{}, ErrEmptyPath
	}
	read := b.readFile
	if read == nil {
		read = os.ReadFile
	}

	data, err := read(path)
	if err != nil {
		return model.SpawnPayload{}, fmt.Errorf("%w: %s: %w", ErrDescriptionUnreadable, path, err)
	}
	ctxlog.FromContext(ctx).Debug("Description loaded.", "path", path, "bytes", len(data))

	return model.SpawnPayload{Source: path, SDF: joinLines(data)}, nil
}

// BuildFromKeyword maps a shape keyword to a payload. Only "box" has a
// source today: the fallback description, normally the first discovered
// model. Keywords are matched case-insensitively.
func (b *Builder) BuildFromKeyword(ctx context.Context, keyword, fallbackDescriptionPath string) (model.SpawnPayload, error) {
	shape, ok := model.ParseShape(keyword)
	if !ok {
		return model.SpawnPayload{}, &InvalidKeywordError{Keyword: keyword, Valid: model.ShapeNames()}
	}

	switch shape {
	case model.ShapeBox:
		if fallbackDescriptionPath == "" {
			return model.SpawnPayload{}, ErrNoFallbackModel
		}
		p, err := b.BuildFromPath(ctx, fallbackDescriptionPath)
		if err != nil {
			return model.SpawnPayload{}, err
		}
		p.Source = string(shape)
		return p, nil
	default:
		return model.SpawnPayload{}, fmt.Errorf("%w: %s", ErrShapeNotImplemented, shape)
	}
}

// joinLines re-terminates every line with '\n'. Only a missing final
// newline can differ from the file contents.
func joinLines(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if data[len(data)-1] != '\n' {
		return string(data) + "\n"
	}
	return string(data)
}
