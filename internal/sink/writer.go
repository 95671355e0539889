// Package sink provides destinations for spawn payloads: a terminal writer
// and a socket.io bridge that forwards spawn requests to scene clients.
package sink

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/luccosta/ign-gazebo/internal/model"
)

// Writer prints each payload to an io.Writer, optionally highlighted.
type Writer struct {
	mu        sync.Mutex
	w         io.Writer
	highlight bool
	style     string
}

// NewWriter returns a Writer. An empty style selects DefaultStyle.
func NewWriter(w io.Writer, highlight bool, style string) *Writer {
	return &Writer{w: w, highlight: highlight, style: style}
}

// Spawn implements spawn.Sink.
func (s *Writer) Spawn(_ context.Context, p model.SpawnPayload) error {
	body := p.SDF
	if s.highlight {
		body = Highlight(body, s.style)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.w, "# spawn %s\n", p.Source); err != nil {
		return err
	}
	_, err := io.WriteString(s.w, body)
	return err
}
