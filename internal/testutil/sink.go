package testutil

import (
	"context"
	"sync"

	"github.com/luccosta/ign-gazebo/internal/model"
)

// RecordingSink captures every payload handed to it.
type RecordingSink struct {
	mu       sync.Mutex
	payloads []model.SpawnPayload
	// Err, when set, is returned from every Spawn call after recording.
	Err error
}

// Spawn records p.
func (s *RecordingSink) Spawn(_ context.Context, p model.SpawnPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, p)
	return s.Err
}

// Payloads returns a copy of everything received so far.
func (s *RecordingSink) Payloads() []model.SpawnPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.SpawnPayload(nil), s.payloads...)
}

// Len returns the number of payloads received.
func (s *RecordingSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}
