// Package memory provides in-process adapters: a FrameStore for recordings
// that never leave the process and a paired Conduit for running mutator and
// renderer in one binary.
package memory

import (
	"context"
	"sync"

	"github.com/algomation/marionette/pkg/domain"
)

// Store implements ports.FrameStore in memory. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	runs map[string][]domain.Frame
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{runs: make(map[string][]domain.Frame)}
}

// Append adds the next frame of a run, creating the run on first append.
// Frames are deep-copied so the caller cannot mutate the recording.
func (s *Store) Append(ctx context.Context, runID string, f domain.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[runID] = append(s.runs[runID], f.Clone())
	return nil
}

// Frames returns a deep copy of the recording.
func (s *Store) Frames(ctx context.Context, runID string) ([]domain.Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	frames, ok := s.runs[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	out := make([]domain.Frame, len(frames))
	for i, f := range frames {
		out[i] = f.Clone()
	}
	return out, nil
}

// Count reports the recording length.
func (s *Store) Count(ctx context.Context, runID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	frames, ok := s.runs[runID]
	if !ok {
		return 0, domain.ErrRunNotFound
	}
	return len(frames), nil
}

// Delete removes a recording.
func (s *Store) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, runID)
	return nil
}

// List returns the known run ids.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	return ids, nil
}
