// Package store persists knowledge fragments. The memory flavor preserves
// insertion order, which the keyword fallback relies on for stable results.
package store

import (
	"context"
	"sync"

	"sellarte/internal/knowledge"
	id "sellarte/pkg/domain"
	"sellarte/pkg/sentinel"
)

// Memory is a mutex-guarded in-memory fragment store.
type Memory struct {
	mu        sync.RWMutex
	fragments map[id.FragmentID]*knowledge.Fragment
	order     []id.FragmentID
}

func NewMemory() *Memory {
	return &Memory{fragments: make(map[id.FragmentID]*knowledge.Fragment)}
}

func (s *Memory) Upsert(_ context.Context, fragment knowledge.Fragment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.fragments[fragment.ID]; !ok {
		s.order = append(s.order, fragment.ID)
	}
	cp := fragment
	cp.Embedding = append([]float32(nil), fragment.Embedding...)
	s.fragments[fragment.ID] = &cp
	return nil
}

// List returns all fragments in insertion order.
func (s *Memory) List(_ context.Context) ([]knowledge.Fragment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]knowledge.Fragment, 0, len(s.order))
	for _, fragmentID := range s.order {
		out = append(out, *s.fragments[fragmentID])
	}
	return out, nil
}

func (s *Memory) Delete(_ context.Context, fragmentID id.FragmentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.fragments[fragmentID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.fragments, fragmentID)
	for i, existing := range s.order {
		if existing == fragmentID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Memory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fragments), nil
}
