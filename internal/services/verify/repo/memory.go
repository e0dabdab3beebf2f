package repo

import (
	"context"
	"sync"

	"github.com/samtvlabs/bonsai-experiment/internal/core/receipt"
	"github.com/samtvlabs/bonsai-experiment/internal/services/verify/domain"
)

// Memory is an in-process domain.StorePort for tests and ephemeral runs
type Memory struct {
	mu sync.Mutex
	m  map[receipt.Digest]bool
}

// NewMemory constructs an empty in-memory store
func NewMemory() *Memory {
	return &Memory{m: make(map[receipt.Digest]bool)}
}

var _ domain.StorePort = (*Memory)(nil)

// Get implements domain.StorePort
func (s *Memory) Get(_ context.Context, d receipt.Digest) (bool, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[d]
	return v, ok, nil
}

// Put implements domain.StorePort
func (s *Memory) Put(_ context.Context, d receipt.Digest, value bool) (domain.PutOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.m[d]
	switch {
	case !ok:
		s.m[d] = value
		return domain.PutInserted, nil
	case cur == value:
		return domain.PutAlreadySame, nil
	default:
		return domain.PutConflict, nil
	}
}

// Stats implements domain.StorePort
func (s *Memory) Stats(_ context.Context) (domain.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := domain.Stats{Total: int64(len(s.m))}
	for _, v := range s.m {
		if v {
			out.True++
		} else {
			out.False++
		}
	}
	return out, nil
}
