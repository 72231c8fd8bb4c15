package persist

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-process slot, used in tests and with STORE_BACKEND=memory
type MemoryStore struct {
	mu      sync.Mutex
	payload []byte
	saves   int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.payload == nil {
		return nil, ErrNotFound
	}
	return slices.Clone(s.payload), nil
}

func (s *MemoryStore) Save(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = slices.Clone(payload)
	s.saves++
	return nil
}

// Saves reports how many times Save succeeded
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
