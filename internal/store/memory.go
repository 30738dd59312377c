package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
// The value does not survive a restart.
type MemoryStore struct {
	mu sync.RWMutex

	lastCity  string
	updatedAt time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// LastCity returns the stored name, or "" if nothing was saved yet.
func (s *MemoryStore) LastCity(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastCity, nil
}

// SaveLastCity overwrites the stored name. Last write wins.
func (s *MemoryStore) SaveLastCity(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCity = name
	s.updatedAt = time.Now().UTC()
	return nil
}

// UpdatedAt returns when the name was last written.
func (s *MemoryStore) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

func (s *MemoryStore) Close() error {
	return nil
}
