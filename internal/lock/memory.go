package lock

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Store for tests and single-node development.
// Expired entries are treated as free and overwritten on the next Acquire.
//
// Safe for concurrent use.
type MemoryStore struct {
	mu        sync.Mutex
	deadlines map[string]time.Time

	// now is injectable for deterministic expiry tests.
	now func() time.Time
}

// NewMemoryStore returns an empty in-memory lock store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		deadlines: make(map[string]time.Time),
		now:       time.Now,
	}
}

// Acquire takes the key if it is free or its previous holder's TTL has
// lapsed. It never blocks.
func (s *MemoryStore) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if dl, held := s.deadlines[key]; held && now.Before(dl) {
		return false, nil
	}
	s.deadlines[key] = now.Add(ttl)
	return true, nil
}

// Release frees the key. Releasing an unheld key is a no-op, mirroring the
// Redis DEL semantics.
func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.deadlines, key)
	return nil
}
