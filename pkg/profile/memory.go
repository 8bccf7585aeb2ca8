package profile

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore is an in-memory Store. It is safe for concurrent use and
// suitable for tests and single-process deployments where stickiness does
// not need to survive a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]map[string]string)}
}

// Lookup returns a copy of the user's assignments so callers can never
// mutate shared state.
func (m *MemoryStore) Lookup(_ context.Context, userID string) (map[string]string, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	m.mu.RLock()
	stored, ok := m.profiles[userID]
	if !ok {
		m.mu.RUnlock()
		return nil, ErrNotFound
	}
	out := maps.Clone(stored)
	m.mu.RUnlock()

	return out, nil
}

// Save records one assignment, creating the user's profile on first write.
func (m *MemoryStore) Save(_ context.Context, userID, experimentID, variationID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.profiles[userID]
	if !ok {
		stored = make(map[string]string, 1)
		m.profiles[userID] = stored
	}
	stored[experimentID] = variationID
	return nil
}
