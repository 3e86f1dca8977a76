package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps documents in an in-process map. It backs tests and the
// "memory" backend, where state lives only as long as the process.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Load decodes the document under key into dest. Absent or undecodable
// documents leave dest untouched.
func (s *MemoryStore) Load(ctx context.Context, key string, dest any) error {
	s.mu.RLock()
	raw, ok := s.docs[key]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	// Corrupt documents read as empty collections.
	_ = json.Unmarshal(raw, dest)
	return nil
}

// Save marshals value and overwrites the document unconditionally.
func (s *MemoryStore) Save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[key] = raw
	s.mu.Unlock()
	return nil
}

// Delete removes the key. Deleting an absent key is a no-op.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.docs, key)
	s.mu.Unlock()
	return nil
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStore) Close() error { return nil }

// Corrupt overwrites the raw document under key, bypassing serialization.
// Used by tests to exercise the empty-on-parse-failure contract.
func (s *MemoryStore) Corrupt(key string, raw []byte) {
	s.mu.Lock()
	s.docs[key] = raw
	s.mu.Unlock()
}
