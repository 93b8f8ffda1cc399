// Package memory provides in-memory implementations of driven ports.
// State lives only as long as the process; used by tests and by the
// memory storage backend.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/revlink/internal/core/ports/driven"
)

// Ensure KeyValueStore implements the interface.
var _ driven.KeyValueStore = (*KeyValueStore)(nil)

// KeyValueStore is an in-memory implementation of driven.KeyValueStore.
type KeyValueStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewKeyValueStore creates a new empty in-memory store.
func NewKeyValueStore() *KeyValueStore {
	return &KeyValueStore{
		values: make(map[string]string),
	}
}

// Get returns the value for key and whether it exists.
func (s *KeyValueStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok, nil
}

// Set stores value under key.
func (s *KeyValueStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete removes key.
func (s *KeyValueStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Keys returns all keys with prefix, sorted.
func (s *KeyValueStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored keys.
func (s *KeyValueStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
