package memory

import (
	"maps"
	"sync"

	"github.com/custodia-labs/revlink/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is an in-memory driven.ConfigStore. It backs ephemeral runs
// and tests; nothing is persisted.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore creates a config store seeded with values, which may be nil.
func NewConfigStore(values map[string]any) *ConfigStore {
	s := &ConfigStore{values: make(map[string]any, len(values))}
	maps.Copy(s.values, values)
	return s
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	str, _ := lookup[string](s, key)
	return str
}

// GetStringSlice retrieves a string slice configuration value.
func (s *ConfigStore) GetStringSlice(key string) []string {
	val, _ := s.Get(key)
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return nil
	}
}

// Set stores a configuration value.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Path returns ":memory:".
func (s *ConfigStore) Path() string { return ":memory:" }

func lookup[T any](s *ConfigStore, key string) (T, bool) {
	val, ok := s.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := val.(T)
	return typed, ok
}
