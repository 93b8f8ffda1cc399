package file

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/revlink/internal/core/ports/driven"
	"github.com/custodia-labs/revlink/internal/logger"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.revlink/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".revlink")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		data:     make(map[string]any),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, _ := s.Get(key)
	str, _ := val.(string)
	return str
}

// GetStringSlice retrieves a string slice configuration value.
func (s *ConfigStore) GetStringSlice(key string) []string {
	val, _ := s.Get(key)

	// TOML arrays are parsed as []any
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

// Set stores a configuration value and persists immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.save()
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes configuration to the TOML file (caller must hold lock).
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(nestKeys(s.data))
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// Load reads configuration from the TOML file. A missing file yields an
// empty configuration.
func (s *ConfigStore) Load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parsing %s: %w", s.filePath, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = flattenMap(loaded, "")
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Watch reloads the configuration whenever the file is written, created or
// replaced, then calls onChange. It blocks until ctx is done.
// The parent directory is watched so editors that save via rename are seen.
func (s *ConfigStore) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(s.filePath), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.filePath) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Load(); err != nil {
				logger.Warn("reloading config: %v", err)
				continue
			}
			logger.Debug("config reloaded from %s", s.filePath)
			if onChange != nil {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher: %v", err)
		}
	}
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			maps.Copy(result, flattenMap(nested, fullKey))
		} else {
			result[fullKey] = value
		}
	}
	return result
}

// nestKeys is the inverse of flattenMap. When a key is both a value and a
// table prefix the value wins.
func nestKeys(flat map[string]any) map[string]any {
	root := make(map[string]any)
	for _, key := range slices.Sorted(maps.Keys(flat)) {
		parts := strings.Split(key, ".")
		node := root
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				if _, taken := node[part]; taken {
					node = nil
					break
				}
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		if node != nil {
			node[parts[len(parts)-1]] = flat[key]
		}
	}
	return root
}
