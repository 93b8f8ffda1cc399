package kv

import (
	"context"
	"fmt"

	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driven"
)

// stateStore implements driven.StateStore over the oauth_state slot.
type stateStore struct {
	layout *Layout
}

var _ driven.StateStore = (*stateStore)(nil)

// Save replaces the pending state.
func (s *stateStore) Save(ctx context.Context, state string, pending domain.PendingAuthorization) error {
	s.layout.mu.Lock()
	defer s.layout.mu.Unlock()

	if err := s.layout.writeJSON(ctx, pendingKey, pending); err != nil {
		return err
	}
	if err := s.layout.kv.Set(ctx, stateKey, state); err != nil {
		return fmt.Errorf("writing %s: %w", stateKey, err)
	}
	return nil
}

// Take returns the pending state and clears the slot.
func (s *stateStore) Take(ctx context.Context) (string, bool, error) {
	s.layout.mu.Lock()
	defer s.layout.mu.Unlock()

	state, ok, err := s.layout.kv.Get(ctx, stateKey)
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", stateKey, err)
	}
	if err := s.layout.kv.Delete(ctx, stateKey); err != nil {
		return "", false, fmt.Errorf("deleting %s: %w", stateKey, err)
	}
	if err := s.layout.kv.Delete(ctx, pendingKey); err != nil {
		return "", false, fmt.Errorf("deleting %s: %w", pendingKey, err)
	}
	return state, ok, nil
}

// Pending returns the details of the pending state, or nil.
func (s *stateStore) Pending(ctx context.Context) (*domain.PendingAuthorization, error) {
	s.layout.mu.Lock()
	defer s.layout.mu.Unlock()

	if _, ok, err := s.layout.kv.Get(ctx, stateKey); err != nil || !ok {
		return nil, err
	}

	var pending domain.PendingAuthorization
	found, err := s.layout.readJSON(ctx, pendingKey, &pending)
	if err != nil || !found {
		return nil, err
	}
	return &pending, nil
}
