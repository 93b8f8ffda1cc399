package services

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driven"
	"github.com/custodia-labs/revlink/internal/logger"
)

// StateGuard issues and validates the anti-forgery state of an
// authorization round trip.
//
// There is a single pending slot: starting a second authorization before
// the first completes replaces the first state, and the first callback
// then fails validation.
type StateGuard struct {
	store driven.StateStore
	now   func() time.Time
}

// NewStateGuard creates a guard backed by store.
func NewStateGuard(store driven.StateStore) *StateGuard {
	return &StateGuard{
		store: store,
		now:   time.Now,
	}
}

// Issue generates a fresh state for provider and stores it as the
// pending state.
func (g *StateGuard) Issue(ctx context.Context, provider domain.Provider, redirectURI string) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", err
	}

	pending := domain.PendingAuthorization{
		Provider:    provider,
		RedirectURI: redirectURI,
		IssuedAt:    g.now().UTC(),
	}
	if err := g.store.Save(ctx, state, pending); err != nil {
		return "", err
	}
	return state, nil
}

// Validate reports whether candidate equals the pending state.
// The pending state is cleared on every call, so a state validates at
// most once.
func (g *StateGuard) Validate(ctx context.Context, candidate string) bool {
	stored, ok, err := g.store.Take(ctx)
	if err != nil {
		logger.Warn("reading pending oauth state: %v", err)
		return false
	}
	if !ok || stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// Pending returns the authorization the pending state belongs to, or nil.
func (g *StateGuard) Pending(ctx context.Context) *domain.PendingAuthorization {
	pending, err := g.store.Pending(ctx)
	if err != nil {
		logger.Warn("reading pending authorization: %v", err)
		return nil
	}
	return pending
}
