package driven

import (
	"context"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

// StateStore holds the single pending CSRF state of an authorization flow.
type StateStore interface {
	// Save replaces the pending state and its authorization details.
	Save(ctx context.Context, state string, pending domain.PendingAuthorization) error

	// Take returns the pending state and clears the slot.
	// Returns "", false if no state is pending.
	Take(ctx context.Context) (string, bool, error)

	// Pending returns the authorization details of the pending state
	// without clearing it. Returns nil if nothing is pending.
	Pending(ctx context.Context) (*domain.PendingAuthorization, error)
}
