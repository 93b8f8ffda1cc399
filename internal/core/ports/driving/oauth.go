package driving

import (
	"context"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

// OAuthService manages the trust relationship with each provider.
type OAuthService interface {
	// IsConnected returns true if an unexpired credential exists for provider.
	IsConnected(ctx context.Context, provider domain.Provider) bool

	// Connect drives a connection toggle. Simulated mode connects
	// immediately and returns nil; other modes begin authorization and
	// return the request.
	Connect(ctx context.Context, provider domain.Provider, mode domain.PresentationMode) (*domain.AuthorizationRequest, error)

	// BeginAuthorization issues a CSRF state, builds the authorization URL
	// and presents it. The credential arrives later via CompleteAuthorization.
	BeginAuthorization(ctx context.Context, provider domain.Provider, mode domain.PresentationMode) (*domain.AuthorizationRequest, error)

	// CompleteAuthorization validates state and exchanges code for a credential.
	// Returns domain.ErrCsrfMismatch if state is invalid.
	CompleteAuthorization(ctx context.Context, provider domain.Provider, code, state string) error

	// AbandonAuthorization consumes the pending state after the provider
	// denied the request or returned no code, so the state cannot be
	// replayed later.
	AbandonAuthorization(ctx context.Context, provider domain.Provider, state string)

	// PendingProvider returns the provider the pending state was issued for.
	PendingProvider(ctx context.Context) (domain.Provider, bool)

	// SimulateConnect stores a freshly minted credential without a handshake.
	SimulateConnect(ctx context.Context, provider domain.Provider) error

	// Disconnect revokes (best effort) and removes the credential.
	// Succeeds as a no-op when not connected.
	Disconnect(ctx context.Context, provider domain.Provider) error

	// UserInfo describes the connection.
	// Returns domain.ErrNotConnected if no credential exists.
	UserInfo(ctx context.Context, provider domain.Provider) (*domain.UserInfo, error)
}
