package driven

import (
	"context"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

// AuthPresenter shows an authorization URL to the user, either on a
// secondary surface or by taking over navigation.
type AuthPresenter interface {
	Present(ctx context.Context, req domain.AuthorizationRequest) error
}
