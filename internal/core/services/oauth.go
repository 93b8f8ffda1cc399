package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driven"
	"github.com/custodia-labs/revlink/internal/core/ports/driving"
	"github.com/custodia-labs/revlink/internal/logger"
)

// Ensure OAuthService implements the interface.
var _ driving.OAuthService = (*OAuthService)(nil)

// revokeTimeout bounds the best-effort revocation performed on disconnect.
const revokeTimeout = 10 * time.Second

// OAuthService orchestrates the authorize, callback, exchange and store
// sequence for each provider.
type OAuthService struct {
	credentials *CredentialService
	guard       *StateGuard
	gateways    *GatewayRegistry
	presenter   driven.AuthPresenter
	now         func() time.Time
}

// NewOAuthService creates a new OAuth service.
// presenter may be nil, in which case authorization URLs are only returned.
func NewOAuthService(
	credentials *CredentialService,
	guard *StateGuard,
	gateways *GatewayRegistry,
	presenter driven.AuthPresenter,
) *OAuthService {
	return &OAuthService{
		credentials: credentials,
		guard:       guard,
		gateways:    gateways,
		presenter:   presenter,
		now:         time.Now,
	}
}

// IsConnected returns true if an unexpired credential exists for provider.
func (s *OAuthService) IsConnected(ctx context.Context, provider domain.Provider) bool {
	return s.credentials.IsConnected(ctx, provider)
}

// Connect connects immediately in simulated mode, otherwise begins an
// authorization round trip.
func (s *OAuthService) Connect(
	ctx context.Context,
	provider domain.Provider,
	mode domain.PresentationMode,
) (*domain.AuthorizationRequest, error) {
	if mode == domain.PresentationSimulated {
		return nil, s.SimulateConnect(ctx, provider)
	}
	return s.BeginAuthorization(ctx, provider, mode)
}

// BeginAuthorization issues a state, builds the provider's authorization
// URL and presents it. Completion arrives later through CompleteAuthorization.
func (s *OAuthService) BeginAuthorization(
	ctx context.Context,
	provider domain.Provider,
	mode domain.PresentationMode,
) (*domain.AuthorizationRequest, error) {
	if mode != domain.PresentationPopup && mode != domain.PresentationRedirect {
		return nil, fmt.Errorf("%w: presentation mode %q", domain.ErrInvalidInput, mode)
	}

	gw, err := s.gateways.Get(provider)
	if err != nil {
		return nil, err
	}

	state, err := s.guard.Issue(ctx, provider, gw.RedirectURI())
	if err != nil {
		return nil, fmt.Errorf("issuing oauth state: %w", err)
	}

	req := &domain.AuthorizationRequest{
		Provider:    provider,
		URL:         gw.AuthorizeURL(state),
		State:       state,
		RedirectURI: gw.RedirectURI(),
		Mode:        mode,
	}
	logger.Debug("authorization for %s started (%s)", provider, mode)

	if s.presenter != nil {
		if err := s.presenter.Present(ctx, *req); err != nil {
			return req, fmt.Errorf("presenting authorization: %w", err)
		}
	}
	return req, nil
}

// CompleteAuthorization validates state, exchanges code and stores the
// resulting credential. The state is consumed whatever the outcome.
func (s *OAuthService) CompleteAuthorization(ctx context.Context, provider domain.Provider, code, state string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedProvider, provider)
	}
	if !s.guard.Validate(ctx, state) {
		return domain.ErrCsrfMismatch
	}

	gw, err := s.gateways.Get(provider)
	if err != nil {
		return err
	}

	cred, err := gw.ExchangeCode(ctx, code)
	if err != nil {
		return domain.NewAuthError(provider, "exchange code", err)
	}
	// A cancelled caller must not end up with a stored credential.
	if err := ctx.Err(); err != nil {
		return domain.NewAuthError(provider, "exchange code", err)
	}

	if err := s.credentials.Put(ctx, provider, *cred); err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}
	logger.Info("connected to %s", provider)
	return nil
}

// AbandonAuthorization clears the pending state for an authorization
// that will not complete.
func (s *OAuthService) AbandonAuthorization(ctx context.Context, provider domain.Provider, state string) {
	if !s.guard.Validate(ctx, state) {
		logger.Debug("abandoned %s authorization had no matching state", provider)
		return
	}
	logger.Info("authorization for %s abandoned", provider)
}

// PendingProvider returns the provider of the pending authorization.
func (s *OAuthService) PendingProvider(ctx context.Context) (domain.Provider, bool) {
	pending := s.guard.Pending(ctx)
	if pending == nil {
		return "", false
	}
	return pending.Provider, true
}

// SimulateConnect stores a freshly minted credential without any
// handshake. The pending state is left untouched.
func (s *OAuthService) SimulateConnect(ctx context.Context, provider domain.Provider) error {
	cred := domain.NewDemoCredential(provider, s.now())
	if err := s.credentials.Put(ctx, provider, cred); err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}
	logger.Info("connected to %s (simulated)", provider)
	return nil
}

// Disconnect removes the credential for provider. Revocation with the
// provider is attempted first but its failure never prevents removal.
func (s *OAuthService) Disconnect(ctx context.Context, provider domain.Provider) error {
	cred, err := s.credentials.Get(ctx, provider)
	if err != nil {
		return err
	}
	if cred == nil {
		return nil
	}

	if gw, err := s.gateways.Get(provider); err == nil {
		revokeCtx, cancel := context.WithTimeout(ctx, revokeTimeout)
		if err := gw.RevokeToken(revokeCtx, *cred); err != nil {
			logger.Warn("revoking %s token: %v", provider, err)
		}
		cancel()
	}

	if err := s.credentials.Remove(ctx, provider); err != nil {
		return fmt.Errorf("removing credential: %w", err)
	}
	logger.Info("disconnected from %s", provider)
	return nil
}

// UserInfo describes the connection held for provider.
func (s *OAuthService) UserInfo(ctx context.Context, provider domain.Provider) (*domain.UserInfo, error) {
	cred, err := s.credentials.Get(ctx, provider)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, fmt.Errorf("%w to %s", domain.ErrNotConnected, provider)
	}

	info := &domain.UserInfo{
		Provider:       provider,
		Connected:      true,
		TokenExpiresAt: cred.ExpiresAt,
	}
	if gw, err := s.gateways.Get(provider); err == nil {
		account, err := gw.AccountIdentifier(ctx, *cred)
		if err != nil {
			logger.Debug("resolving %s account: %v", provider, err)
		}
		info.Account = account
	}
	return info, nil
}
