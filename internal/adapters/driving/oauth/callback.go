// Package oauth serves the provider redirect that completes an
// authorization round trip.
package oauth

import (
	"errors"
	"fmt"
	"html"
	"net/http"

	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driving"
	"github.com/custodia-labs/revlink/internal/logger"
)

// Result reports how a callback ended.
type Result struct {
	Provider domain.Provider
	Err      error
}

// CallbackHandler completes authorizations arriving on the redirect URI.
type CallbackHandler struct {
	oauth   driving.OAuthService
	results chan Result
}

// NewCallbackHandler creates a callback handler backed by svc.
func NewCallbackHandler(svc driving.OAuthService) *CallbackHandler {
	return &CallbackHandler{
		oauth:   svc,
		results: make(chan Result, 1),
	}
}

// Register mounts the callback routes on mux. The provider-less route
// resolves the provider from the pending authorization.
func (h *CallbackHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /oauth/callback/{provider}", h.handleProvider)
	mux.HandleFunc("GET /callback", h.handlePending)
}

// Results delivers the outcome of each completed callback. Outcomes
// nobody is waiting for are dropped.
func (h *CallbackHandler) Results() <-chan Result {
	return h.results
}

func (h *CallbackHandler) handleProvider(w http.ResponseWriter, r *http.Request) {
	provider := domain.Provider(r.PathValue("provider"))
	if !provider.IsValid() {
		h.finish(w, provider, http.StatusNotFound, fmt.Errorf("%w: %q", domain.ErrUnsupportedProvider, provider))
		return
	}
	h.complete(w, r, provider)
}

func (h *CallbackHandler) handlePending(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.oauth.PendingProvider(r.Context())
	if !ok {
		h.finish(w, "", http.StatusBadRequest, domain.ErrCsrfMismatch)
		return
	}
	h.complete(w, r, provider)
}

func (h *CallbackHandler) complete(w http.ResponseWriter, r *http.Request, provider domain.Provider) {
	query := r.URL.Query()
	state := query.Get("state")

	// A denied or code-less callback still burns the pending state.
	if errParam := query.Get("error"); errParam != "" {
		h.oauth.AbandonAuthorization(r.Context(), provider, state)
		err := domain.NewAuthError(provider, "authorize",
			fmt.Errorf("%s - %s", errParam, query.Get("error_description")))
		h.finish(w, provider, http.StatusBadRequest, err)
		return
	}

	code := query.Get("code")
	if code == "" {
		h.oauth.AbandonAuthorization(r.Context(), provider, state)
		h.finish(w, provider, http.StatusBadRequest, fmt.Errorf("%w: no authorization code received", domain.ErrInvalidInput))
		return
	}

	err := h.oauth.CompleteAuthorization(r.Context(), provider, code, state)
	h.finish(w, provider, statusFor(err), err)
}

func (h *CallbackHandler) finish(w http.ResponseWriter, provider domain.Provider, status int, err error) {
	select {
	case h.results <- Result{Provider: provider, Err: err}:
	default:
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err != nil {
		logger.Warn("oauth callback for %s: %v", provider, err)
		_, _ = fmt.Fprint(w, resultHTML("Authorization failed", describe(err)))
		return
	}
	_, _ = fmt.Fprint(w, resultHTML(
		fmt.Sprintf("Connected to %s", provider.DisplayName()),
		"You can close this window and return to the application.",
	))
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrCsrfMismatch), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnsupportedProvider):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAuth):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func describe(err error) string {
	if errors.Is(err, domain.ErrCsrfMismatch) {
		return "The authorization request expired or was not started here. Please try again."
	}
	return err.Error()
}

//nolint:misspell // CSS properties use American spelling
func resultHTML(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>revlink - OAuth Callback</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #FAFAFA;
        }
        .container {
            text-align: center;
            background: white;
            padding: 48px 64px;
            border-radius: 16px;
            border: 1px solid #C7C8CC;
        }
        h1 { color: #333F50; margin: 0 0 8px 0; font-size: 24px; }
        p { color: #7B8088; margin: 0; font-size: 16px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(message))
}
