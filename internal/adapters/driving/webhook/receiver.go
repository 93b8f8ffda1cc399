// Package webhook receives provider event deliveries and records them
// against the registered webhook.
package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driving"
	"github.com/custodia-labs/revlink/internal/logger"
)

// MaxPayloadBytes bounds the size of an accepted delivery.
const MaxPayloadBytes = 25 << 20

const (
	bitbucketEventHeader = "X-Event-Key"
	githubPingEvent      = "ping"
	bitbucketTestEvent   = "diagnostics:ping"
)

// Receiver verifies incoming deliveries and hands them to the delivery log.
type Receiver struct {
	webhooks   driving.WebhookService
	deliveries driving.DeliveryService
}

// NewReceiver creates a receiver.
func NewReceiver(webhooks driving.WebhookService, deliveries driving.DeliveryService) *Receiver {
	return &Receiver{
		webhooks:   webhooks,
		deliveries: deliveries,
	}
}

// Register mounts the delivery route on mux.
func (rc *Receiver) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/webhooks/{provider}", rc.handle)
}

type repositoryEnvelope struct {
	Repository struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
}

type deliveryResponse struct {
	ID      string `json:"id,omitempty"`
	Webhook string `json:"webhook,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (rc *Receiver) handle(w http.ResponseWriter, r *http.Request) {
	provider := domain.Provider(r.PathValue("provider"))
	if !provider.SupportsWebhooks() {
		writeJSON(w, http.StatusNotFound, deliveryResponse{Error: "unknown provider"})
		return
	}

	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mediaType != "application/json" {
		writeJSON(w, http.StatusUnsupportedMediaType, deliveryResponse{Error: "expected application/json"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxPayloadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, deliveryResponse{Error: "payload too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, deliveryResponse{Error: "reading payload failed"})
		return
	}

	var envelope repositoryEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		writeJSON(w, http.StatusBadRequest, deliveryResponse{Error: "payload is not valid JSON"})
		return
	}

	webhook, err := rc.lookup(r, provider, envelope.Repository.FullName)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, deliveryResponse{Error: err.Error()})
		return
	}

	event, err := verify(r, provider, webhook, body)
	if err != nil {
		logger.Warn("rejected %s delivery for %s: %v", provider, webhook.RepositoryName, err)
		writeJSON(w, http.StatusUnauthorized, deliveryResponse{Error: "signature verification failed"})
		return
	}

	recorded, err := rc.deliveries.RecordDelivery(r.Context(), webhook.ID, event, body)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, deliveryResponse{Error: err.Error()})
		return
	}

	// Pings need no downstream dispatch, so they are handled here in full.
	if event == githubPingEvent || event == bitbucketTestEvent {
		rc.webhooks.UpdateStatus(r.Context(), webhook.ID, domain.WebhookActive)
		if err := rc.deliveries.MarkProcessed(r.Context(), webhook.ID, recorded.ID); err != nil {
			logger.Warn("marking ping %s processed: %v", recorded.ID, err)
		}
	}
	writeJSON(w, http.StatusAccepted, deliveryResponse{ID: recorded.ID, Webhook: webhook.ID})
}

// lookup finds the webhook registered for provider and repository.
func (rc *Receiver) lookup(r *http.Request, provider domain.Provider, repository string) (*domain.WebhookConfig, error) {
	if repository == "" {
		return nil, fmt.Errorf("%w: payload names no repository", domain.ErrNotFound)
	}
	webhooks, err := rc.webhooks.ListAll(r.Context())
	if err != nil {
		return nil, err
	}
	for i := range webhooks {
		if webhooks[i].Provider == provider && webhooks[i].RepositoryName == repository {
			return &webhooks[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no webhook for %s", domain.ErrNotFound, repository)
}

// verify checks the delivery signature against the webhook secret and
// returns the event name. Both providers sign with an X-Hub-Signature
// style HMAC.
func verify(r *http.Request, provider domain.Provider, webhook *domain.WebhookConfig, body []byte) (string, error) {
	signature := r.Header.Get(gh.SHA256SignatureHeader)
	if signature == "" {
		signature = r.Header.Get(gh.SHA1SignatureHeader)
	}

	var event string
	switch provider {
	case domain.ProviderGitHub:
		event = gh.WebHookType(r)
	case domain.ProviderBitbucket:
		event = r.Header.Get(bitbucketEventHeader)
	}
	if event == "" {
		return "", errors.New("missing event header")
	}

	if webhook.Secret == "" {
		return event, nil
	}
	if signature == "" {
		return "", errors.New("missing signature")
	}
	if err := gh.ValidateSignature(signature, body, []byte(webhook.Secret)); err != nil {
		return "", err
	}
	return event, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
