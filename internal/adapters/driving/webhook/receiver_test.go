package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driving"
)

// fakeWebhooks serves a fixed webhook list.
type fakeWebhooks struct {
	driving.WebhookService
	list     []domain.WebhookConfig
	statuses map[string]domain.WebhookStatus
}

func (f *fakeWebhooks) ListAll(context.Context) ([]domain.WebhookConfig, error) {
	return f.list, nil
}

func (f *fakeWebhooks) UpdateStatus(_ context.Context, id string, status domain.WebhookStatus) {
	if f.statuses == nil {
		f.statuses = make(map[string]domain.WebhookStatus)
	}
	f.statuses[id] = status
}

// fakeDeliveries records what it is given.
type fakeDeliveries struct {
	driving.DeliveryService
	recorded  []domain.WebhookEvent
	processed []string
}

func (f *fakeDeliveries) MarkProcessed(_ context.Context, webhookID, eventID string) error {
	f.processed = append(f.processed, webhookID+"/"+eventID)
	return nil
}

func (f *fakeDeliveries) RecordDelivery(
	_ context.Context,
	webhookID, eventName string,
	payload json.RawMessage,
) (*domain.WebhookEvent, error) {
	evt := domain.WebhookEvent{ID: "evt_1", WebhookID: webhookID, Event: eventName, Payload: payload}
	f.recorded = append(f.recorded, evt)
	return &evt, nil
}

const (
	testSecret = "s3cret"
	payload    = `{"action":"opened","repository":{"full_name":"acme/web"}}`
)

func sign(body, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func setup(t *testing.T) (*fakeWebhooks, *fakeDeliveries, *http.ServeMux) {
	t.Helper()
	hooks := &fakeWebhooks{list: []domain.WebhookConfig{
		{ID: "wh_1", RepositoryID: 42, RepositoryName: "acme/web", Provider: domain.ProviderGitHub, Secret: testSecret},
		{ID: "wh_2", RepositoryID: 43, RepositoryName: "acme/web", Provider: domain.ProviderBitbucket, Secret: testSecret},
	}}
	deliveries := &fakeDeliveries{}
	mux := http.NewServeMux()
	NewReceiver(hooks, deliveries).Register(mux)
	return hooks, deliveries, mux
}

func post(mux *http.ServeMux, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestReceiver_GitHubDelivery(t *testing.T) {
	_, deliveries, mux := setup(t)

	rec := post(mux, "/api/webhooks/github", payload, map[string]string{
		"X-GitHub-Event":      "pull_request",
		"X-Hub-Signature-256": sign(payload, testSecret),
	})

	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	require.Len(t, deliveries.recorded, 1)
	assert.Equal(t, "wh_1", deliveries.recorded[0].WebhookID)
	assert.Equal(t, "pull_request", deliveries.recorded[0].Event)
	assert.JSONEq(t, payload, string(deliveries.recorded[0].Payload))

	var resp deliveryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "evt_1", resp.ID)
}

func TestReceiver_BitbucketDelivery(t *testing.T) {
	_, deliveries, mux := setup(t)

	rec := post(mux, "/api/webhooks/bitbucket", payload, map[string]string{
		"X-Event-Key":     "pullrequest:created",
		"X-Hub-Signature": sign(payload, testSecret),
	})

	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	require.Len(t, deliveries.recorded, 1)
	assert.Equal(t, "wh_2", deliveries.recorded[0].WebhookID)
	assert.Equal(t, "pullrequest:created", deliveries.recorded[0].Event)
}

func TestReceiver_BadSignature(t *testing.T) {
	_, deliveries, mux := setup(t)

	rec := post(mux, "/api/webhooks/github", payload, map[string]string{
		"X-GitHub-Event":      "pull_request",
		"X-Hub-Signature-256": sign(payload, "wrong"),
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, deliveries.recorded)
}

func TestReceiver_MissingSignature(t *testing.T) {
	_, deliveries, mux := setup(t)

	rec := post(mux, "/api/webhooks/github", payload, map[string]string{
		"X-GitHub-Event": "pull_request",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, deliveries.recorded)
}

func TestReceiver_PingMarksActive(t *testing.T) {
	hooks, deliveries, mux := setup(t)

	rec := post(mux, "/api/webhooks/github", payload, map[string]string{
		"X-GitHub-Event":      "ping",
		"X-Hub-Signature-256": sign(payload, testSecret),
	})

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, domain.WebhookActive, hooks.statuses["wh_1"])
	assert.Equal(t, []string{"wh_1/evt_1"}, deliveries.processed)
}

func TestReceiver_EventLeftUnprocessed(t *testing.T) {
	_, deliveries, mux := setup(t)

	rec := post(mux, "/api/webhooks/github", payload, map[string]string{
		"X-GitHub-Event":      "pull_request",
		"X-Hub-Signature-256": sign(payload, testSecret),
	})

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, deliveries.processed)
}

// failingBody errors on the first read.
type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestReceiver_BodyReadErrors(t *testing.T) {
	tests := []struct {
		name   string
		reader bool
		want   int
	}{
		{name: "oversized payload", want: http.StatusRequestEntityTooLarge},
		{name: "broken connection", reader: true, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, deliveries, mux := setup(t)
			var req *http.Request
			if tt.reader {
				req = httptest.NewRequest(http.MethodPost, "/api/webhooks/github", failingBody{})
			} else {
				big := `{"pad":"` + strings.Repeat("x", MaxPayloadBytes) + `"}`
				req = httptest.NewRequest(http.MethodPost, "/api/webhooks/github", strings.NewReader(big))
			}
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Empty(t, deliveries.recorded)
		})
	}
}

func TestReceiver_UnknownRepository(t *testing.T) {
	_, deliveries, mux := setup(t)
	body := `{"repository":{"full_name":"acme/other"}}`

	rec := post(mux, "/api/webhooks/github", body, map[string]string{
		"X-GitHub-Event":      "pull_request",
		"X-Hub-Signature-256": sign(body, testSecret),
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, deliveries.recorded)
}

func TestReceiver_ProviderWithoutWebhooks(t *testing.T) {
	_, _, mux := setup(t)

	rec := post(mux, "/api/webhooks/jira", payload, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReceiver_RejectsNonJSON(t *testing.T) {
	_, _, mux := setup(t)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/github", strings.NewReader("payload=%7B%7D"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestReceiver_InvalidJSON(t *testing.T) {
	_, _, mux := setup(t)

	rec := post(mux, "/api/webhooks/github", "{not json", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReceiver_GetNotAllowed(t *testing.T) {
	_, _, mux := setup(t)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/webhooks/github", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
