package domain

import (
	"encoding/json"
	"time"
)

// WebhookStatus is the health of a registered webhook.
type WebhookStatus string

const (
	WebhookActive   WebhookStatus = "active"
	WebhookInactive WebhookStatus = "inactive"
	WebhookPending  WebhookStatus = "pending"
	WebhookError    WebhookStatus = "error"
)

// IsValid returns true if the status is recognised.
func (s WebhookStatus) IsValid() bool {
	switch s {
	case WebhookActive, WebhookInactive, WebhookPending, WebhookError:
		return true
	default:
		return false
	}
}

// WebhookConfig is an event subscription registered for one repository.
// At most one exists per RepositoryID.
type WebhookConfig struct {
	ID             string        `json:"id"`
	RepositoryID   int64         `json:"repositoryId"`
	RepositoryName string        `json:"repositoryName"`
	Provider       Provider      `json:"provider"`
	Events         []string      `json:"events"`
	URL            string        `json:"url"`
	Secret         string        `json:"secret"`
	Status         WebhookStatus `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
	// LastTriggeredAt is nil until the first delivery is recorded.
	LastTriggeredAt *time.Time `json:"lastTriggered,omitempty"`
	// ExternalID is the identifier the provider assigned, if any.
	ExternalID string `json:"externalId,omitempty"`
}

// WebhookEvent is one recorded delivery for a webhook.
type WebhookEvent struct {
	ID        string          `json:"id"`
	WebhookID string          `json:"webhookId"`
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Processed bool            `json:"processed"`
}

// WebhookInfo describes the endpoint a provider must be pointed at.
type WebhookInfo struct {
	Provider    Provider `json:"provider"`
	Endpoint    string   `json:"endpoint"`
	Events      []string `json:"events"`
	ContentType string   `json:"contentType"`
}

// DefaultWebhookEvents returns the events subscribed to on creation.
// Returns nil for providers without webhook support.
func DefaultWebhookEvents(provider Provider) []string {
	switch provider {
	case ProviderGitHub:
		return []string{"pull_request", "pull_request_review", "pull_request_review_comment"}
	case ProviderBitbucket:
		return []string{"pullrequest:created", "pullrequest:updated", "pullrequest:comment_created"}
	default:
		return nil
	}
}

// WebhookEndpoint returns the delivery URL for provider under baseURL.
func WebhookEndpoint(baseURL string, provider Provider) string {
	return baseURL + "/api/webhooks/" + provider.String()
}
