package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

func TestNewStyles_NilThemeUsesDefault(t *testing.T) {
	s := NewStyles(nil)
	assert.Equal(t, DefaultTheme(), s.Theme())
}

func TestStyles_WebhookStatus(t *testing.T) {
	s := DefaultStyles()

	assert.Contains(t, s.WebhookStatus(domain.WebhookActive), "active")
	assert.Contains(t, s.WebhookStatus(domain.WebhookError), "error")
	assert.Contains(t, s.WebhookStatus(domain.WebhookInactive), "inactive")
}

func TestStyles_Connected(t *testing.T) {
	s := DefaultStyles()

	assert.Contains(t, s.Connected(true), "connected")
	assert.Contains(t, s.Connected(false), "not connected")
}
