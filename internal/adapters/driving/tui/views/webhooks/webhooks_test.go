package webhooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

func TestParseForm(t *testing.T) {
	provider, id, name, err := ParseForm("  bitbucket   9001 team/service ")
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderBitbucket, provider)
	assert.Equal(t, int64(9001), id)
	assert.Equal(t, "team/service", name)
}

func TestParseForm_Errors(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  error
	}{
		{"too few fields", "github 42", domain.ErrInvalidInput},
		{"too many fields", "github 42 acme/web extra", domain.ErrInvalidInput},
		{"unknown provider", "gitlab 42 acme/web", domain.ErrUnsupportedProvider},
		{"bad id", "github forty-two acme/web", domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := ParseForm(tt.value)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestView_EmptyList(t *testing.T) {
	v := NewView(nil, nil, nil)
	assert.False(t, v.Editing())
	assert.Contains(t, v.View(), "No webhooks")
}
