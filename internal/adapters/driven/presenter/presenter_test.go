package presenter

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

func request(mode domain.PresentationMode) domain.AuthorizationRequest {
	return domain.AuthorizationRequest{
		Provider: domain.ProviderGitHub,
		URL:      "https://github.com/login/oauth/authorize?state=abc",
		State:    "abc",
		Mode:     mode,
	}
}

func TestPresent_PopupOpensBrowser(t *testing.T) {
	var out bytes.Buffer
	var opened string
	p := New(&out, WithOpener(func(url string) error {
		opened = url
		return nil
	}))

	err := p.Present(context.Background(), request(domain.PresentationPopup))

	require.NoError(t, err)
	assert.Equal(t, "https://github.com/login/oauth/authorize?state=abc", opened)
	assert.Contains(t, out.String(), "Opened GitHub authorization")
	assert.NotContains(t, out.String(), "state=abc")
}

func TestPresent_PopupFallsBackToPrinting(t *testing.T) {
	var out bytes.Buffer
	p := New(&out, WithOpener(func(string) error { return errors.New("no display") }))

	err := p.Present(context.Background(), request(domain.PresentationPopup))

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Could not open a browser")
	assert.Contains(t, out.String(), "state=abc")
}

func TestPresent_RedirectPrintsURL(t *testing.T) {
	var out bytes.Buffer
	p := New(&out, WithOpener(func(string) error {
		t.Fatal("redirect must not open a browser")
		return nil
	}))

	err := p.Present(context.Background(), request(domain.PresentationRedirect))

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Continue to GitHub")
	assert.Contains(t, out.String(), "state=abc")
}

func TestPresent_SimulatedRejected(t *testing.T) {
	p := New(&bytes.Buffer{})

	err := p.Present(context.Background(), request(domain.PresentationSimulated))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
