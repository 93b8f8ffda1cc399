package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

func TestCredentialService_PutGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.credentials.Put(ctx, domain.ProviderGitHub, domain.AccessCredential{
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	cred, err := env.credentials.Get(ctx, domain.ProviderGitHub)
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "tok", cred.AccessToken)
	assert.Equal(t, domain.ProviderGitHub, cred.Provider)
	assert.True(t, env.credentials.IsConnected(ctx, domain.ProviderGitHub))
	assert.False(t, env.credentials.IsConnected(ctx, domain.ProviderJira))
}

func TestCredentialService_Put_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.credentials.Put(ctx, domain.Provider("gitlab"), domain.AccessCredential{AccessToken: "tok"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedProvider)

	err = env.credentials.Put(ctx, domain.ProviderGitHub, domain.AccessCredential{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCredentialService_Get_EvictsExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.credentials.Put(ctx, domain.ProviderGitHub, domain.AccessCredential{
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(time.Hour),
	}))

	// Step past expiry.
	env.credentials.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	cred, err := env.credentials.Get(ctx, domain.ProviderGitHub)
	require.NoError(t, err)
	assert.Nil(t, cred)

	_, ok, err := env.kv.Get(ctx, "oauth_token_github")
	require.NoError(t, err)
	assert.False(t, ok, "expired credential should be evicted")
}

func TestCredentialService_Get_ExpiryBoundary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, env.credentials.Put(ctx, domain.ProviderBitbucket, domain.AccessCredential{
		AccessToken: "tok",
		ExpiresAt:   expiry,
	}))

	env.credentials.now = func() time.Time { return expiry }
	cred, err := env.credentials.Get(ctx, domain.ProviderBitbucket)
	require.NoError(t, err)
	assert.Nil(t, cred, "a credential is expired at its expiry instant")
}

func TestCredentialService_Get_CorruptReadsAbsent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.kv.Set(ctx, "oauth_token_github", "{not json"))

	cred, err := env.credentials.Get(ctx, domain.ProviderGitHub)
	require.NoError(t, err)
	assert.Nil(t, cred)
	assert.False(t, env.credentials.IsConnected(ctx, domain.ProviderGitHub))
}

func TestCredentialService_Remove_Absent(t *testing.T) {
	env := newTestEnv(t)

	assert.NoError(t, env.credentials.Remove(context.Background(), domain.ProviderJira))
}

func TestCredentialService_NilStore(t *testing.T) {
	service := NewCredentialService(nil)
	ctx := context.Background()

	_, err := service.Get(ctx, domain.ProviderGitHub)
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	assert.ErrorIs(t, service.Put(ctx, domain.ProviderGitHub, domain.AccessCredential{AccessToken: "x"}),
		domain.ErrNotImplemented)
	assert.ErrorIs(t, service.Remove(ctx, domain.ProviderGitHub), domain.ErrNotImplemented)
}
