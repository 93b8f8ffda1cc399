package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

func TestStateGuard_IssueValidate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	state, err := env.guard.Issue(ctx, domain.ProviderGitHub, "http://localhost/cb")
	require.NoError(t, err)
	assert.NotEmpty(t, state)

	pending := env.guard.Pending(ctx)
	require.NotNil(t, pending)
	assert.Equal(t, domain.ProviderGitHub, pending.Provider)
	assert.Equal(t, "http://localhost/cb", pending.RedirectURI)

	assert.True(t, env.guard.Validate(ctx, state))
	assert.False(t, env.guard.Validate(ctx, state), "state validates at most once")
	assert.Nil(t, env.guard.Pending(ctx))
}

func TestStateGuard_Validate_MismatchClearsSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	state, err := env.guard.Issue(ctx, domain.ProviderGitHub, "")
	require.NoError(t, err)

	assert.False(t, env.guard.Validate(ctx, "forged"))
	assert.False(t, env.guard.Validate(ctx, state), "a failed attempt consumes the state")
}

func TestStateGuard_Validate_NothingPending(t *testing.T) {
	env := newTestEnv(t)

	assert.False(t, env.guard.Validate(context.Background(), ""))
	assert.False(t, env.guard.Validate(context.Background(), "anything"))
}

func TestStateGuard_Issue_ReplacesPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.guard.Issue(ctx, domain.ProviderGitHub, "")
	require.NoError(t, err)
	second, err := env.guard.Issue(ctx, domain.ProviderJira, "")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	assert.Equal(t, domain.ProviderJira, env.guard.Pending(ctx).Provider)
	assert.False(t, env.guard.Validate(ctx, first))
}

func TestStateGuard_Validate_Concurrent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	state, err := env.guard.Issue(ctx, domain.ProviderGitHub, "")
	require.NoError(t, err)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if env.guard.Validate(ctx, state) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}
