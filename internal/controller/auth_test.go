package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthProviderTransitions(t *testing.T) {
	api := newFakeBackend().start(t)
	ctx := context.Background()

	provider, err := NewAuthProvider(ctx, api, nil)
	require.NoError(t, err)
	assert.False(t, provider.IsAuthenticated())

	var f *Failure
	require.ErrorAs(t, provider.Login(ctx, "wrong"), &f)
	assert.False(t, provider.IsAuthenticated())

	var fes FieldErrors
	require.ErrorAs(t, provider.Login(ctx, ""), &fes)

	require.NoError(t, provider.Login(ctx, "secret"))
	assert.True(t, provider.IsAuthenticated())

	// A second provider over the same cookie jar sees the open session.
	again, err := NewAuthProvider(ctx, api, nil)
	require.NoError(t, err)
	assert.True(t, again.IsAuthenticated())

	require.NoError(t, provider.Logout(ctx))
	assert.False(t, provider.IsAuthenticated())
}
