package hooks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/roster/types"
)

func TestNewNop(t *testing.T) {
	hooks := NewNop()

	require.NotNil(t, hooks.OnClientRegistered)
	require.NotNil(t, hooks.OnLivenessChanged)
	require.NotNil(t, hooks.OnError)
}

func TestNopHooks_OnClientRegistered(t *testing.T) {
	hooks := NewNop()
	ctx := context.Background()

	err := hooks.OnClientRegistered(ctx, "client-1", 0)
	require.NoError(t, err)
}

func TestNopHooks_OnLivenessChanged(t *testing.T) {
	hooks := NewNop()
	ctx := context.Background()

	err := hooks.OnLivenessChanged(ctx, "client-1", types.TransitionAliveToDead, 1)
	require.NoError(t, err)
}

func TestNopHooks_OnError(t *testing.T) {
	hooks := NewNop()
	ctx := context.Background()

	testErr := context.Canceled
	err := hooks.OnError(ctx, testErr)
	require.NoError(t, err)
}
