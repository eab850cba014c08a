// Package hooks provides the default no-op hook implementations.
package hooks

import (
	"context"

	"github.com/arloliu/roster/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, string, int) error                   = (*NopHooks)(nil).OnClientRegistered
	_ func(context.Context, string, types.Transition, int) error = (*NopHooks)(nil).OnLivenessChanged
	_ func(context.Context, error) error                         = (*NopHooks)(nil).OnError
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnClientRegistered: h.OnClientRegistered,
		OnLivenessChanged:  h.OnLivenessChanged,
		OnError:            h.OnError,
	}
}

// OnClientRegistered is a no-op implementation.
func (h *NopHooks) OnClientRegistered(ctx context.Context, identity string, role int) error {
	return nil
}

// OnLivenessChanged is a no-op implementation.
func (h *NopHooks) OnLivenessChanged(ctx context.Context, identity string, transition types.Transition, role int) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(ctx context.Context, err error) error {
	return nil
}
