package types

import "context"

// Hooks defines callbacks for Registry lifecycle events.
//
// All hooks are optional and called asynchronously in background goroutines
// to avoid blocking report processing and liveness sweeps. Hooks receive the
// registry's lifecycle context which is cancelled when the registry closes.
//
// IMPORTANT: Hook execution behavior:
//   - Hooks run concurrently and may not complete before Close() returns
//   - The context passed to hooks is cancelled when the registry closes
//   - Hook errors are logged but don't fail registry operations
//
// Best practices for hook implementation:
//   - Complete quickly (< 1 second recommended)
//   - Respect context cancellation
//   - Don't block on long I/O operations
//   - Make hooks idempotent (may be called multiple times)
//   - Handle errors gracefully (return error for logging)
//
// Example:
//
//	hooks := &roster.Hooks{
//	    OnLivenessChanged: func(ctx context.Context, identity string, transition roster.Transition, role int) error {
//	        select {
//	        case <-ctx.Done():
//	            return ctx.Err() // Registry is shutting down
//	        case alertChan <- LivenessAlert{identity, transition}:
//	            return nil
//	        case <-time.After(500 * time.Millisecond):
//	            return errors.New("alert send timeout")
//	        }
//	    },
//	}
type Hooks struct {
	// OnClientRegistered is called when a new client record is created.
	// role: the role assigned to the new client
	OnClientRegistered func(ctx context.Context, identity string, role int) error

	// OnLivenessChanged is called when a client crosses between Alive and Dead.
	// transition: TransitionAliveToDead or TransitionDeadToAlive
	// role: the role released (AliveToDead) or newly assigned (DeadToAlive)
	OnLivenessChanged func(ctx context.Context, identity string, transition Transition, role int) error

	// OnError is called when a recoverable error occurs, such as an
	// infeasible reallocation during a sweep.
	OnError func(ctx context.Context, err error) error
}
