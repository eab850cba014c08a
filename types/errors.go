package types

import "errors"

// Sentinel errors for the Roster library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components should use these sentinel errors for known error conditions
// and wrap external errors with context using fmt.Errorf("%s: %w", msg, err).
//
// Error Naming Convention:
//   - Use descriptive names with Err prefix
//   - Group by component (Registry, Quota, Reporter, etc.)
//   - Use consistent messages across similar error types

// Registry errors - Public API errors returned by the Registry.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrRegistryClosed is returned when operations are attempted on a closed registry.
	ErrRegistryClosed = errors.New("registry closed")

	// ErrMonitorAlreadyStarted is returned when StartMonitor is called on a running monitor.
	ErrMonitorAlreadyStarted = errors.New("sweep monitor already started")

	// ErrMonitorNotStarted is returned when StopMonitor is called before StartMonitor.
	ErrMonitorNotStarted = errors.New("sweep monitor not started")

	// ErrMonitorAlreadyStopped is returned when StartMonitor is called after
	// the monitor was stopped. A stopped monitor cannot be restarted.
	ErrMonitorAlreadyStopped = errors.New("sweep monitor already stopped")
)

// Quota errors - Role allocation and counter bookkeeping errors.
var (
	// ErrAllocationInfeasible is returned when every role has reached its
	// hard limit and no further client can be admitted.
	ErrAllocationInfeasible = errors.New("role allocation infeasible: all role limits reached")

	// ErrInvalidRole is returned when a role index is outside the configured
	// role vector.
	ErrInvalidRole = errors.New("invalid role index")

	// ErrRoleVectorMismatch is returned when a ratio or limit vector does not
	// match the configured number of roles.
	ErrRoleVectorMismatch = errors.New("role vector length mismatch")

	// ErrRoleLimitReached is returned when committing a client to a role
	// whose live count already equals its hard limit.
	ErrRoleLimitReached = errors.New("role limit reached")

	// ErrRoleNotHeld is returned when releasing a role whose live count is
	// already zero.
	ErrRoleNotHeld = errors.New("role has no live clients to release")
)

// Adapter errors - Shared by the reporter, ingest, and reload packages.
var (
	// ErrAlreadyStarted is returned when Start is called on a running component.
	ErrAlreadyStarted = errors.New("already started")

	// ErrNotStarted is returned when operations require a started component.
	ErrNotStarted = errors.New("not started")

	// ErrAlreadyStopped is returned when Start is called on a component that
	// was stopped. Stopped components cannot be restarted.
	ErrAlreadyStopped = errors.New("already stopped")

	// ErrNATSConnectionRequired is returned when a NATS connection is nil.
	ErrNATSConnectionRequired = errors.New("NATS connection is required")

	// ErrNoIdentity is returned when a report carries an empty identity.
	ErrNoIdentity = errors.New("client identity is required")
)
