package roster

import "github.com/arloliu/roster/types"

// Sentinel errors re-exported from the types package.
//
// These are the same error values the subpackages return, so errors.Is works
// whether callers compare against roster.ErrX or types.ErrX.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrRegistryClosed is returned by operations on a closed registry.
	ErrRegistryClosed = types.ErrRegistryClosed

	// ErrMonitorAlreadyStarted is returned when StartMonitor is called on a
	// registry whose monitor is already running.
	ErrMonitorAlreadyStarted = types.ErrMonitorAlreadyStarted

	// ErrMonitorNotStarted is returned when StopMonitor is called without a
	// running monitor.
	ErrMonitorNotStarted = types.ErrMonitorNotStarted

	// ErrMonitorAlreadyStopped is returned when StartMonitor is called after
	// the monitor has been stopped. A stopped monitor cannot be restarted.
	ErrMonitorAlreadyStopped = types.ErrMonitorAlreadyStopped

	// ErrAllocationInfeasible is returned when every role has reached its
	// limit and no client can be admitted.
	ErrAllocationInfeasible = types.ErrAllocationInfeasible

	// ErrInvalidRole is returned when a role index is out of range.
	ErrInvalidRole = types.ErrInvalidRole

	// ErrRoleVectorMismatch is returned when role vectors have mismatched
	// lengths.
	ErrRoleVectorMismatch = types.ErrRoleVectorMismatch

	// ErrNoIdentity is returned when a client identity is empty.
	ErrNoIdentity = types.ErrNoIdentity

	// ErrAlreadyStarted is returned when Start is called on a running adapter.
	ErrAlreadyStarted = types.ErrAlreadyStarted

	// ErrNotStarted is returned when Stop is called on an adapter that was
	// never started.
	ErrNotStarted = types.ErrNotStarted

	// ErrAlreadyStopped is returned when Start is called on a stopped adapter.
	ErrAlreadyStopped = types.ErrAlreadyStopped

	// ErrNATSConnectionRequired is returned by adapter constructors given a
	// nil NATS connection.
	ErrNATSConnectionRequired = types.ErrNATSConnectionRequired
)
