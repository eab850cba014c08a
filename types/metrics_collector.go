package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods may be called with the registry lock held and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	RegistryMetrics
	QuotaMetrics
}

// RegistryMetrics defines metrics for registry-level operations.
type RegistryMetrics interface {
	// RecordReport records one processed status report.
	//
	// Parameters:
	//   - identity: The reporting client's identity
	//   - changedThreads: Number of threads whose value changed in this report
	RecordReport(identity string, changedThreads int)

	// RecordLivenessTransition records an Alive↔Dead crossing for a client.
	RecordLivenessTransition(identity string, transition Transition)

	// RecordSweepDuration records the time taken by one full liveness sweep.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	RecordSweepDuration(duration float64)

	// RecordActiveClients sets the current number of alive clients (gauge metric).
	RecordActiveClients(count int)

	// RecordEventDropped records an event discarded because a subscriber
	// channel was full.
	RecordEventDropped()
}

// QuotaMetrics defines metrics for role allocation bookkeeping.
type QuotaMetrics interface {
	// RecordRoleAllocation records a role being handed to a client.
	RecordRoleAllocation(role int)

	// RecordRoleRelease records a role being returned by a stale client.
	RecordRoleRelease(role int)

	// RecordAllocationFailure records an allocation attempt that found every
	// role at its hard limit.
	RecordAllocationFailure()

	// RecordRoleClients sets the current live client count for one role (gauge metric).
	RecordRoleClients(role, count int)
}
