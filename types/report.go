package types

import "time"

// ThreadState is the constraint for per-thread progress payloads.
//
// The registry treats payloads as opaque: the only operation it ever performs
// is the change check, so any comparable notion of progress works, from plain
// counters to rich batch descriptors. Equal must be cheap and side-effect
// free; it is called under the registry lock on every report.
//
// Example:
//
//	type BatchProgress struct {
//	    Batch int64 `json:"batch"`
//	    Loss  float64 `json:"loss"`
//	}
//
//	func (p BatchProgress) Equal(o BatchProgress) bool { return p.Batch == o.Batch }
type ThreadState[S any] interface {
	// Equal reports whether the receiver carries the same progress value as o.
	Equal(o S) bool
}

// StatusReport is the wire envelope one client publishes per reporting tick.
//
// States maps worker thread index → latest payload. Indices must lie in
// [0, MaxThreads) of the coordinator's configuration; the map may cover any
// subset of the client's threads.
type StatusReport[S any] struct {
	// Identity uniquely identifies the reporting client process.
	Identity string `json:"identity"`

	// States holds the latest payload per worker thread index.
	States map[int]S `json:"states"`

	// SentAt is the client-side publish time. Diagnostic only: liveness is
	// always judged against the coordinator's clock.
	SentAt time.Time `json:"sent_at"`
}

// RoleCount describes the live population of one role.
type RoleCount struct {
	// Role is the role index.
	Role int `json:"role"`

	// Count is the number of alive clients currently holding the role.
	Count int `json:"count"`

	// Limit is the hard cap for the role.
	Limit int `json:"limit"`

	// Ratio is the configured target share for the role.
	Ratio float64 `json:"ratio"`

	// Share is the actual share count/total, 0 when no clients are alive.
	Share float64 `json:"share"`
}
