package roster

import (
	"sync"
	"time"

	"github.com/arloliu/roster/types"
)

// EventKind identifies what happened to a client.
type EventKind int

const (
	// EventRegistered fires when a record is created for a new identity.
	EventRegistered EventKind = iota

	// EventWentDead fires when a live client exceeds its liveness window.
	EventWentDead

	// EventRevived fires when a dead client resumes reporting and receives
	// a fresh role.
	EventRevived
)

// String returns a human-readable event kind name.
func (k EventKind) String() string {
	switch k {
	case EventRegistered:
		return "Registered"
	case EventWentDead:
		return "WentDead"
	case EventRevived:
		return "Revived"
	default:
		return "Unknown"
	}
}

// ClientEvent describes one liveness or registration change observed by the
// registry. Events are delivered to Subscribe channels in the order the
// registry produced them.
type ClientEvent struct {
	// Identity is the client the event is about.
	Identity string `json:"identity"`

	// Kind is what happened.
	Kind EventKind `json:"kind"`

	// Role is the role involved: the newly assigned role for Registered and
	// Revived, the released role for WentDead.
	Role int `json:"role"`

	// At is the registry clock reading when the change was decided.
	At time.Time `json:"at"`
}

// eventSubscriber is a helper for managing client event subscriptions.
type eventSubscriber struct {
	ch     chan ClientEvent
	mu     sync.Mutex
	closed bool
}

// trySend delivers an event to the subscriber's channel without blocking.
func (s *eventSubscriber) trySend(ev ClientEvent, metricsCollector types.MetricsCollector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	select {
	case s.ch <- ev:
	default:
		// Subscriber is slow or not ready; drop rather than stall the sweep.
		metricsCollector.RecordEventDropped()
	}
}

// close safely closes the subscriber's channel.
func (s *eventSubscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
