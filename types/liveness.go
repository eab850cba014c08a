package types

// Liveness represents the liveness state of a registered client.
//
// A client is Alive while its reported thread states keep changing, and
// becomes Dead once no thread value has changed for the configured maximum
// delay. Dead clients are revived on their next observed change:
//
//	Alive → Dead → Alive → ...
//
// Records are never removed; they only move between these two states.
type Liveness int

const (
	// LivenessAlive indicates the client reported a changed value recently.
	LivenessAlive Liveness = iota

	// LivenessDead indicates the client exceeded its maximum report delay.
	LivenessDead
)

// String returns the string representation of the liveness state.
func (l Liveness) String() string {
	switch l {
	case LivenessAlive:
		return "Alive"
	case LivenessDead:
		return "Dead"
	default:
		return "Unknown"
	}
}

// Transition is the outcome of evaluating one client during a liveness sweep.
type Transition int

const (
	// TransitionStillAlive indicates an alive client that remains alive.
	TransitionStillAlive Transition = iota

	// TransitionStillDead indicates a dead client that remains dead.
	TransitionStillDead

	// TransitionAliveToDead indicates an alive client that went stale.
	TransitionAliveToDead

	// TransitionDeadToAlive indicates a dead client that resumed progress.
	TransitionDeadToAlive
)

// String returns the string representation of the transition.
func (t Transition) String() string {
	switch t {
	case TransitionStillAlive:
		return "StillAlive"
	case TransitionStillDead:
		return "StillDead"
	case TransitionAliveToDead:
		return "AliveToDead"
	case TransitionDeadToAlive:
		return "DeadToAlive"
	default:
		return "Unknown"
	}
}

// Changed reports whether the transition crosses between Alive and Dead.
func (t Transition) Changed() bool {
	return t == TransitionAliveToDead || t == TransitionDeadToAlive
}
