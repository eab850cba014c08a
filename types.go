package roster

import "github.com/arloliu/roster/types"

// Re-export types from the types subpackage.
//
// This file provides a stable public API for the library's core types and
// interfaces. It uses type aliases to re-export definitions from the `types`
// subpackage, which contains the actual implementations.
//
// This pattern solves the "import cycle" problem by allowing subpackages to
// depend on `types` without depending on the root `roster` package, while
// still providing a convenient `roster.Liveness`, `roster.Logger`, etc. for
// users.
type (
	Liveness   = types.Liveness
	Transition = types.Transition
	RoleCount  = types.RoleCount
	Clock      = types.Clock
)

// Re-export interfaces from the types subpackage for convenience.
type (
	RoleStrategy     = types.RoleStrategy
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export Liveness and Transition constants from the types subpackage.
const (
	LivenessAlive = types.LivenessAlive
	LivenessDead  = types.LivenessDead

	TransitionStillAlive  = types.TransitionStillAlive
	TransitionStillDead   = types.TransitionStillDead
	TransitionAliveToDead = types.TransitionAliveToDead
	TransitionDeadToAlive = types.TransitionDeadToAlive

	// RoleUnassigned is the role reported alongside a failed allocation.
	RoleUnassigned = types.RoleUnassigned
)
