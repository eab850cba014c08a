package types

// RoleUnassigned is the role of a client record before its first allocation.
// A live client always holds a valid role index; RoleUnassigned appears only
// transiently inside the registry and in events for clients whose revival
// failed allocation.
const RoleUnassigned = -1

// RoleStrategy picks a role for one client from the current quota state.
//
// Strategies implement different selection policies:
//   - RatioFirst: Fill roles toward their target ratios, then toward their
//     hard limits (default, matches the reference allocator)
//   - HashAffinity: Deterministic identity-hash pick among admissible roles
//   - LeastLoaded: Pick the admissible role with the lowest fill fraction
//   - Custom: User-defined policies
//
// The registry calls Pick during:
//   - First registration of an identity
//   - Revival of a dead client (fresh role, previous role already released)
//
// Strategy implementations should:
//   - Be deterministic (same input → same output)
//   - Never mutate the input slices (they are live registry state views)
//   - Run quickly (called under the registry lock)
//   - Return ErrAllocationInfeasible when every role is at its hard limit
type RoleStrategy interface {
	// Pick selects a role for the given client.
	//
	// Parameters:
	//   - identity: The client's identity (affinity strategies hash it)
	//   - counts: Live client count per role
	//   - total: Total live clients (sum of counts)
	//   - ratios: Target share per role, each in [0, 1]
	//   - limits: Hard cap per role
	//
	// Returns:
	//   - int: The chosen role index
	//   - error: ErrAllocationInfeasible if no role can admit another client
	Pick(identity string, counts []int, total int, ratios []float64, limits []int) (int, error)
}
