package strategy

import (
	"github.com/arloliu/roster/types"
)

// LeastLoaded picks the role with the lowest fill fraction.
type LeastLoaded struct{}

var _ types.RoleStrategy = (*LeastLoaded)(nil)

// NewLeastLoaded creates a capacity-spreading strategy.
//
// The strategy treats roles as pure capacity pools: each pick goes to the
// role with the lowest count/limit fill fraction, ignoring the ratio vector
// entirely. Ties resolve to the lowest role index.
//
// Returns:
//   - *LeastLoaded: Initialized least-loaded strategy
func NewLeastLoaded() *LeastLoaded {
	return &LeastLoaded{}
}

// Pick selects the admissible role with the lowest fill fraction.
//
// Parameters:
//   - identity: Unused; the pick depends only on the quota state
//   - counts: Live client count per role
//   - total: Unused
//   - ratios: Unused
//   - limits: Hard cap per role
//
// Returns:
//   - int: The chosen role index
//   - error: types.ErrAllocationInfeasible when every role is at its cap
func (s *LeastLoaded) Pick(identity string, counts []int, total int, ratios []float64, limits []int) (int, error) {
	_, _, _ = identity, total, ratios

	best := types.RoleUnassigned
	bestFill := 0.0
	for _, t := range underLimit(counts, limits) {
		fill := float64(counts[t]) / float64(limits[t])
		if best == types.RoleUnassigned || fill < bestFill {
			best = t
			bestFill = fill
		}
	}
	if best == types.RoleUnassigned {
		return types.RoleUnassigned, types.ErrAllocationInfeasible
	}

	return best, nil
}
