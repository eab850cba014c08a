package strategy

import (
	"github.com/arloliu/roster/types"
)

// RatioFirst fills roles toward their target ratios, then toward their limits.
type RatioFirst struct{}

var _ types.RoleStrategy = (*RatioFirst)(nil)

// NewRatioFirst creates the default ratio-first strategy.
//
// The strategy keeps the live role mix tracking the configured ratio vector:
// as long as some role is below its target share, the lowest such role wins.
// Once every role has reached its ratio, remaining capacity is filled in
// index order up to the hard limits.
//
// Returns:
//   - *RatioFirst: Initialized ratio-first strategy
//
// Example:
//
//	reg, err := roster.NewRegistry[Progress](cfg, roster.WithRoleStrategy(strategy.NewRatioFirst()))
func NewRatioFirst() *RatioFirst {
	return &RatioFirst{}
}

// Pick selects a role using ratio-then-limit priority.
//
// The algorithm:
//  1. Empty registry (total == 0): role 0
//  2. Some role below its target share: lowest such role
//  3. Some role below its hard limit: lowest such role
//  4. Otherwise: types.ErrAllocationInfeasible
//
// Parameters:
//   - identity: Unused; the pick depends only on the quota state
//   - counts: Live client count per role
//   - total: Total live clients
//   - ratios: Target share per role
//   - limits: Hard cap per role
//
// Returns:
//   - int: The chosen role index
//   - error: types.ErrAllocationInfeasible when every role is at its cap
func (s *RatioFirst) Pick(identity string, counts []int, total int, ratios []float64, limits []int) (int, error) {
	_ = identity

	if total == 0 {
		return 0, nil
	}

	if roles := underRatio(counts, total, ratios); len(roles) > 0 {
		return roles[0], nil
	}
	if roles := underLimit(counts, limits); len(roles) > 0 {
		return roles[0], nil
	}

	return types.RoleUnassigned, types.ErrAllocationInfeasible
}
