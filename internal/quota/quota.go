// Package quota tracks live client counts against per-role ratios and limits.
package quota

import (
	"fmt"
	"math"
	"strings"

	"github.com/arloliu/roster/types"
)

// Counters is the role allocation ledger: the live client count per role, the
// running total, hard per-role limits, and hot-swappable target ratios.
//
// Counters performs no locking of its own. The registry serializes every call
// under its lock, which is also what keeps the conservation invariant
// (sum of counts == total == alive clients) observable at all times.
type Counters struct {
	counts []int
	total  int
	limits []int
	ratios []float64
}

// New creates a ledger for len(ratios) roles with all counts at zero.
//
// Parameters:
//   - ratios: Target share per role, each in [0, 1]
//   - limits: Hard cap per role, each >= 0
//
// Returns:
//   - *Counters: A new ledger
//   - error: ErrRoleVectorMismatch or ErrInvalidConfig on malformed vectors
func New(ratios []float64, limits []int) (*Counters, error) {
	if len(ratios) == 0 {
		return nil, fmt.Errorf("%w: at least one role required", types.ErrInvalidConfig)
	}
	if len(ratios) != len(limits) {
		return nil, fmt.Errorf("%w: %d ratios vs %d limits",
			types.ErrRoleVectorMismatch, len(ratios), len(limits))
	}
	if err := validateRatios(ratios); err != nil {
		return nil, err
	}
	for i, limit := range limits {
		if limit < 0 {
			return nil, fmt.Errorf("%w: limit[%d] = %d", types.ErrInvalidConfig, i, limit)
		}
	}

	c := &Counters{
		counts: make([]int, len(ratios)),
		limits: make([]int, len(limits)),
		ratios: make([]float64, len(ratios)),
	}
	copy(c.limits, limits)
	copy(c.ratios, ratios)

	return c, nil
}

// NumRoles returns the number of configured roles.
func (c *Counters) NumRoles() int {
	return len(c.counts)
}

// Total returns the number of live clients across all roles.
func (c *Counters) Total() int {
	return c.total
}

// Count returns the live client count for one role.
func (c *Counters) Count(role int) int {
	return c.counts[role]
}

// View exposes the live ledger state for a strategy pick.
//
// The returned slices are the ledger's own storage: callers must treat them
// as read-only and must not retain them past the registry lock.
func (c *Counters) View() (counts []int, total int, ratios []float64, limits []int) {
	return c.counts, c.total, c.ratios, c.limits
}

// Commit records one client entering a role.
//
// The cap check runs here as well as in the strategy, so a misbehaving
// strategy can never push a role past its hard limit.
//
// Returns:
//   - error: ErrInvalidRole for an out-of-range role,
//     ErrRoleLimitReached when the role is already at its cap
func (c *Counters) Commit(role int) error {
	if role < 0 || role >= len(c.counts) {
		return fmt.Errorf("%w: %d (have %d roles)", types.ErrInvalidRole, role, len(c.counts))
	}
	if c.counts[role] >= c.limits[role] {
		return fmt.Errorf("%w: role %d at %d", types.ErrRoleLimitReached, role, c.limits[role])
	}

	c.counts[role]++
	c.total++

	return nil
}

// Release records one client leaving a role.
//
// Returns:
//   - error: ErrInvalidRole for an out-of-range role,
//     ErrRoleNotHeld when the role's count is already zero
func (c *Counters) Release(role int) error {
	if role < 0 || role >= len(c.counts) {
		return fmt.Errorf("%w: %d (have %d roles)", types.ErrInvalidRole, role, len(c.counts))
	}
	if c.counts[role] == 0 {
		return fmt.Errorf("%w: role %d", types.ErrRoleNotHeld, role)
	}

	c.counts[role]--
	c.total--

	return nil
}

// SetRatios replaces the target ratio vector.
//
// Ratios steer allocation priority only; limits alone decide admission, so a
// ratio change can never make allocation infeasible. Takes effect on the next
// pick.
//
// Returns:
//   - error: ErrRoleVectorMismatch or ErrInvalidConfig on malformed input
func (c *Counters) SetRatios(ratios []float64) error {
	if len(ratios) != len(c.counts) {
		return fmt.Errorf("%w: got %d ratios for %d roles",
			types.ErrRoleVectorMismatch, len(ratios), len(c.counts))
	}
	if err := validateRatios(ratios); err != nil {
		return err
	}

	copy(c.ratios, ratios)

	return nil
}

// Snapshot returns a per-role copy of the ledger suitable for callers outside
// the registry lock.
func (c *Counters) Snapshot() []types.RoleCount {
	out := make([]types.RoleCount, len(c.counts))
	for role, count := range c.counts {
		share := 0.0
		if c.total > 0 {
			share = float64(count) / float64(c.total)
		}
		out[role] = types.RoleCount{
			Role:  role,
			Count: count,
			Limit: c.limits[role],
			Ratio: c.ratios[role],
			Share: share,
		}
	}

	return out
}

// String renders the ledger as "role: ratio/count" pairs, e.g.
// "0: 0.50/12, 1: 0.50/11 (total 23)".
func (c *Counters) String() string {
	var b strings.Builder
	for role, count := range c.counts {
		if role > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d: %.2f/%d", role, c.ratios[role], count)
	}
	fmt.Fprintf(&b, " (total %d)", c.total)

	return b.String()
}

func validateRatios(ratios []float64) error {
	for i, ratio := range ratios {
		if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
			return fmt.Errorf("%w: ratio[%d] is not finite", types.ErrInvalidConfig, i)
		}
		if ratio < 0 || ratio > 1 {
			return fmt.Errorf("%w: ratio[%d] = %v outside [0, 1]", types.ErrInvalidConfig, i, ratio)
		}
	}

	return nil
}
