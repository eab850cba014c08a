package strategy

import (
	"github.com/zeebo/xxh3"

	"github.com/arloliu/roster/types"
)

// HashAffinity picks deterministically by identity hash among admissible roles.
type HashAffinity struct {
	hashSeed uint64
}

var _ types.RoleStrategy = (*HashAffinity)(nil)

// HashAffinityOption configures a HashAffinity strategy.
type HashAffinityOption func(*HashAffinity)

// NewHashAffinity creates an identity-affine strategy.
//
// The strategy hashes the client identity over the set of admissible roles,
// so a given identity lands on the same role whenever the quota state offers
// the same choices. Useful when revived clients should regain their previous
// role most of the time without the registry pinning roles explicitly.
//
// Parameters:
//   - opts: Optional configuration (WithHashSeed)
//
// Returns:
//   - *HashAffinity: Initialized hash-affinity strategy
//
// Example:
//
//	s := strategy.NewHashAffinity(strategy.WithHashSeed(42))
//	reg, err := roster.NewRegistry[Progress](cfg, roster.WithRoleStrategy(s))
func NewHashAffinity(opts ...HashAffinityOption) *HashAffinity {
	ha := &HashAffinity{hashSeed: 0}

	for _, opt := range opts {
		opt(ha)
	}

	return ha
}

// WithHashSeed sets a custom seed for the identity hash.
//
// Deployments running several registries over the same client population can
// use distinct seeds to decorrelate their role picks.
//
// Parameters:
//   - seed: Hash seed value
//
// Returns:
//   - HashAffinityOption: Configuration option
func WithHashSeed(seed uint64) HashAffinityOption {
	return func(ha *HashAffinity) {
		ha.hashSeed = seed
	}
}

// Pick selects a role by hashing the identity over the admissible set.
//
// The algorithm:
//  1. Admissible set = roles below their target share, or when none,
//     roles below their hard limit (on an empty registry the ratio test is
//     vacuous, so all roles with capacity are admissible)
//  2. Empty admissible set: types.ErrAllocationInfeasible
//  3. Otherwise: admissible[xxh3(identity) mod len(admissible)]
//
// Parameters:
//   - identity: The client identity to hash
//   - counts: Live client count per role
//   - total: Total live clients
//   - ratios: Target share per role
//   - limits: Hard cap per role
//
// Returns:
//   - int: The chosen role index
//   - error: types.ErrAllocationInfeasible when every role is at its cap
func (ha *HashAffinity) Pick(identity string, counts []int, total int, ratios []float64, limits []int) (int, error) {
	admissible := underRatio(counts, total, ratios)
	if len(admissible) == 0 {
		admissible = underLimit(counts, limits)
	}
	if len(admissible) == 0 {
		return types.RoleUnassigned, types.ErrAllocationInfeasible
	}

	var h uint64
	if ha.hashSeed != 0 {
		h = xxh3.HashStringSeed(identity, ha.hashSeed)
	} else {
		h = xxh3.HashString(identity)
	}

	return admissible[h%uint64(len(admissible))], nil
}
