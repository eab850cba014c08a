// Package strategy provides built-in role selection strategy implementations.
//
// Role strategies decide which role a newly admitted (or revived) client
// receives, given the live per-role counts, target ratios, and hard limits.
// The package includes three built-in strategies:
//
//   - RatioFirst: Fill roles toward their target ratios, then toward their hard limits (default)
//   - HashAffinity: Deterministic identity-hash pick among admissible roles
//   - LeastLoaded: Pick the admissible role with the lowest fill fraction
//
// # Strategy Selection Guide
//
// RatioFirst:
//   - Use when the role mix should track the configured ratios as closely as possible
//   - Deterministic and sequential: under-ratio roles fill lowest index first
//   - Matches the classic allocator behavior, including role 0 on an empty registry
//
// HashAffinity:
//   - Use when a client should come back to the same role across revivals
//     as long as the quota state allows it
//   - Hashes the client identity (seeded XXH3) over the admissible role set
//   - Still respects ratios before limits, so the mix stays near target
//
// LeastLoaded:
//   - Use when roles are pure capacity pools and ratios don't matter
//   - Spreads clients by fill fraction (count/limit), ties to the lowest index
//   - Ignores the ratio vector entirely
//
// All strategies return types.ErrAllocationInfeasible when every role is at
// its hard limit. Custom strategies can be implemented by satisfying the
// types.RoleStrategy interface.
package strategy
