package strategy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/roster/types"
)

func TestHashAffinity_Pick(t *testing.T) {
	t.Run("deterministic for the same identity", func(t *testing.T) {
		s := NewHashAffinity()
		counts := []int{0, 0, 0}
		ratios := []float64{0.4, 0.4, 0.2}
		limits := []int{10, 10, 10}

		first, err := s.Pick("client-a", counts, 0, ratios, limits)
		require.NoError(t, err)

		for range 10 {
			role, err := s.Pick("client-a", counts, 0, ratios, limits)
			require.NoError(t, err)
			require.Equal(t, first, role)
		}
	})

	t.Run("seed changes the pick distribution", func(t *testing.T) {
		base := NewHashAffinity()
		seeded := NewHashAffinity(WithHashSeed(12345))
		counts := []int{0, 0, 0, 0}
		ratios := []float64{0.25, 0.25, 0.25, 0.25}
		limits := []int{100, 100, 100, 100}

		differs := false
		for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
			r1, err := base.Pick(id, counts, 0, ratios, limits)
			require.NoError(t, err)
			r2, err := seeded.Pick(id, counts, 0, ratios, limits)
			require.NoError(t, err)
			if r1 != r2 {
				differs = true
			}
		}
		require.True(t, differs, "expected at least one identity to map differently under a different seed")
	})

	t.Run("respects ratio priority", func(t *testing.T) {
		s := NewHashAffinity()

		// Only role 1 is under ratio, so every identity must land there.
		for _, id := range []string{"a", "b", "c", "d"} {
			role, err := s.Pick(id, []int{3, 1}, 4, []float64{0.5, 0.5}, []int{100, 100})
			require.NoError(t, err)
			require.Equal(t, 1, role)
		}
	})

	t.Run("falls back to under-limit roles", func(t *testing.T) {
		s := NewHashAffinity()

		// Ratios met exactly; only role 1 has spare capacity.
		role, err := s.Pick("client-a", []int{1, 1}, 2, []float64{0.5, 0.5}, []int{1, 2})
		require.NoError(t, err)
		require.Equal(t, 1, role)
	})

	t.Run("infeasible when all roles are capped", func(t *testing.T) {
		s := NewHashAffinity()

		role, err := s.Pick("client-a", []int{1, 1}, 2, []float64{0.5, 0.5}, []int{1, 1})

		require.ErrorIs(t, err, types.ErrAllocationInfeasible)
		require.Equal(t, types.RoleUnassigned, role)
	})
}
