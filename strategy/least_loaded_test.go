package strategy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/roster/types"
)

func TestLeastLoaded_Pick(t *testing.T) {
	t.Run("picks lowest fill fraction", func(t *testing.T) {
		s := NewLeastLoaded()

		// Fills: 0 → 5/10, 1 → 1/10, 2 → 9/10.
		role, err := s.Pick("client-a", []int{5, 1, 9}, 15, []float64{0.3, 0.3, 0.4}, []int{10, 10, 10})

		require.NoError(t, err)
		require.Equal(t, 1, role)
	})

	t.Run("ignores ratios", func(t *testing.T) {
		s := NewLeastLoaded()

		// Ratio steers to role 0, fill fraction to role 1.
		role, err := s.Pick("client-a", []int{1, 1}, 2, []float64{1.0, 0.0}, []int{2, 100})

		require.NoError(t, err)
		require.Equal(t, 1, role)
	})

	t.Run("tie resolves to lowest index", func(t *testing.T) {
		s := NewLeastLoaded()

		role, err := s.Pick("client-a", []int{2, 2}, 4, []float64{0.5, 0.5}, []int{10, 10})

		require.NoError(t, err)
		require.Equal(t, 0, role)
	})

	t.Run("skips capped roles", func(t *testing.T) {
		s := NewLeastLoaded()

		role, err := s.Pick("client-a", []int{2, 5}, 7, []float64{0.5, 0.5}, []int{2, 10})

		require.NoError(t, err)
		require.Equal(t, 1, role)
	})

	t.Run("infeasible when all roles are capped", func(t *testing.T) {
		s := NewLeastLoaded()

		role, err := s.Pick("client-a", []int{2, 3}, 5, []float64{0.5, 0.5}, []int{2, 3})

		require.ErrorIs(t, err, types.ErrAllocationInfeasible)
		require.Equal(t, types.RoleUnassigned, role)
	})
}
