package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/roster/types"
)

func TestNewClientInitialState(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := newClient[batchProgress]("trainer-1", 1, 4, 300*time.Second, now)

	require.Equal(t, "trainer-1", c.Identity())
	require.Equal(t, 1, c.Role())
	require.True(t, c.Active())
	require.Equal(t, types.LivenessAlive, c.Liveness())
	require.True(t, c.JustRegistered())
	require.Zero(t, c.Seq())
	require.Equal(t, now, c.LastUpdate())
	require.Equal(t, 4, c.NumThreads())

	for i := range 4 {
		st := c.Thread(i)
		require.Zero(t, st.Value.Batches)
		require.True(t, st.UpdatedAt.IsZero())
	}
}

func TestClientThreadAccess(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := newClient[batchProgress]("trainer-1", 0, 4, 300*time.Second, now)

	t.Run("out of range panics", func(t *testing.T) {
		require.Panics(t, func() { c.Thread(-1) })
		require.Panics(t, func() { c.Thread(4) })
	})

	t.Run("returned status is a copy", func(t *testing.T) {
		changed := c.applyUpdates(map[int]batchProgress{0: {Batches: 7}}, now)
		require.Equal(t, 1, changed)

		st := c.Thread(0)
		st.Value.Batches = 999

		require.Equal(t, uint64(7), c.Thread(0).Value.Batches)
	})

	t.Run("threads snapshot covers every slot", func(t *testing.T) {
		all := c.Threads()
		require.Len(t, all, 4)
		require.Equal(t, uint64(7), all[0].Value.Batches)
		require.Zero(t, all[3].Value.Batches)
	})
}

func TestClientApplyUpdates(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("counts only real changes", func(t *testing.T) {
		c := newClient[batchProgress]("trainer-1", 0, 4, 300*time.Second, base)

		changed := c.applyUpdates(map[int]batchProgress{
			0: {Batches: 1},
			1: {Batches: 0}, // equals the initial zero value
			2: {Batches: 2},
		}, base.Add(time.Second))
		require.Equal(t, 2, changed)
		require.Equal(t, base.Add(time.Second), c.LastUpdate())
	})

	t.Run("no change leaves the timestamp alone", func(t *testing.T) {
		c := newClient[batchProgress]("trainer-1", 0, 4, 300*time.Second, base)

		c.applyUpdates(map[int]batchProgress{0: {Batches: 1}}, base.Add(time.Second))

		changed := c.applyUpdates(map[int]batchProgress{0: {Batches: 1}}, base.Add(time.Minute))
		require.Zero(t, changed)
		require.Equal(t, base.Add(time.Second), c.LastUpdate())
	})

	t.Run("bad index panics", func(t *testing.T) {
		c := newClient[batchProgress]("trainer-1", 0, 4, 300*time.Second, base)

		require.Panics(t, func() {
			c.applyUpdates(map[int]batchProgress{4: {Batches: 1}}, base)
		})
	})
}

func TestClientStaleFor(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := newClient[batchProgress]("trainer-1", 0, 4, 300*time.Second, base)

	elapsed, stale := c.StaleFor(base.Add(299 * time.Second))
	require.Equal(t, 299*time.Second, elapsed)
	require.False(t, stale)

	// The boundary is inclusive: exactly maxDelay counts as stale.
	elapsed, stale = c.StaleFor(base.Add(300 * time.Second))
	require.Equal(t, 300*time.Second, elapsed)
	require.True(t, stale)
}

func TestClientLivenessFlips(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := newClient[batchProgress]("trainer-1", 1, 4, 300*time.Second, base)

	released := c.markDead()
	require.Equal(t, 1, released)
	require.False(t, c.Active())
	require.Equal(t, types.LivenessDead, c.Liveness())
	require.Equal(t, 1, c.Role(), "role is preserved while dead")

	c.markAlive(0)
	require.True(t, c.Active())
	require.Equal(t, 0, c.Role())
}
