package stress_test

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/roster"
)

// requireStressEnabled skips the test unless long stress tests are explicitly enabled.
//
// Enable by setting environment variable ROSTER_STRESS=1 when invoking `go test`.
// Example:
//
//	ROSTER_STRESS=1 go test -v -timeout 20m ./test/stress
func requireStressEnabled(t *testing.T) {
	t.Helper()
	if os.Getenv("ROSTER_STRESS") != "1" {
		t.Skip("Skipping long stress/perf test (set ROSTER_STRESS=1 to run)")
	}
}

// batchProgress is the per-thread state payload used across the stress suite.
type batchProgress struct {
	Batches uint64 `json:"batches"`
}

func (p batchProgress) Equal(o batchProgress) bool {
	return p.Batches == o.Batches
}

// fakeClock lets tests move registry time forward without sleeping, so
// death waves and revivals run at full speed regardless of ClientMaxDelay.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = f.now.Add(d)
}

// newStressRegistry builds a two role registry sized for count clients with a
// fake clock, so liveness transitions are driven by the test instead of wall
// time.
func newStressRegistry(t *testing.T, count int) (*roster.Registry[batchProgress], *fakeClock) {
	t.Helper()

	cfg := roster.DefaultConfig()
	cfg.RoleRatios = []float64{0.3, 0.7}
	cfg.RoleLimits = []int{count, count}
	cfg.MaxThreads = 4
	cfg.ClientMaxDelay = 300 * time.Second

	clk := newFakeClock()

	reg, err := roster.NewRegistry[batchProgress](&cfg, roster.WithClock(clk.Now))
	require.NoError(t, err)

	t.Cleanup(func() { _ = reg.Close() })

	return reg, clk
}

// requireConserved checks the allocation invariants that must hold at any
// scale: per role counts sum to the live total and no role exceeds its limit.
func requireConserved(t *testing.T, reg *roster.Registry[batchProgress]) {
	t.Helper()

	sum := 0
	for _, rc := range reg.Stats() {
		require.LessOrEqual(t, rc.Count, rc.Limit, "role %d exceeds its limit", rc.Role)
		sum += rc.Count
	}

	require.Equal(t, reg.ActiveClients(), sum)
}
