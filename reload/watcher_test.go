package reload

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/roster"
	rostertest "github.com/arloliu/roster/testing"
	"github.com/arloliu/roster/types"
)

type batchProgress struct {
	Batches uint64 `json:"batches"`
}

func (p batchProgress) Equal(o batchProgress) bool { return p.Batches == o.Batches }

type ratioRecorder struct {
	err error
	ch  chan []float64
}

func newRecorder() *ratioRecorder {
	return &ratioRecorder{ch: make(chan []float64, 16)}
}

func (r *ratioRecorder) SetRoleRatios(ratios []float64) error {
	if r.err != nil {
		return r.err
	}

	r.ch <- append([]float64(nil), ratios...)

	return nil
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func nextRatios(t *testing.T, ch <-chan []float64) []float64 {
	t.Helper()

	select {
	case r := <-ch:
		return r
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for a ratio update")
		return nil
	}
}

func TestNew(t *testing.T) {
	rec := newRecorder()

	t.Run("empty path", func(t *testing.T) {
		w, err := New("", rec)
		require.ErrorIs(t, err, types.ErrInvalidConfig)
		require.Nil(t, w)
	})

	t.Run("nil target", func(t *testing.T) {
		_, err := New("roster.yaml", nil)
		require.ErrorIs(t, err, types.ErrInvalidConfig)
	})

	t.Run("non-positive debounce", func(t *testing.T) {
		_, err := New("roster.yaml", rec, WithDebounce(0))
		require.ErrorIs(t, err, types.ErrInvalidConfig)
	})
}

func TestWatcher_AppliesRatioEdits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	writeConfig(t, path, "roleRatios: [0.5, 0.5]\nroleLimits: [10, 10]\n")

	rec := newRecorder()

	w, err := New(path, rec,
		WithDebounce(25*time.Millisecond),
		WithLogger(rostertest.NewTestLogger(t)),
	)
	require.NoError(t, err)

	require.NoError(t, w.Start(t.Context()))
	t.Cleanup(func() { _ = w.Stop() })

	writeConfig(t, path, "roleRatios: [0.3, 0.7]\nroleLimits: [10, 10]\n")

	require.Equal(t, []float64{0.3, 0.7}, nextRatios(t, rec.ch))
}

func TestWatcher_DetectsAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	writeConfig(t, path, "roleRatios: [0.5, 0.5]\n")

	rec := newRecorder()

	w, err := New(path, rec, WithDebounce(25*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, w.Start(t.Context()))
	t.Cleanup(func() { _ = w.Stop() })

	// Write-then-rename is how editors and config tools replace files; the
	// directory watch catches the create event for the final name.
	tmp := filepath.Join(dir, "roster.yaml.tmp")
	writeConfig(t, tmp, "roleRatios: [0.25, 0.75]\n")
	require.NoError(t, os.Rename(tmp, path))

	require.Equal(t, []float64{0.25, 0.75}, nextRatios(t, rec.ch))
}

func TestWatcher_SurvivesMalformedEdits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	writeConfig(t, path, "roleRatios: [0.5, 0.5]\n")

	rec := newRecorder()

	w, err := New(path, rec,
		WithDebounce(25*time.Millisecond),
		WithLogger(rostertest.NewTestLogger(t)),
	)
	require.NoError(t, err)

	require.NoError(t, w.Start(t.Context()))
	t.Cleanup(func() { _ = w.Stop() })

	writeConfig(t, path, "roleRatios: [not, yaml")

	// Let the failed reload run; the previous ratios stay in effect.
	time.Sleep(300 * time.Millisecond)
	require.Empty(t, rec.ch)

	writeConfig(t, path, "roleRatios: [0.2, 0.8]\n")

	require.Equal(t, []float64{0.2, 0.8}, nextRatios(t, rec.ch))
}

func TestWatcher_Apply(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")

	t.Run("applies current file content", func(t *testing.T) {
		writeConfig(t, path, "roleRatios: [0.9, 0.1]\n")

		rec := newRecorder()
		w, err := New(path, rec)
		require.NoError(t, err)

		require.NoError(t, w.Apply())
		require.Equal(t, []float64{0.9, 0.1}, nextRatios(t, rec.ch))
	})

	t.Run("missing file", func(t *testing.T) {
		rec := newRecorder()
		w, err := New(filepath.Join(dir, "absent.yaml"), rec)
		require.NoError(t, err)

		require.Error(t, w.Apply())
	})

	t.Run("file without ratios", func(t *testing.T) {
		writeConfig(t, path, "maxThreads: 8\n")

		rec := newRecorder()
		w, err := New(path, rec)
		require.NoError(t, err)

		require.ErrorContains(t, w.Apply(), "no roleRatios")
	})

	t.Run("target error is wrapped", func(t *testing.T) {
		writeConfig(t, path, "roleRatios: [0.5, 0.5]\n")

		rec := newRecorder()
		rec.err = types.ErrRoleVectorMismatch

		w, err := New(path, rec)
		require.NoError(t, err)

		require.ErrorIs(t, w.Apply(), types.ErrRoleVectorMismatch)
	})
}

func TestWatcher_FeedsRegistry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	writeConfig(t, path, "roleRatios: [0.5, 0.5]\nroleLimits: [10, 10]\n")

	cfg, err := roster.LoadConfig(path)
	require.NoError(t, err)

	reg, err := roster.NewRegistry[batchProgress](&cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Close() })

	w, err := New(path, reg, WithDebounce(25*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, w.Start(t.Context()))
	t.Cleanup(func() { _ = w.Stop() })

	writeConfig(t, path, "roleRatios: [0.1, 0.9]\nroleLimits: [10, 10]\n")

	require.Eventually(t, func() bool {
		stats := reg.Stats()
		return stats[0].Ratio == 0.1 && stats[1].Ratio == 0.9
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	writeConfig(t, path, "roleRatios: [1.0]\n")

	newWatcher := func(t *testing.T) *Watcher {
		t.Helper()

		w, err := New(path, newRecorder())
		require.NoError(t, err)

		return w
	}

	t.Run("stop before start", func(t *testing.T) {
		w := newWatcher(t)
		require.ErrorIs(t, w.Stop(), types.ErrNotStarted)
	})

	t.Run("double start", func(t *testing.T) {
		w := newWatcher(t)
		require.NoError(t, w.Start(t.Context()))
		require.ErrorIs(t, w.Start(t.Context()), types.ErrAlreadyStarted)
		require.NoError(t, w.Stop())
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		w := newWatcher(t)
		require.NoError(t, w.Start(t.Context()))
		require.NoError(t, w.Stop())
		require.NoError(t, w.Stop())
	})

	t.Run("cannot restart after stop", func(t *testing.T) {
		w := newWatcher(t)
		require.NoError(t, w.Start(t.Context()))
		require.NoError(t, w.Stop())
		require.ErrorIs(t, w.Start(t.Context()), types.ErrAlreadyStopped)
	})
}
