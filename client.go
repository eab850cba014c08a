package roster

import (
	"fmt"
	"sync"
	"time"

	"github.com/arloliu/roster/types"
)

// threadState caches the last reported value for one thread slot.
//
// The timestamp advances only when the value actually changes, so a thread
// that keeps reporting the same state contributes nothing to liveness.
type threadState[S types.ThreadState[S]] struct {
	value     S
	updatedAt time.Time
}

// update stores s and returns true when it differs from the cached value.
//
// The initial cached value is the zero value of S, so a first report equal
// to the zero value is not a change.
func (t *threadState[S]) update(s S, now time.Time) bool {
	if t.value.Equal(s) {
		return false
	}

	t.value = s
	t.updatedAt = now

	return true
}

// ThreadStatus is a point-in-time copy of one thread slot.
type ThreadStatus[S types.ThreadState[S]] struct {
	// Value is the last reported state for the slot.
	Value S `json:"value"`

	// UpdatedAt is when the value last changed. Zero if the slot never
	// changed from its initial state.
	UpdatedAt time.Time `json:"updated_at"`
}

// Client is the registry's record of one worker process.
//
// A Client is created on the worker's first report and lives for the
// lifetime of the registry; death only releases its role, the record and its
// thread states survive so a revived worker resumes with history intact.
//
// All accessors are safe for concurrent use. Mutation happens only inside
// the registry, which holds its own lock before touching any record.
type Client[S types.ThreadState[S]] struct {
	identity string
	maxDelay time.Duration

	mu         sync.Mutex
	role       int
	seq        uint64
	active     bool
	lastUpdate time.Time
	threads    []threadState[S]
}

// newClient builds a live record holding the given role, with every thread
// slot at the zero value of S.
func newClient[S types.ThreadState[S]](identity string, role, maxThreads int, maxDelay time.Duration, now time.Time) *Client[S] {
	return &Client[S]{
		identity:   identity,
		maxDelay:   maxDelay,
		role:       role,
		active:     true,
		lastUpdate: now,
		threads:    make([]threadState[S], maxThreads),
	}
}

// Identity returns the client's identity string.
func (c *Client[S]) Identity() string {
	return c.identity
}

// Role returns the client's currently assigned role index.
//
// A dead client keeps reporting the role it held when it died; check Active
// to know whether the role is actually counted against the quotas.
func (c *Client[S]) Role() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.role
}

// Seq returns the number of reports the registry has applied for this
// client.
func (c *Client[S]) Seq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.seq
}

// JustRegistered reports whether the client was created but has not had a
// report applied yet. Equivalent to Seq() == 0.
func (c *Client[S]) JustRegistered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.seq == 0
}

// Active reports whether the client currently counts as live.
func (c *Client[S]) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.active
}

// Liveness returns the client's current liveness as a typed value.
func (c *Client[S]) Liveness() types.Liveness {
	if c.Active() {
		return types.LivenessAlive
	}

	return types.LivenessDead
}

// LastUpdate returns when the client last produced an accepted state change.
// For a client that never changed state, this is its registration time.
func (c *Client[S]) LastUpdate() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastUpdate
}

// NumThreads returns the number of thread slots the record tracks.
func (c *Client[S]) NumThreads() int {
	return len(c.threads)
}

// Thread returns a copy of the thread slot at index idx.
//
// Panics if idx is outside [0, NumThreads()).
func (c *Client[S]) Thread(idx int) ThreadStatus[S] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if idx < 0 || idx >= len(c.threads) {
		panic(fmt.Sprintf("roster: thread index %d out of range [0, %d)", idx, len(c.threads)))
	}

	return ThreadStatus[S]{
		Value:     c.threads[idx].value,
		UpdatedAt: c.threads[idx].updatedAt,
	}
}

// Threads returns a copy of every thread slot, indexed by slot number.
func (c *Client[S]) Threads() []ThreadStatus[S] {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]ThreadStatus[S], len(c.threads))
	for i := range c.threads {
		out[i] = ThreadStatus[S]{
			Value:     c.threads[i].value,
			UpdatedAt: c.threads[i].updatedAt,
		}
	}

	return out
}

// StaleFor returns how long the client has gone without a state change as of
// now, and whether that exceeds the client's liveness window.
//
// Parameters:
//   - now: the observation time, normally the registry clock's current time
//
// Returns:
//   - time.Duration: elapsed time since the last accepted change
//   - bool: true when the client is overdue and counts as dead
func (c *Client[S]) StaleFor(now time.Time) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := now.Sub(c.lastUpdate)

	return elapsed, elapsed >= c.maxDelay
}

// applyUpdates stores the given per-thread states and returns how many
// slots actually changed. Bumps lastUpdate when at least one did.
//
// Panics if any thread index is outside [0, NumThreads()); a bad index is a
// caller bug, not a runtime condition.
func (c *Client[S]) applyUpdates(updates map[int]S, now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := 0

	for idx, s := range updates {
		if idx < 0 || idx >= len(c.threads) {
			panic(fmt.Sprintf("roster: thread index %d out of range [0, %d)", idx, len(c.threads)))
		}

		if c.threads[idx].update(s, now) {
			changed++
		}
	}

	if changed > 0 {
		c.lastUpdate = now
	}

	return changed
}

// bumpSeq counts one applied report.
func (c *Client[S]) bumpSeq() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
}

// staleness returns the elapsed time since the last accepted change and the
// current alive flag in one locked read. Used by the liveness sweep.
func (c *Client[S]) staleness(now time.Time) (elapsed time.Duration, active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return now.Sub(c.lastUpdate), c.active
}

// markDead flips the record to dead and returns the role it held.
func (c *Client[S]) markDead() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.active = false

	return c.role
}

// markAlive flips the record back to active under a freshly committed role.
func (c *Client[S]) markAlive(role int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.active = true
	c.role = role
}
