package roster

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/roster/internal/hooks"
	"github.com/arloliu/roster/internal/logging"
	"github.com/arloliu/roster/internal/metrics"
	"github.com/arloliu/roster/internal/quota"
	"github.com/arloliu/roster/strategy"
	"github.com/arloliu/roster/types"
)

// Registry tracks liveness and role assignment for a population of worker
// clients.
//
// Clients report per-thread progress through Report; the registry keeps one
// record per identity, detects clients that stop making progress, and
// balances role assignment against the configured ratios and limits. A full
// liveness sweep runs inline on every report, so no background goroutine is
// required; StartMonitor adds one for deployments with quiet periods.
//
// All methods are safe for concurrent use. A single registry lock serializes
// every mutating operation; per-record locks nest under it, so accessors on a
// returned *Client never deadlock against registry mutation.
type Registry[S types.ThreadState[S]] struct {
	cfg      Config
	strategy types.RoleStrategy
	hooks    *types.Hooks
	metrics  types.MetricsCollector
	logger   types.Logger
	clock    types.Clock

	mu      sync.Mutex
	clients map[string]*Client[S]
	quota   *quota.Counters
	closed  bool

	subscribers      *xsync.Map[uint64, *eventSubscriber]
	nextSubscriberID atomic.Uint64

	// hookCtx is handed to hook callbacks; cancelled on Close.
	hookCtx    context.Context
	hookCancel context.CancelFunc

	// Background monitor lifecycle
	monitorMu      sync.Mutex
	monitorStarted bool
	monitorStopped bool
	monitorStopCh  chan struct{}
	monitorDoneCh  chan struct{}
}

// NewRegistry creates a registry from the given configuration.
//
// Missing configuration fields are filled with defaults, then the
// configuration is validated. Optional dependencies (logger, metrics, hooks,
// role strategy, clock) are supplied via options; every one of them has a
// safe default.
//
// Parameters:
//   - cfg: registry configuration, must be non-nil
//   - opts: functional options
//
// Returns:
//   - *Registry[S]: the ready-to-use registry
//   - error: ErrInvalidConfig for a nil cfg, or a validation error
//
// Example:
//
//	cfg := roster.DefaultConfig()
//	cfg.RoleRatios = []float64{0.5, 0.5}
//	cfg.RoleLimits = []int{100, 100}
//
//	reg, err := roster.NewRegistry[BatchProgress](&cfg,
//	    roster.WithLogger(logging.NewSlogDefault()))
func NewRegistry[S types.ThreadState[S]](cfg *Config, opts ...Option) (*Registry[S], error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}

	// Fill in missing configuration values with defaults
	SetDefaults(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Apply options
	options := &registryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	// Validate with warnings after logger is available
	cfg.ValidateWithWarnings(loggerInstance)

	hooksInstance := options.hooks
	if hooksInstance == nil {
		nopHooks := hooks.NewNop()
		hooksInstance = &nopHooks
	}

	strategyInstance := options.strategy
	if strategyInstance == nil {
		strategyInstance = strategy.NewRatioFirst()
	}

	clockInstance := options.clock
	if clockInstance == nil {
		clockInstance = time.Now
	}

	counters, err := quota.New(cfg.RoleRatios, cfg.RoleLimits)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	hookCtx, hookCancel := context.WithCancel(context.Background())

	r := &Registry[S]{
		cfg:           *cfg,
		strategy:      strategyInstance,
		hooks:         hooksInstance,
		metrics:       metricsCollector,
		logger:        loggerInstance,
		clock:         clockInstance,
		clients:       make(map[string]*Client[S]),
		quota:         counters,
		subscribers:   xsync.NewMap[uint64, *eventSubscriber](),
		hookCtx:       hookCtx,
		hookCancel:    hookCancel,
		monitorStopCh: make(chan struct{}),
		monitorDoneCh: make(chan struct{}),
	}

	return r, nil
}

// Config returns a copy of the effective configuration, defaults applied.
func (r *Registry[S]) Config() Config {
	return r.cfg
}

// Report applies a batch of per-thread state updates for one client, then
// runs a liveness sweep across every record in the registry.
//
// A record is created lazily on the first report for an identity, receiving
// a role from the strategy. Each update is compared against the cached value
// for its thread slot; only actual changes advance the client's liveness
// timestamp. The sweep that follows re-evaluates every client, not just the
// reporting one, so steady traffic from any client keeps death detection
// current for all of them.
//
// Parameters:
//   - identity: the reporting client's identity, must be non-empty
//   - updates: per-thread states keyed by thread index in [0, MaxThreads)
//
// Returns:
//   - *Client[S]: the created-or-updated record
//   - error: ErrRegistryClosed, ErrNoIdentity, or an allocation error when a
//     brand-new identity cannot be admitted to any role
//
// Panics if any key of updates is outside [0, MaxThreads); a bad thread
// index is a caller bug, not a runtime condition.
func (r *Registry[S]) Report(identity string, updates map[int]S) (*Client[S], error) {
	now := r.clock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}

	c, err := r.getOrCreateLocked(identity, now)
	if err != nil {
		return nil, err
	}

	changed := c.applyUpdates(updates, now)
	c.bumpSeq()
	r.metrics.RecordReport(identity, changed)

	r.sweepLocked(now)

	return c, nil
}

// GetOrCreate returns the record for identity, creating and role-assigning
// it first if absent. Unlike Report it applies no updates and runs no sweep.
//
// Returns:
//   - *Client[S]: the record
//   - error: ErrRegistryClosed, ErrNoIdentity, or an allocation error for a
//     brand-new identity
func (r *Registry[S]) GetOrCreate(identity string) (*Client[S], error) {
	now := r.clock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}

	return r.getOrCreateLocked(identity, now)
}

// Lookup returns the record for identity, if one exists. It never creates.
func (r *Registry[S]) Lookup(identity string) (*Client[S], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[identity]

	return c, ok
}

// NumClients returns the number of records in the registry, dead ones
// included. Records are never removed, so this only grows.
func (r *Registry[S]) NumClients() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.clients)
}

// ActiveClients returns the number of currently live clients, which always
// equals the sum of per-role counts.
func (r *Registry[S]) ActiveClients() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.quota.Total()
}

// Sweep runs one liveness sweep immediately.
//
// Reports already sweep inline; Sweep is for callers that need death
// detection to keep working while no reports arrive, without starting the
// background monitor.
//
// Returns:
//   - error: ErrRegistryClosed if the registry has been closed
func (r *Registry[S]) Sweep() error {
	now := r.clock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRegistryClosed
	}

	r.sweepLocked(now)

	return nil
}

// SetRoleRatios replaces the target ratios, leaving limits and live counts
// untouched.
//
// Ratios only steer future allocations; no live client is reassigned. The
// new vector must match the configured number of roles and every entry must
// be a finite value in [0.0, 1.0].
//
// Returns:
//   - error: ErrRegistryClosed, ErrRoleVectorMismatch, or a value error
func (r *Registry[S]) SetRoleRatios(ratios []float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRegistryClosed
	}

	if err := r.quota.SetRatios(ratios); err != nil {
		return err
	}

	r.logger.Info("role ratios updated", "ratios", ratios)

	return nil
}

// Stats returns a snapshot of per-role occupancy: configured ratio and
// limit, live count, and realized share for every role.
func (r *Registry[S]) Stats() []types.RoleCount {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.quota.Snapshot()
}

// Snapshot returns a one-line diagnostic summary of the registry, meant for
// logs and admin endpoints rather than parsing.
func (r *Registry[S]) Snapshot() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return fmt.Sprintf("clients=%d active=%d roles[%s]", len(r.clients), r.quota.Total(), r.quota.String())
}

// Subscribe returns a channel of client events and an unsubscribe function.
//
// Delivery is best-effort: a subscriber that falls behind loses events
// (counted by the metrics collector) rather than stalling report
// processing. The channel is closed by the unsubscribe function or when the
// registry is closed.
func (r *Registry[S]) Subscribe() (<-chan ClientEvent, func()) {
	id := r.nextSubscriberID.Add(1)

	// Buffer absorbs the burst of transitions a single sweep can produce
	// without requiring the subscriber to keep pace with the lock window.
	sub := &eventSubscriber{ch: make(chan ClientEvent, 16)}
	r.subscribers.Store(id, sub)

	unsubscribe := func() {
		r.removeSubscriber(id)
	}

	return sub.ch, unsubscribe
}

// removeSubscriber removes a subscriber and closes its channel.
func (r *Registry[S]) removeSubscriber(id uint64) {
	if sub, ok := r.subscribers.LoadAndDelete(id); ok {
		sub.close()
	}
}

// publishEvent fans an event out to every subscriber.
func (r *Registry[S]) publishEvent(ev ClientEvent) {
	r.subscribers.Range(func(_ uint64, sub *eventSubscriber) bool {
		sub.trySend(ev, r.metrics)
		return true
	})
}

// StartMonitor launches a background goroutine that sweeps every
// SweepInterval.
//
// A registry receiving steady report traffic does not need the monitor,
// because every report sweeps inline. Start it when dead clients must be
// detected through quiet periods with no reporting activity at all.
//
// Parameters:
//   - ctx: cancels the monitor independently of StopMonitor
//
// Returns:
//   - error: ErrRegistryClosed, ErrMonitorAlreadyStarted, or
//     ErrMonitorAlreadyStopped
func (r *Registry[S]) StartMonitor(ctx context.Context) error {
	if r.isClosed() {
		return ErrRegistryClosed
	}

	r.monitorMu.Lock()
	defer r.monitorMu.Unlock()

	// Check stopped first - once stopped, cannot restart
	if r.monitorStopped {
		return ErrMonitorAlreadyStopped
	}
	if r.monitorStarted {
		return ErrMonitorAlreadyStarted
	}

	r.monitorStarted = true
	go r.runMonitor(ctx)

	return nil
}

// StopMonitor stops the background monitor and waits for it to exit.
//
// Safe to call multiple times; subsequent calls return immediately.
//
// Returns:
//   - error: ErrMonitorNotStarted if StartMonitor was never called
func (r *Registry[S]) StopMonitor() error {
	r.monitorMu.Lock()
	if !r.monitorStarted {
		r.monitorMu.Unlock()
		return ErrMonitorNotStarted
	}
	if r.monitorStopped {
		r.monitorMu.Unlock()
		return nil // Already stopped - idempotent
	}
	r.monitorStopped = true
	r.monitorMu.Unlock()

	close(r.monitorStopCh)
	<-r.monitorDoneCh

	return nil
}

// runMonitor drives periodic sweeps until stopped or the context ends.
// It signals monitorDoneCh when exiting to allow StopMonitor to complete.
func (r *Registry[S]) runMonitor(ctx context.Context) {
	defer close(r.monitorDoneCh)

	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	r.logger.Debug("sweep monitor started", "interval", r.cfg.SweepInterval)

	for {
		select {
		case <-ticker.C:
			if err := r.Sweep(); err != nil {
				// Only ErrRegistryClosed reaches here; nothing left to sweep.
				r.logger.Debug("sweep monitor exiting", "error", err)
				return
			}

		case <-r.monitorStopCh:
			r.logger.Debug("sweep monitor stopped")
			return

		case <-ctx.Done():
			r.logger.Debug("sweep monitor context cancelled", "error", ctx.Err())
			return
		}
	}
}

// Close shuts the registry down: the background monitor is stopped if
// running, hook contexts are cancelled, and every subscriber channel is
// closed. Further mutating calls return ErrRegistryClosed; records already
// handed out stay readable.
//
// Safe to call multiple times; only the first call does work.
func (r *Registry[S]) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	numClients := len(r.clients)
	active := r.quota.Total()
	r.mu.Unlock()

	// Stop the background monitor if it is running; ErrMonitorNotStarted
	// just means there is nothing to stop.
	_ = r.StopMonitor()

	r.hookCancel()

	r.subscribers.Range(func(id uint64, sub *eventSubscriber) bool {
		sub.close()
		r.subscribers.Delete(id)
		return true
	})

	r.logger.Info("registry closed", "clients", numClients, "active", active)

	return nil
}

// isClosed reads the closed flag under the registry lock.
func (r *Registry[S]) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.closed
}

// getOrCreateLocked returns the record for identity, creating it with a
// freshly allocated role when absent. Caller must hold r.mu.
func (r *Registry[S]) getOrCreateLocked(identity string, now time.Time) (*Client[S], error) {
	if identity == "" {
		return nil, types.ErrNoIdentity
	}

	if c, ok := r.clients[identity]; ok {
		return c, nil
	}

	role, err := r.allocateLocked(identity)
	if err != nil {
		r.logger.Warn("rejecting new client, no role capacity",
			"identity", identity,
			"error", err,
		)

		wrapped := fmt.Errorf("registering client %q: %w", identity, err)
		r.fireError(wrapped)

		return nil, wrapped
	}

	c := newClient[S](identity, role, r.cfg.MaxThreads, r.cfg.ClientMaxDelay, now)
	r.clients[identity] = c

	r.logger.Info("client registered",
		"identity", identity,
		"role", role,
		"active", r.quota.Total(),
	)

	r.fireClientRegistered(identity, role)
	r.publishEvent(ClientEvent{Identity: identity, Kind: EventRegistered, Role: role, At: now})

	return c, nil
}

// allocateLocked picks a role for identity via the strategy and commits it
// against the quotas. Caller must hold r.mu.
func (r *Registry[S]) allocateLocked(identity string) (int, error) {
	counts, total, ratios, limits := r.quota.View()

	role, err := r.strategy.Pick(identity, counts, total, ratios, limits)
	if err != nil {
		r.metrics.RecordAllocationFailure()
		return types.RoleUnassigned, err
	}

	if err := r.quota.Commit(role); err != nil {
		// The strategy picked a role the quotas cannot admit. RatioFirst
		// never does this, but a custom strategy might.
		r.metrics.RecordAllocationFailure()
		r.logger.Error("strategy picked an inadmissible role",
			"identity", identity,
			"role", role,
			"error", err,
		)

		return types.RoleUnassigned, err
	}

	r.metrics.RecordRoleAllocation(role)
	r.metrics.RecordRoleClients(role, r.quota.Count(role))
	r.metrics.RecordActiveClients(r.quota.Total())

	return role, nil
}

// releaseLocked returns a role to the quotas. Caller must hold r.mu.
func (r *Registry[S]) releaseLocked(identity string, role int) {
	if err := r.quota.Release(role); err != nil {
		// Counters are driven purely by liveness transitions, so a failed
		// release means the internal bookkeeping is corrupted.
		r.logger.Error("role release failed",
			"identity", identity,
			"role", role,
			"error", err,
		)
		r.fireError(fmt.Errorf("releasing role %d of client %q: %w", role, identity, err))

		return
	}

	r.metrics.RecordRoleRelease(role)
	r.metrics.RecordRoleClients(role, r.quota.Count(role))
	r.metrics.RecordActiveClients(r.quota.Total())
}

// sweepLocked re-evaluates liveness for every record against the same
// observation time. Caller must hold r.mu.
//
// A live client past its liveness window goes dead and releases its role. A
// dead client with a fresh update revives under a newly allocated role; if
// no role can admit it the client stays dead and the next sweep retries.
func (r *Registry[S]) sweepLocked(now time.Time) {
	start := time.Now()

	var wentDead, revived []string

	for identity, c := range r.clients {
		elapsed, active := c.staleness(now)

		switch {
		case active && elapsed >= c.maxDelay:
			role := c.markDead()
			r.releaseLocked(identity, role)

			r.metrics.RecordLivenessTransition(identity, types.TransitionAliveToDead)
			r.fireLivenessChanged(identity, types.TransitionAliveToDead, role)
			r.publishEvent(ClientEvent{Identity: identity, Kind: EventWentDead, Role: role, At: now})

			wentDead = append(wentDead, identity)

		case !active && elapsed < c.maxDelay:
			role, err := r.allocateLocked(identity)
			if err != nil {
				r.logger.Warn("cannot revive client, no role capacity",
					"identity", identity,
					"error", err,
				)
				r.fireError(fmt.Errorf("reviving client %q: %w", identity, err))

				continue
			}

			c.markAlive(role)

			r.metrics.RecordLivenessTransition(identity, types.TransitionDeadToAlive)
			r.fireLivenessChanged(identity, types.TransitionDeadToAlive, role)
			r.publishEvent(ClientEvent{Identity: identity, Kind: EventRevived, Role: role, At: now})

			revived = append(revived, identity)
		}
	}

	if len(wentDead) > 0 || len(revived) > 0 {
		r.logger.Info("liveness sweep applied transitions",
			"went_dead", wentDead,
			"revived", revived,
			"active", r.quota.Total(),
		)
	}

	r.metrics.RecordSweepDuration(time.Since(start).Seconds())
}

// fireClientRegistered invokes the registration hook, if set.
func (r *Registry[S]) fireClientRegistered(identity string, role int) {
	if r.hooks.OnClientRegistered != nil {
		// Run hook in background to avoid blocking the report path
		go func() {
			if err := r.hooks.OnClientRegistered(r.hookCtx, identity, role); err != nil {
				r.logger.Error("client registered hook error",
					"identity", identity,
					"role", role,
					"error", err,
				)
			}
		}()
	}
}

// fireLivenessChanged invokes the liveness transition hook, if set.
func (r *Registry[S]) fireLivenessChanged(identity string, transition types.Transition, role int) {
	if r.hooks.OnLivenessChanged != nil {
		go func() {
			if err := r.hooks.OnLivenessChanged(r.hookCtx, identity, transition, role); err != nil {
				r.logger.Error("liveness change hook error",
					"identity", identity,
					"transition", transition.String(),
					"error", err,
				)
			}
		}()
	}
}

// fireError invokes the error hook, if set.
func (r *Registry[S]) fireError(err error) {
	if r.hooks.OnError != nil {
		go func() {
			if hookErr := r.hooks.OnError(r.hookCtx, err); hookErr != nil {
				r.logger.Error("error hook error", "error", hookErr)
			}
		}()
	}
}
