package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/arloliu/roster/internal/logging"
	"github.com/arloliu/roster/internal/natsutil"
	"github.com/arloliu/roster/types"
)

const (
	// DefaultSubject is the NATS subject reports are published to when no
	// WithSubject option is given. The ingest package defaults to the same
	// subject, so a publisher and a subscriber with default options pair up.
	DefaultSubject = "roster.reports"

	// DefaultInterval is the publish interval when no WithInterval option is
	// given.
	DefaultInterval = 10 * time.Second
)

// Publisher publishes periodic status reports to a NATS subject.
//
// Each worker thread records its latest progress value with SetThreadState.
// The publisher snapshots all recorded values every interval and sends them
// as a single StatusReport, which the coordinator uses both as a liveness
// signal and as the source of per-thread progress.
//
// The publisher never retries a failed publish. Reports are idempotent
// snapshots of current state, so the next tick supersedes anything lost, and
// the coordinator's liveness window absorbs the gap.
type Publisher[S types.ThreadState[S]] struct {
	conn     *nats.Conn
	subject  string
	identity string
	interval time.Duration
	logger   types.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	states  map[int]S
	ticker  *time.Ticker
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a status report publisher.
//
// Parameters:
//   - conn: NATS connection, must be non-nil
//   - opts: functional options
//
// Returns:
//   - *Publisher[S]: the publisher, not yet started
//   - error: ErrNATSConnectionRequired for a nil connection, or
//     ErrInvalidConfig for an empty subject or non-positive interval
//
// Example:
//
//	pub, err := reporter.New[BatchProgress](nc,
//	    reporter.WithInterval(2*time.Second))
func New[S types.ThreadState[S]](conn *nats.Conn, opts ...Option) (*Publisher[S], error) {
	if conn == nil {
		return nil, types.ErrNATSConnectionRequired
	}

	options := &publisherOptions{
		subject:  DefaultSubject,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.subject == "" {
		return nil, fmt.Errorf("%w: subject must not be empty", types.ErrInvalidConfig)
	}

	if options.interval <= 0 {
		return nil, fmt.Errorf("%w: publish interval must be positive, got %v", types.ErrInvalidConfig, options.interval)
	}

	identity := options.identity
	if identity == "" {
		identity = defaultIdentity()
	}

	logger := options.logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Publisher[S]{
		conn:     conn,
		subject:  options.subject,
		identity: identity,
		interval: options.interval,
		logger:   logger,
		states:   make(map[int]S),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// defaultIdentity builds an identity of the form <hostname>-<uuid fragment>.
// The fragment keeps identities unique when several worker processes share a
// hostname.
func defaultIdentity() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}

	return fmt.Sprintf("%s-%s", host, uuid.NewString()[:8])
}

// SetThreadState records the latest state for one worker thread.
//
// The value is held locally and included in every subsequent report. Call it
// from the worker thread whenever progress advances; calls need not align
// with the publish interval.
//
// Parameters:
//   - idx: worker thread index, must be >= 0
//   - state: latest progress value for the thread
//
// Panics if idx is negative. The upper bound is the coordinator's MaxThreads,
// which the client does not know; the ingest side validates it.
func (p *Publisher[S]) SetThreadState(idx int, state S) {
	if idx < 0 {
		panic(fmt.Sprintf("roster/reporter: negative thread index %d", idx))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.states[idx] = state
}

// Start begins publishing reports in the background.
//
// The first report is published immediately so the coordinator registers the
// client without waiting a full interval, then one report per interval until
// Stop is called or ctx ends. A stopped publisher cannot be restarted.
//
// Parameters:
//   - ctx: cancels the publish loop independently of Stop
//
// Returns:
//   - error: ErrAlreadyStarted, ErrAlreadyStopped, or the initial publish
//     failure (the publisher is left unstarted and Start may be retried)
func (p *Publisher[S]) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Check stopped first - once stopped, cannot restart
	if p.stopped {
		return types.ErrAlreadyStopped
	}
	if p.started {
		return types.ErrAlreadyStarted
	}

	p.started = true
	p.ticker = time.NewTicker(p.interval)

	if err := p.publish(p.buildReportLocked()); err != nil {
		p.started = false
		p.ticker.Stop()

		return fmt.Errorf("publishing initial status report: %w", err)
	}

	go p.publishLoop(ctx)

	return nil
}

// Stop stops the publisher and waits for the publish loop to exit.
//
// No final message is sent: the coordinator detects departure through the
// liveness window, exactly as it detects a crash. Safe to call multiple
// times; subsequent calls return immediately.
//
// Returns:
//   - error: ErrNotStarted if Start was never called
func (p *Publisher[S]) Stop() error {
	p.mu.Lock()

	if !p.started {
		p.mu.Unlock()
		return types.ErrNotStarted
	}
	if p.stopped {
		p.mu.Unlock()
		return nil // Already stopped - idempotent
	}

	p.stopped = true
	p.ticker.Stop()
	close(p.stopCh)

	p.mu.Unlock()

	// Wait for the publish loop to exit
	<-p.doneCh

	return nil
}

// publishLoop is the background goroutine that publishes reports until
// stopped or the context ends.
func (p *Publisher[S]) publishLoop(ctx context.Context) {
	defer close(p.doneCh)

	for {
		select {
		case <-p.stopCh:
			return

		case <-ctx.Done():
			p.logger.Debug("reporter context cancelled", "identity", p.identity, "error", ctx.Err())
			return

		case <-p.ticker.C:
			if err := p.publish(p.buildReport()); err != nil {
				// No retry; the next tick publishes a fresh snapshot anyway.
				// Connectivity failures clear on reconnect, so they only warn.
				if natsutil.IsConnectivityError(err) {
					p.logger.Warn("status report publish failed, server unreachable",
						"identity", p.identity,
						"subject", p.subject,
						"error", err,
					)
				} else {
					p.logger.Error("status report publish failed",
						"identity", p.identity,
						"subject", p.subject,
						"error", err,
					)
				}
			}
		}
	}
}

// buildReport snapshots the thread states into a wire report.
func (p *Publisher[S]) buildReport() types.StatusReport[S] {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.buildReportLocked()
}

// buildReportLocked copies the states map into a fresh report. Caller must
// hold p.mu.
func (p *Publisher[S]) buildReportLocked() types.StatusReport[S] {
	states := make(map[int]S, len(p.states))
	for idx, state := range p.states {
		states[idx] = state
	}

	return types.StatusReport[S]{
		Identity: p.identity,
		States:   states,
		SentAt:   time.Now(),
	}
}

// publish encodes one report and sends it to the subject.
func (p *Publisher[S]) publish(report types.StatusReport[S]) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding status report for %s: %w", report.Identity, err)
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publishing status report for %s: %w", report.Identity, err)
	}

	return nil
}

// Identity returns the identity carried in every report.
//
// Returns:
//   - string: the configured or generated client identity
func (p *Publisher[S]) Identity() string {
	return p.identity
}

// IsStarted returns whether the publisher is currently running.
//
// Returns:
//   - bool: true between a successful Start and Stop
func (p *Publisher[S]) IsStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.started && !p.stopped
}
