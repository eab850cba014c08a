package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/arloliu/roster/internal/logging"
	"github.com/arloliu/roster/types"
)

// DefaultSubject is the NATS subject listened on when no WithSubject option
// is given. It matches the reporter package's default, so a publisher and a
// subscriber with default options pair up.
const DefaultSubject = "roster.reports"

// Subscriber consumes status reports from a NATS subject and feeds them to a
// Handler.
//
// Every message is decoded and screened before the handler sees it:
// malformed JSON, empty identities, and out-of-range thread indices are
// logged and dropped. Screening is what keeps a misbehaving or malicious
// reporter from panicking the registry through its thread-index assertion.
type Subscriber[S types.ThreadState[S]] struct {
	conn       *nats.Conn
	handler    Handler[S]
	subject    string
	queue      string
	maxThreads int
	logger     types.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	sub     *nats.Subscription
	ctx     context.Context
}

// New creates a status report subscriber.
//
// Parameters:
//   - conn: NATS connection, must be non-nil
//   - handler: report consumer, must be non-nil (see HandlerFunc)
//   - opts: functional options
//
// Returns:
//   - *Subscriber[S]: the subscriber, not yet started
//   - error: ErrNATSConnectionRequired for a nil connection, or
//     ErrInvalidConfig for a nil handler, empty subject, or negative
//     maxThreads
//
// Example:
//
//	sub, err := ingest.New(nc,
//	    ingest.HandlerFunc[BatchProgress](func(ctx context.Context, identity string, states map[int]BatchProgress) error {
//	        _, err := reg.Report(identity, states)
//	        return err
//	    }),
//	    ingest.WithMaxThreads(reg.Config().MaxThreads))
func New[S types.ThreadState[S]](conn *nats.Conn, handler Handler[S], opts ...Option) (*Subscriber[S], error) {
	if conn == nil {
		return nil, types.ErrNATSConnectionRequired
	}

	if handler == nil {
		return nil, fmt.Errorf("%w: handler must not be nil", types.ErrInvalidConfig)
	}

	options := &subscriberOptions{
		subject: DefaultSubject,
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.subject == "" {
		return nil, fmt.Errorf("%w: subject must not be empty", types.ErrInvalidConfig)
	}

	if options.maxThreads < 0 {
		return nil, fmt.Errorf("%w: max threads must be >= 0, got %d", types.ErrInvalidConfig, options.maxThreads)
	}

	logger := options.logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Subscriber[S]{
		conn:       conn,
		handler:    handler,
		subject:    options.subject,
		queue:      options.queue,
		maxThreads: options.maxThreads,
		logger:     logger,
	}, nil
}

// Start subscribes to the subject and begins dispatching reports.
//
// Messages are handled on the NATS delivery goroutine, sequentially per
// subscription. A stopped subscriber cannot be restarted.
//
// Parameters:
//   - ctx: passed through to every HandleReport call
//
// Returns:
//   - error: ErrAlreadyStarted, ErrAlreadyStopped, or the subscribe failure
func (s *Subscriber[S]) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check stopped first - once stopped, cannot restart
	if s.stopped {
		return types.ErrAlreadyStopped
	}
	if s.started {
		return types.ErrAlreadyStarted
	}

	s.ctx = ctx

	var (
		sub *nats.Subscription
		err error
	)

	if s.queue != "" {
		sub, err = s.conn.QueueSubscribe(s.subject, s.queue, s.onMessage)
	} else {
		sub, err = s.conn.Subscribe(s.subject, s.onMessage)
	}

	if err != nil {
		return fmt.Errorf("subscribing to %q: %w", s.subject, err)
	}

	s.sub = sub
	s.started = true

	s.logger.Info("report ingest started", "subject", s.subject, "queue", s.queue)

	return nil
}

// Stop unsubscribes from the subject.
//
// Reports already handed to the handler complete; nothing new is dispatched
// afterwards. Safe to call multiple times; subsequent calls return
// immediately.
//
// Returns:
//   - error: ErrNotStarted if Start was never called, or the unsubscribe
//     failure
func (s *Subscriber[S]) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return types.ErrNotStarted
	}
	if s.stopped {
		return nil // Already stopped - idempotent
	}

	s.stopped = true

	if err := s.sub.Unsubscribe(); err != nil {
		return fmt.Errorf("unsubscribing from %q: %w", s.subject, err)
	}

	s.logger.Info("report ingest stopped", "subject", s.subject)

	return nil
}

// IsStarted returns whether the subscriber is currently running.
//
// Returns:
//   - bool: true between a successful Start and Stop
func (s *Subscriber[S]) IsStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.started && !s.stopped
}

// onMessage decodes, screens, and dispatches one report.
func (s *Subscriber[S]) onMessage(msg *nats.Msg) {
	var report types.StatusReport[S]
	if err := json.Unmarshal(msg.Data, &report); err != nil {
		s.logger.Warn("dropping malformed status report",
			"subject", msg.Subject,
			"bytes", len(msg.Data),
			"error", err,
		)

		return
	}

	if report.Identity == "" {
		s.logger.Warn("dropping status report without identity",
			"subject", msg.Subject,
			"error", types.ErrNoIdentity,
		)

		return
	}

	if idx, ok := s.screenThreadIndices(report.States); !ok {
		s.logger.Warn("dropping status report with out-of-range thread index",
			"identity", report.Identity,
			"thread", idx,
			"max_threads", s.maxThreads,
		)

		return
	}

	if err := s.handler.HandleReport(s.ctx, report.Identity, report.States); err != nil {
		s.logger.Error("status report handler failed",
			"identity", report.Identity,
			"error", err,
		)
	}
}

// screenThreadIndices reports the first thread index the registry would
// refuse. The registry treats a bad index as a programming fault and panics;
// data from the wire is screened here instead.
func (s *Subscriber[S]) screenThreadIndices(states map[int]S) (int, bool) {
	for idx := range states {
		if idx < 0 {
			return idx, false
		}

		if s.maxThreads > 0 && idx >= s.maxThreads {
			return idx, false
		}
	}

	return 0, true
}
