package ingest

import (
	"github.com/arloliu/roster/types"
)

// Option configures a Subscriber.
type Option func(*subscriberOptions)

// subscriberOptions holds optional Subscriber configuration.
type subscriberOptions struct {
	subject    string
	queue      string
	maxThreads int
	logger     types.Logger
}

// WithSubject sets the NATS subject to listen on.
//
// Must match the subject the reporters publish to. The default is
// DefaultSubject.
//
// Parameters:
//   - subject: NATS subject name, must be non-empty
//
// Returns:
//   - Option: Functional option for New
func WithSubject(subject string) Option {
	return func(o *subscriberOptions) {
		o.subject = subject
	}
}

// WithQueue joins the subscription to a NATS queue group.
//
// Within a queue group each report is delivered to exactly one member. Use
// it when several ingest subscribers feed the same registry and each report
// must be processed once. Leave it unset (the default) for a single
// subscriber.
//
// Parameters:
//   - queue: NATS queue group name
//
// Returns:
//   - Option: Functional option for New
func WithQueue(queue string) Option {
	return func(o *subscriberOptions) {
		o.queue = queue
	}
}

// WithMaxThreads sets the upper bound for thread indices in reports.
//
// Reports carrying an index outside [0, maxThreads) are dropped before they
// reach the handler. Pass the registry's configured MaxThreads here; the
// registry panics on out-of-range indices, and that must stay a programming
// fault, not something a remote client can trigger.
//
// With the default of 0 only negative indices are screened.
//
// Parameters:
//   - maxThreads: number of valid thread slots, must be >= 0
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	sub, err := ingest.New(nc, handler,
//	    ingest.WithMaxThreads(reg.Config().MaxThreads))
func WithMaxThreads(maxThreads int) Option {
	return func(o *subscriberOptions) {
		o.maxThreads = maxThreads
	}
}

// WithLogger sets the logger for dropped reports and handler failures.
//
// The default discards all output.
//
// Parameters:
//   - logger: Logger implementation
//
// Returns:
//   - Option: Functional option for New
func WithLogger(logger types.Logger) Option {
	return func(o *subscriberOptions) {
		o.logger = logger
	}
}
