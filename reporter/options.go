package reporter

import (
	"time"

	"github.com/arloliu/roster/types"
)

// Option configures a Publisher.
type Option func(*publisherOptions)

// publisherOptions holds optional Publisher configuration.
type publisherOptions struct {
	subject  string
	identity string
	interval time.Duration
	logger   types.Logger
}

// WithSubject sets the NATS subject reports are published to.
//
// Must match the subject the coordinator's ingest subscriber listens on.
// The default is DefaultSubject.
//
// Parameters:
//   - subject: NATS subject name, must be non-empty
//
// Returns:
//   - Option: Functional option for New
func WithSubject(subject string) Option {
	return func(o *publisherOptions) {
		o.subject = subject
	}
}

// WithIdentity sets the client identity carried in every report.
//
// Identities must be unique across the client population and stable for the
// lifetime of the process; the coordinator keys its records by identity and
// never reuses one. The default is "<hostname>-<uuid fragment>", unique per
// process even when several workers share a machine.
//
// Parameters:
//   - identity: client identity string
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	pub, err := reporter.New[BatchProgress](nc,
//	    reporter.WithIdentity(fmt.Sprintf("trainer-%d", rank)))
func WithIdentity(identity string) Option {
	return func(o *publisherOptions) {
		o.identity = identity
	}
}

// WithInterval sets the publish interval.
//
// Choose an interval well below the coordinator's ClientMaxDelay; a client
// publishing close to the liveness window flaps between alive and dead on
// every missed tick. The default is DefaultInterval.
//
// Parameters:
//   - interval: time between reports, must be positive
//
// Returns:
//   - Option: Functional option for New
func WithInterval(interval time.Duration) Option {
	return func(o *publisherOptions) {
		o.interval = interval
	}
}

// WithLogger sets the logger for publish failures.
//
// The default discards all output.
//
// Parameters:
//   - logger: Logger implementation
//
// Returns:
//   - Option: Functional option for New
func WithLogger(logger types.Logger) Option {
	return func(o *publisherOptions) {
		o.logger = logger
	}
}
