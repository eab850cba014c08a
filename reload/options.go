package reload

import (
	"time"

	"github.com/arloliu/roster/types"
)

// Option configures a Watcher.
type Option func(*watcherOptions)

// watcherOptions holds optional Watcher configuration.
type watcherOptions struct {
	debounce time.Duration
	logger   types.Logger
}

// WithDebounce sets the quiet period after the last file event before the
// configuration is re-read.
//
// Editors typically emit several events per save; the debounce collapses
// them into one reload. The default is DefaultDebounce.
//
// Parameters:
//   - debounce: quiet period, must be positive
//
// Returns:
//   - Option: Functional option for New
func WithDebounce(debounce time.Duration) Option {
	return func(o *watcherOptions) {
		o.debounce = debounce
	}
}

// WithLogger sets the logger for reload activity and failures.
//
// The default discards all output.
//
// Parameters:
//   - logger: Logger implementation
//
// Returns:
//   - Option: Functional option for New
func WithLogger(logger types.Logger) Option {
	return func(o *watcherOptions) {
		o.logger = logger
	}
}
