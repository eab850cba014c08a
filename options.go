package roster

// Option configures a Registry with optional dependencies.
type Option func(*registryOptions)

// registryOptions holds optional Registry configuration.
type registryOptions struct {
	strategy RoleStrategy
	hooks    *Hooks
	metrics  MetricsCollector
	logger   Logger
	clock    Clock
}

// WithRoleStrategy sets a custom role selection strategy.
//
// The default is strategy.NewRatioFirst, which favors roles below their
// target ratio and falls back to any role below its limit.
//
// Parameters:
//   - s: RoleStrategy implementation
//
// Returns:
//   - Option: Functional option for NewRegistry
//
// Example:
//
//	reg, err := roster.NewRegistry[BatchProgress](&cfg,
//	    roster.WithRoleStrategy(strategy.NewHashAffinity()))
func WithRoleStrategy(s RoleStrategy) Option {
	return func(o *registryOptions) {
		o.strategy = s
	}
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewRegistry
//
// Example:
//
//	hooks := &roster.Hooks{
//	    OnLivenessChanged: func(ctx context.Context, identity string, transition roster.Transition, role int) error {
//	        log.Printf("%s: %s (role %d)", identity, transition, role)
//	        return nil
//	    },
//	}
//	reg, err := roster.NewRegistry[BatchProgress](&cfg, roster.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *registryOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a custom metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewRegistry
//
// Example:
//
//	collector := metrics.NewPrometheus(nil, "roster")
//	reg, err := roster.NewRegistry[BatchProgress](&cfg, roster.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *registryOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a custom logger.
//
// Parameters:
//   - logger: Logger implementation
//
// Returns:
//   - Option: Functional option for NewRegistry
//
// Example:
//
//	logger := logging.NewSlogDefault()
//	reg, err := roster.NewRegistry[BatchProgress](&cfg, roster.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *registryOptions) {
		o.logger = logger
	}
}

// WithClock sets the time source used for liveness decisions.
//
// The registry timestamps accepted updates and measures staleness with this
// clock. Tests inject a fake clock to step time deterministically instead of
// sleeping through ClientMaxDelay.
//
// Parameters:
//   - clock: function returning the current time
//
// Returns:
//   - Option: Functional option for NewRegistry
//
// Example:
//
//	now := time.Now()
//	reg, err := roster.NewRegistry[BatchProgress](&cfg,
//	    roster.WithClock(func() time.Time { return now }))
func WithClock(clock Clock) Option {
	return func(o *registryOptions) {
		o.clock = clock
	}
}
