package roster

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/roster/types"
)

// Config holds the configuration for a Registry.
//
// The role vectors (RoleRatios, RoleLimits) describe how live clients are
// spread across roles: ratios express the desired share per role, limits cap
// the absolute count per role. Both slices must have the same length, one
// entry per role, indexed from zero.
//
// Timing fields control liveness: a client whose last accepted report is
// older than ClientMaxDelay is considered dead. SweepInterval only matters
// when the background monitor is started; sweeps also run inline on every
// report, so a registry that receives steady traffic never needs the monitor.
type Config struct {
	// RoleRatios is the desired share of live clients per role.
	//
	// Entry t is the target fraction for role t, in [0.0, 1.0]. The ratios
	// steer allocation order but are not enforced as caps; only RoleLimits
	// are hard bounds. Ratios that do not sum to 1.0 are accepted (a warning
	// is logged) and simply skew the balance point.
	//
	// Default: [1.0] (single role)
	RoleRatios []float64 `yaml:"roleRatios"`

	// RoleLimits is the hard cap on live clients per role.
	//
	// Entry t is the maximum number of live clients that may hold role t at
	// once. A limit of 0 makes the role unassignable. When every role is at
	// its limit, new registrations and revivals fail with
	// ErrAllocationInfeasible until capacity frees up.
	//
	// Default: [16384]
	RoleLimits []int `yaml:"roleLimits"`

	// MaxThreads is the number of progress slots tracked per client.
	//
	// Reports address threads by index in [0, MaxThreads). Reporting an
	// out-of-range index is a programming fault and panics.
	//
	// Default: 16
	MaxThreads int `yaml:"maxThreads"`

	// ClientMaxDelay is how long a client may go without a state change
	// before it is considered dead.
	//
	// The delay is measured from the client's last accepted update, not from
	// its last report: a client that keeps sending identical thread states
	// still goes dead. Each client captures the value at registration time,
	// so changing it later only affects new clients.
	//
	// Default: 5 minutes
	ClientMaxDelay time.Duration `yaml:"clientMaxDelay"`

	// SweepInterval is how often the background monitor runs a liveness
	// sweep. Only used after StartMonitor is called.
	//
	// Default: 30 seconds
	SweepInterval time.Duration `yaml:"sweepInterval"`
}

// DefaultConfig returns a Config with production-ready defaults: a single
// role with a generous limit, 16 thread slots, and a 5 minute liveness
// window.
//
// Returns:
//   - Config: configuration populated with default values
//
// Example:
//
//	cfg := roster.DefaultConfig()
//	cfg.RoleRatios = []float64{0.5, 0.5}
//	cfg.RoleLimits = []int{100, 100}
//	reg, err := roster.NewRegistry[BatchProgress](&cfg)
func DefaultConfig() Config {
	return Config{
		RoleRatios:     []float64{1.0},
		RoleLimits:     []int{16384},
		MaxThreads:     16,
		ClientMaxDelay: 5 * time.Minute,
		SweepInterval:  30 * time.Second,
	}
}

// TestConfig returns a Config tuned for fast tests: a tight liveness window
// and a short sweep interval so transitions happen in milliseconds instead
// of minutes.
//
// Returns:
//   - Config: configuration suitable for unit and integration tests
func TestConfig() Config {
	return Config{
		RoleRatios:     []float64{1.0},
		RoleLimits:     []int{64},
		MaxThreads:     4,
		ClientMaxDelay: 500 * time.Millisecond,
		SweepInterval:  50 * time.Millisecond,
	}
}

// LoadConfig reads a YAML file into a Config.
//
// Missing fields are left at their zero values; NewRegistry applies defaults
// and validates, so callers normally pass the result straight through.
//
// Parameters:
//   - path: filesystem path of the YAML configuration file
//
// Returns:
//   - Config: the parsed configuration
//   - error: file read or YAML parse failure
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return cfg, nil
}

// SetDefaults fills zero-valued fields of cfg with default values.
//
// Called automatically by NewRegistry; exposed for callers that want to
// inspect the effective configuration beforehand.
func SetDefaults(cfg *Config) {
	def := DefaultConfig()

	if len(cfg.RoleRatios) == 0 && len(cfg.RoleLimits) == 0 {
		cfg.RoleRatios = def.RoleRatios
		cfg.RoleLimits = def.RoleLimits
	}

	if cfg.MaxThreads == 0 {
		cfg.MaxThreads = def.MaxThreads
	}

	if cfg.ClientMaxDelay == 0 {
		cfg.ClientMaxDelay = def.ClientMaxDelay
	}

	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = def.SweepInterval
	}
}

// Validate checks the configuration for correctness.
//
// Validation rules:
//  1. At least one role must be configured
//  2. RoleRatios and RoleLimits must have the same length
//  3. Each ratio must be finite and within [0.0, 1.0]
//  4. Each limit must be >= 0
//  5. MaxThreads must be >= 1
//  6. ClientMaxDelay must be > 0
//  7. SweepInterval must be > 0
//
// Returns:
//   - error: description of the first violated rule, or nil
func (c *Config) Validate() error {
	if len(c.RoleRatios) == 0 {
		return fmt.Errorf("at least one role must be configured")
	}

	if len(c.RoleRatios) != len(c.RoleLimits) {
		return fmt.Errorf("roleRatios has %d entries but roleLimits has %d, lengths must match",
			len(c.RoleRatios), len(c.RoleLimits))
	}

	for t, ratio := range c.RoleRatios {
		if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
			return fmt.Errorf("roleRatios[%d] must be finite, got %v", t, ratio)
		}

		if ratio < 0.0 || ratio > 1.0 {
			return fmt.Errorf("roleRatios[%d] must be within [0.0, 1.0], got %v", t, ratio)
		}
	}

	for t, limit := range c.RoleLimits {
		if limit < 0 {
			return fmt.Errorf("roleLimits[%d] must be >= 0, got %d", t, limit)
		}
	}

	if c.MaxThreads < 1 {
		return fmt.Errorf("maxThreads must be >= 1, got %d", c.MaxThreads)
	}

	if c.ClientMaxDelay <= 0 {
		return fmt.Errorf("clientMaxDelay must be > 0, got %v", c.ClientMaxDelay)
	}

	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweepInterval must be > 0, got %v", c.SweepInterval)
	}

	return nil
}

// ValidateWithWarnings validates the configuration and logs warnings for
// settings that are legal but likely unintended.
//
// Warnings logged:
//   - RoleRatios that do not sum to ~1.0 (balance point is skewed)
//   - RoleLimits[0] == 0 (the first client into an empty registry always
//     receives role 0, so a zero limit rejects it)
//   - SweepInterval >= ClientMaxDelay (monitor-driven death detection lags
//     a full liveness window behind)
//
// Parameters:
//   - logger: destination for warnings, may be nil
//
// Returns:
//   - error: validation error from Validate, or nil
func (c *Config) ValidateWithWarnings(logger types.Logger) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if logger == nil {
		return nil
	}

	sum := 0.0
	for _, ratio := range c.RoleRatios {
		sum += ratio
	}

	if math.Abs(sum-1.0) > 0.01 {
		logger.Warn("roleRatios do not sum to 1.0, allocation balance point is skewed",
			"sum", sum,
			"ratios", c.RoleRatios,
		)
	}

	if c.RoleLimits[0] == 0 {
		logger.Warn("roleLimits[0] is 0, the first client into an empty registry will be rejected",
			"limits", c.RoleLimits,
		)
	}

	if c.SweepInterval >= c.ClientMaxDelay {
		logger.Warn("sweepInterval is not shorter than clientMaxDelay, monitor-driven death detection will lag",
			"sweepInterval", c.SweepInterval,
			"clientMaxDelay", c.ClientMaxDelay,
		)
	}

	return nil
}
