// Package roster provides a Go library for tracking worker liveness and
// balancing quota-constrained role assignment on a coordinator.
//
// Roster keeps one record per worker process ("client"). Workers report
// per-thread progress values; the registry detects workers that stop making
// progress, releases their role, and hands a fresh role to workers that
// resume. Roles are drawn from a small set balanced against target ratios
// with hard per-role caps.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import "github.com/arloliu/roster"
//
//	type BatchProgress struct {
//	    Batches uint64 `json:"batches"`
//	}
//
//	func (p BatchProgress) Equal(o BatchProgress) bool { return p == o }
//
//	cfg := roster.DefaultConfig()
//	cfg.RoleRatios = []float64{0.5, 0.5}
//	cfg.RoleLimits = []int{100, 100}
//
//	reg, err := roster.NewRegistry[BatchProgress](&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer reg.Close()
//
//	client, err := reg.Report("trainer-7", map[int]BatchProgress{
//	    0: {Batches: 128},
//	})
//
// # Key Features
//
//   - Inline liveness: every report sweeps the whole population, so death
//     detection needs no timer goroutine under steady traffic
//   - Quota-balanced roles: allocation favors roles below their target
//     ratio, bounded by hard per-role limits
//   - Progress-based staleness: a worker that keeps resending identical
//     state still goes dead; only actual changes count
//   - Pluggable role strategies, metrics, logging, and lifecycle hooks
//   - NATS adapters for shipping reports from workers to the coordinator
//
// # Architecture
//
// Each client record moves between two liveness states:
//
//	ALIVE <-> DEAD
//
// A live client whose last accepted change is older than ClientMaxDelay goes
// dead and releases its role quota. A dead client that reports fresh data
// revives and receives a newly allocated role, which is not necessarily the
// role it held before.
//
// # Advanced Usage
//
// Custom strategy with options:
//
//	import (
//	    "github.com/arloliu/roster"
//	    "github.com/arloliu/roster/strategy"
//	)
//
//	sticky := strategy.NewHashAffinity(strategy.WithHashSeed(42))
//
//	hooks := &roster.Hooks{
//	    OnLivenessChanged: func(ctx context.Context, identity string, transition roster.Transition, role int) error {
//	        // React to workers dying or reviving
//	        return nil
//	    },
//	}
//
//	reg, err := roster.NewRegistry[BatchProgress](&cfg,
//	    roster.WithRoleStrategy(sticky),
//	    roster.WithHooks(hooks),
//	)
//
// See the examples/ directory for complete working examples.
package roster
