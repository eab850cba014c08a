// Package metrics provides the built-in types.MetricsCollector implementations.
package metrics

import "github.com/arloliu/roster/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
//
// Example:
//
//	reg, err := roster.NewRegistry[Progress](cfg, roster.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RegistryMetrics implementation

// RecordReport discards the report metric.
func (n *NopMetrics) RecordReport(_ /* identity */ string, _ /* changedThreads */ int) {
	// No-op
}

// RecordLivenessTransition discards the transition metric.
func (n *NopMetrics) RecordLivenessTransition(_ /* identity */ string, _ /* transition */ types.Transition) {
	// No-op
}

// RecordSweepDuration discards the sweep duration metric.
func (n *NopMetrics) RecordSweepDuration(_ /* duration */ float64) {
	// No-op
}

// RecordActiveClients discards the active client gauge.
func (n *NopMetrics) RecordActiveClients(_ /* count */ int) {
	// No-op
}

// RecordEventDropped discards the dropped event counter.
func (n *NopMetrics) RecordEventDropped() {
	// No-op
}

// QuotaMetrics implementation

// RecordRoleAllocation discards the allocation counter.
func (n *NopMetrics) RecordRoleAllocation(_ /* role */ int) {
	// No-op
}

// RecordRoleRelease discards the release counter.
func (n *NopMetrics) RecordRoleRelease(_ /* role */ int) {
	// No-op
}

// RecordAllocationFailure discards the allocation failure counter.
func (n *NopMetrics) RecordAllocationFailure() {
	// No-op
}

// RecordRoleClients discards the per-role client gauge.
func (n *NopMetrics) RecordRoleClients(_ /* role */, _ /* count */ int) {
	// No-op
}
