package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/roster/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Metric registration is lazy: collectors register on first use so that an
// unused PrometheusCollector never pollutes the registerer.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	// Registry metrics
	reportsTotal   prometheus.Counter
	changedThreads prometheus.Counter
	sweepDuration  prometheus.Histogram
	activeClients  prometheus.Gauge
	transitions    *prometheus.CounterVec
	eventsDropped  prometheus.Counter

	// Quota metrics
	allocations        *prometheus.CounterVec
	releases           *prometheus.CounterVec
	allocationFailures prometheus.Counter
	roleClients        *prometheus.GaugeVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "roster" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "roster"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.reportsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "reports_total",
			Help:      "Total status reports processed.",
		})

		p.changedThreads = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "changed_threads_total",
			Help:      "Total per-thread value changes observed across all reports.",
		})

		p.sweepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of full liveness sweeps in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs .. ~2.6s
		})

		p.activeClients = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "active_clients",
			Help:      "Current number of alive clients.",
		})

		p.transitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "liveness_transitions_total",
			Help:      "Total liveness transitions by direction (alive_to_dead, dead_to_alive).",
		}, []string{"direction"})

		p.eventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "events_dropped_total",
			Help:      "Events discarded because a subscriber channel was full.",
		})

		p.allocations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "quota",
			Name:      "role_allocations_total",
			Help:      "Total role allocations by role index.",
		}, []string{"role"})

		p.releases = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "quota",
			Name:      "role_releases_total",
			Help:      "Total role releases by role index.",
		}, []string{"role"})

		p.allocationFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "quota",
			Name:      "allocation_failures_total",
			Help:      "Allocation attempts that found every role at its hard limit.",
		})

		p.roleClients = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "quota",
			Name:      "role_clients",
			Help:      "Current number of alive clients per role index.",
		}, []string{"role"})

		p.reg.MustRegister(p.reportsTotal)
		p.reg.MustRegister(p.changedThreads)
		p.reg.MustRegister(p.sweepDuration)
		p.reg.MustRegister(p.activeClients)
		p.reg.MustRegister(p.transitions)
		p.reg.MustRegister(p.eventsDropped)
		p.reg.MustRegister(p.allocations)
		p.reg.MustRegister(p.releases)
		p.reg.MustRegister(p.allocationFailures)
		p.reg.MustRegister(p.roleClients)
	})
}

// RegistryMetrics implementation

// RecordReport counts one processed report and its changed threads.
//
// The identity is deliberately not a label: client identities are unbounded
// and would blow up series cardinality.
func (p *PrometheusCollector) RecordReport(_ string, changedThreads int) {
	p.ensureRegistered()
	p.reportsTotal.Inc()
	p.changedThreads.Add(float64(changedThreads))
}

// RecordLivenessTransition counts an Alive↔Dead crossing by direction.
func (p *PrometheusCollector) RecordLivenessTransition(_ string, transition types.Transition) {
	p.ensureRegistered()
	switch transition {
	case types.TransitionAliveToDead:
		p.transitions.WithLabelValues("alive_to_dead").Inc()
	case types.TransitionDeadToAlive:
		p.transitions.WithLabelValues("dead_to_alive").Inc()
	default:
		// StillAlive/StillDead are not transitions; nothing to count.
	}
}

// RecordSweepDuration observes one full sweep duration.
func (p *PrometheusCollector) RecordSweepDuration(seconds float64) {
	p.ensureRegistered()
	p.sweepDuration.Observe(seconds)
}

// RecordActiveClients sets the alive client gauge.
func (p *PrometheusCollector) RecordActiveClients(count int) {
	p.ensureRegistered()
	p.activeClients.Set(float64(count))
}

// RecordEventDropped counts a discarded subscriber event.
func (p *PrometheusCollector) RecordEventDropped() {
	p.ensureRegistered()
	p.eventsDropped.Inc()
}

// QuotaMetrics implementation

// RecordRoleAllocation counts a role being handed out.
func (p *PrometheusCollector) RecordRoleAllocation(role int) {
	p.ensureRegistered()
	p.allocations.WithLabelValues(strconv.Itoa(role)).Inc()
}

// RecordRoleRelease counts a role being returned.
func (p *PrometheusCollector) RecordRoleRelease(role int) {
	p.ensureRegistered()
	p.releases.WithLabelValues(strconv.Itoa(role)).Inc()
}

// RecordAllocationFailure counts an infeasible allocation attempt.
func (p *PrometheusCollector) RecordAllocationFailure() {
	p.ensureRegistered()
	p.allocationFailures.Inc()
}

// RecordRoleClients sets the per-role alive client gauge.
func (p *PrometheusCollector) RecordRoleClients(role, count int) {
	p.ensureRegistered()
	p.roleClients.WithLabelValues(strconv.Itoa(role)).Set(float64(count))
}
