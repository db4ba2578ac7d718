// Package metrics exposes the harness's prometheus collectors: compute
// unit consumption and invocation counts, wired into the Message
// Executor's per-instruction loop. Registration happens on a private
// registry, not prometheus's global DefaultRegisterer, so embedding
// this library in a test binary never pollutes a caller's own metrics
// endpoint.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	registry = prometheus.NewRegistry()

	// Invocations counts processed instructions, labeled by program ID
	// and outcome ("success" or "failure").
	Invocations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mollusk_invocations_total",
		Help: "Number of instructions processed by the harness.",
	}, []string{"program_id", "outcome"})

	// ComputeUnitsConsumed histograms compute unit consumption per
	// processed instruction, labeled by program ID.
	ComputeUnitsConsumed = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mollusk_compute_units_consumed",
		Help:    "Compute units consumed per processed instruction.",
		Buckets: prometheus.ExponentialBuckets(100, 4, 8),
	}, []string{"program_id"})
)

func init() {
	registry.MustRegister(Invocations, ComputeUnitsConsumed)
}

// Registry returns the private registry backing this package's
// collectors, for a caller (typically the CLI) that wants to expose
// them on its own /metrics endpoint.
func Registry() *prometheus.Registry {
	return registry
}

// RecordInvocation observes one processed instruction's outcome and
// compute unit consumption.
func RecordInvocation(programID string, succeeded bool, computeUnits uint64) {
	outcome := "success"
	if !succeeded {
		outcome = "failure"
	}
	Invocations.WithLabelValues(programID, outcome).Inc()
	ComputeUnitsConsumed.WithLabelValues(programID).Observe(float64(computeUnits))
}
