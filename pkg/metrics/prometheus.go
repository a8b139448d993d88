package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	requestsTotal   *prometheus.CounterVec
	solverFailures  *prometheus.CounterVec
	sweepDropped    prometheus.Counter
	simulationPaths prometheus.Counter
	lastSharpe      *prometheus.GaugeVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		requestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bellcurve_requests_total",
				Help: "Total number of analysis requests by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		solverFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bellcurve_solver_failures_total",
				Help: "Total number of nonlinear solver convergence failures",
			},
			[]string{"program"},
		),
		sweepDropped: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bellcurve_frontier_sweep_dropped_total",
				Help: "Frontier sweep points dropped due to solver failure",
			},
		),
		simulationPaths: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bellcurve_simulation_paths_total",
				Help: "Total number of bootstrap simulation paths run",
			},
		),
		lastSharpe: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bellcurve_last_sharpe_ratio",
				Help: "Sharpe ratio of the most recently computed distinguished portfolio",
			},
			[]string{"portfolio"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bellcurve_operation_duration_seconds",
				Help:    "Duration of analysis operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordRequest records a completed analysis request.
func (r *Recorder) RecordRequest(operation, outcome string) {
	r.requestsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordSolverFailure records a convergence failure for a named program.
func (r *Recorder) RecordSolverFailure(program string) {
	r.solverFailures.WithLabelValues(program).Inc()
}

// RecordSweepDropped records frontier sweep points dropped in one request.
func (r *Recorder) RecordSweepDropped(n int) {
	r.sweepDropped.Add(float64(n))
}

// RecordSimulationPaths records completed bootstrap paths.
func (r *Recorder) RecordSimulationPaths(n int) {
	r.simulationPaths.Add(float64(n))
}

// RecordSharpe records the Sharpe ratio of a distinguished portfolio.
func (r *Recorder) RecordSharpe(portfolio string, v float64) {
	r.lastSharpe.WithLabelValues(portfolio).Set(v)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
