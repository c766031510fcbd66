// Package metrics exposes the Prometheus metrics of the sandbox service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// ExecutionBuckets covers executions from a trivial script up to the longest
// configurable time limit, in seconds.
var ExecutionBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}

var (
	// ExecutionsTotal counts completed executions by language and status.
	ExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sandbox_executions_total",
			Help: "Completed executions",
		},
		[]string{"language", "status"},
	)

	// ExecutionDuration records the wall-clock duration of an execution in
	// seconds, from writing the source file until the verdict.
	ExecutionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sandbox_execution_duration_seconds",
			Help:    "Execution duration",
			Buckets: ExecutionBuckets,
		},
		[]string{"language"},
	)

	// RequestsTotal counts HTTP requests by method, route and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sandbox_http_requests_total",
			Help: "HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration records HTTP request duration in seconds.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sandbox_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func init() {
	prometheus.MustRegister(
		ExecutionsTotal,
		ExecutionDuration,
		RequestsTotal,
		RequestDuration,
	)
}

// RegisterInFlight exposes the number of running executions as a gauge read
// from the given function at scrape time.
func RegisterInFlight(registerer prometheus.Registerer, inFlight func() int64) error {
	return registerer.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "sandbox_executions_in_flight",
			Help: "Executions currently running",
		},
		func() float64 { return float64(inFlight()) },
	))
}
