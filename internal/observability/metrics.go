package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "riskzones"

// Metrics holds the Prometheus collectors for clustering runs and the HTTP API.
type Metrics struct {
	ClusterRuns         *prometheus.CounterVec // labels: outcome={success,insufficient_data,error}
	ClusterDuration     prometheus.Histogram
	ClusterK            prometheus.Histogram
	WorkingSetSize      prometheus.Histogram
	ExcludedIncidents   prometheus.Counter
	HTTPRequests        *prometheus.CounterVec // labels: route, status
	RateLimitedRequests prometheus.Counter
}

// NewMetrics creates and registers all metrics with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.ClusterRuns,
		m.ClusterDuration,
		m.ClusterK,
		m.WorkingSetSize,
		m.ExcludedIncidents,
		m.HTTPRequests,
		m.RateLimitedRequests,
	)
	return m
}

// NewMetricsForTesting creates unregistered metrics so tests can build as
// many instances as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ClusterRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cluster_runs_total",
			Help:      "Clustering runs by outcome.",
		}, []string{"outcome"}),
		ClusterDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cluster_run_duration_seconds",
			Help:      "Duration of a complete clustering run including the store read.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ClusterK: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cluster_selected_k",
			Help:      "Number of clusters chosen by model selection.",
			Buckets:   prometheus.LinearBuckets(2, 1, 10),
		}),
		WorkingSetSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cluster_working_set_size",
			Help:      "Incidents read from the store per clustering run.",
			Buckets:   []float64{50, 500, 1000, 2000, 3000, 5000, 7500, 10000},
		}),
		ExcludedIncidents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cluster_excluded_incidents_total",
			Help:      "Incidents dropped from working sets for invalid coordinates.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		RateLimitedRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "Requests rejected by the per-client rate limiter.",
		}),
	}
}
