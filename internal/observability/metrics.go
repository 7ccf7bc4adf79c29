package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "happiness"

// Metrics holds the Prometheus counters and histograms for the dashboard service.
type Metrics struct {
	// Endpoint probing.
	ProbeAttempts *prometheus.CounterVec   // labels: source={worldbank,happiness}, outcome={success,http_error,network_error,parse_error,empty}
	ProbeDuration *prometheus.HistogramVec // labels: source
	Fallbacks     *prometheus.CounterVec   // labels: query={happiness_score,happiness_series,regional,countries,...}

	// World Bank response cache.
	Cache *prometheus.CounterVec // labels: result={hit,miss,expired}

	HTTPRequests       *prometheus.CounterVec // labels: route, status
	SnapshotsPublished prometheus.Counter
	PublisherEnabled   prometheus.Gauge
}

var (
	registerOnce sync.Once
	registered   *Metrics
)

// NewMetrics returns the process-wide metrics, creating and registering them
// with the default Prometheus registry on first use. Later calls return the
// same instance.
func NewMetrics() *Metrics {
	registerOnce.Do(func() {
		registered = newMetrics()
		prometheus.MustRegister(
			registered.ProbeAttempts,
			registered.ProbeDuration,
			registered.Fallbacks,
			registered.Cache,
			registered.HTTPRequests,
			registered.SnapshotsPublished,
			registered.PublisherEnabled,
		)
	})
	return registered
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many
// as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ProbeAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probe_attempts_total",
			Help:      "Candidate endpoint attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		ProbeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "probe_duration_seconds",
			Help:      "Duration of a single candidate endpoint request.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Queries answered by the mock provider after every live source failed.",
		}, []string{"query"}),
		Cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_total",
			Help:      "World Bank response cache lookups by result.",
		}, []string{"result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Dashboard API requests by route and status code.",
		}, []string{"route", "status"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_published_total",
			Help:      "Dashboard snapshots written to Kafka.",
		}),
		PublisherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_publisher_enabled",
			Help:      "1 when snapshot publishing to Kafka is enabled, 0 otherwise.",
		}),
	}
}
