package prom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

// Collector implements types.MetricsCollector with Prometheus client metrics.
type Collector struct {
	connectTotal    prometheus.Counter
	connectErrors   *prometheus.CounterVec
	connectDuration prometheus.Histogram

	sessionsOpened prometheus.Counter
	sessionsClosed prometheus.Counter

	queryTotal    prometheus.Counter
	queryErrors   prometheus.Counter
	queryDuration prometheus.Histogram

	codecErrors *prometheus.CounterVec
}

// Compile-time assertion that Collector implements types.MetricsCollector.
var _ types.MetricsCollector = (*Collector)(nil)

// New creates a collector and registers its metrics with reg under the
// given namespace. A nil reg leaves the metrics unregistered.
func New(reg prometheus.Registerer, namespace string) *Collector {
	f := promauto.With(reg)

	return &Collector{
		connectTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_total",
			Help:      "Total number of connect attempts.",
		}),
		connectErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_errors_total",
			Help:      "Total number of failed connect attempts by error class.",
		}, []string{"class"}),
		connectDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "connect_duration_seconds",
			Help:      "Time spent opening sessions.",
			// Includes the keyspace probe on failure: 10ms to ~20s.
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		sessionsOpened: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_opened_total",
			Help:      "Total number of sessions opened.",
		}),
		sessionsClosed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_closed_total",
			Help:      "Total number of sessions closed.",
		}),
		queryTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_total",
			Help:      "Total number of executed statements.",
		}),
		queryErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_errors_total",
			Help:      "Total number of failed statements.",
		}),
		queryDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Time spent executing statements.",
			Buckets:   prometheus.DefBuckets,
		}),
		codecErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codec_errors_total",
			Help:      "Total number of value conversion failures by CQL type.",
		}, []string{"type"}),
	}
}

func (c *Collector) IncConnectTotal() {
	c.connectTotal.Inc()
}

func (c *Collector) IncConnectError(class string) {
	c.connectErrors.WithLabelValues(class).Inc()
}

func (c *Collector) ObserveConnectDuration(seconds float64) {
	c.connectDuration.Observe(seconds)
}

func (c *Collector) IncSessionOpened() {
	c.sessionsOpened.Inc()
}

func (c *Collector) IncSessionClosed() {
	c.sessionsClosed.Inc()
}

func (c *Collector) IncQueryTotal() {
	c.queryTotal.Inc()
}

func (c *Collector) IncQueryError() {
	c.queryErrors.Inc()
}

func (c *Collector) ObserveQueryDuration(seconds float64) {
	c.queryDuration.Observe(seconds)
}

func (c *Collector) IncCodecError(tag string) {
	c.codecErrors.WithLabelValues(tag).Inc()
}
