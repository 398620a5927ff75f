package vm

import (
	"fmt"
	"io"
	"net/http"

	"github.com/VictoriaMetrics/metrics"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

// Option configures a Collector.
type Option func(*Collector)

// WithPrefix sets the metric name prefix.
//
// Default: "cassandra_driver"
//
// Parameters:
//   - prefix: The prefix to use for all metric names
//
// Returns:
//   - Option: A configuration option
func WithPrefix(prefix string) Option {
	return func(c *Collector) {
		c.prefix = prefix
	}
}

// WithMetricsSet sets the metrics set to use.
//
// If provided, the collector will register metrics with this set instead of
// creating a new one. The caller is responsible for exposing this set
// (e.g., via metrics.WritePrometheus or a custom handler).
//
// Parameters:
//   - set: The metrics set to use
//
// Returns:
//   - Option: A configuration option
func WithMetricsSet(set *metrics.Set) Option {
	return func(c *Collector) {
		c.set = set
	}
}

// errorClasses are the connect failure classes reported by the driver.
var errorClasses = []types.ErrorClass{
	types.ClassConfiguration,
	types.ClassTransport,
	types.ClassValue,
	types.ClassUnknown,
}

// Collector implements types.MetricsCollector using VictoriaMetrics.
//
// Fixed-label metrics are pre-created at initialization time. Per-type codec
// counters are created on first use.
// Thread-safe for concurrent use.
type Collector struct {
	set    *metrics.Set
	prefix string

	// Connect metrics
	connectTotal    *metrics.Counter
	connectErrors   map[string]*metrics.Counter
	connectDuration *metrics.Histogram

	// Session metrics
	sessionsOpened *metrics.Counter
	sessionsClosed *metrics.Counter

	// Query metrics
	queryTotal    *metrics.Counter
	queryErrors   *metrics.Counter
	queryDuration *metrics.Histogram
}

// Compile-time assertion that Collector implements types.MetricsCollector.
var _ types.MetricsCollector = (*Collector)(nil)

// New creates a new VictoriaMetrics-based metrics collector.
//
// The collector creates its own metrics.Set and registers it globally.
//
// Parameters:
//   - opts: Configuration options (e.g., WithPrefix)
//
// Returns:
//   - *Collector: A new metrics collector ready for use
//
// Example:
//
//	collector := vm.New(vm.WithPrefix("myapp"))
//	connector, _ := cassandra.NewConnector(uri, nil,
//	    cassandra.WithMetrics(collector),
//	)
func New(opts ...Option) *Collector {
	c := &Collector{
		prefix: "cassandra_driver",
	}

	for _, opt := range opts {
		opt(c)
	}

	// If no set is provided, create a new one and register it globally.
	// If a set is provided, we assume the caller manages it.
	if c.set == nil {
		c.set = metrics.NewSet()
		metrics.RegisterSet(c.set)
	}

	c.initMetrics()

	return c
}

// initMetrics pre-creates the fixed-label metrics with the configured prefix.
func (c *Collector) initMetrics() {
	p := c.prefix

	c.connectTotal = c.set.NewCounter(p + "_connect_total")
	c.connectErrors = make(map[string]*metrics.Counter, len(errorClasses))
	for _, class := range errorClasses {
		name := class.String()
		c.connectErrors[name] = c.set.NewCounter(fmt.Sprintf(`%s_connect_errors_total{class="%s"}`, p, name))
	}
	c.connectDuration = c.set.NewHistogram(p + "_connect_duration_seconds")

	c.sessionsOpened = c.set.NewCounter(p + "_sessions_opened_total")
	c.sessionsClosed = c.set.NewCounter(p + "_sessions_closed_total")

	c.queryTotal = c.set.NewCounter(p + "_query_total")
	c.queryErrors = c.set.NewCounter(p + "_query_errors_total")
	c.queryDuration = c.set.NewHistogram(p + "_query_duration_seconds")
}

// Set returns the underlying metrics set.
func (c *Collector) Set() *metrics.Set {
	return c.set
}

// Handler returns an HTTP handler that exposes metrics in Prometheus format.
//
// Example:
//
//	http.HandleFunc("/metrics", collector.Handler)
func (c *Collector) Handler(w http.ResponseWriter, _ *http.Request) {
	c.set.WritePrometheus(w)
}

// WritePrometheus writes all metrics in Prometheus format to the given writer.
//
// Parameters:
//   - w: The writer to write metrics to
func (c *Collector) WritePrometheus(w io.Writer) {
	c.set.WritePrometheus(w)
}

// ----------------------
// Connect
// ----------------------

// IncConnectTotal increments the connect attempt counter.
func (c *Collector) IncConnectTotal() {
	c.connectTotal.Inc()
}

// IncConnectError increments the connect failure counter for class.
// Unrecognized classes are counted as "unknown".
func (c *Collector) IncConnectError(class string) {
	counter, ok := c.connectErrors[class]
	if !ok {
		counter = c.connectErrors[types.ClassUnknown.String()]
	}
	counter.Inc()
}

// ObserveConnectDuration records a connect attempt duration in seconds.
func (c *Collector) ObserveConnectDuration(seconds float64) {
	c.connectDuration.Update(seconds)
}

// ----------------------
// Sessions
// ----------------------

// IncSessionOpened increments the opened session counter.
func (c *Collector) IncSessionOpened() {
	c.sessionsOpened.Inc()
}

// IncSessionClosed increments the closed session counter.
func (c *Collector) IncSessionClosed() {
	c.sessionsClosed.Inc()
}

// ----------------------
// Queries
// ----------------------

// IncQueryTotal increments the statement counter.
func (c *Collector) IncQueryTotal() {
	c.queryTotal.Inc()
}

// IncQueryError increments the failed statement counter.
func (c *Collector) IncQueryError() {
	c.queryErrors.Inc()
}

// ObserveQueryDuration records a statement duration in seconds.
func (c *Collector) ObserveQueryDuration(seconds float64) {
	c.queryDuration.Update(seconds)
}

// ----------------------
// Codecs
// ----------------------

// IncCodecError increments the codec failure counter for a native type.
func (c *Collector) IncCodecError(tag string) {
	c.set.GetOrCreateCounter(fmt.Sprintf(`%s_codec_errors_total{type="%s"}`, c.prefix, tag)).Inc()
}
