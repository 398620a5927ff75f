// Package vm provides a VictoriaMetrics-based implementation of the MetricsCollector interface.
//
// This package uses github.com/VictoriaMetrics/metrics for lightweight,
// high-performance Prometheus-compatible metrics collection.
//
// # Basic Usage
//
// Create a collector with default prefix "cassandra_driver":
//
//	collector := vm.New()
//	connector, _ := cassandra.NewConnector(uri, nil,
//	    cassandra.WithMetrics(collector),
//	)
//	db := sql.OpenDB(connector)
//
// # Custom Prefix
//
// Use WithPrefix to customize the metric name prefix:
//
//	collector := vm.New(vm.WithPrefix("myapp"))
//
// This produces metrics like:
//   - myapp_connect_total
//   - myapp_query_duration_seconds
//
// # Exposing Metrics
//
// Use the Handler method to expose metrics via HTTP:
//
//	http.HandleFunc("/metrics", collector.Handler)
//	http.ListenAndServe(":8080", nil)
//
// Or use WritePrometheus to write metrics to a custom writer:
//
//	collector.WritePrometheus(w)
//
// # Metrics Provided
//
// Connect:
//   - {prefix}_connect_total - Counter of connect attempts
//   - {prefix}_connect_errors_total{class} - Counter of failed attempts by error class
//   - {prefix}_connect_duration_seconds - Histogram of connect latencies
//
// Sessions:
//   - {prefix}_sessions_opened_total - Counter of opened sessions
//   - {prefix}_sessions_closed_total - Counter of closed sessions
//
// Queries:
//   - {prefix}_query_total - Counter of executed statements
//   - {prefix}_query_errors_total - Counter of failed statements
//   - {prefix}_query_duration_seconds - Histogram of statement latencies
//
// Codecs:
//   - {prefix}_codec_errors_total{type} - Counter of encode/decode failures by CQL type
//
// # Performance Notes
//
// Fixed-label metrics are pre-created at initialization time using the
// NewXXX pattern (instead of GetOrCreateXXX), as recommended by the
// VictoriaMetrics documentation. Codec counters are keyed by CQL type and
// created on first failure.
package vm
