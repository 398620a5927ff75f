package types

// MetricsCollector defines methods for collecting driver metrics.
//
// Implementations should be thread-safe as methods may be called concurrently
// from independent connections.
//
// Example usage with VictoriaMetrics (via contrib/metrics/vm):
//
//	collector := vmmetrics.New(vmmetrics.WithPrefix("myapp"))
//	connector, _ := cassandra.NewConnector(uri, nil, cassandra.WithMetrics(collector))
//	db := sql.OpenDB(connector)
//
//	// Expose metrics via HTTP
//	http.HandleFunc("/metrics", collector.Handler)
type MetricsCollector interface {
	// ----------------------
	// Connect
	// ----------------------

	// IncConnectTotal increments the connect attempt counter.
	IncConnectTotal()

	// IncConnectError increments the connect failure counter.
	// The class is one of "configuration", "transport", "value" or "unknown".
	IncConnectError(class string)

	// ObserveConnectDuration records how long a connect attempt took in seconds.
	ObserveConnectDuration(seconds float64)

	// ----------------------
	// Sessions
	// ----------------------

	// IncSessionOpened increments the counter of successfully opened sessions.
	IncSessionOpened()

	// IncSessionClosed increments the counter of closed sessions.
	IncSessionClosed()

	// ----------------------
	// Queries
	// ----------------------

	// IncQueryTotal increments the statement counter.
	IncQueryTotal()

	// IncQueryError increments the failed statement counter.
	IncQueryError()

	// ObserveQueryDuration records a statement duration in seconds.
	ObserveQueryDuration(seconds float64)

	// ----------------------
	// Codecs
	// ----------------------

	// IncCodecError increments the codec failure counter for a native type.
	IncCodecError(tag string)
}
