// Package prom provides a Prometheus client_golang implementation of the
// MetricsCollector interface.
//
//	reg := prometheus.NewRegistry()
//	connector, _ := cassandra.NewConnector(uri, nil,
//	    cassandra.WithMetrics(prom.New(reg, "cassandra_driver")),
//	)
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// Metric names match contrib/metrics/vm, so dashboards work with either.
package prom
