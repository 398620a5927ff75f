// Package metrics provides internal metrics utilities for the driver.
package metrics

import "github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"

// NopMetrics is a no-op metrics collector that discards all metrics.
//
// This is used as the default metrics collector when no collector is configured,
// avoiding nil checks throughout the codebase.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements types.MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNopMetrics creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A collector that discards all metrics
func NewNopMetrics() *NopMetrics {
	return &NopMetrics{}
}

// ----------------------
// Connect
// ----------------------

// IncConnectTotal discards the metric.
func (m *NopMetrics) IncConnectTotal() {}

// IncConnectError discards the metric.
func (m *NopMetrics) IncConnectError(_ string) {}

// ObserveConnectDuration discards the metric.
func (m *NopMetrics) ObserveConnectDuration(_ float64) {}

// ----------------------
// Sessions
// ----------------------

// IncSessionOpened discards the metric.
func (m *NopMetrics) IncSessionOpened() {}

// IncSessionClosed discards the metric.
func (m *NopMetrics) IncSessionClosed() {}

// ----------------------
// Queries
// ----------------------

// IncQueryTotal discards the metric.
func (m *NopMetrics) IncQueryTotal() {}

// IncQueryError discards the metric.
func (m *NopMetrics) IncQueryError() {}

// ObserveQueryDuration discards the metric.
func (m *NopMetrics) ObserveQueryDuration(_ float64) {}

// ----------------------
// Codecs
// ----------------------

// IncCodecError discards the metric.
func (m *NopMetrics) IncCodecError(_ string) {}
