package testutil

import (
	"sync"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

// TestMetricsCollector is a test implementation of types.MetricsCollector
// that tracks method calls for assertions.
type TestMetricsCollector struct {
	mu sync.RWMutex

	// Connect
	ConnectTotal    int64
	ConnectErrors   map[string]int64 // key: error class
	ConnectDuration []float64

	// Sessions
	SessionsOpened int64
	SessionsClosed int64

	// Queries
	QueryTotal    int64
	QueryErrors   int64
	QueryDuration []float64

	// Codecs
	CodecErrors map[string]int64 // key: native type tag
}

// Compile-time assertion that TestMetricsCollector implements types.MetricsCollector.
var _ types.MetricsCollector = (*TestMetricsCollector)(nil)

// NewTestMetricsCollector creates a new test metrics collector.
func NewTestMetricsCollector() *TestMetricsCollector {
	return &TestMetricsCollector{
		ConnectErrors: make(map[string]int64),
		CodecErrors:   make(map[string]int64),
	}
}

// ----------------------
// Connect
// ----------------------

func (m *TestMetricsCollector) IncConnectTotal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectTotal++
}

func (m *TestMetricsCollector) IncConnectError(class string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectErrors[class]++
}

func (m *TestMetricsCollector) ObserveConnectDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectDuration = append(m.ConnectDuration, seconds)
}

// ----------------------
// Sessions
// ----------------------

func (m *TestMetricsCollector) IncSessionOpened() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsOpened++
}

func (m *TestMetricsCollector) IncSessionClosed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsClosed++
}

// ----------------------
// Queries
// ----------------------

func (m *TestMetricsCollector) IncQueryTotal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueryTotal++
}

func (m *TestMetricsCollector) IncQueryError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueryErrors++
}

func (m *TestMetricsCollector) ObserveQueryDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueryDuration = append(m.QueryDuration, seconds)
}

// ----------------------
// Codecs
// ----------------------

func (m *TestMetricsCollector) IncCodecError(tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CodecErrors[tag]++
}

// ----------------------
// Snapshots
// ----------------------

// Connects returns the number of connect attempts.
func (m *TestMetricsCollector) Connects() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.ConnectTotal
}

// ConnectErrorsFor returns the number of connect failures of one class.
func (m *TestMetricsCollector) ConnectErrorsFor(class string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.ConnectErrors[class]
}

// Sessions returns the number of opened and closed sessions.
func (m *TestMetricsCollector) Sessions() (opened, closed int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.SessionsOpened, m.SessionsClosed
}

// Queries returns the number of statements and failed statements.
func (m *TestMetricsCollector) Queries() (total, failed int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.QueryTotal, m.QueryErrors
}

// CodecErrorsFor returns the number of codec failures for a native type.
func (m *TestMetricsCollector) CodecErrorsFor(tag string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.CodecErrors[tag]
}
