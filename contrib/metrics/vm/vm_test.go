package vm

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/VictoriaMetrics/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()

	var buf bytes.Buffer
	c.WritePrometheus(&buf)

	return buf.String()
}

func TestCollectorCounters(t *testing.T) {
	c := New(WithMetricsSet(metrics.NewSet()), WithPrefix("test"))

	c.IncConnectTotal()
	c.IncConnectTotal()
	c.IncConnectError("transport")
	c.IncConnectError("bogus")
	c.ObserveConnectDuration(0.25)
	c.IncSessionOpened()
	c.IncSessionClosed()
	c.IncQueryTotal()
	c.IncQueryError()
	c.ObserveQueryDuration(0.01)
	c.IncCodecError("smallint")
	c.IncCodecError("smallint")

	out := scrape(t, c)
	assert.Contains(t, out, "test_connect_total 2")
	assert.Contains(t, out, `test_connect_errors_total{class="transport"} 1`)
	assert.Contains(t, out, `test_connect_errors_total{class="unknown"} 1`)
	assert.Contains(t, out, `test_connect_errors_total{class="configuration"} 0`)
	assert.Contains(t, out, "test_connect_duration_seconds_count 1")
	assert.Contains(t, out, "test_sessions_opened_total 1")
	assert.Contains(t, out, "test_sessions_closed_total 1")
	assert.Contains(t, out, "test_query_total 1")
	assert.Contains(t, out, "test_query_errors_total 1")
	assert.Contains(t, out, "test_query_duration_seconds_count 1")
	assert.Contains(t, out, `test_codec_errors_total{type="smallint"} 2`)
}

func TestCollectorDefaultPrefix(t *testing.T) {
	c := New(WithMetricsSet(metrics.NewSet()))
	c.IncQueryTotal()

	assert.Contains(t, scrape(t, c), "cassandra_driver_query_total 1")
}

func TestCollectorHandler(t *testing.T) {
	set := metrics.NewSet()
	c := New(WithMetricsSet(set))
	require.Same(t, set, c.Set())
	c.IncSessionOpened()

	rec := httptest.NewRecorder()
	c.Handler(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Contains(t, rec.Body.String(), "cassandra_driver_sessions_opened_total 1")
}
