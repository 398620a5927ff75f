package cluster

import (
	"github.com/gocql/gocql"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/adapter/cql"
	v1 "github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/adapter/cql/v1"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/internal/logging"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/internal/metrics"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

// SessionFactory opens a client session for a cluster configuration.
//
// The default factory is v1.CreateSession. Tests substitute a fake so the
// establisher can run without a cluster.
type SessionFactory func(cfg *gocql.ClusterConfig) (cql.Session, error)

type config struct {
	factory SessionFactory
	logger  types.Logger
	metrics types.MetricsCollector
}

func defaultConfig() config {
	return config{
		factory: v1.CreateSession,
		logger:  logging.NewNopLogger(),
		metrics: metrics.NewNopMetrics(),
	}
}

// Option configures a Handle.
type Option func(*config)

// WithSessionFactory replaces the function that opens client sessions.
//
// Parameters:
//   - factory: Session factory; nil keeps the default
//
// Returns:
//   - Option: Configuration option
func WithSessionFactory(factory SessionFactory) Option {
	return func(c *config) {
		if factory != nil {
			c.factory = factory
		}
	}
}

// WithLogger sets the logger for connect diagnostics.
//
// Parameters:
//   - logger: Logger implementation; nil keeps the no-op logger
//
// Returns:
//   - Option: Configuration option
func WithLogger(logger types.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector for connect and session metrics.
//
// Parameters:
//   - collector: MetricsCollector implementation; nil keeps the no-op collector
//
// Returns:
//   - Option: Configuration option
func WithMetrics(collector types.MetricsCollector) Option {
	return func(c *config) {
		if collector != nil {
			c.metrics = collector
		}
	}
}
