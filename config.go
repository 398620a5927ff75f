package cassandra

import (
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/cluster"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/codec"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/dsn"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/internal/logging"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/internal/metrics"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

// Config holds the programmatic configuration of a Connector.
//
// Everything that describes the cluster lives in the connection string;
// Config only carries collaborators that cannot be expressed as text.
type Config struct {
	Logger         types.Logger
	Metrics        types.MetricsCollector
	Registry       *codec.Registry
	SessionFactory cluster.SessionFactory

	// Env resolves CASS_CLIENT_* variables. nil disables the environment layer.
	Env dsn.LookupEnv
}

// DefaultConfig returns a Config with no-op observability, the default codec
// registry and the process environment.
//
// Returns:
//   - *Config: Configuration with default settings
func DefaultConfig() *Config {
	return &Config{
		Logger:   logging.NewNopLogger(),
		Metrics:  metrics.NewNopMetrics(),
		Registry: codec.Default(),
		Env:      defaultEnv,
	}
}

// Option configures a Config.
type Option func(*Config)

// WithLogger sets the structured logger.
//
// If not set, a no-op logger is used that discards all messages.
// Use contrib/logging/gokit to log through go-kit.
//
// Parameters:
//   - logger: The logger implementation
//
// Returns:
//   - Option: Configuration option
func WithLogger(logger types.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMetrics sets the metrics collector.
//
// If not set, a no-op collector is used that discards all metrics.
// Use contrib/metrics/vm or contrib/metrics/prom for real collectors.
//
// Parameters:
//   - collector: The metrics collector implementation
//
// Returns:
//   - Option: Configuration option
//
// Example:
//
//	import vmmetrics "github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/contrib/metrics/vm"
//
//	collector := vmmetrics.New(vmmetrics.WithPrefix("myapp"))
//	connector, _ := cassandra.NewConnector(uri, nil, cassandra.WithMetrics(collector))
func WithMetrics(collector types.MetricsCollector) Option {
	return func(c *Config) {
		c.Metrics = collector
	}
}

// WithCodecRegistry installs a custom codec registry instead of
// codec.Default(). The registry is frozen when the first connection opens.
//
// Parameters:
//   - r: Codec registry, typically codec.Default().Clone() with overrides
//
// Returns:
//   - Option: Configuration option
func WithCodecRegistry(r *codec.Registry) Option {
	return func(c *Config) {
		c.Registry = r
	}
}

// WithSessionFactory replaces the function that opens client sessions.
func WithSessionFactory(factory cluster.SessionFactory) Option {
	return func(c *Config) {
		c.SessionFactory = factory
	}
}

// WithEnv sets the lookup used for CASS_CLIENT_* variables; nil ignores the
// environment.
func WithEnv(lookup dsn.LookupEnv) Option {
	return func(c *Config) {
		c.Env = lookup
	}
}

func (c *Config) normalize() {
	if c.Logger == nil {
		c.Logger = logging.NewNopLogger()
	}
	if c.Metrics == nil {
		c.Metrics = metrics.NewNopMetrics()
	}
	if c.Registry == nil {
		c.Registry = codec.Default()
	}
}

func (c *Config) clusterOptions() []cluster.Option {
	return []cluster.Option{
		cluster.WithLogger(c.Logger),
		cluster.WithMetrics(c.Metrics),
		cluster.WithSessionFactory(c.SessionFactory),
	}
}
