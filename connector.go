package cassandra

import (
	"context"
	"database/sql/driver"
	"maps"
	"slices"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/cluster"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/dsn"
)

// Connector opens connections for one parsed connection string.
//
// It is safe for concurrent use; each Connect opens an independent session.
type Connector struct {
	driver *Driver
	desc   *dsn.Descriptor
	cfg    *Config
}

// Compile-time assertion that Connector implements driver.Connector.
var _ driver.Connector = (*Connector)(nil)

// NewConnector parses uri and options and returns a connector for
// sql.OpenDB.
//
// Parameters:
//   - uri: Connection string, cassandra://host[:port][,host[:port]...]/[keyspace][?options]
//   - options: Option map; entries override the URI query
//   - opts: Programmatic options
//
// Returns:
//   - *Connector: Connector ready for sql.OpenDB
//   - error: *types.ParseError or *types.OptionError
//
// Example:
//
//	connector, err := cassandra.NewConnector("cassandra://10.0.0.1,10.0.0.2/app?consistency=quorum", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	db := sql.OpenDB(connector)
func NewConnector(uri string, options map[string]string, opts ...Option) (*Connector, error) {
	return newConnector(NewDriver(opts...), uri, options, nil)
}

func newConnector(d *Driver, uri string, options map[string]string, opts []Option) (*Connector, error) {
	cfg := DefaultConfig()
	for _, opt := range d.opts {
		opt(cfg)
	}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.normalize()

	desc, err := dsn.Parse(uri, options, dsn.WithEnv(cfg.Env))
	if err != nil {
		return nil, err
	}
	if len(desc.Extra) > 0 {
		cfg.Logger.Debug("ignoring unrecognized options", "keys", slices.Sorted(maps.Keys(desc.Extra)))
	}

	return &Connector{driver: d, desc: desc, cfg: cfg}, nil
}

// Connect implements driver.Connector.
func (c *Connector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	return conn, nil
}

func (c *Connector) connect(ctx context.Context) (*Conn, error) {
	session, err := cluster.Connect(ctx, c.desc, c.cfg.Registry, c.cfg.clusterOptions()...)
	if err != nil {
		return nil, err
	}

	return newConn(session, c.desc, c.cfg), nil
}

// Driver implements driver.Connector.
func (c *Connector) Driver() driver.Driver {
	return c.driver
}

// Descriptor returns the resolved connection descriptor.
func (c *Connector) Descriptor() *dsn.Descriptor {
	return c.desc
}
