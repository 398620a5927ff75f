package cassandra

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"os"
	"strconv"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/dsn"
)

// DriverName is the name the driver registers with database/sql.
const DriverName = "cassandra"

// Static driver metadata.
const (
	MajorVersion = 1
	MinorVersion = 5

	// Compliant is the compliance flag reported to connectivity managers.
	Compliant = true
)

var defaultEnv dsn.LookupEnv = os.LookupEnv

func init() {
	sql.Register(DriverName, &Driver{})
}

// Version returns the driver version as "major.minor".
func Version() string {
	return strconv.Itoa(MajorVersion) + "." + strconv.Itoa(MinorVersion)
}

// Accepts reports whether uri is a connection string for this driver. It
// only looks at the scheme prefix.
func Accepts(uri string) bool {
	return dsn.HasScheme(uri)
}

// Driver is the database/sql driver. The zero value uses DefaultConfig.
type Driver struct {
	opts []Option
}

// Compile-time assertions.
var (
	_ driver.Driver        = (*Driver)(nil)
	_ driver.DriverContext = (*Driver)(nil)
)

// NewDriver creates a driver whose connectors are configured with opts.
//
// Parameters:
//   - opts: Options applied to every connector
//
// Returns:
//   - *Driver: Driver for sql.OpenDB or direct use
func NewDriver(opts ...Option) *Driver {
	return &Driver{opts: opts}
}

// Open implements driver.Driver.
func (d *Driver) Open(name string) (driver.Conn, error) {
	c, err := d.OpenConnector(name)
	if err != nil {
		return nil, err
	}

	return c.Connect(context.Background())
}

// OpenConnector implements driver.DriverContext. The connection string is
// parsed once here.
func (d *Driver) OpenConnector(name string) (driver.Connector, error) {
	c, err := newConnector(d, name, nil, d.opts)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Connect opens a connection for uri with an explicit option map.
//
// Entries in options override the same keys in the URI query. When uri does
// not start with the cassandra:// scheme, Connect returns (nil, nil) so
// callers probing several drivers can move on.
//
// Parameters:
//   - ctx: Context bounding the connect attempt
//   - uri: Connection string
//   - options: Option map, may be nil
//
// Returns:
//   - *Conn: Open connection, or nil when uri is not for this driver
//   - error: Parse, option or connect error
func (d *Driver) Connect(ctx context.Context, uri string, options map[string]string) (*Conn, error) {
	if !Accepts(uri) {
		return nil, nil //nolint:nilnil // "not mine" is not an error
	}

	c, err := newConnector(d, uri, options, d.opts)
	if err != nil {
		return nil, err
	}

	return c.connect(ctx)
}
