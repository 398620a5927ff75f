package cassandra

import (
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/dsn"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

// Type aliases for convenience - re-export from types package.
type (
	Consistency      = types.Consistency
	Logger           = types.Logger
	MetricsCollector = types.MetricsCollector
	ConnectError     = types.ConnectError
	ParseError       = types.ParseError
	OptionError      = types.OptionError
	CodecError       = types.CodecError
	OptionInfo       = dsn.OptionInfo
)

// Re-export consistency level constants for convenience.
const (
	Any         = types.Any
	One         = types.One
	Two         = types.Two
	Three       = types.Three
	Quorum      = types.Quorum
	All         = types.All
	LocalQuorum = types.LocalQuorum
	EachQuorum  = types.EachQuorum
	Serial      = types.Serial
	LocalSerial = types.LocalSerial
	LocalOne    = types.LocalOne
)

// Re-export the error taxonomy for errors.Is checks.
var (
	ErrMalformedConnectionString = types.ErrMalformedConnectionString
	ErrInvalidOption             = types.ErrInvalidOption
	ErrUnsupportedType           = types.ErrUnsupportedType
	ErrConnectionFailed          = types.ErrConnectionFailed
	ErrKeyspaceNotFound          = types.ErrKeyspaceNotFound
	ErrSecureTransport           = types.ErrSecureTransport
)

// Options lists the connection options the driver recognizes, with their
// aliases, environment variables and defaults.
func Options() []OptionInfo {
	return dsn.Options()
}
