package types

import (
	"errors"
	"strconv"
)

// Sentinel errors forming the driver's error taxonomy.
//
// Configuration mistakes: ErrMalformedConnectionString, ErrInvalidOption,
// ErrKeyspaceNotFound. Transport mistakes: ErrConnectionFailed,
// ErrSecureTransport. Value mistakes: ErrUnsupportedType and the codec errors.
var (
	// ErrMalformedConnectionString indicates the connection string does not have the
	// expected scheme prefix or contains an unparseable host/port segment.
	ErrMalformedConnectionString = errors.New("cassandra: malformed connection string")

	// ErrInvalidOption indicates a recognized option has a value outside its domain.
	ErrInvalidOption = errors.New("cassandra: invalid option")

	// ErrUnsupportedType indicates no codec is registered for a native type.
	ErrUnsupportedType = errors.New("cassandra: unsupported type")

	// ErrConnectionFailed indicates no host was reachable or authentication was rejected.
	ErrConnectionFailed = errors.New("cassandra: connection failed")

	// ErrKeyspaceNotFound indicates the requested keyspace does not exist.
	ErrKeyspaceNotFound = errors.New("cassandra: keyspace not found")

	// ErrSecureTransport indicates TLS material could not be loaded or the
	// TLS handshake failed.
	ErrSecureTransport = errors.New("cassandra: secure transport error")

	// ErrRegistryFrozen indicates an attempt to change a frozen codec registry.
	ErrRegistryFrozen = errors.New("cassandra: codec registry is frozen")

	// ErrOutOfRange indicates a host value outside the native type's domain.
	ErrOutOfRange = errors.New("cassandra: value out of range")

	// ErrUnsupportedValue indicates a host value that a codec cannot convert.
	ErrUnsupportedValue = errors.New("cassandra: unsupported value")

	// ErrSessionClosed indicates an operation was attempted on a closed connection.
	ErrSessionClosed = errors.New("cassandra: session is closed")

	// ErrSessionLive indicates codecs were installed after a session was opened.
	ErrSessionLive = errors.New("cassandra: session already open")

	// ErrTransactionsUnsupported is returned by Begin.
	ErrTransactionsUnsupported = errors.New("cassandra: transactions are not supported")

	// ErrNamedParameters indicates a named argument was bound to a positional statement.
	ErrNamedParameters = errors.New("cassandra: named parameters are not supported")
)

// ParseError describes a malformed connection string.
type ParseError struct {
	// URI is the connection string with credentials removed.
	URI string

	// Reason describes what could not be parsed.
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return ErrMalformedConnectionString.Error() + ": " + e.Reason + " (" + strconv.Quote(e.URI) + ")"
}

// Unwrap returns ErrMalformedConnectionString for errors.Is compatibility.
func (e *ParseError) Unwrap() error {
	return ErrMalformedConnectionString
}

// OptionError describes an option whose value is outside its accepted domain.
type OptionError struct {
	// Key is the lowercased option name.
	Key string

	// Value is the rejected value. Secret values are never stored.
	Value string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *OptionError) Error() string {
	msg := ErrInvalidOption.Error() + " " + strconv.Quote(e.Key)
	if e.Value != "" {
		msg += " = " + strconv.Quote(e.Value)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

// Unwrap returns ErrInvalidOption and the cause for errors.Is/As compatibility.
func (e *OptionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrInvalidOption}
	}

	return []error{ErrInvalidOption, e.Cause}
}

// CodecError describes a failed encode or decode.
type CodecError struct {
	// Tag is the native type name, e.g. "smallint".
	Tag string

	// Operation is "encode" or "decode".
	Operation string

	// Kind is ErrOutOfRange, ErrUnsupportedValue or ErrUnsupportedType.
	Kind error

	// Detail describes the offending value.
	Detail string
}

// Error implements the error interface.
func (e *CodecError) Error() string {
	msg := "cassandra: " + e.Operation + " " + e.Tag + ": " + trimPrefix(e.Kind.Error())
	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	return msg
}

// Unwrap returns the error kind for errors.Is compatibility.
func (e *CodecError) Unwrap() error {
	return e.Kind
}

// ConnectError wraps a failure while establishing a session.
type ConnectError struct {
	// Kind is one of ErrConnectionFailed, ErrKeyspaceNotFound or ErrSecureTransport.
	Kind error

	// Hosts lists the contact points that were tried.
	Hosts []string

	// Keyspace is the quoted keyspace that was requested, if any.
	Keyspace string

	// Cause is the underlying transport error.
	Cause error
}

// Error implements the error interface.
func (e *ConnectError) Error() string {
	msg := e.Kind.Error()
	if e.Keyspace != "" && errors.Is(e.Kind, ErrKeyspaceNotFound) {
		msg += ": keyspace " + e.Keyspace + " does not exist"
	}
	if len(e.Hosts) > 0 {
		msg += " (hosts"
		for _, h := range e.Hosts {
			msg += " " + h
		}
		msg += ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

// Unwrap returns the kind and the cause for errors.Is/As compatibility.
func (e *ConnectError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Cause}
}

// ErrorClass groups errors by who has to act on them.
type ErrorClass int

const (
	// ClassUnknown is any error outside the driver taxonomy.
	ClassUnknown ErrorClass = iota
	// ClassConfiguration covers malformed strings, bad options and unknown keyspaces.
	ClassConfiguration
	// ClassTransport covers unreachable hosts, rejected credentials and TLS failures.
	ClassTransport
	// ClassValue covers codec failures.
	ClassValue
)

// String returns the class name.
func (c ErrorClass) String() string {
	switch c {
	case ClassConfiguration:
		return "configuration"
	case ClassTransport:
		return "transport"
	case ClassValue:
		return "value"
	case ClassUnknown:
	}

	return "unknown"
}

// Classify reports whether err is a configuration, transport or value error.
func Classify(err error) ErrorClass {
	switch {
	case err == nil:
		return ClassUnknown
	case errors.Is(err, ErrMalformedConnectionString),
		errors.Is(err, ErrInvalidOption),
		errors.Is(err, ErrKeyspaceNotFound):
		return ClassConfiguration
	case errors.Is(err, ErrConnectionFailed),
		errors.Is(err, ErrSecureTransport):
		return ClassTransport
	case errors.Is(err, ErrUnsupportedType),
		errors.Is(err, ErrOutOfRange),
		errors.Is(err, ErrUnsupportedValue):
		return ClassValue
	}

	return ClassUnknown
}

func trimPrefix(s string) string {
	const prefix = "cassandra: "
	if len(s) > len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):]
	}

	return s
}
