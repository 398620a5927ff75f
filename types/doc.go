// Package types provides shared types and error definitions for the driver.
//
// This is a leaf package with zero driver imports to prevent import cycles.
// All packages in the module can safely import this package.
//
// # Consistency
//
// Consistency levels mirror gocql consistency levels:
//
//	const (
//	    Any         Consistency = 0x00
//	    One         Consistency = 0x01
//	    Quorum      Consistency = 0x04
//	    LocalQuorum Consistency = 0x06
//	    LocalOne    Consistency = 0x0A
//	)
//
// ParseConsistency matches names case-insensitively with optional underscores.
//
// # Errors
//
// Every error returned by the driver matches exactly one taxonomy sentinel
// with errors.Is:
//
//   - ErrMalformedConnectionString: wrong scheme or unparseable host/port
//   - ErrInvalidOption: a recognized option with a value outside its domain
//   - ErrUnsupportedType: no codec registered for a native type
//   - ErrConnectionFailed: no reachable host, or credentials rejected
//   - ErrKeyspaceNotFound: the requested keyspace does not exist
//   - ErrSecureTransport: TLS material or handshake failure
//
// Structured errors (ParseError, OptionError, CodecError, ConnectError) carry
// details and unwrap to both the sentinel and the original cause. Classify
// groups errors into configuration, transport and value mistakes.
package types
