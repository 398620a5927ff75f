// Package dsn parses driver connection strings into a Descriptor.
//
// A connection string names the contact points, an optional keyspace and
// options:
//
//	cassandra://10.0.0.1,10.0.0.2:9142/app?consistency=local_quorum&ssl=true
//
// Options come from three layers. From highest to lowest precedence they are
// the explicit option map, the URI query and the CASS_CLIENT_* environment
// variables. Keys are case-insensitive. Unknown keys are kept in
// Descriptor.Extra; a recognized key with a value outside its domain fails
// with types.ErrInvalidOption rather than falling back to a default.
//
// Parsing never touches the network.
package dsn
