// Package cassandra is a database/sql driver for Apache Cassandra and other
// CQL-compatible stores.
//
// The driver parses a connection string, opens a gocql session with a frozen
// codec registry installed and exposes it through database/sql. The wire
// protocol, retries and load balancing stay in gocql.
//
// # Basic Usage
//
//	import (
//	    "database/sql"
//
//	    _ "github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver"
//	)
//
//	db, err := sql.Open("cassandra", "cassandra://10.0.0.1:9042,10.0.0.2/app_ks?consistency=QUORUM")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	_, err = db.ExecContext(ctx, "INSERT INTO users (id, name) VALUES (?, ?)", id, name)
//
// # Connection String
//
//	cassandra://host1[:port1][,host2[:port2],...]/[keyspace][?opt1=v1&opt2=v2...]
//
// Ports default to 9042. An unquoted keyspace is double-quoted before use,
// so its case is preserved. Options are matched case-insensitively:
//
//   - user, password: plain-text authentication
//   - consistency: ANY, ONE, TWO, THREE, QUORUM, ALL, LOCAL_QUORUM,
//     EACH_QUORUM, SERIAL, LOCAL_SERIAL, LOCAL_ONE (default LOCAL_ONE)
//   - ssl, truststore, truststorepassword, keystore, keystorepassword,
//     keyalias, ciphersuites, tlsminversion, verifyservercertificate
//   - connecttimeout, timeout: Go durations or milliseconds
//   - protoversion, localdc, disableinitialhostlookup
//   - returnnullstrings: introspection returns NULL for absent metadata
//
// An explicit option map (Driver.Connect, NewConnector) wins over the URI
// query, which wins over CASS_CLIENT_* environment variables. Unknown keys
// are ignored.
//
// # Values
//
// Statement arguments are encoded by the codec for the column's CQL type, so
// any Go value that converts exactly is accepted: an int64 into a smallint
// column works when it fits and fails with ErrOutOfRange otherwise.
// Result cells are widened to database/sql types: fixed-width integers to
// int64, float to float64, varint and decimal to their digits, UUIDs, inet
// addresses and durations to text, time of day to nanoseconds since
// midnight. Collections, tuples and user-defined types are rendered as JSON.
//
// # Errors
//
// Every failure of Open or Connect matches one sentinel with errors.Is:
//
//   - ErrMalformedConnectionString, ErrInvalidOption, ErrKeyspaceNotFound:
//     configuration mistakes
//   - ErrConnectionFailed, ErrSecureTransport: transport mistakes
//
// types.Classify groups them. The client's own error stays reachable through
// errors.As on the *ConnectError.
//
// Transactions and named parameters are not supported.
package cassandra
