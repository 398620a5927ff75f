// Package cql provides the cluster client boundary used by the driver.
package cql

import (
	"context"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

// Consistency re-exports types.Consistency for adapter implementations.
type Consistency = types.Consistency

// Session represents a live session of the underlying CQL client.
//
// The driver only needs to issue single statements, iterate their results and
// inspect keyspace metadata; everything else stays inside the client.
type Session interface {
	// Query creates a new query for the given statement.
	//
	// Parameters:
	//   - stmt: CQL statement with ? placeholders
	//   - values: Values to bind to placeholders
	//
	// Returns:
	//   - Query: A query builder
	Query(stmt string, values ...any) Query

	// KeyspaceExists reports whether the cluster schema contains keyspace.
	//
	// Parameters:
	//   - keyspace: Unquoted keyspace name
	//
	// Returns:
	//   - bool: true if the keyspace exists
	//   - error: Non-nil if the schema could not be read
	KeyspaceExists(keyspace string) (bool, error)

	// Closed reports whether Close has been called.
	Closed() bool

	// Close terminates the session.
	Close()
}

// Query represents a single statement of the underlying client.
type Query interface {
	// Consistency sets the consistency level.
	Consistency(c Consistency) Query

	// ExecContext executes the query with context.
	ExecContext(ctx context.Context) error

	// IterContext returns an iterator for results with context.
	IterContext(ctx context.Context) Iter

	// Release returns the query to a pool (if applicable).
	Release()
}

// Iter represents a result iterator of the underlying client.
type Iter interface {
	// Scan reads the next row.
	Scan(dest ...any) bool

	// Close closes the iterator and returns the first error encountered.
	Close() error

	// Columns returns metadata about the columns in the result set.
	Columns() []ColumnInfo

	// Warnings returns the server warnings attached to the first page.
	Warnings() []string
}

// ColumnInfo holds metadata about a column in query results.
type ColumnInfo struct {
	Keyspace string
	Table    string
	Name     string

	// TypeInfo is the client's type descriptor, e.g. gocql.TypeInfo.
	TypeInfo any
}
