package v1

import (
	"github.com/gocql/gocql"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/adapter/cql"
)

// ToGocqlConsistency converts a driver Consistency to gocql.Consistency.
//
// Parameters:
//   - c: Driver consistency level
//
// Returns:
//   - gocql.Consistency: The equivalent gocql consistency level
//
// Example:
//
//	cluster := gocql.NewCluster("127.0.0.1")
//	cluster.Consistency = v1.ToGocqlConsistency(types.LocalQuorum)
func ToGocqlConsistency(c cql.Consistency) gocql.Consistency {
	return gocql.Consistency(c)
}

// UnwrapSession returns the underlying gocql.Session from a Session adapter.
//
// This is useful when you need direct access to the underlying gocql session
// for operations not exposed by the cql interface.
//
// Parameters:
//   - s: v1 Session adapter
//
// Returns:
//   - *gocql.Session: The underlying gocql session
//
// Example:
//
//	gocqlSession := v1.UnwrapSession(session)
//	tables, _ := gocqlSession.KeyspaceMetadata("my_keyspace")
func UnwrapSession(s *Session) *gocql.Session {
	return s.session
}
