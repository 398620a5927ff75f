// Package v1 provides an adapter for gocql v1.x.
//
// This adapter wraps gocql sessions, queries and iterators to implement the
// interfaces of package cql.
//
// # Usage
//
// CreateSession opens and wraps a session in one step, and is what the
// session establisher uses by default:
//
//	cluster := gocql.NewCluster("127.0.0.1", "127.0.0.2")
//	cluster.Keyspace = "my_keyspace"
//	cluster.Consistency = gocql.LocalQuorum
//
//	session, err := v1.CreateSession(cluster)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// An existing gocql session can be wrapped with NewSession.
//
// # Thread Safety
//
// All adapter types are safe for concurrent use, matching gocql's thread safety guarantees.
package v1
