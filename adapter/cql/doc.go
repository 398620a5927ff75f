// Package cql defines the interfaces the driver uses to talk to a CQL client.
//
// Keeping the client behind Session, Query and Iter lets the session
// establisher and the database/sql glue be tested without a cluster.
//
// # Adapters
//
// Client-specific adapters are provided in subpackages:
//
//   - [github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/adapter/cql/v1]: Adapter for gocql v1.x
//
// # Usage
//
//	cluster := gocql.NewCluster("127.0.0.1")
//	session, err := v1.CreateSession(cluster)
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	iter := session.Query("SELECT release_version FROM system.local").IterContext(ctx)
package cql
