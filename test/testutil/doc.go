// Package testutil provides test utilities and mock implementations for
// driver testing.
//
// # Mock Implementations
//
//   - [MockSession]: Mock implementation of cql.Session
//   - [MockQuery]: Mock implementation of cql.Query
//   - [MockIter]: Mock implementation of cql.Iter, rows hold wire bytes
//   - [MockFactory]: Session factory serving mock sessions or errors in order
//   - [TestMetricsCollector]: Recording types.MetricsCollector
//
// # Usage
//
//	session := testutil.NewMockSession().AddKeyspace("app")
//	factory := testutil.NewMockFactory(session)
//
//	connector, _ := cassandra.NewConnector(uri, nil,
//		cassandra.WithSessionFactory(factory.Create))
//
// # Integration Test Helpers
//
//   - [StartCQLCluster]: Starts a Cassandra or ScyllaDB container (requires Docker)
//   - [NewPKI]: Generates a CA with server and client certificates
package testutil
