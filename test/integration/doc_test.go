// Package integration_test provides end-to-end tests of the driver against a
// real CQL node.
//
// # Running Integration Tests
//
// Integration tests are skipped when using the -short flag:
//
//	go test -short ./...           # Skips integration tests
//	go test ./test/integration/... # Runs integration tests
//
// They require Docker and use testcontainers to start a single node.
// Cassandra is used by default; set CASS_TEST_BACKEND=scylladb to prefer
// ScyllaDB, which falls back to Cassandra when AIO slots are exhausted.
package integration_test
