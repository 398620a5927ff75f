package integration_test

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	_ "github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/test/testutil"
)

const testKeyspace = "driver_it"

// sharedCluster is started once for all integration tests.
var sharedCluster *testutil.CQLCluster

// TestMain starts the shared node. Tests skip themselves when it is absent.
func TestMain(m *testing.M) {
	flag.Parse()

	if testing.Short() {
		return
	}

	if os.Getenv("SKIP_INTEGRATION_TESTS") == "1" {
		fmt.Println("Skipping integration tests (SKIP_INTEGRATION_TESTS=1)")

		return
	}

	ctx := context.Background()
	cluster, err := testutil.StartCQLCluster(ctx, testutil.DefaultCQLClusterOptions(testKeyspace))
	if err != nil {
		fmt.Printf("Failed to start CQL cluster: %v\n", err)

		return
	}
	sharedCluster = cluster
	fmt.Printf("CQL cluster ready! (using %s at %s)\n", cluster.Backend, cluster.Host)

	code := m.Run()

	_ = sharedCluster.Terminate(ctx)
	os.Exit(code)
}

func getCluster(t *testing.T) *testutil.CQLCluster {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if sharedCluster == nil {
		t.Skip("CQL cluster not available (run with -short=false and Docker)")
	}

	return sharedCluster
}

// openDB opens a pool on the shared keyspace. query is appended to the URI.
func openDB(t *testing.T, query string) *sql.DB {
	t.Helper()

	db, err := sql.Open("cassandra", getCluster(t).URI(query))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// createTable creates a uniquely named table from a schema template with a
// %s placeholder and drops it when the test ends.
func createTable(t *testing.T, db *sql.DB, suffix, schema string) string {
	t.Helper()

	name := fmt.Sprintf("test_%s_%d", suffix, time.Now().UnixNano())
	_, err := db.ExecContext(t.Context(), fmt.Sprintf(schema, name))
	require.NoError(t, err, "create table %s", name)

	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), "DROP TABLE IF EXISTS "+name)
	})

	return name
}

// Table schema templates with %s placeholder for table name.
const (
	nativeTableSchema = `
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			tiny TINYINT,
			small SMALLINT,
			num INT,
			big BIGINT,
			huge VARINT,
			price DECIMAL,
			ratio FLOAT,
			score DOUBLE,
			data BLOB,
			day DATE,
			tod TIME,
			at TIMESTAMP,
			ver TIMEUUID,
			addr INET,
			span DURATION,
			flag BOOLEAN,
			code ASCII,
			name TEXT
		)
	`
	collectionTableSchema = `
		CREATE TABLE IF NOT EXISTS %s (
			id INT PRIMARY KEY,
			tags LIST<INT>,
			attrs MAP<TEXT, TEXT>
		)
	`
)
