package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocql/gocql"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/cassandra"
	"github.com/testcontainers/testcontainers-go/modules/scylladb"
)

// EnvBackend selects the integration backend: "cassandra" (default) or
// "scylladb".
const EnvBackend = "CASS_TEST_BACKEND"

// Backend identifies the database running in the container.
type Backend string

const (
	BackendCassandra Backend = "cassandra"
	BackendScyllaDB  Backend = "scylladb"
)

// CQLCluster is a single-node CQL database running in a container, with a
// test keyspace already created.
type CQLCluster struct {
	Backend  Backend
	Host     string
	Keyspace string

	container testcontainers.Container
}

// URI returns a connection string for the cluster scoped to its keyspace.
// query, when not empty, is appended after '?'.
func (c *CQLCluster) URI(query string) string {
	uri := "cassandra://" + c.Host + "/" + c.Keyspace
	if query != "" {
		uri += "?" + query
	}

	return uri
}

// Terminate stops and removes the container.
func (c *CQLCluster) Terminate(ctx context.Context) error {
	if c.container == nil {
		return nil
	}

	return c.container.Terminate(ctx)
}

// CQLClusterOptions configures the container.
type CQLClusterOptions struct {
	// Keyspace is created with SimpleStrategy and replication factor 1.
	// Unquoted, so it must be lower case.
	Keyspace string
	// Backend is the preferred backend. Default: from EnvBackend, else Cassandra.
	Backend Backend

	CassandraImage string
	ScyllaDBImage  string
	// ScyllaDBMemory and ScyllaDBSMP bound the ScyllaDB reactor.
	ScyllaDBMemory string
	ScyllaDBSMP    int
}

// DefaultCQLClusterOptions returns options for a small single-node cluster.
func DefaultCQLClusterOptions(keyspace string) CQLClusterOptions {
	backend := BackendCassandra
	if strings.EqualFold(os.Getenv(EnvBackend), string(BackendScyllaDB)) {
		backend = BackendScyllaDB
	}

	return CQLClusterOptions{
		Keyspace:       keyspace,
		Backend:        backend,
		CassandraImage: "cassandra:4.1",
		ScyllaDBImage:  "scylladb/scylla:6.2",
		ScyllaDBMemory: "512M",
		ScyllaDBSMP:    1,
	}
}

// aioAvailable reports whether the host has free AIO slots, which ScyllaDB
// needs at startup.
func aioAvailable() bool {
	read := func(name string) (int64, bool) {
		data, err := os.ReadFile(name)
		if err != nil {
			return 0, false
		}
		n, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)

		return n, err == nil
	}

	used, ok1 := read("/proc/sys/fs/aio-nr")
	limit, ok2 := read("/proc/sys/fs/aio-max-nr")

	return ok1 && ok2 && used < limit
}

// StartCQLCluster starts a CQL database for integration tests and creates
// the keyspace. ScyllaDB falls back to Cassandra when AIO is unavailable or
// it fails to start.
//
// It is meant for TestMain, where *testing.T is not available; the caller
// must Terminate the cluster.
func StartCQLCluster(ctx context.Context, opts CQLClusterOptions) (*CQLCluster, error) {
	if opts.Backend == BackendScyllaDB && aioAvailable() {
		c, err := startContainer(ctx, BackendScyllaDB, opts)
		if err == nil {
			return c, nil
		}
		fmt.Printf("ScyllaDB failed: %v, falling back to Cassandra...\n", err)
	}

	return startContainer(ctx, BackendCassandra, opts)
}

func startContainer(ctx context.Context, backend Backend, opts CQLClusterOptions) (*CQLCluster, error) {
	var (
		container testcontainers.Container
		host      string
		ready     time.Duration
		err       error
	)

	switch backend {
	case BackendScyllaDB:
		var sc *scylladb.Container
		sc, err = scylladb.Run(ctx, opts.ScyllaDBImage,
			scylladb.WithCustomCommands(
				"--memory="+opts.ScyllaDBMemory,
				"--smp="+strconv.Itoa(opts.ScyllaDBSMP),
				"--developer-mode=1",
				"--overprovisioned=1",
				"--reactor-backend=epoll",
			),
		)
		if sc != nil {
			container = sc
		}
		if err == nil {
			host, err = sc.NonShardAwareConnectionHost(ctx)
		}
		ready = 30 * time.Second
	default:
		var cc *cassandra.CassandraContainer
		cc, err = cassandra.Run(ctx, opts.CassandraImage,
			testcontainers.WithEnv(map[string]string{
				"HEAP_NEWSIZE":     "128M",
				"MAX_HEAP_SIZE":    "512M",
				"CASSANDRA_SNITCH": "SimpleSnitch",
			}),
		)
		if cc != nil {
			container = cc
		}
		if err == nil {
			host, err = cc.ConnectionHost(ctx)
		}
		ready = 60 * time.Second
	}

	if err == nil {
		err = createKeyspace(host, opts.Keyspace, ready)
	}
	if err != nil {
		if container != nil {
			_ = container.Terminate(ctx)
		}

		return nil, fmt.Errorf("start %s: %w", backend, err)
	}

	return &CQLCluster{
		Backend:   backend,
		Host:      host,
		Keyspace:  opts.Keyspace,
		container: container,
	}, nil
}

// createKeyspace waits for the node to accept sessions and creates the test
// keyspace. It talks to gocql directly so that setup does not depend on the
// driver under test.
func createKeyspace(host, keyspace string, timeout time.Duration) error {
	cfg := gocql.NewCluster(host)
	cfg.Consistency = gocql.One
	cfg.Timeout = timeout
	cfg.ConnectTimeout = timeout
	cfg.Keyspace = "system"

	var (
		session *gocql.Session
		err     error
	)
	for range 10 {
		if session, err = cfg.CreateSession(); err == nil {
			break
		}
		time.Sleep(3 * time.Second)
	}
	if err != nil {
		return fmt.Errorf("connect to system keyspace: %w", err)
	}
	defer session.Close()

	stmt := "CREATE KEYSPACE IF NOT EXISTS " + keyspace +
		" WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 1}"
	if err := session.Query(stmt).Exec(); err != nil {
		return fmt.Errorf("create keyspace %s: %w", keyspace, err)
	}

	return nil
}
