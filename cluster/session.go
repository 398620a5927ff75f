package cluster

import (
	"sync/atomic"

	"github.com/gocql/gocql"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/adapter/cql"
	v1 "github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/adapter/cql/v1"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/codec"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/dsn"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

// Session is an open cluster session bound to a codec registry.
type Session struct {
	raw         cql.Session
	registry    *codec.Registry
	consistency types.Consistency
	keyspace    dsn.Keyspace
	metrics     types.MetricsCollector
	closed      atomic.Bool
}

func newSession(raw cql.Session, registry *codec.Registry, desc *dsn.Descriptor, metrics types.MetricsCollector) *Session {
	return &Session{
		raw:         raw,
		registry:    registry,
		consistency: desc.Consistency,
		keyspace:    desc.Keyspace,
		metrics:     metrics,
	}
}

// Query prepares a statement whose positional arguments are encoded with the
// session's codecs at the session's default consistency.
func (s *Session) Query(stmt string, args ...any) cql.Query {
	bound := make([]any, len(args))
	for i, arg := range args {
		bound[i] = codec.Bind(s.registry, arg)
	}

	return s.raw.Query(stmt, bound...).Consistency(s.consistency)
}

// Close closes the underlying session. Only the first call has an effect.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.raw.Close()
	s.metrics.IncSessionClosed()
}

// Closed reports whether the session was closed by Close or by the client.
func (s *Session) Closed() bool {
	return s.closed.Load() || s.raw.Closed()
}

// Consistency returns the default consistency level of the session.
func (s *Session) Consistency() types.Consistency {
	return s.consistency
}

// Keyspace returns the keyspace the session is scoped to, if any.
func (s *Session) Keyspace() dsn.Keyspace {
	return s.keyspace
}

// Registry returns the codec registry installed for the session.
func (s *Session) Registry() *codec.Registry {
	return s.registry
}

// Raw returns the underlying client session.
func (s *Session) Raw() cql.Session {
	return s.raw
}

// Gocql returns the gocql session behind s for metadata and other calls the
// client boundary does not expose. ok is false when the session was not
// created by gocql, as with a custom session factory.
func (s *Session) Gocql() (session *gocql.Session, ok bool) {
	raw, ok := s.raw.(*v1.Session)
	if !ok {
		return nil, false
	}

	return v1.UnwrapSession(raw), true
}
