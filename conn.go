package cassandra

import (
	"context"
	"database/sql/driver"
	"errors"
	"sync/atomic"
	"time"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/cluster"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/dsn"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

// pingStatement is answered by every node without touching user tables.
const pingStatement = "SELECT release_version FROM system.local"

// Conn is an open connection. It exclusively owns one cluster session.
type Conn struct {
	session *cluster.Session
	desc    *dsn.Descriptor
	logger  types.Logger
	metrics types.MetricsCollector
	closed  atomic.Bool
}

// Compile-time assertions.
var (
	_ driver.Conn               = (*Conn)(nil)
	_ driver.ConnPrepareContext = (*Conn)(nil)
	_ driver.ConnBeginTx        = (*Conn)(nil)
	_ driver.QueryerContext     = (*Conn)(nil)
	_ driver.ExecerContext      = (*Conn)(nil)
	_ driver.Pinger             = (*Conn)(nil)
	_ driver.Validator          = (*Conn)(nil)
	_ driver.SessionResetter    = (*Conn)(nil)
	_ driver.NamedValueChecker  = (*Conn)(nil)
)

func newConn(session *cluster.Session, desc *dsn.Descriptor, cfg *Config) *Conn {
	return &Conn{
		session: session,
		desc:    desc,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// Consistency returns the consistency level statements run at.
func (c *Conn) Consistency() types.Consistency {
	return c.session.Consistency()
}

// ReturnNullStrings reports whether introspection queries should return
// NULL rather than empty strings for absent metadata.
func (c *Conn) ReturnNullStrings() bool {
	return c.desc.ReturnNullStrings
}

// Keyspace returns the keyspace the connection is scoped to, if any.
func (c *Conn) Keyspace() dsn.Keyspace {
	return c.session.Keyspace()
}

// Session returns the underlying cluster session for statements the
// database/sql surface cannot express.
func (c *Conn) Session() *cluster.Session {
	return c.session
}

// Close releases the cluster session. Only the first call has an effect.
func (c *Conn) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		c.session.Close()
	}

	return nil
}

// IsValid implements driver.Validator.
func (c *Conn) IsValid() bool {
	return !c.closed.Load() && !c.session.Closed()
}

// ResetSession implements driver.SessionResetter.
func (c *Conn) ResetSession(_ context.Context) error {
	if !c.IsValid() {
		return driver.ErrBadConn
	}

	return nil
}

// Begin always fails; CQL has no multi-statement transactions.
func (c *Conn) Begin() (driver.Tx, error) {
	return nil, types.ErrTransactionsUnsupported
}

// BeginTx always fails; CQL has no multi-statement transactions.
func (c *Conn) BeginTx(_ context.Context, _ driver.TxOptions) (driver.Tx, error) {
	return nil, types.ErrTransactionsUnsupported
}

// Prepare implements driver.Conn.
func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	return c.PrepareContext(context.Background(), query)
}

// PrepareContext implements driver.ConnPrepareContext. Statements are
// prepared lazily by the client on first execution.
func (c *Conn) PrepareContext(_ context.Context, query string) (driver.Stmt, error) {
	if !c.IsValid() {
		return nil, driver.ErrBadConn
	}

	return &Stmt{conn: c, query: query}, nil
}

// CheckNamedValue implements driver.NamedValueChecker. Positional values of
// any type are passed to the codecs unchanged; named values are rejected.
func (c *Conn) CheckNamedValue(nv *driver.NamedValue) error {
	if nv.Name != "" {
		return types.ErrNamedParameters
	}

	return nil
}

// ExecContext implements driver.ExecerContext.
func (c *Conn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if !c.IsValid() {
		return nil, driver.ErrBadConn
	}
	values, err := positional(args)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	q := c.session.Query(query, values...)
	defer q.Release()

	err = q.ExecContext(ctx)
	c.observe(query, start, err)
	if err != nil {
		return nil, err
	}

	return driver.ResultNoRows, nil
}

// QueryContext implements driver.QueryerContext.
func (c *Conn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if !c.IsValid() {
		return nil, driver.ErrBadConn
	}
	values, err := positional(args)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	q := c.session.Query(query, values...)
	iter := q.IterContext(ctx)
	q.Release()

	rows := newRows(iter, c.session.Registry())
	// The first page is fetched eagerly, so request errors surface here.
	if err := rows.peek(); err != nil {
		c.observe(query, start, err)
		return nil, err
	}
	c.observe(query, start, nil)
	if warnings := iter.Warnings(); len(warnings) > 0 {
		c.logger.Warn("server warnings", "statement", query, "warnings", warnings)
	}

	return rows, nil
}

// Ping implements driver.Pinger.
func (c *Conn) Ping(ctx context.Context) error {
	if !c.IsValid() {
		return driver.ErrBadConn
	}

	q := c.session.Query(pingStatement)
	defer q.Release()

	return q.IterContext(ctx).Close()
}

func (c *Conn) observe(query string, start time.Time, err error) {
	c.metrics.IncQueryTotal()
	c.metrics.ObserveQueryDuration(time.Since(start).Seconds())
	if err == nil {
		return
	}

	c.metrics.IncQueryError()
	var codecErr *types.CodecError
	if errors.As(err, &codecErr) {
		c.metrics.IncCodecError(codecErr.Tag)
	}
	c.logger.Debug("statement failed", "statement", query, "error", err)
}

// positional returns the argument values in ordinal order.
func positional(args []driver.NamedValue) ([]any, error) {
	values := make([]any, len(args))
	for i, arg := range args {
		if arg.Name != "" {
			return nil, types.ErrNamedParameters
		}
		values[i] = arg.Value
	}

	return values, nil
}
