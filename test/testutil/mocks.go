package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/gocql/gocql"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/adapter/cql"
)

// MockSession is a mock implementation of cql.Session for testing.
type MockSession struct {
	mu        sync.RWMutex
	closed    bool
	queries   map[string]*MockQuery
	keyspaces map[string]bool
	metaErr   error

	// Hooks for custom behavior
	OnQuery func(stmt string, values ...any) cql.Query
	OnClose func()
}

// Compile-time assertion that MockSession implements cql.Session.
var _ cql.Session = (*MockSession)(nil)

// NewMockSession creates a new mock session.
func NewMockSession() *MockSession {
	return &MockSession{
		queries:   make(map[string]*MockQuery),
		keyspaces: make(map[string]bool),
	}
}

// Query returns the mock query registered for stmt, creating one if needed.
func (m *MockSession) Query(stmt string, values ...any) cql.Query {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.OnQuery != nil {
		return m.OnQuery(stmt, values...)
	}

	q, ok := m.queries[stmt]
	if !ok {
		q = NewMockQuery(stmt)
		m.queries[stmt] = q
	}
	q.setValues(values)

	return q
}

// KeyspaceExists reports whether the keyspace was added with AddKeyspace.
func (m *MockSession) KeyspaceExists(keyspace string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.metaErr != nil {
		return false, m.metaErr
	}

	return m.keyspaces[keyspace], nil
}

// Closed returns whether the session has been closed.
func (m *MockSession) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.closed
}

// Close marks the session as closed.
func (m *MockSession) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true

	if m.OnClose != nil {
		m.OnClose()
	}
}

// AddKeyspace registers an existing keyspace for KeyspaceExists.
func (m *MockSession) AddKeyspace(name string) *MockSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.keyspaces[name] = true

	return m
}

// SetMetadataError makes KeyspaceExists fail.
func (m *MockSession) SetMetadataError(err error) *MockSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.metaErr = err

	return m
}

// Expect returns the mock query for stmt so its results can be configured
// before the statement runs.
func (m *MockSession) Expect(stmt string) *MockQuery {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.queries[stmt]
	if !ok {
		q = NewMockQuery(stmt)
		m.queries[stmt] = q
	}

	return q
}

// MockQuery is a mock implementation of cql.Query for testing.
//
// When parameter types are set with SetParamTypes, bound values are
// marshaled through gocql.Marshaler on execution, the way the client does
// before sending a statement.
type MockQuery struct {
	mu     sync.RWMutex
	stmt   string
	values []any

	consistency cql.Consistency
	released    bool

	paramTypes []gocql.TypeInfo
	encoded    [][]byte

	execErr error
	iter    *MockIter
	execs   int
}

// Compile-time assertion that MockQuery implements cql.Query.
var _ cql.Query = (*MockQuery)(nil)

// NewMockQuery creates a new mock query.
func NewMockQuery(stmt string, values ...any) *MockQuery {
	return &MockQuery{stmt: stmt, values: values}
}

func (m *MockQuery) setValues(values []any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values = values
	m.encoded = nil
	m.released = false
}

// Consistency sets the consistency level.
func (m *MockQuery) Consistency(c cql.Consistency) cql.Query {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.consistency = c

	return m
}

// ExecContext marshals the bound values and returns the configured error.
func (m *MockQuery) ExecContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.execs++
	if err := m.marshalLocked(); err != nil {
		return err
	}

	return m.execErr
}

// IterContext marshals the bound values and returns the configured iterator.
func (m *MockQuery) IterContext(ctx context.Context) cql.Iter {
	if err := ctx.Err(); err != nil {
		return NewMockIter().SetCloseError(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.execs++
	if err := m.marshalLocked(); err != nil {
		return NewMockIter().SetCloseError(err)
	}
	if m.execErr != nil {
		return NewMockIter().SetCloseError(m.execErr)
	}
	if m.iter == nil {
		return NewMockIter()
	}

	return m.iter.rewind()
}

// Release marks the query as released.
func (m *MockQuery) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.released = true
}

func (m *MockQuery) marshalLocked() error {
	if m.paramTypes == nil {
		return nil
	}
	if len(m.values) != len(m.paramTypes) {
		return fmt.Errorf("%s: expected %d values, got %d", m.stmt, len(m.paramTypes), len(m.values))
	}

	m.encoded = make([][]byte, len(m.values))
	for i, v := range m.values {
		marshaler, ok := v.(gocql.Marshaler)
		if !ok {
			data, err := gocql.Marshal(m.paramTypes[i], v)
			if err != nil {
				return err
			}
			m.encoded[i] = data

			continue
		}
		data, err := marshaler.MarshalCQL(m.paramTypes[i])
		if err != nil {
			return err
		}
		m.encoded[i] = data
	}

	return nil
}

// SetParamTypes declares the column types of the statement's parameters.
func (m *MockQuery) SetParamTypes(infos ...gocql.TypeInfo) *MockQuery {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.paramTypes = infos

	return m
}

// SetExecError configures the execution error.
func (m *MockQuery) SetExecError(err error) *MockQuery {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.execErr = err

	return m
}

// SetIter configures the iterator returned by IterContext.
func (m *MockQuery) SetIter(iter *MockIter) *MockQuery {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.iter = iter

	return m
}

// Encoded returns the wire bytes of the last execution.
func (m *MockQuery) Encoded() [][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.encoded
}

// GetConsistency returns the consistency level set on the query.
func (m *MockQuery) GetConsistency() cql.Consistency {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.consistency
}

// Released reports whether Release was called since the last bind.
func (m *MockQuery) Released() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.released
}

// Execs returns how many times the query was executed.
func (m *MockQuery) Execs() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.execs
}

// MockIter is a mock implementation of cql.Iter for testing.
//
// Rows hold wire bytes. Scan hands them to destinations implementing
// gocql.Unmarshaler together with the column's type info.
type MockIter struct {
	mu       sync.Mutex
	columns  []cql.ColumnInfo
	rows     [][][]byte
	index    int
	closeErr error
	scanErr  error
	warnings []string
	closed   bool
}

// Compile-time assertion that MockIter implements cql.Iter.
var _ cql.Iter = (*MockIter)(nil)

// NewMockIter creates a new mock iterator over the given columns.
func NewMockIter(columns ...cql.ColumnInfo) *MockIter {
	return &MockIter{columns: columns}
}

// Column is a shorthand for a result column of a native type.
func Column(name string, typ gocql.Type) cql.ColumnInfo {
	return cql.ColumnInfo{Name: name, TypeInfo: gocql.NewNativeType(4, typ, "")}
}

func (m *MockIter) rewind() *MockIter {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.index = 0
	m.closed = false

	return m
}

// Scan reads the next row.
func (m *MockIter) Scan(dest ...any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.scanErr != nil || m.index >= len(m.rows) {
		return false
	}

	row := m.rows[m.index]
	for i := 0; i < len(dest) && i < len(row); i++ {
		if err := copyValue(dest[i], m.columnType(i), row[i]); err != nil {
			m.scanErr = err
			return false
		}
	}
	m.index++

	return true
}

func (m *MockIter) columnType(i int) gocql.TypeInfo {
	if i >= len(m.columns) {
		return nil
	}
	info, _ := m.columns[i].TypeInfo.(gocql.TypeInfo)

	return info
}

// Close closes the iterator and returns the first error.
func (m *MockIter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	if m.scanErr != nil {
		return m.scanErr
	}

	return m.closeErr
}

// Columns returns metadata about the columns in the result set.
func (m *MockIter) Columns() []cql.ColumnInfo {
	return m.columns
}

// Warnings returns the configured server warnings.
func (m *MockIter) Warnings() []string {
	return m.warnings
}

// AddRow adds a row of wire values; nil is a NULL cell.
func (m *MockIter) AddRow(cells ...[]byte) *MockIter {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows = append(m.rows, cells)

	return m
}

// SetCloseError configures the close error.
func (m *MockIter) SetCloseError(err error) *MockIter {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeErr = err

	return m
}

// SetWarnings configures server warnings.
func (m *MockIter) SetWarnings(warnings ...string) *MockIter {
	m.warnings = warnings
	return m
}

// IsClosed reports whether Close was called.
func (m *MockIter) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closed
}

// copyValue stores one cell into a scan destination.
func copyValue(dest any, info gocql.TypeInfo, src []byte) error {
	switch d := dest.(type) {
	case gocql.Unmarshaler:
		return d.UnmarshalCQL(info, src)
	case *[]byte:
		*d = src
	case *string:
		*d = string(src)
	default:
		if info == nil {
			return fmt.Errorf("no type info to scan into %T", dest)
		}

		return gocql.Unmarshal(info, src, dest)
	}

	return nil
}

// MockFactory returns a session factory that serves sessions in order and
// records the cluster configurations it was called with. Each entry is
// either a cql.Session or an error.
type MockFactory struct {
	mu      sync.Mutex
	results []any
	configs []*gocql.ClusterConfig
}

// NewMockFactory creates a factory serving results in order. Once the list is
// exhausted the last result is repeated.
func NewMockFactory(results ...any) *MockFactory {
	return &MockFactory{results: results}
}

// Create implements cluster.SessionFactory.
func (f *MockFactory) Create(cfg *gocql.ClusterConfig) (cql.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.configs = append(f.configs, cfg)
	if len(f.results) == 0 {
		return nil, fmt.Errorf("no session configured")
	}

	i := min(len(f.configs), len(f.results)) - 1
	switch r := f.results[i].(type) {
	case cql.Session:
		return r, nil
	case error:
		return nil, r
	default:
		return nil, fmt.Errorf("unexpected factory result %T", r)
	}
}

// Configs returns the cluster configurations seen so far.
func (f *MockFactory) Configs() []*gocql.ClusterConfig {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]*gocql.ClusterConfig(nil), f.configs...)
}

// Calls returns how many sessions were requested.
func (f *MockFactory) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.configs)
}
