package cassandra

import (
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/inf.v0"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/adapter/cql"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/codec"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/test/testutil"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

type fixture struct {
	db      *sql.DB
	session *testutil.MockSession
	metrics *testutil.TestMetricsCollector
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		session: testutil.NewMockSession(),
		metrics: testutil.NewTestMetricsCollector(),
	}
	factory := testutil.NewMockFactory(f.session)
	c, err := NewConnector("cassandra://localhost/ks?consistency=local_quorum", nil,
		WithSessionFactory(factory.Create), WithMetrics(f.metrics), WithEnv(nil))
	require.NoError(t, err)

	f.db = sql.OpenDB(c)
	f.db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = f.db.Close() })

	return f
}

func encode(t *testing.T, tag codec.Tag, v any) []byte {
	t.Helper()

	c, err := codec.Default().Lookup(tag)
	require.NoError(t, err)
	data, err := c.Encode(v)
	require.NoError(t, err)

	return data
}

func native(typ gocql.Type) gocql.TypeInfo {
	return gocql.NewNativeType(4, typ, "")
}

func TestExecBindsThroughCodecs(t *testing.T) {
	f := newFixture(t)
	const stmt = "INSERT INTO users (id, age, name) VALUES (?, ?, ?)"
	q := f.session.Expect(stmt).SetParamTypes(native(gocql.TypeUUID), native(gocql.TypeSmallInt), native(gocql.TypeText))

	id := uuid.New()
	res, err := f.db.ExecContext(t.Context(), stmt, id.String(), 42, "ada")
	require.NoError(t, err)

	encoded := q.Encoded()
	require.Len(t, encoded, 3)
	assert.Equal(t, id[:], encoded[0])
	assert.Equal(t, []byte{0, 42}, encoded[1])
	assert.Equal(t, []byte("ada"), encoded[2])
	assert.Equal(t, types.LocalQuorum, q.GetConsistency())

	_, err = res.RowsAffected()
	require.Error(t, err)

	total, failed := f.metrics.Queries()
	assert.Equal(t, int64(1), total)
	assert.Zero(t, failed)
}

func TestExecOutOfRange(t *testing.T) {
	f := newFixture(t)
	const stmt = "UPDATE t SET v = ? WHERE k = 1"
	f.session.Expect(stmt).SetParamTypes(native(gocql.TypeTinyInt))

	_, err := f.db.ExecContext(t.Context(), stmt, 300)
	require.ErrorIs(t, err, types.ErrOutOfRange)

	var codecErr *types.CodecError
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, "tinyint", codecErr.Tag)
	assert.Equal(t, int64(1), f.metrics.CodecErrorsFor("tinyint"))
	_, failed := f.metrics.Queries()
	assert.Equal(t, int64(1), failed)
}

func TestExecServerError(t *testing.T) {
	f := newFixture(t)
	const stmt = "TRUNCATE t"
	cause := errors.New("unconfigured table t")
	f.session.Expect(stmt).SetExecError(cause)

	_, err := f.db.ExecContext(t.Context(), stmt)
	require.ErrorIs(t, err, cause)
}

func TestQueryDecodesAndWidens(t *testing.T) {
	f := newFixture(t)
	const stmt = "SELECT id, name, big, price, tags, at, tod FROM items"

	listOfInt := gocql.CollectionType{NativeType: gocql.NewNativeType(4, gocql.TypeList, ""), Elem: native(gocql.TypeInt)}
	at := time.Date(2024, 2, 29, 12, 30, 15, 123_000_000, time.UTC)

	iter := testutil.NewMockIter(
		testutil.Column("id", gocql.TypeInt),
		testutil.Column("name", gocql.TypeText),
		testutil.Column("big", gocql.TypeVarint),
		testutil.Column("price", gocql.TypeDecimal),
		cql.ColumnInfo{Name: "tags", TypeInfo: listOfInt},
		testutil.Column("at", gocql.TypeTimestamp),
		testutil.Column("tod", gocql.TypeTime),
	).AddRow(
		encode(t, codec.Int, 7),
		encode(t, codec.Text, "widget"),
		encode(t, codec.Varint, "123456789012345678901234567890"),
		encode(t, codec.Decimal, "19.99"),
		[]byte{0, 0, 0, 2, 0, 0, 0, 4, 0, 0, 0, 1, 0, 0, 0, 4, 0, 0, 0, 2},
		encode(t, codec.Timestamp, at),
		encode(t, codec.Time, 90*time.Minute),
	).AddRow(
		encode(t, codec.Int, 8), nil, nil, nil, nil, nil, nil,
	)
	f.session.Expect(stmt).SetIter(iter)

	rows, err := f.db.QueryContext(t.Context(), stmt)
	require.NoError(t, err)
	defer rows.Close()

	cols, err := rows.Columns()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "big", "price", "tags", "at", "tod"}, cols)

	colTypes, err := rows.ColumnTypes()
	require.NoError(t, err)
	assert.Equal(t, "INT", colTypes[0].DatabaseTypeName())
	assert.Equal(t, "LIST", colTypes[4].DatabaseTypeName())
	assert.Equal(t, reflect.TypeFor[int64](), colTypes[0].ScanType())
	assert.Equal(t, reflect.TypeFor[string](), colTypes[4].ScanType())

	var (
		id    int64
		name  sql.NullString
		big   sql.NullString
		price sql.NullString
		tags  sql.NullString
		ts    sql.NullTime
		tod   sql.NullInt64
	)

	require.True(t, rows.Next())
	require.NoError(t, rows.Scan(&id, &name, &big, &price, &tags, &ts, &tod))
	assert.Equal(t, int64(7), id)
	assert.Equal(t, "widget", name.String)
	assert.Equal(t, "123456789012345678901234567890", big.String)
	assert.Equal(t, "19.99", price.String)
	assert.Equal(t, "[1,2]", tags.String)
	assert.True(t, at.Equal(ts.Time))
	assert.Equal(t, int64(90*time.Minute), tod.Int64)

	require.True(t, rows.Next())
	require.NoError(t, rows.Scan(&id, &name, &big, &price, &tags, &ts, &tod))
	assert.Equal(t, int64(8), id)
	assert.False(t, name.Valid)
	assert.False(t, big.Valid)
	assert.False(t, tags.Valid)
	assert.False(t, ts.Valid)

	require.False(t, rows.Next())
	require.NoError(t, rows.Err())
	assert.True(t, iter.IsClosed())
}

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Error(string, ...any) {}

func (l *recordingLogger) Warn(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprint(append([]any{msg}, keysAndValues...)...))
}

func TestQueryLogsServerWarnings(t *testing.T) {
	session := testutil.NewMockSession()
	logger := &recordingLogger{}
	c, err := NewConnector("cassandra://localhost/ks", nil,
		WithSessionFactory(testutil.NewMockFactory(session).Create), WithLogger(logger), WithEnv(nil))
	require.NoError(t, err)
	db := sql.OpenDB(c)
	defer db.Close()

	const stmt = "SELECT v FROM t WHERE v > 1 ALLOW FILTERING"
	iter := testutil.NewMockIter(testutil.Column("v", gocql.TypeInt)).
		AddRow(encode(t, codec.Int, 2)).
		SetWarnings("Aggregation query used without partition key")
	session.Expect(stmt).SetIter(iter)

	var v int64
	require.NoError(t, db.QueryRowContext(t.Context(), stmt).Scan(&v))
	assert.Equal(t, int64(2), v)

	logger.mu.Lock()
	defer logger.mu.Unlock()
	require.Len(t, logger.warns, 1)
	assert.Contains(t, logger.warns[0], "Aggregation query used without partition key")
}

func TestQueryErrorSurfacesOnCall(t *testing.T) {
	f := newFixture(t)
	const stmt = "SELECT * FROM missing"
	f.session.Expect(stmt).SetExecError(errors.New("unconfigured table missing"))

	_, err := f.db.QueryContext(t.Context(), stmt)
	require.Error(t, err)
	_, failed := f.metrics.Queries()
	assert.Equal(t, int64(1), failed)
}

func TestQueryDecodeError(t *testing.T) {
	f := newFixture(t)
	const stmt = "SELECT v FROM t"
	iter := testutil.NewMockIter(testutil.Column("v", gocql.TypeInt)).AddRow([]byte{1, 2, 3})
	f.session.Expect(stmt).SetIter(iter)

	_, err := f.db.QueryContext(t.Context(), stmt)
	require.Error(t, err)
	require.ErrorIs(t, err, types.ErrUnsupportedValue)
}

func TestPreparedStatement(t *testing.T) {
	f := newFixture(t)
	const stmt = "SELECT name FROM users WHERE id = ?"
	iter := testutil.NewMockIter(testutil.Column("name", gocql.TypeVarchar)).AddRow([]byte("grace"))
	q := f.session.Expect(stmt).SetParamTypes(native(gocql.TypeBigInt)).SetIter(iter)

	ps, err := f.db.PrepareContext(t.Context(), stmt)
	require.NoError(t, err)
	defer ps.Close()

	for range 2 {
		var name string
		require.NoError(t, ps.QueryRowContext(t.Context(), int64(1)).Scan(&name))
		assert.Equal(t, "grace", name)
	}
	assert.Equal(t, 2, q.Execs())
	assert.Equal(t, [][]byte{{0, 0, 0, 0, 0, 0, 0, 1}}, q.Encoded())
}

func TestNamedParametersRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.db.ExecContext(t.Context(), "INSERT INTO t (a) VALUES (?)", sql.Named("a", 1))
	require.ErrorIs(t, err, types.ErrNamedParameters)
}

func TestTransactionsUnsupported(t *testing.T) {
	f := newFixture(t)

	_, err := f.db.BeginTx(t.Context(), nil)
	require.ErrorIs(t, err, types.ErrTransactionsUnsupported)
}

func TestPing(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.PingContext(t.Context()))

	f.session.Expect(pingStatement).SetExecError(errors.New("timeout"))
	require.Error(t, f.db.PingContext(t.Context()))
}

func TestBrokenSessionIsDiscarded(t *testing.T) {
	session := testutil.NewMockSession()
	fresh := testutil.NewMockSession()
	factory := testutil.NewMockFactory(session, fresh)
	c, err := NewConnector("cassandra://localhost", nil, WithSessionFactory(factory.Create), WithEnv(nil))
	require.NoError(t, err)

	db := sql.OpenDB(c)
	defer db.Close()
	db.SetMaxOpenConns(1)

	require.NoError(t, db.PingContext(t.Context()))
	session.Close()

	// The pool drops the invalid connection and dials again.
	require.NoError(t, db.PingContext(t.Context()))
	assert.Equal(t, 2, factory.Calls())
}

func TestWiden(t *testing.T) {
	addr := "10.1.2.3"
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	dec := inf.NewDec(-150, 2)

	tests := []struct {
		name string
		tag  codec.Tag
		in   any
		want any
	}{
		{"nil", codec.Int, nil, nil},
		{"tinyint", codec.TinyInt, int8(-3), int64(-3)},
		{"smallint", codec.SmallInt, int16(300), int64(300)},
		{"int", codec.Int, int32(7), int64(7)},
		{"bigint", codec.BigInt, int64(1) << 40, int64(1) << 40},
		{"float", codec.Float, float32(0.5), float64(0.5)},
		{"varint", codec.Varint, big.NewInt(-12), "-12"},
		{"decimal", codec.Decimal, dec, "-1.50"},
		{"uuid", codec.TimeUUID, id, id.String()},
		{"time", codec.Time, time.Second, int64(time.Second)},
		{"duration", codec.DurationT, codec.Duration{Months: 1, Days: 2, Nanoseconds: 3}, "1mo2d3ns"},
		{"bool", codec.Boolean, true, true},
		{"blob", codec.Blob, []byte{1}, []byte{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := widen(&codec.Capture{Tag: tt.tag, Value: tt.in})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	c, err := codec.Default().Lookup(codec.Inet)
	require.NoError(t, err)
	data, err := c.Encode(addr)
	require.NoError(t, err)
	v, err := c.Decode(data)
	require.NoError(t, err)
	got, err := widen(&codec.Capture{Tag: codec.Inet, Value: v})
	require.NoError(t, err)
	assert.Equal(t, addr, got)
}

func TestWidenComposite(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"list", []int{3, 1}, "[3,1]"},
		{"map sorted", map[string]int{"b": 2, "a": 1}, `{"a":1,"b":2}`},
		{"decimal elements", []*inf.Dec{inf.NewDec(150, 2), nil}, "[1.50,null]"},
		{"duration values", map[string]gocql.Duration{"d": {Months: 0, Days: 1, Nanoseconds: 0}}, `{"d":"1d"}`},
		{"udt", map[string]any{"street": "Main", "no": 5}, `{"no":5,"street":"Main"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := widen(&codec.Capture{Value: tt.in})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
