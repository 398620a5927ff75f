package cassandra

import (
	"database/sql/driver"
	"io"
	"math/big"
	"net/netip"
	"reflect"
	"strings"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"gopkg.in/inf.v0"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/adapter/cql"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/codec"
)

// Rows iterates a result set. Cells are decoded by the session's codecs and
// widened to database/sql value types.
type Rows struct {
	iter     cql.Iter
	columns  []cql.ColumnInfo
	captures []*codec.Capture
	dest     []any

	buffered bool
	done     bool
	err      error
}

// Compile-time assertions.
var (
	_ driver.Rows                           = (*Rows)(nil)
	_ driver.RowsColumnTypeDatabaseTypeName = (*Rows)(nil)
	_ driver.RowsColumnTypeScanType         = (*Rows)(nil)
)

func newRows(iter cql.Iter, registry *codec.Registry) *Rows {
	columns := iter.Columns()
	r := &Rows{
		iter:     iter,
		columns:  columns,
		captures: make([]*codec.Capture, len(columns)),
		dest:     make([]any, len(columns)),
	}
	for i := range columns {
		r.captures[i] = codec.NewCapture(registry)
		r.dest[i] = r.captures[i]
	}

	return r
}

// peek reads the first row ahead so that request and decode errors are
// reported by the query call rather than by the first Next.
func (r *Rows) peek() error {
	r.buffered = r.advance()
	if !r.buffered && r.err != nil {
		return r.err
	}

	return nil
}

func (r *Rows) advance() bool {
	if r.done {
		return false
	}
	if r.iter.Scan(r.dest...) {
		return true
	}
	r.done = true
	r.err = r.iter.Close()

	return false
}

// Columns implements driver.Rows.
func (r *Rows) Columns() []string {
	names := make([]string, len(r.columns))
	for i, c := range r.columns {
		names[i] = c.Name
	}

	return names
}

// Next implements driver.Rows.
func (r *Rows) Next(dest []driver.Value) error {
	if r.buffered {
		r.buffered = false
	} else if !r.advance() {
		if r.err != nil {
			return r.err
		}

		return io.EOF
	}

	for i, c := range r.captures {
		if i >= len(dest) {
			break
		}
		v, err := widen(c)
		if err != nil {
			return err
		}
		dest[i] = v
	}

	return nil
}

// Close implements driver.Rows.
func (r *Rows) Close() error {
	if r.done {
		return nil
	}
	r.done = true

	return r.iter.Close()
}

// ColumnTypeDatabaseTypeName returns the upper-case CQL type name.
func (r *Rows) ColumnTypeDatabaseTypeName(index int) string {
	info, ok := r.columns[index].TypeInfo.(gocql.TypeInfo)
	if !ok {
		return ""
	}
	if tag, ok := codec.TagOf(info); ok {
		return strings.ToUpper(tag.String())
	}

	return strings.ToUpper(info.Type().String())
}

// ColumnTypeScanType returns the Go type Next stores for the column.
func (r *Rows) ColumnTypeScanType(index int) reflect.Type {
	info, ok := r.columns[index].TypeInfo.(gocql.TypeInfo)
	if !ok {
		return reflect.TypeFor[any]()
	}
	tag, ok := codec.TagOf(info)
	if !ok {
		return reflect.TypeFor[string]()
	}

	return scanTypes[tag]
}

var scanTypes = map[codec.Tag]reflect.Type{
	codec.TinyInt:   reflect.TypeFor[int64](),
	codec.SmallInt:  reflect.TypeFor[int64](),
	codec.Int:       reflect.TypeFor[int64](),
	codec.BigInt:    reflect.TypeFor[int64](),
	codec.Counter:   reflect.TypeFor[int64](),
	codec.Varint:    reflect.TypeFor[string](),
	codec.Decimal:   reflect.TypeFor[string](),
	codec.Float:     reflect.TypeFor[float64](),
	codec.Double:    reflect.TypeFor[float64](),
	codec.Blob:      reflect.TypeFor[[]byte](),
	codec.Date:      reflect.TypeFor[time.Time](),
	codec.Time:      reflect.TypeFor[int64](),
	codec.Timestamp: reflect.TypeFor[time.Time](),
	codec.UUID:      reflect.TypeFor[string](),
	codec.TimeUUID:  reflect.TypeFor[string](),
	codec.Inet:      reflect.TypeFor[string](),
	codec.DurationT: reflect.TypeFor[string](),
	codec.Boolean:   reflect.TypeFor[bool](),
	codec.ASCII:     reflect.TypeFor[string](),
	codec.Text:      reflect.TypeFor[string](),
	codec.Varchar:   reflect.TypeFor[string](),
}

// widen converts a decoded host value into a database/sql value.
//
// Fixed-width integers become int64 and float becomes float64. Values
// database/sql cannot scan natively become their canonical text: varint and
// decimal digits, UUIDs, addresses and CQL durations. Time of day is
// nanoseconds since midnight. Composite values are rendered as JSON.
func widen(c *codec.Capture) (driver.Value, error) {
	switch v := c.Value.(type) {
	case nil:
		return nil, nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64, float64, bool, string, []byte:
		return v, nil
	case float32:
		return float64(v), nil
	case time.Time:
		return v, nil
	case time.Duration:
		return int64(v), nil
	case *big.Int:
		return v.String(), nil
	case *inf.Dec:
		return v.String(), nil
	case uuid.UUID:
		return v.String(), nil
	case netip.Addr:
		return v.String(), nil
	case codec.Duration:
		return v.String(), nil
	}

	if c.Tag != "" {
		return c.Value, nil
	}

	text, err := jsonAPI.MarshalToString(c.Value)
	if err != nil {
		return nil, err
	}

	return text, nil
}
