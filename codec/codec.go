package codec

import (
	"database/sql/driver"
	"fmt"
	"reflect"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

// Tag identifies a native CQL type.
type Tag string

// String returns the CQL name of the type.
func (t Tag) String() string {
	return string(t)
}

// Native type tags. Each tag has exactly one codec in a registry.
const (
	TinyInt   Tag = "tinyint"
	SmallInt  Tag = "smallint"
	Int       Tag = "int"
	BigInt    Tag = "bigint"
	Counter   Tag = "counter"
	Varint    Tag = "varint"
	Decimal   Tag = "decimal"
	Float     Tag = "float"
	Double    Tag = "double"
	Blob      Tag = "blob"
	Date      Tag = "date"
	Time      Tag = "time"
	Timestamp Tag = "timestamp"
	UUID      Tag = "uuid"
	TimeUUID  Tag = "timeuuid"
	Inet      Tag = "inet"
	DurationT Tag = "duration"
	Boolean   Tag = "boolean"
	ASCII     Tag = "ascii"
	Text      Tag = "text"
	Varchar   Tag = "varchar"
)

// Codec converts between a native type's wire bytes and its host value.
//
// Implementations must satisfy Decode(Encode(v)) == v for every v in the
// native type's domain, and must fail Encode rather than truncate when v is
// outside it. A nil host value encodes to nil (CQL NULL) and nil bytes decode
// to a nil host value.
type Codec interface {
	// Tag returns the native type handled by this codec.
	Tag() Tag

	// HostType returns the Go type produced by Decode.
	HostType() reflect.Type

	// Encode converts a host value into wire bytes.
	Encode(v any) ([]byte, error)

	// Decode converts wire bytes into a host value of HostType.
	Decode(data []byte) (any, error)
}

// variant is the single Codec implementation; one value per native type.
//
// convert normalizes any accepted host value into the canonical T and is the
// only place range checks happen. marshal and unmarshal deal with canonical
// values only.
type variant[T any] struct {
	tag       Tag
	convert   func(v any) (T, error)
	marshal   func(v T) ([]byte, error)
	unmarshal func(data []byte) (T, error)
	// emptyIsNull treats zero-length data as NULL; true for fixed-width types.
	emptyIsNull bool
}

func (c *variant[T]) Tag() Tag {
	return c.tag
}

func (c *variant[T]) HostType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (c *variant[T]) Encode(v any) ([]byte, error) {
	if isNull(v) {
		return nil, nil
	}
	if _, ok := v.(T); !ok {
		if valuer, ok := v.(driver.Valuer); ok {
			inner, err := valuer.Value()
			if err != nil {
				return nil, &types.CodecError{Tag: string(c.tag), Operation: "encode", Kind: types.ErrUnsupportedValue, Detail: err.Error()}
			}
			if isNull(inner) {
				return nil, nil
			}
			v = inner
		}
	}

	host, err := c.convert(v)
	if err != nil {
		return nil, err
	}

	return c.marshal(host)
}

func (c *variant[T]) Decode(data []byte) (any, error) {
	if data == nil || (c.emptyIsNull && len(data) == 0) {
		return nil, nil
	}

	host, err := c.unmarshal(data)
	if err != nil {
		return nil, err
	}

	return host, nil
}

// isNull reports whether v is nil or a nil pointer/slice/map.
func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface:
		return rv.IsNil()
	case reflect.Slice:
		// An empty but non-nil []byte is a valid blob.
		return rv.IsNil()
	default:
		return false
	}
}

// deref follows pointers so *int64 and **int64 convert like int64.
func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}

	return rv.Interface()
}

func outOfRange(tag Tag, v any) error {
	return &types.CodecError{Tag: string(tag), Operation: "encode", Kind: types.ErrOutOfRange, Detail: fmt.Sprintf("%v", v)}
}

func unsupported(tag Tag, v any) error {
	return &types.CodecError{Tag: string(tag), Operation: "encode", Kind: types.ErrUnsupportedValue, Detail: fmt.Sprintf("cannot convert %T", v)}
}

func invalid(tag Tag, v any, reason string) error {
	return &types.CodecError{Tag: string(tag), Operation: "encode", Kind: types.ErrUnsupportedValue, Detail: fmt.Sprintf("%v: %s", v, reason)}
}

func badLength(tag Tag, want, got int) error {
	return &types.CodecError{
		Tag:       string(tag),
		Operation: "decode",
		Kind:      types.ErrUnsupportedValue,
		Detail:    fmt.Sprintf("expected %d bytes, got %d", want, got),
	}
}

func corrupt(tag Tag, reason string) error {
	return &types.CodecError{Tag: string(tag), Operation: "decode", Kind: types.ErrUnsupportedValue, Detail: reason}
}
