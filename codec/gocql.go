package codec

import (
	"reflect"

	"github.com/gocql/gocql"
)

const durationClass = "org.apache.cassandra.db.marshal.DurationType"

var tagsByType = map[gocql.Type]Tag{
	gocql.TypeTinyInt:   TinyInt,
	gocql.TypeSmallInt:  SmallInt,
	gocql.TypeInt:       Int,
	gocql.TypeBigInt:    BigInt,
	gocql.TypeCounter:   Counter,
	gocql.TypeVarint:    Varint,
	gocql.TypeDecimal:   Decimal,
	gocql.TypeFloat:     Float,
	gocql.TypeDouble:    Double,
	gocql.TypeBlob:      Blob,
	gocql.TypeDate:      Date,
	gocql.TypeTime:      Time,
	gocql.TypeTimestamp: Timestamp,
	gocql.TypeUUID:      UUID,
	gocql.TypeTimeUUID:  TimeUUID,
	gocql.TypeInet:      Inet,
	gocql.TypeDuration:  DurationT,
	gocql.TypeBoolean:   Boolean,
	gocql.TypeAscii:     ASCII,
	gocql.TypeText:      Text,
	gocql.TypeVarchar:   Varchar,
}

var typesByTag = func() map[Tag]gocql.Type {
	m := make(map[Tag]gocql.Type, len(tagsByType))
	for typ, tag := range tagsByType {
		m[tag] = typ
	}

	return m
}()

// TagOf maps a gocql column type to a native type tag.
//
// Returns false for collections, tuples, user-defined types and custom types
// other than duration.
func TagOf(info gocql.TypeInfo) (Tag, bool) {
	if info == nil {
		return "", false
	}
	if info.Type() == gocql.TypeCustom {
		if info.Custom() == durationClass {
			return DurationT, true
		}

		return "", false
	}
	tag, ok := tagsByType[info.Type()]

	return tag, ok
}

// TypeInfo returns the gocql type descriptor for a native tag.
func TypeInfo(tag Tag, proto byte) (gocql.TypeInfo, bool) {
	typ, ok := typesByTag[tag]
	if !ok {
		return nil, false
	}

	return gocql.NewNativeType(proto, typ, ""), true
}

// Value binds a host value to a statement parameter. It implements
// gocql.Marshaler so that gocql hands the column type to the registry.
type Value struct {
	registry *Registry
	v        any
}

// Bind wraps v for use as a gocql query argument.
func Bind(r *Registry, v any) Value {
	return Value{registry: r, v: v}
}

// MarshalCQL encodes the wrapped value with the codec for info's native type.
// Non-native types are delegated to gocql.
func (b Value) MarshalCQL(info gocql.TypeInfo) ([]byte, error) {
	tag, ok := TagOf(info)
	if !ok {
		if isNull(b.v) {
			return nil, nil
		}

		return gocql.Marshal(info, b.v)
	}

	c, err := b.registry.Lookup(tag)
	if err != nil {
		return nil, err
	}

	return c.Encode(b.v)
}

// Capture receives one column from a result row. Scan into a *Capture and
// read Value afterwards; Value is nil for NULL.
type Capture struct {
	registry *Registry

	// Tag is the native type of the column, empty for non-native columns.
	Tag Tag

	// Value is the decoded host value.
	Value any
}

// NewCapture creates a Capture that decodes with r.
func NewCapture(r *Registry) *Capture {
	return &Capture{registry: r}
}

// UnmarshalCQL decodes data with the codec for info's native type.
// Non-native types are decoded by gocql into the type info's default Go type.
func (c *Capture) UnmarshalCQL(info gocql.TypeInfo, data []byte) error {
	c.Value = nil
	tag, ok := TagOf(info)
	c.Tag = tag
	if !ok {
		if data == nil {
			return nil
		}
		ptr := info.New()
		if err := gocql.Unmarshal(info, data, ptr); err != nil {
			return err
		}
		c.Value = reflect.ValueOf(ptr).Elem().Interface()

		return nil
	}

	codec, err := c.registry.Lookup(tag)
	if err != nil {
		return err
	}
	v, err := codec.Decode(data)
	if err != nil {
		return err
	}
	c.Value = v

	return nil
}
