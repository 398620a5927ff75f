package codec

import (
	"database/sql"
	"math"
	"math/big"
	"net"
	"net/netip"
	"testing"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/inf.v0"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

func lookup(t *testing.T, tag Tag) Codec {
	t.Helper()
	c, err := Default().Lookup(tag)
	require.NoError(t, err)

	return c
}

func roundTrip(t *testing.T, tag Tag, v any) any {
	t.Helper()
	c := lookup(t, tag)
	data, err := c.Encode(v)
	require.NoError(t, err)
	got, err := c.Decode(data)
	require.NoError(t, err)

	return got
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		tag Tag
		v   any
	}{
		{TinyInt, int8(math.MinInt8)},
		{TinyInt, int8(0)},
		{TinyInt, int8(math.MaxInt8)},
		{SmallInt, int16(math.MinInt16)},
		{SmallInt, int16(math.MaxInt16)},
		{Int, int32(math.MinInt32)},
		{Int, int32(-1)},
		{Int, int32(math.MaxInt32)},
		{BigInt, int64(math.MinInt64)},
		{BigInt, int64(math.MaxInt64)},
		{Counter, int64(42)},
		{Float, float32(3.25)},
		{Float, float32(math.MaxFloat32)},
		{Double, math.Pi},
		{Double, -math.SmallestNonzeroFloat64},
		{Blob, []byte{0, 1, 2, 0xff}},
		{Blob, []byte{}},
		{Boolean, true},
		{Boolean, false},
		{ASCII, "hello"},
		{Text, "héllo wörld ✓"},
		{Varchar, ""},
		{UUID, uuid.MustParse("123e4567-e89b-42d3-a456-426614174000")},
		{TimeUUID, uuid.Must(uuid.NewUUID())},
		{Inet, netip.MustParseAddr("192.168.1.10")},
		{Inet, netip.MustParseAddr("2001:db8::1")},
		{DurationT, Duration{Months: 14, Days: 3, Nanoseconds: 5_000_000_123}},
		{DurationT, Duration{Months: -1, Days: -2, Nanoseconds: -3}},
	}

	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			assert.Equal(t, tt.v, roundTrip(t, tt.tag, tt.v))
		})
	}
}

func TestVarint(t *testing.T) {
	tests := []struct {
		n    int64
		wire []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x00, 0x80}},
		{255, []byte{0x00, 0xff}},
		{-1, []byte{0xff}},
		{-128, []byte{0x80}},
		{-129, []byte{0xff, 0x7f}},
		{-256, []byte{0xff, 0x00}},
		{-32768, []byte{0x80, 0x00}},
	}

	c := lookup(t, Varint)
	for _, tt := range tests {
		data, err := c.Encode(tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.wire, data, "encode %d", tt.n)

		got, err := c.Decode(tt.wire)
		require.NoError(t, err)
		assert.Equal(t, 0, got.(*big.Int).Cmp(big.NewInt(tt.n)), "decode %d", tt.n)
	}

	huge, ok := new(big.Int).SetString("-123456789012345678901234567890", 10)
	require.True(t, ok)
	got := roundTrip(t, Varint, huge)
	assert.Equal(t, 0, huge.Cmp(got.(*big.Int)))

	got = roundTrip(t, Varint, "98765432109876543210")
	assert.Equal(t, "98765432109876543210", got.(*big.Int).String())
}

func TestDecimal(t *testing.T) {
	c := lookup(t, Decimal)

	data, err := c.Encode(inf.NewDec(-5, 1))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 1, 0xfb}, data)

	for _, in := range []any{
		inf.NewDec(12345, 2),
		"-0.000000000000000000000000001",
		"123456789012345678901234567890.5",
		int64(7),
		2.5,
	} {
		data, err := c.Encode(in)
		require.NoError(t, err)
		got, err := c.Decode(data)
		require.NoError(t, err)

		want, err := decimalOf(in)
		require.NoError(t, err)
		assert.Equal(t, 0, want.Cmp(got.(*inf.Dec)), "%v", in)
	}

	_, err = c.Encode(math.NaN())
	assert.ErrorIs(t, err, types.ErrOutOfRange)
	_, err = c.Encode("twelve")
	assert.ErrorIs(t, err, types.ErrUnsupportedValue)
	_, err = c.Decode([]byte{0, 0})
	assert.ErrorIs(t, err, types.ErrUnsupportedValue)
}

func TestIntegerConversions(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
		in   any
		want any
	}{
		{"int to tinyint", TinyInt, 100, int8(100)},
		{"uint8 to smallint", SmallInt, uint8(200), int16(200)},
		{"string to int", Int, " -42 ", int32(-42)},
		{"integral float to bigint", BigInt, 1e15, int64(1e15)},
		{"pointer to int", Int, new(int64), int32(0)},
		{"big to bigint", BigInt, big.NewInt(-9), int64(-9)},
		{"decimal to int", Int, inf.NewDec(1200, 2), int32(12)},
		{"int to float", Float, 16777216, float32(16777216)},
		{"float32 to double", Double, float32(0.5), 0.5},
		{"string to double", Double, "1e-3", 0.001},
		{"string rounds to float", Float, "0.1", float32(0.1)},
		{"int to boolean", Boolean, 1, true},
		{"string to boolean", Boolean, "false", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roundTrip(t, tt.tag, tt.in))
		})
	}
}

func TestOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
		in   any
	}{
		{"tinyint overflow", TinyInt, 128},
		{"tinyint underflow", TinyInt, -129},
		{"smallint overflow", SmallInt, 40000},
		{"int overflow", Int, int64(math.MaxInt32) + 1},
		{"bigint overflow", BigInt, uint64(math.MaxUint64)},
		{"fractional float", Int, 1.5},
		{"nan", BigInt, math.NaN()},
		{"fractional decimal", SmallInt, inf.NewDec(15, 1)},
		{"lossy float", Float, 0.1},
		{"lossy int to float", Float, 16777217},
		{"lossy int to double", Double, int64(1<<53 + 1)},
		{"float text overflow", Float, "1e40"},
		{"double text overflow", Double, "-1e400"},
		{"boolean two", Boolean, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lookup(t, tt.tag).Encode(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrOutOfRange)

			var codecErr *types.CodecError
			require.ErrorAs(t, err, &codecErr)
			assert.Equal(t, string(tt.tag), codecErr.Tag)
			assert.Equal(t, "encode", codecErr.Operation)
		})
	}
}

func TestUnsupportedValue(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
		in   any
	}{
		{"struct to int", Int, struct{}{}},
		{"word to int", Int, "seven"},
		{"bool to bigint", BigInt, true},
		{"int to text", Text, 42},
		{"non-ascii", ASCII, "café"},
		{"invalid utf-8", Text, "\xff\xfe"},
		{"short uuid", UUID, []byte{1, 2, 3}},
		{"v4 as timeuuid", TimeUUID, uuid.New()},
		{"bad inet", Inet, "300.1.1.1"},
		{"inet zone", Inet, "fe80::1%eth0"},
		{"int to inet", Inet, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lookup(t, tt.tag).Encode(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrUnsupportedValue)
		})
	}
}

func TestNulls(t *testing.T) {
	for _, tag := range Default().Tags() {
		c := lookup(t, tag)

		data, err := c.Encode(nil)
		require.NoError(t, err)
		assert.Nil(t, data, tag)

		v, err := c.Decode(nil)
		require.NoError(t, err)
		assert.Nil(t, v, tag)
	}

	data, err := lookup(t, Int).Encode((*int32)(nil))
	require.NoError(t, err)
	assert.Nil(t, data)

	// Empty values are NULL for fixed-width types but valid for text and blob.
	v, err := lookup(t, Int).Decode([]byte{})
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = lookup(t, Text).Decode([]byte{})
	require.NoError(t, err)
	assert.Equal(t, "", v)

	v, err = lookup(t, Blob).Decode([]byte{})
	require.NoError(t, err)
	assert.Equal(t, []byte{}, v)
}

func TestValuer(t *testing.T) {
	c := lookup(t, BigInt)

	data, err := c.Encode(sql.NullInt64{Int64: 5, Valid: true})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 5}, data)

	data, err = c.Encode(sql.NullInt64{})
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestDecodeLength(t *testing.T) {
	for tag, size := range map[Tag]int{TinyInt: 1, SmallInt: 2, Int: 4, BigInt: 8, Float: 4, Double: 8, Date: 4, Timestamp: 8, UUID: 16} {
		_, err := lookup(t, tag).Decode(make([]byte, size+1))
		assert.ErrorIs(t, err, types.ErrUnsupportedValue, tag)
	}

	_, err := lookup(t, Inet).Decode(make([]byte, 5))
	assert.ErrorIs(t, err, types.ErrUnsupportedValue)
}

func TestFixedWidthWire(t *testing.T) {
	data, err := lookup(t, SmallInt).Encode(-2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xfe}, data)

	data, err = lookup(t, Int).Encode(0x01020304)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, data)

	v, err := lookup(t, TinyInt).Decode([]byte{0x80})
	require.NoError(t, err)
	assert.Equal(t, int8(-128), v)
}

func TestBlobDoesNotAlias(t *testing.T) {
	c := lookup(t, Blob)
	in := []byte{1, 2, 3}

	data, err := c.Encode(in)
	require.NoError(t, err)
	in[0] = 9
	assert.Equal(t, byte(1), data[0])

	got, err := c.Decode(data)
	require.NoError(t, err)
	data[1] = 9
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestUUIDInputs(t *testing.T) {
	id := uuid.MustParse("123e4567-e89b-42d3-a456-426614174000")

	assert.Equal(t, id, roundTrip(t, UUID, id.String()))
	assert.Equal(t, id, roundTrip(t, UUID, gocql.UUID(id)))
	assert.Equal(t, id, roundTrip(t, UUID, id[:]))

	_, err := lookup(t, TimeUUID).Decode(id[:])
	assert.ErrorIs(t, err, types.ErrUnsupportedValue)
}

func TestInetInputs(t *testing.T) {
	v4 := netip.MustParseAddr("10.0.0.1")

	data, err := lookup(t, Inet).Encode(net.ParseIP("10.0.0.1"))
	require.NoError(t, err)
	assert.Len(t, data, 4)

	assert.Equal(t, v4, roundTrip(t, Inet, "10.0.0.1"))
	assert.Equal(t, v4, roundTrip(t, Inet, []byte{10, 0, 0, 1}))

	data, err = lookup(t, Inet).Encode("::1")
	require.NoError(t, err)
	assert.Len(t, data, 16)
}
