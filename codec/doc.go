// Package codec converts between CQL native type wire bytes and Go values.
//
// Every native type has one Codec, identified by a Tag. Codecs live in a
// Registry; Default returns a shared, frozen registry holding all builtin
// codecs.
//
// # Host types
//
// Decode always produces the canonical host type of the codec:
//
//	tinyint    int8           smallint   int16
//	int        int32          bigint     int64
//	counter    int64          varint     *big.Int
//	decimal    *inf.Dec       float      float32
//	double     float64        blob       []byte
//	date       time.Time      time       time.Duration
//	timestamp  time.Time      uuid       uuid.UUID
//	timeuuid   uuid.UUID      inet       netip.Addr
//	duration   Duration       boolean    bool
//	ascii      string         text       string
//	varchar    string
//
// Encode accepts the canonical type and anything that converts to it without
// loss: any integer kind, integral floats, numeric strings, driver.Valuer and
// pointers. Values outside the native domain fail with a *types.CodecError
// wrapping types.ErrOutOfRange; values of the wrong kind wrap
// types.ErrUnsupportedValue. Nothing is truncated.
//
// # gocql
//
// Bind and Capture plug a registry into gocql through its Marshaler and
// Unmarshaler interfaces:
//
//	err := session.Query(stmt, codec.Bind(reg, int64(7))).Scan(capture)
//
// Collections, tuples and user-defined types are passed through to gocql.
package codec
