package codec

import (
	"math"
	"math/big"
	"reflect"
	"strings"

	"gopkg.in/inf.v0"
)

func newFixedInt[T int8 | int16 | int32 | int64](tag Tag, width int, lo, hi int64) *variant[T] {
	return &variant[T]{
		tag:         tag,
		emptyIsNull: true,
		convert: func(v any) (T, error) {
			n, err := integerOf(tag, v)
			if err != nil {
				return 0, err
			}
			if !n.IsInt64() || n.Int64() < lo || n.Int64() > hi {
				return 0, outOfRange(tag, v)
			}

			return T(n.Int64()), nil
		},
		marshal: func(v T) ([]byte, error) {
			buf := make([]byte, width)
			u := uint64(int64(v))
			for i := width - 1; i >= 0; i-- {
				buf[i] = byte(u)
				u >>= 8
			}

			return buf, nil
		},
		unmarshal: func(data []byte) (T, error) {
			if len(data) != width {
				return 0, badLength(tag, width, len(data))
			}
			var u uint64
			for _, b := range data {
				u = u<<8 | uint64(b)
			}
			shift := uint(64 - 8*width)

			return T(int64(u<<shift) >> shift), nil
		},
	}
}

func newVarint() *variant[*big.Int] {
	return &variant[*big.Int]{
		tag:         Varint,
		emptyIsNull: true,
		convert: func(v any) (*big.Int, error) {
			return integerOf(Varint, v)
		},
		marshal: func(v *big.Int) ([]byte, error) {
			return encodeVarint(v), nil
		},
		unmarshal: func(data []byte) (*big.Int, error) {
			return decodeVarint(data), nil
		},
	}
}

// integerOf converts any exact integer representation into a fresh big.Int.
//
// Floats and decimals are accepted only when they hold an integral value.
func integerOf(tag Tag, v any) (*big.Int, error) {
	switch x := v.(type) {
	case *big.Int:
		return new(big.Int).Set(x), nil
	case big.Int:
		return new(big.Int).Set(&x), nil
	case *inf.Dec:
		return decIntegral(tag, x)
	case inf.Dec:
		return decIntegral(tag, &x)
	case string:
		return parseInteger(tag, x)
	}

	rv := reflect.ValueOf(deref(v))
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Int).SetUint64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return nil, outOfRange(tag, v)
		}
		n, _ := new(big.Float).SetFloat64(f).Int(nil)

		return n, nil
	case reflect.String:
		return parseInteger(tag, rv.String())
	default:
		return nil, unsupported(tag, v)
	}
}

func parseInteger(tag Tag, s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, invalid(tag, s, "not an integer")
	}

	return n, nil
}

func decIntegral(tag Tag, d *inf.Dec) (*big.Int, error) {
	exact := new(inf.Dec).Round(d, 0, inf.RoundExact)
	if exact == nil {
		return nil, outOfRange(tag, d)
	}

	return new(big.Int).Set(exact.UnscaledBig()), nil
}

// encodeVarint returns the minimal big-endian two's complement encoding.
func encodeVarint(n *big.Int) []byte {
	switch n.Sign() {
	case 0:
		return []byte{0}
	case 1:
		b := n.Bytes()
		if b[0]&0x80 != 0 {
			b = append([]byte{0}, b...)
		}

		return b
	default:
		length := uint(n.BitLen()/8+1) * 8
		b := new(big.Int).Add(n, new(big.Int).Lsh(big.NewInt(1), length)).Bytes()
		// A magnitude that ends on a byte boundary leaves a redundant 0xff.
		if len(b) >= 2 && b[0] == 0xff && b[1]&0x80 != 0 {
			b = b[1:]
		}

		return b
	}
}

func decodeVarint(data []byte) *big.Int {
	n := new(big.Int).SetBytes(data)
	if len(data) > 0 && data[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(len(data))*8))
	}

	return n
}
