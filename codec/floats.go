package codec

import (
	"encoding/binary"
	"errors"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/inf.v0"
)

// newFloat rejects float64 and integer values float32 cannot hold exactly.
// Decimal text is a literal, not a float64, and rounds to the nearest float32
// as it would in CQL.
func newFloat() *variant[float32] {
	return &variant[float32]{
		tag:         Float,
		emptyIsNull: true,
		convert: func(v any) (float32, error) {
			if f, ok := v.(float32); ok {
				return f, nil
			}
			rv := reflect.ValueOf(deref(v))
			switch rv.Kind() {
			case reflect.Float32, reflect.Float64:
				f := rv.Float()
				f32 := float32(f)
				if float64(f32) != f && !math.IsNaN(f) {
					return 0, outOfRange(Float, v)
				}

				return f32, nil
			case reflect.String:
				f, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 32)
				if errors.Is(err, strconv.ErrRange) {
					return 0, outOfRange(Float, v)
				}
				if err != nil {
					return 0, invalid(Float, v, "not a number")
				}

				return float32(f), nil
			}
			n, err := integerOf(Float, v)
			if err != nil {
				return 0, err
			}
			f, acc := new(big.Float).SetInt(n).Float32()
			if acc != big.Exact {
				return 0, outOfRange(Float, v)
			}

			return f, nil
		},
		marshal: func(v float32) ([]byte, error) {
			return binary.BigEndian.AppendUint32(nil, math.Float32bits(v)), nil
		},
		unmarshal: func(data []byte) (float32, error) {
			if len(data) != 4 {
				return 0, badLength(Float, 4, len(data))
			}

			return math.Float32frombits(binary.BigEndian.Uint32(data)), nil
		},
	}
}

func newDouble() *variant[float64] {
	return &variant[float64]{
		tag:         Double,
		emptyIsNull: true,
		convert: func(v any) (float64, error) {
			if f, ok := v.(float64); ok {
				return f, nil
			}
			rv := reflect.ValueOf(deref(v))
			switch rv.Kind() {
			case reflect.Float32, reflect.Float64:
				return rv.Float(), nil
			case reflect.String:
				f, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
				if errors.Is(err, strconv.ErrRange) {
					return 0, outOfRange(Double, v)
				}
				if err != nil {
					return 0, invalid(Double, v, "not a number")
				}

				return f, nil
			}
			n, err := integerOf(Double, v)
			if err != nil {
				return 0, err
			}
			f, acc := new(big.Float).SetInt(n).Float64()
			if acc != big.Exact {
				return 0, outOfRange(Double, v)
			}

			return f, nil
		},
		marshal: func(v float64) ([]byte, error) {
			return binary.BigEndian.AppendUint64(nil, math.Float64bits(v)), nil
		},
		unmarshal: func(data []byte) (float64, error) {
			if len(data) != 8 {
				return 0, badLength(Double, 8, len(data))
			}

			return math.Float64frombits(binary.BigEndian.Uint64(data)), nil
		},
	}
}

// newDecimal encodes a 4-byte big-endian scale followed by the unscaled varint.
func newDecimal() *variant[*inf.Dec] {
	return &variant[*inf.Dec]{
		tag:         Decimal,
		emptyIsNull: true,
		convert:     decimalOf,
		marshal: func(v *inf.Dec) ([]byte, error) {
			buf := binary.BigEndian.AppendUint32(make([]byte, 0, 8), uint32(int32(v.Scale())))
			return append(buf, encodeVarint(v.UnscaledBig())...), nil
		},
		unmarshal: func(data []byte) (*inf.Dec, error) {
			if len(data) < 4 {
				return nil, corrupt(Decimal, "scale truncated")
			}
			scale := int32(binary.BigEndian.Uint32(data[:4]))

			return inf.NewDecBig(decodeVarint(data[4:]), inf.Scale(scale)), nil
		},
	}
}

func decimalOf(v any) (*inf.Dec, error) {
	switch x := v.(type) {
	case *inf.Dec:
		return new(inf.Dec).Set(x), nil
	case inf.Dec:
		return new(inf.Dec).Set(&x), nil
	}

	rv := reflect.ValueOf(deref(v))
	switch rv.Kind() {
	case reflect.String:
		d, ok := new(inf.Dec).SetString(strings.TrimSpace(rv.String()))
		if !ok {
			return nil, invalid(Decimal, v, "not a decimal")
		}

		return d, nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, outOfRange(Decimal, v)
		}
		bits := 64
		if rv.Kind() == reflect.Float32 {
			bits = 32
		}
		d, _ := new(inf.Dec).SetString(strconv.FormatFloat(f, 'f', -1, bits))

		return d, nil
	}

	n, err := integerOf(Decimal, v)
	if err != nil {
		return nil, err
	}

	return inf.NewDecBig(n, 0), nil
}
