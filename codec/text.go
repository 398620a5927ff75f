package codec

import (
	"reflect"
	"strconv"
	"strings"
)

// newBlob never aliases caller or driver buffers: both directions copy.
func newBlob() *variant[[]byte] {
	return &variant[[]byte]{
		tag: Blob,
		convert: func(v any) ([]byte, error) {
			switch x := v.(type) {
			case []byte:
				return append([]byte{}, x...), nil
			case string:
				return append([]byte{}, x...), nil
			}
			rv := reflect.ValueOf(deref(v))
			switch {
			case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8:
				return append([]byte{}, rv.Bytes()...), nil
			case rv.Kind() == reflect.String:
				return append([]byte{}, rv.String()...), nil
			}

			return nil, unsupported(Blob, v)
		},
		marshal: func(v []byte) ([]byte, error) {
			return v, nil
		},
		unmarshal: func(data []byte) ([]byte, error) {
			return append([]byte{}, data...), nil
		},
	}
}

func newBoolean() *variant[bool] {
	return &variant[bool]{
		tag:         Boolean,
		emptyIsNull: true,
		convert: func(v any) (bool, error) {
			rv := reflect.ValueOf(deref(v))
			switch rv.Kind() {
			case reflect.Bool:
				return rv.Bool(), nil
			case reflect.String:
				b, err := strconv.ParseBool(strings.TrimSpace(rv.String()))
				if err != nil {
					return false, invalid(Boolean, v, "not a boolean")
				}

				return b, nil
			}
			n, err := integerOf(Boolean, v)
			if err != nil {
				return false, err
			}
			if !n.IsInt64() || (n.Int64() != 0 && n.Int64() != 1) {
				return false, outOfRange(Boolean, v)
			}

			return n.Int64() == 1, nil
		},
		marshal: func(v bool) ([]byte, error) {
			if v {
				return []byte{1}, nil
			}

			return []byte{0}, nil
		},
		unmarshal: func(data []byte) (bool, error) {
			if len(data) != 1 {
				return false, badLength(Boolean, 1, len(data))
			}

			return data[0] != 0, nil
		},
	}
}

// newString builds ascii, text and varchar codecs; valid reports whether a
// byte sequence belongs to the type's character set.
func newString(tag Tag, valid func(string) bool, reason string) *variant[string] {
	return &variant[string]{
		tag: tag,
		convert: func(v any) (string, error) {
			var s string
			rv := reflect.ValueOf(deref(v))
			switch {
			case rv.Kind() == reflect.String:
				s = rv.String()
			case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8:
				s = string(rv.Bytes())
			default:
				return "", unsupported(tag, v)
			}
			if !valid(s) {
				return "", invalid(tag, strconv.Quote(s), reason)
			}

			return s, nil
		},
		marshal: func(v string) ([]byte, error) {
			return append([]byte{}, v...), nil
		},
		unmarshal: func(data []byte) (string, error) {
			s := string(data)
			if !valid(s) {
				return "", corrupt(tag, reason)
			}

			return s, nil
		},
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}

	return true
}
