package codec

import (
	"net"
	"net/netip"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

func newUUID(tag Tag, version uuid.Version) *variant[uuid.UUID] {
	return &variant[uuid.UUID]{
		tag:         tag,
		emptyIsNull: true,
		convert: func(v any) (uuid.UUID, error) {
			id, err := uuidOf(tag, v)
			if err != nil {
				return uuid.Nil, err
			}
			if version != 0 && id.Version() != version {
				return uuid.Nil, invalid(tag, v, "not a version "+strconv.Itoa(int(version))+" uuid")
			}

			return id, nil
		},
		marshal: func(v uuid.UUID) ([]byte, error) {
			return append([]byte(nil), v[:]...), nil
		},
		unmarshal: func(data []byte) (uuid.UUID, error) {
			if len(data) != 16 {
				return uuid.Nil, badLength(tag, 16, len(data))
			}
			id, _ := uuid.FromBytes(data)
			if version != 0 && id.Version() != version {
				return uuid.Nil, corrupt(tag, "not a version "+strconv.Itoa(int(version))+" uuid")
			}

			return id, nil
		},
	}
}

func uuidOf(tag Tag, v any) (uuid.UUID, error) {
	switch x := deref(v).(type) {
	case uuid.UUID:
		return x, nil
	case string:
		id, err := uuid.Parse(strings.TrimSpace(x))
		if err != nil {
			return uuid.Nil, invalid(tag, v, "not a uuid")
		}

		return id, nil
	case []byte:
		id, err := uuid.FromBytes(x)
		if err != nil {
			return uuid.Nil, invalid(tag, v, "expected 16 bytes")
		}

		return id, nil
	}

	// [16]byte and named arrays such as gocql.UUID.
	rv := reflect.ValueOf(deref(v))
	if rv.Kind() == reflect.Array && rv.Len() == 16 && rv.Type().Elem().Kind() == reflect.Uint8 {
		var id uuid.UUID
		reflect.Copy(reflect.ValueOf(id[:]), rv)

		return id, nil
	}
	if rv.Kind() == reflect.String {
		return uuidOf(tag, rv.String())
	}

	return uuid.Nil, unsupported(tag, v)
}

// newInet encodes 4 bytes for IPv4 and 16 bytes for IPv6 addresses.
func newInet() *variant[netip.Addr] {
	return &variant[netip.Addr]{
		tag:         Inet,
		emptyIsNull: true,
		convert: func(v any) (netip.Addr, error) {
			var addr netip.Addr
			switch x := deref(v).(type) {
			case netip.Addr:
				addr = x
			case net.IP:
				a, ok := netip.AddrFromSlice(x)
				if !ok {
					return netip.Addr{}, invalid(Inet, v, "expected 4 or 16 bytes")
				}
				// net.IP stores IPv4 in 16 bytes; treat it as a plain IPv4 address.
				addr = a.Unmap()
			case []byte:
				a, ok := netip.AddrFromSlice(x)
				if !ok {
					return netip.Addr{}, invalid(Inet, v, "expected 4 or 16 bytes")
				}
				addr = a
			case string:
				a, err := netip.ParseAddr(strings.TrimSpace(x))
				if err != nil {
					return netip.Addr{}, invalid(Inet, v, "not an ip address")
				}
				addr = a
			default:
				return netip.Addr{}, unsupported(Inet, v)
			}
			if !addr.IsValid() {
				return netip.Addr{}, invalid(Inet, v, "zero address")
			}
			if addr.Zone() != "" {
				return netip.Addr{}, invalid(Inet, v, "zones cannot be encoded")
			}

			return addr, nil
		},
		marshal: func(v netip.Addr) ([]byte, error) {
			return v.AsSlice(), nil
		},
		unmarshal: func(data []byte) (netip.Addr, error) {
			if len(data) != 4 && len(data) != 16 {
				return netip.Addr{}, corrupt(Inet, "expected 4 or 16 bytes")
			}
			addr, _ := netip.AddrFromSlice(data)

			return addr, nil
		},
	}
}
