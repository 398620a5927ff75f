package codec

import (
	"encoding/binary"
	"math"
	"math/bits"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gocql/gocql"
)

const (
	secondsPerDay = 24 * 60 * 60
	// dateEpoch is the unsigned day number of 1970-01-01.
	dateEpoch = 1 << 31
	// MaxTimeOfDay is the last nanosecond of a day.
	MaxTimeOfDay = 24*time.Hour - 1
)

func newDate() *variant[time.Time] {
	return &variant[time.Time]{
		tag:         Date,
		emptyIsNull: true,
		convert: func(v any) (time.Time, error) {
			switch x := deref(v).(type) {
			case time.Time:
				y, m, d := x.Date()
				if x.Hour() != 0 || x.Minute() != 0 || x.Second() != 0 || x.Nanosecond() != 0 {
					return time.Time{}, invalid(Date, v, "time of day would be lost")
				}

				return checkDays(v, time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
			case string:
				t, err := time.Parse(time.DateOnly, strings.TrimSpace(x))
				if err != nil {
					return time.Time{}, invalid(Date, v, "expected yyyy-mm-dd")
				}

				return checkDays(v, t)
			}
			n, err := integerOf(Date, v)
			if err != nil {
				return time.Time{}, err
			}
			if !n.IsInt64() || n.Int64() < math.MinInt32 || n.Int64() > math.MaxInt32 {
				return time.Time{}, outOfRange(Date, v)
			}

			return time.Unix(n.Int64()*secondsPerDay, 0).UTC(), nil
		},
		marshal: func(v time.Time) ([]byte, error) {
			days := v.Unix() / secondsPerDay
			return binary.BigEndian.AppendUint32(nil, uint32(days+dateEpoch)), nil
		},
		unmarshal: func(data []byte) (time.Time, error) {
			if len(data) != 4 {
				return time.Time{}, badLength(Date, 4, len(data))
			}
			days := int64(binary.BigEndian.Uint32(data)) - dateEpoch

			return time.Unix(days*secondsPerDay, 0).UTC(), nil
		},
	}
}

func checkDays(v any, t time.Time) (time.Time, error) {
	days := t.Unix() / secondsPerDay
	if days < math.MinInt32 || days > math.MaxInt32 {
		return time.Time{}, outOfRange(Date, v)
	}

	return t, nil
}

// newTime encodes nanoseconds since midnight as a signed 64-bit integer.
func newTime() *variant[time.Duration] {
	return &variant[time.Duration]{
		tag:         Time,
		emptyIsNull: true,
		convert: func(v any) (time.Duration, error) {
			var d time.Duration
			switch x := deref(v).(type) {
			case time.Time:
				h, m, s := x.Clock()
				d = time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
					time.Duration(s)*time.Second + time.Duration(x.Nanosecond())
			case string:
				t, err := time.Parse("15:04:05.999999999", strings.TrimSpace(x))
				if err != nil {
					return 0, invalid(Time, v, "expected hh:mm:ss[.fffffffff]")
				}
				d = t.Sub(time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC))
			default:
				n, err := integerOf(Time, v)
				if err != nil {
					return 0, err
				}
				if !n.IsInt64() {
					return 0, outOfRange(Time, v)
				}
				d = time.Duration(n.Int64())
			}
			if d < 0 || d > MaxTimeOfDay {
				return 0, outOfRange(Time, v)
			}

			return d, nil
		},
		marshal: func(v time.Duration) ([]byte, error) {
			return binary.BigEndian.AppendUint64(nil, uint64(v)), nil
		},
		unmarshal: func(data []byte) (time.Duration, error) {
			if len(data) != 8 {
				return 0, badLength(Time, 8, len(data))
			}
			d := time.Duration(int64(binary.BigEndian.Uint64(data)))
			if d < 0 || d > MaxTimeOfDay {
				return 0, corrupt(Time, "nanoseconds outside a day")
			}

			return d, nil
		},
	}
}

// newTimestamp encodes milliseconds since the Unix epoch. Values carrying
// sub-millisecond precision are rejected instead of truncated.
// Timestamps are int64 milliseconds since the epoch.
var (
	minTimestamp = time.UnixMilli(math.MinInt64)
	maxTimestamp = time.UnixMilli(math.MaxInt64)
)

func newTimestamp() *variant[time.Time] {
	return &variant[time.Time]{
		tag:         Timestamp,
		emptyIsNull: true,
		convert: func(v any) (time.Time, error) {
			var t time.Time
			switch x := deref(v).(type) {
			case time.Time:
				t = x
			case string:
				s := strings.TrimSpace(x)
				parsed, err := time.Parse(time.RFC3339Nano, s)
				if err != nil {
					parsed, err = time.Parse(time.DateOnly, s)
				}
				if err != nil {
					return time.Time{}, invalid(Timestamp, v, "expected RFC 3339")
				}
				t = parsed
			default:
				n, err := integerOf(Timestamp, v)
				if err != nil {
					return time.Time{}, err
				}
				if !n.IsInt64() {
					return time.Time{}, outOfRange(Timestamp, v)
				}

				return time.UnixMilli(n.Int64()).UTC(), nil
			}
			if t.Nanosecond()%int(time.Millisecond) != 0 {
				return time.Time{}, invalid(Timestamp, v, "sub-millisecond precision would be lost")
			}
			if t.After(maxTimestamp) || t.Before(minTimestamp) {
				return time.Time{}, outOfRange(Timestamp, v)
			}

			return t.UTC(), nil
		},
		marshal: func(v time.Time) ([]byte, error) {
			return binary.BigEndian.AppendUint64(nil, uint64(v.UnixMilli())), nil
		},
		unmarshal: func(data []byte) (time.Time, error) {
			if len(data) != 8 {
				return time.Time{}, badLength(Timestamp, 8, len(data))
			}

			return time.UnixMilli(int64(binary.BigEndian.Uint64(data))).UTC(), nil
		},
	}
}

// Duration is a CQL duration. Months and days are kept apart from nanoseconds
// because their length depends on the calendar.
//
// All non-zero components must share the same sign.
type Duration struct {
	Months      int32
	Days        int32
	Nanoseconds int64
}

func (d Duration) valid() bool {
	neg := d.Months < 0 || d.Days < 0 || d.Nanoseconds < 0
	pos := d.Months > 0 || d.Days > 0 || d.Nanoseconds > 0

	return !(neg && pos)
}

// IsZero reports whether every component is zero.
func (d Duration) IsZero() bool {
	return d == Duration{}
}

// String renders d in the CQL literal form, e.g. "1y2mo3d4h5m6s7ms8us9ns".
func (d Duration) String() string {
	if d.IsZero() {
		return "0s"
	}

	var sb strings.Builder
	if d.Months < 0 || d.Days < 0 || d.Nanoseconds < 0 {
		sb.WriteByte('-')
	}
	unit := func(v uint64, suffix string) {
		if v > 0 {
			sb.WriteString(strconv.FormatUint(v, 10))
			sb.WriteString(suffix)
		}
	}

	months := absU64(int64(d.Months))
	unit(months/12, "y")
	unit(months%12, "mo")
	unit(absU64(int64(d.Days)), "d")

	ns := absU64(d.Nanoseconds)
	for _, u := range nanoUnits {
		unit(ns/u.size, u.suffix)
		ns %= u.size
	}

	return sb.String()
}

type nanoUnit struct {
	suffix string
	size   uint64
}

var nanoUnits = []nanoUnit{
	{"h", uint64(time.Hour)},
	{"m", uint64(time.Minute)},
	{"s", uint64(time.Second)},
	{"ms", uint64(time.Millisecond)},
	{"us", uint64(time.Microsecond)},
	{"ns", 1},
}

func absU64(v int64) uint64 {
	if v < 0 {
		return uint64(-(v + 1)) + 1
	}

	return uint64(v)
}

// ParseDuration parses the CQL literal form: an optional '-' followed by one
// or more <integer><unit> groups with units y, mo, w, d, h, m, s, ms, us (or
// µs) and ns. Units are case-insensitive.
func ParseDuration(s string) (Duration, error) {
	orig := s
	s = strings.ToLower(strings.TrimSpace(s))
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return Duration{}, invalid(DurationT, orig, "empty duration")
	}

	var months, days int64
	var nanos uint64
	for s != "" {
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 {
			return Duration{}, invalid(DurationT, orig, "expected a number")
		}
		n, err := strconv.ParseUint(s[:i], 10, 63)
		if err != nil {
			return Duration{}, outOfRange(DurationT, orig)
		}
		s = s[i:]

		j := 0
		for j < len(s) && (s[j] < '0' || s[j] > '9') {
			j++
		}
		u := s[:j]
		s = s[j:]

		var hi uint64
		switch u {
		case "y":
			months, hi = addScaled(months, n, 12)
		case "mo":
			months, hi = addScaled(months, n, 1)
		case "w":
			days, hi = addScaled(days, n, 7)
		case "d":
			days, hi = addScaled(days, n, 1)
		case "h", "m", "s", "ms", "us", "µs", "ns":
			nanos, hi = addNanos(nanos, n, u)
		default:
			return Duration{}, invalid(DurationT, orig, "unknown unit "+strconv.Quote(u))
		}
		if hi != 0 || months > math.MaxInt32 || days > math.MaxInt32 || nanos > math.MaxInt64 {
			return Duration{}, outOfRange(DurationT, orig)
		}
	}

	d := Duration{Months: int32(months), Days: int32(days), Nanoseconds: int64(nanos)}
	if neg {
		d = Duration{Months: -d.Months, Days: -d.Days, Nanoseconds: -d.Nanoseconds}
	}

	return d, nil
}

func addScaled(acc int64, n, scale uint64) (int64, uint64) {
	hi, lo := bits.Mul64(n, scale)
	if hi != 0 || lo > math.MaxInt32 {
		return acc, 1
	}

	return acc + int64(lo), 0
}

func addNanos(acc, n uint64, unit string) (uint64, uint64) {
	size := uint64(1)
	if unit == "µs" {
		unit = "us"
	}
	for _, u := range nanoUnits {
		if u.suffix == unit {
			size = u.size
		}
	}
	hi, lo := bits.Mul64(n, size)
	sum, carry := bits.Add64(acc, lo, 0)

	return sum, hi | carry
}

func newDuration() *variant[Duration] {
	return &variant[Duration]{
		tag:         DurationT,
		emptyIsNull: true,
		convert: func(v any) (Duration, error) {
			var d Duration
			switch x := deref(v).(type) {
			case Duration:
				d = x
			case gocql.Duration:
				d = Duration{Months: x.Months, Days: x.Days, Nanoseconds: x.Nanoseconds}
			case time.Duration:
				d = Duration{Nanoseconds: int64(x)}
			case string:
				parsed, err := ParseDuration(x)
				if err != nil {
					return Duration{}, err
				}
				d = parsed
			default:
				if reflect.ValueOf(x).Kind() == reflect.String {
					return ParseDuration(reflect.ValueOf(x).String())
				}

				return Duration{}, unsupported(DurationT, v)
			}
			if !d.valid() {
				return Duration{}, invalid(DurationT, v, "components must share a sign")
			}

			return d, nil
		},
		marshal: func(v Duration) ([]byte, error) {
			buf := make([]byte, 0, 12)
			buf = appendVint(buf, zigzag(int64(v.Months)))
			buf = appendVint(buf, zigzag(int64(v.Days)))

			return appendVint(buf, zigzag(v.Nanoseconds)), nil
		},
		unmarshal: func(data []byte) (Duration, error) {
			months, rest, err := readVint(data)
			if err != nil {
				return Duration{}, err
			}
			days, rest, err := readVint(rest)
			if err != nil {
				return Duration{}, err
			}
			nanos, rest, err := readVint(rest)
			if err != nil {
				return Duration{}, err
			}
			if len(rest) != 0 {
				return Duration{}, corrupt(DurationT, "trailing bytes")
			}
			m, dd := unzigzag(months), unzigzag(days)
			if m < math.MinInt32 || m > math.MaxInt32 || dd < math.MinInt32 || dd > math.MaxInt32 {
				return Duration{}, corrupt(DurationT, "component overflow")
			}

			return Duration{Months: int32(m), Days: int32(dd), Nanoseconds: unzigzag(nanos)}, nil
		},
	}
}

func zigzag(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

func unzigzag(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}

// appendVint writes the unsigned variable-length integer used by the native
// protocol: the count of leading one bits in the first byte is the number of
// extra bytes that follow.
func appendVint(buf []byte, v uint64) []byte {
	lead0 := bits.LeadingZeros64(v)
	numBytes := (639 - lead0*9) >> 6
	if numBytes <= 1 {
		return append(buf, byte(v))
	}

	extra := numBytes - 1
	var tmp [9]byte
	for i := extra; i >= 0; i-- {
		tmp[i] = byte(v)
		v >>= 8
	}
	tmp[0] |= ^byte(0xff >> uint(extra))

	return append(buf, tmp[:numBytes]...)
}

func readVint(data []byte) (uint64, []byte, error) {
	if len(data) == 0 {
		return 0, nil, corrupt(DurationT, "truncated vint")
	}

	first := data[0]
	if first&0x80 == 0 {
		return uint64(first), data[1:], nil
	}

	extra := bits.LeadingZeros32(uint32(^first)) - 24
	if len(data) < extra+1 {
		return 0, nil, corrupt(DurationT, "truncated vint")
	}
	v := uint64(first & (0xff >> uint(extra)))
	for _, b := range data[1 : extra+1] {
		v = v<<8 | uint64(b)
	}

	return v, data[extra+1:], nil
}
