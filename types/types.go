// Package types provides shared types and errors for the Cassandra driver.
//
// This is a "leaf" package with no imports from other driver packages,
// allowing it to be imported by any package without causing import cycles.
package types

import (
	"strings"
)

// Consistency represents the Cassandra consistency level.
type Consistency uint16

// Consistency levels matching gocql.
const (
	Any         Consistency = 0x00
	One         Consistency = 0x01
	Two         Consistency = 0x02
	Three       Consistency = 0x03
	Quorum      Consistency = 0x04
	All         Consistency = 0x05
	LocalQuorum Consistency = 0x06
	EachQuorum  Consistency = 0x07
	Serial      Consistency = 0x08
	LocalSerial Consistency = 0x09
	LocalOne    Consistency = 0x0A
)

// DefaultConsistency is used when a connection string does not name a level.
const DefaultConsistency = LocalOne

var consistencyNames = map[Consistency]string{
	Any:         "ANY",
	One:         "ONE",
	Two:         "TWO",
	Three:       "THREE",
	Quorum:      "QUORUM",
	All:         "ALL",
	LocalQuorum: "LOCAL_QUORUM",
	EachQuorum:  "EACH_QUORUM",
	Serial:      "SERIAL",
	LocalSerial: "LOCAL_SERIAL",
	LocalOne:    "LOCAL_ONE",
}

// String returns the canonical CQL name of the consistency level.
func (c Consistency) String() string {
	if name, ok := consistencyNames[c]; ok {
		return name
	}

	return "UNKNOWN"
}

// ParseConsistency matches a consistency level name case-insensitively.
//
// Underscores are optional, so "local_quorum", "LOCAL_QUORUM" and "localquorum"
// all resolve to LocalQuorum.
//
// Parameters:
//   - name: Consistency level name
//
// Returns:
//   - Consistency: The matched level
//   - bool: false if the name is not a known level
func ParseConsistency(name string) (Consistency, bool) {
	want := normalizeConsistencyName(name)
	if want == "" {
		return 0, false
	}
	for c, n := range consistencyNames {
		if normalizeConsistencyName(n) == want {
			return c, true
		}
	}

	return 0, false
}

func normalizeConsistencyName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "_", "")
	name = strings.ReplaceAll(name, "-", "")

	return strings.ToUpper(name)
}

// Logger is the structured logger used throughout the driver.
//
// Messages are followed by alternating key/value pairs. The default
// implementation discards everything; see contrib/logging/gokit for a
// go-kit adapter.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}
