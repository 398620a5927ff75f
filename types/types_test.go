package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConsistency(t *testing.T) {
	tests := []struct {
		name string
		want Consistency
	}{
		{"QUORUM", Quorum},
		{"quorum", Quorum},
		{"One", One},
		{"LOCAL_QUORUM", LocalQuorum},
		{"localquorum", LocalQuorum},
		{"each_quorum", EachQuorum},
		{" local_one ", LocalOne},
		{"LOCAL_SERIAL", LocalSerial},
		{"any", Any},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseConsistency(tt.name)
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "QUORUMS", "four", "local"} {
		_, ok := ParseConsistency(bad)
		assert.False(t, ok, bad)
	}
}

func TestConsistencyString(t *testing.T) {
	assert.Equal(t, "QUORUM", Quorum.String())
	assert.Equal(t, "LOCAL_ONE", LocalOne.String())
	assert.Equal(t, "UNKNOWN", Consistency(0xFF).String())

	for c, name := range consistencyNames {
		parsed, ok := ParseConsistency(name)
		require.True(t, ok)
		require.Equal(t, c, parsed)
	}
}

func TestParseError(t *testing.T) {
	err := &ParseError{URI: "mysql://x", Reason: "missing prefix"}

	assert.Contains(t, err.Error(), "malformed connection string")
	assert.Contains(t, err.Error(), "missing prefix")
	assert.True(t, errors.Is(err, ErrMalformedConnectionString))
	assert.Equal(t, ClassConfiguration, Classify(err))
}

func TestOptionError(t *testing.T) {
	cause := errors.New("unknown level")
	err := &OptionError{Key: "consistency", Value: "MOST", Cause: cause}

	assert.Contains(t, err.Error(), `"consistency"`)
	assert.Contains(t, err.Error(), `"MOST"`)
	assert.Contains(t, err.Error(), "unknown level")
	assert.True(t, errors.Is(err, ErrInvalidOption))
	assert.True(t, errors.Is(err, cause))

	bare := &OptionError{Key: "timeout"}
	assert.True(t, errors.Is(bare, ErrInvalidOption))
}

func TestCodecError(t *testing.T) {
	err := &CodecError{Tag: "tinyint", Operation: "encode", Kind: ErrOutOfRange, Detail: "300"}

	assert.Equal(t, "cassandra: encode tinyint: value out of range: 300", err.Error())
	assert.True(t, errors.Is(err, ErrOutOfRange))
	assert.Equal(t, ClassValue, Classify(err))
}

func TestConnectError(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:9042: connection refused")
	err := &ConnectError{Kind: ErrConnectionFailed, Hosts: []string{"10.0.0.1:9042"}, Cause: cause}

	assert.Contains(t, err.Error(), "connection failed")
	assert.Contains(t, err.Error(), "10.0.0.1:9042")
	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, errors.Is(err, ErrConnectionFailed))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrKeyspaceNotFound))
	assert.Equal(t, ClassTransport, Classify(err))

	ksErr := &ConnectError{Kind: ErrKeyspaceNotFound, Keyspace: `"app_ks"`}
	assert.Contains(t, ksErr.Error(), `keyspace "app_ks" does not exist`)
	assert.True(t, errors.Is(ksErr, ErrKeyspaceNotFound))
	assert.False(t, errors.Is(ksErr, ErrConnectionFailed))
	assert.Equal(t, ClassConfiguration, Classify(ksErr))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorClass
	}{
		{nil, ClassUnknown},
		{errors.New("boom"), ClassUnknown},
		{ErrInvalidOption, ClassConfiguration},
		{ErrSecureTransport, ClassTransport},
		{ErrUnsupportedType, ClassValue},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err))
	}
	assert.Equal(t, "transport", ClassTransport.String())
	assert.Equal(t, "unknown", ClassUnknown.String())
}
