package codec

import (
	"sync"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Frozen())
	assert.Empty(t, r.Tags())

	_, err := r.Lookup(Int)
	require.ErrorIs(t, err, types.ErrUnsupportedType)

	require.NoError(t, r.Register(newVarint()))
	require.NoError(t, r.Register(newVarint()), "register replaces")
	assert.Equal(t, []Tag{Varint}, r.Tags())

	r.Freeze()
	r.Freeze()
	assert.True(t, r.Frozen())
	assert.ErrorIs(t, r.Register(newBlob()), types.ErrRegistryFrozen)

	c, err := r.Lookup(Varint)
	require.NoError(t, err)
	assert.Equal(t, Varint, c.Tag())

	clone := r.Clone()
	assert.False(t, clone.Frozen())
	require.NoError(t, clone.Register(newBlob()))
	assert.Len(t, clone.Tags(), 2)
	assert.Len(t, r.Tags(), 1)
}

func TestDefault(t *testing.T) {
	r := Default()
	assert.Same(t, r, Default())
	assert.True(t, r.Frozen())
	assert.Len(t, r.Tags(), len(Builtin()))

	for _, c := range Builtin() {
		got, err := r.Lookup(c.Tag())
		require.NoError(t, err)
		assert.Equal(t, c.HostType(), got.HostType(), c.Tag())
	}
}

func TestDefaultConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]*Registry, 16)
	for i := range results {
		wg.Go(func() {
			results[i] = Default()
		})
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestTagOf(t *testing.T) {
	tag, ok := TagOf(gocql.NewNativeType(4, gocql.TypeSmallInt, ""))
	require.True(t, ok)
	assert.Equal(t, SmallInt, tag)

	tag, ok = TagOf(gocql.NewNativeType(4, gocql.TypeCustom, durationClass))
	require.True(t, ok)
	assert.Equal(t, DurationT, tag)

	_, ok = TagOf(gocql.NewNativeType(4, gocql.TypeList, ""))
	assert.False(t, ok)
	_, ok = TagOf(nil)
	assert.False(t, ok)

	for _, c := range Builtin() {
		info, ok := TypeInfo(c.Tag(), 4)
		require.True(t, ok, c.Tag())
		back, ok := TagOf(info)
		require.True(t, ok)
		assert.Equal(t, c.Tag(), back)
	}
}

func TestBindCapture(t *testing.T) {
	reg := Default()
	info, ok := TypeInfo(Int, 4)
	require.True(t, ok)

	data, err := Bind(reg, 42).MarshalCQL(info)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 42}, data)

	capture := NewCapture(reg)
	require.NoError(t, capture.UnmarshalCQL(info, data))
	assert.Equal(t, Int, capture.Tag)
	assert.Equal(t, int32(42), capture.Value)

	require.NoError(t, capture.UnmarshalCQL(info, nil))
	assert.Nil(t, capture.Value)

	_, err = Bind(reg, 1<<40).MarshalCQL(info)
	assert.ErrorIs(t, err, types.ErrOutOfRange)
}

func TestBindCaptureComposite(t *testing.T) {
	reg := Default()
	list := gocql.CollectionType{
		NativeType: gocql.NewNativeType(4, gocql.TypeList, ""),
		Elem:       gocql.NewNativeType(4, gocql.TypeInt, ""),
	}

	data, err := Bind(reg, []int{1, 2, 3}).MarshalCQL(list)
	require.NoError(t, err)

	capture := NewCapture(reg)
	require.NoError(t, capture.UnmarshalCQL(list, data))
	assert.Empty(t, capture.Tag)
	assert.Equal(t, []int{1, 2, 3}, capture.Value)

	data, err = Bind(reg, nil).MarshalCQL(list)
	require.NoError(t, err)
	assert.Nil(t, data)
}
