package codec

import (
	"fmt"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

// Registry maps native type tags to codecs.
//
// A registry is mutable until Freeze is called; afterwards Register fails
// and lookups need no coordination with writers. Registries are safe for
// concurrent use.
type Registry struct {
	mu     sync.RWMutex
	codecs map[Tag]Codec
	frozen atomic.Bool
}

// NewRegistry creates an empty, unfrozen registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[Tag]Codec)}
}

// Register installs c for its tag, replacing any codec already present.
//
// Returns ErrRegistryFrozen once the registry has been frozen.
func (r *Registry) Register(c Codec) error {
	if c == nil {
		return fmt.Errorf("%w: nil codec", types.ErrUnsupportedValue)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen.Load() {
		return fmt.Errorf("%w: cannot register %s", types.ErrRegistryFrozen, c.Tag())
	}
	r.codecs[c.Tag()] = c

	return nil
}

// Lookup returns the codec for tag.
//
// Returns a CodecError wrapping ErrUnsupportedType when no codec is registered.
func (r *Registry) Lookup(tag Tag) (Codec, error) {
	r.mu.RLock()
	c, ok := r.codecs[tag]
	r.mu.RUnlock()

	if !ok {
		return nil, &types.CodecError{Tag: string(tag), Operation: "lookup", Kind: types.ErrUnsupportedType}
	}

	return c, nil
}

// Freeze makes the registry read-only. Calling Freeze twice is harmless.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen.Store(true)
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	return r.frozen.Load()
}

// Tags returns the registered tags in sorted order.
func (r *Registry) Tags() []Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]Tag, 0, len(r.codecs))
	for tag := range r.codecs {
		tags = append(tags, tag)
	}
	slices.Sort(tags)

	return tags
}

// Clone returns an unfrozen copy of r that can be extended independently.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clone := NewRegistry()
	for tag, c := range r.codecs {
		clone.codecs[tag] = c
	}

	return clone
}

// Builtin returns one codec per supported native type.
func Builtin() []Codec {
	return []Codec{
		newFixedInt[int8](TinyInt, 1, math.MinInt8, math.MaxInt8),
		newFixedInt[int16](SmallInt, 2, math.MinInt16, math.MaxInt16),
		newFixedInt[int32](Int, 4, math.MinInt32, math.MaxInt32),
		newFixedInt[int64](BigInt, 8, math.MinInt64, math.MaxInt64),
		newFixedInt[int64](Counter, 8, math.MinInt64, math.MaxInt64),
		newVarint(),
		newDecimal(),
		newFloat(),
		newDouble(),
		newBlob(),
		newDate(),
		newTime(),
		newTimestamp(),
		newUUID(UUID, 0),
		newUUID(TimeUUID, uuid.Version(1)),
		newInet(),
		newDuration(),
		newBoolean(),
		newString(ASCII, isASCII, "non-ascii byte"),
		newString(Text, utf8.ValidString, "invalid utf-8"),
		newString(Varchar, utf8.ValidString, "invalid utf-8"),
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry holding every builtin codec.
//
// It is populated on first use and frozen before it is returned, so it can
// be shared by all sessions without further locking on the write path.
func Default() *Registry {
	defaultOnce.Do(func() {
		r := NewRegistry()
		for _, c := range Builtin() {
			// Cannot fail: the registry is not frozen yet.
			_ = r.Register(c)
		}
		r.Freeze()
		defaultRegistry = r
	})

	return defaultRegistry
}
