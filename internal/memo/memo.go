// Package memo memoizes a deterministic calculation behind a bounded,
// least-recently-used cache.
package memo

import (
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"go.uber.org/zap"

	"github.com/keydojo/keydojo-cli/internal/infra/logger"
)

// DefaultMaxCacheSize is used when Options.MaxCacheSize is zero.
const DefaultMaxCacheSize = 100

var (
	ErrInvalidCacheSize = errors.New("cache size must be positive")
	ErrNilCalculation   = errors.New("calculation must not be nil")
)

// Func is the calculation being memoized. It must return equal results for
// arguments that produce equal keys.
type Func[A, V any] func(A) (V, error)

// Sink receives debug diagnostics.
type Sink func(message string, fields ...zap.Field)

// Options configures a Cache. The zero value is usable.
type Options[A, V any] struct {
	// MaxCacheSize bounds the number of keys retained. Zero means DefaultMaxCacheSize.
	MaxCacheSize int
	// KeyGenerator overrides the default key. Use it for arguments whose
	// identity should not come from their serialized form.
	KeyGenerator func(A) string
	// IsEqual, when set, makes a freshly computed value that equals the
	// previously returned one come back as that previous value.
	IsEqual func(cached, fresh V) bool
	// Debug enables hit, miss and eviction diagnostics.
	Debug bool
	// Sink receives diagnostics. Defaults to logger.Debug.
	Sink Sink
}

type entry[V any] struct {
	value        V
	lastAccessed time.Time
}

// Entry is a snapshot of one cached result.
type Entry[V any] struct {
	Key          string
	Value        V
	LastAccessed time.Time
}

// Stats counts cache activity since creation.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache wraps a Func with a bounded LRU cache keyed by its argument.
//
// A Cache is not safe for concurrent use. Confine it to one goroutine (for
// example the Bubble Tea update loop) or guard it externally.
type Cache[A, V any] struct {
	fn      Func[A, V]
	key     func(A) (string, error)
	isEqual func(cached, fresh V) bool
	debug   bool
	sink    Sink
	now     func() time.Time

	entries *simplelru.LRU[string, *entry[V]]
	purging bool
	stats   Stats

	last    V
	hasLast bool
}

// New wraps fn. It fails only on a nil fn or a negative MaxCacheSize.
func New[A, V any](fn Func[A, V], opts Options[A, V]) (*Cache[A, V], error) {
	if fn == nil {
		return nil, ErrNilCalculation
	}
	size := opts.MaxCacheSize
	if size == 0 {
		size = DefaultMaxCacheSize
	}
	if size < 0 {
		return nil, ErrInvalidCacheSize
	}

	c := &Cache[A, V]{
		fn:      fn,
		key:     keyFunc(opts.KeyGenerator),
		isEqual: opts.IsEqual,
		debug:   opts.Debug,
		sink:    opts.Sink,
		now:     time.Now,
	}
	if c.sink == nil {
		c.sink = logger.Debug
	}

	entries, err := simplelru.NewLRU[string, *entry[V]](size, c.onEvict)
	if err != nil {
		return nil, err
	}
	c.entries = entries
	return c, nil
}

// Calculate returns the cached result for arg, computing and storing it on a
// miss. Errors from the wrapped Func are returned as-is and nothing is cached.
func (c *Cache[A, V]) Calculate(arg A) (V, error) {
	var zero V

	key, err := c.key(arg)
	if err != nil {
		return zero, err
	}

	if e, ok := c.entries.Get(key); ok {
		e.lastAccessed = c.now()
		c.stats.Hits++
		c.last, c.hasLast = e.value, true
		c.emit("Cache hit", zap.String("key", key))
		return e.value, nil
	}

	c.stats.Misses++
	value, err := c.fn(arg)
	if err != nil {
		return zero, err
	}

	if c.isEqual != nil && c.hasLast && c.isEqual(c.last, value) {
		value = c.last
	}
	c.last, c.hasLast = value, true

	c.emit("Cache miss", zap.String("key", key))
	// Add drops the least recently used key once the cache is over capacity.
	c.entries.Add(key, &entry[V]{value: value, lastAccessed: c.now()})
	return value, nil
}

func (c *Cache[A, V]) onEvict(key string, e *entry[V]) {
	if c.purging {
		return
	}
	c.stats.Evictions++
	c.emit("Cache evict", zap.String("key", key), zap.Time("last_accessed", e.lastAccessed))
}

func (c *Cache[A, V]) emit(msg string, fields ...zap.Field) {
	if !c.debug {
		return
	}
	c.sink(msg, append(fields, zap.Int("size", c.entries.Len()))...)
}

// Clear removes every cached result.
func (c *Cache[A, V]) Clear() {
	c.purging = true
	c.entries.Purge()
	c.purging = false

	var zero V
	c.last, c.hasLast = zero, false
}

// Len returns the number of cached results.
func (c *Cache[A, V]) Len() int {
	return c.entries.Len()
}

// SetDebug toggles diagnostics without touching cached results.
func (c *Cache[A, V]) SetDebug(enabled bool) {
	c.debug = enabled
}

// Debug reports whether diagnostics are enabled.
func (c *Cache[A, V]) Debug() bool {
	return c.debug
}

// Contains reports whether arg has a cached result, without refreshing it.
func (c *Cache[A, V]) Contains(arg A) bool {
	key, err := c.key(arg)
	if err != nil {
		return false
	}
	return c.entries.Contains(key)
}

// Keys returns cached keys from least to most recently accessed.
func (c *Cache[A, V]) Keys() []string {
	return c.entries.Keys()
}

// Entries returns a snapshot of the cache from least to most recently accessed.
func (c *Cache[A, V]) Entries() []Entry[V] {
	keys := c.entries.Keys()
	out := make([]Entry[V], 0, len(keys))
	for _, k := range keys {
		if e, ok := c.entries.Peek(k); ok {
			out = append(out, Entry[V]{Key: k, Value: e.value, LastAccessed: e.lastAccessed})
		}
	}
	return out
}

// Stats returns hit, miss and eviction counts.
func (c *Cache[A, V]) Stats() Stats {
	return c.stats
}
