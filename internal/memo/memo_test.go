package memo

import (
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"
)

type recorder struct {
	messages []string
	keys     []string
}

func (r *recorder) sink(msg string, fields ...zap.Field) {
	r.messages = append(r.messages, msg)
	for _, f := range fields {
		if f.Key == "key" {
			r.keys = append(r.keys, f.String)
		}
	}
}

func double(calls *int) Func[int, int] {
	return func(x int) (int, error) {
		*calls++
		return x * 2, nil
	}
}

func TestCalculateMemoizes(t *testing.T) {
	calls := 0
	c, err := New(double(&calls), Options[int, int]{MaxCacheSize: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	steps := []struct {
		arg, want, wantCalls int
	}{
		{5, 10, 1},
		{5, 10, 1},
		{10, 20, 2},
		{10, 20, 2},
	}
	for _, s := range steps {
		got, err := c.Calculate(s.arg)
		if err != nil {
			t.Fatalf("Calculate(%d): %v", s.arg, err)
		}
		if got != s.want {
			t.Errorf("Calculate(%d) = %d, want %d", s.arg, got, s.want)
		}
		if calls != s.wantCalls {
			t.Errorf("after Calculate(%d) calls = %d, want %d", s.arg, calls, s.wantCalls)
		}
	}
}

func TestCalculateEvictsLeastRecentlyAccessed(t *testing.T) {
	calls := 0
	c, _ := New(double(&calls), Options[int, int]{MaxCacheSize: 2})

	for _, x := range []int{1, 2, 3} {
		if _, err := c.Calculate(x); err != nil {
			t.Fatalf("Calculate(%d): %v", x, err)
		}
	}

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if c.Contains(1) {
		t.Error("expected 1 to be evicted")
	}
	if !c.Contains(2) || !c.Contains(3) {
		t.Error("expected 2 and 3 to remain")
	}

	_, _ = c.Calculate(1)
	if calls != 4 {
		t.Errorf("calls = %d, want 4 after recalculating evicted key", calls)
	}
}

func TestHitRefreshesRecency(t *testing.T) {
	calls := 0
	c, _ := New(double(&calls), Options[int, int]{MaxCacheSize: 2})

	_, _ = c.Calculate(1)
	_, _ = c.Calculate(2)
	_, _ = c.Calculate(1) // 2 is now the oldest
	_, _ = c.Calculate(3)

	if !c.Contains(1) || c.Contains(2) || !c.Contains(3) {
		t.Errorf("Keys() = %v, want [1] and [3] cached", c.Keys())
	}
	if got, want := c.Keys(), []string{"[1]", "[3]"}; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestSizeNeverExceedsCapacity(t *testing.T) {
	calls := 0
	c, _ := New(double(&calls), Options[int, int]{MaxCacheSize: 7})

	for i := 0; i < 100; i++ {
		_, _ = c.Calculate(i % 23)
		if c.Len() > 7 {
			t.Fatalf("Len() = %d after %d calls, want <= 7", c.Len(), i+1)
		}
	}
}

func TestDefaultCapacity(t *testing.T) {
	calls := 0
	c, _ := New(double(&calls), Options[int, int]{})
	for i := 0; i < DefaultMaxCacheSize+25; i++ {
		_, _ = c.Calculate(i)
	}
	if c.Len() != DefaultMaxCacheSize {
		t.Errorf("Len() = %d, want %d", c.Len(), DefaultMaxCacheSize)
	}
	if got := c.Stats().Evictions; got != 25 {
		t.Errorf("Evictions = %d, want 25", got)
	}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	calls := 0
	if _, err := New(double(&calls), Options[int, int]{MaxCacheSize: -1}); !errors.Is(err, ErrInvalidCacheSize) {
		t.Errorf("New with negative size error = %v, want ErrInvalidCacheSize", err)
	}
	if _, err := New[int, int](nil, Options[int, int]{}); !errors.Is(err, ErrNilCalculation) {
		t.Errorf("New with nil fn error = %v, want ErrNilCalculation", err)
	}
}

func TestClear(t *testing.T) {
	calls := 0
	rec := &recorder{}
	c, _ := New(double(&calls), Options[int, int]{Debug: true, Sink: rec.sink})

	_, _ = c.Calculate(1)
	_, _ = c.Calculate(2)
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	if c.Stats().Evictions != 0 {
		t.Errorf("Clear counted %d evictions, want 0", c.Stats().Evictions)
	}
	for _, m := range rec.messages {
		if m == "Cache evict" {
			t.Error("Clear emitted an eviction diagnostic")
		}
	}

	_, _ = c.Calculate(1)
	if calls != 3 {
		t.Errorf("calls = %d, want 3 after Clear", calls)
	}
}

func TestCalculationErrorIsNotCached(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	c, _ := New(func(x int) (int, error) {
		calls++
		if x < 0 {
			return 0, boom
		}
		return x, nil
	}, Options[int, int]{})

	for i := 0; i < 2; i++ {
		_, err := c.Calculate(-1)
		if err != boom {
			t.Fatalf("Calculate(-1) error = %v, want the calculation's error unchanged", err)
		}
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (failures are retried by the next call)", calls)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestCustomKeyGenerator(t *testing.T) {
	type item struct {
		ID    int
		Label string
	}
	calls := 0
	c, _ := New(func(it *item) (int, error) {
		calls++
		return it.ID * 2, nil
	}, Options[*item, int]{
		KeyGenerator: func(it *item) string { return string(rune('0' + it.ID)) },
	})

	_, _ = c.Calculate(&item{ID: 1, Label: "a"})
	_, _ = c.Calculate(&item{ID: 1, Label: "b"})
	if calls != 1 {
		t.Errorf("calls = %d, want 1 for distinct pointers with the same id", calls)
	}
}

type hashed struct {
	id   string
	junk []int
}

func (h hashed) Hash() string { return h.id }

func TestHasherArgument(t *testing.T) {
	calls := 0
	c, _ := New(func(h hashed) (string, error) {
		calls++
		return h.id, nil
	}, Options[hashed, string]{})

	_, _ = c.Calculate(hashed{id: "x", junk: []int{1}})
	_, _ = c.Calculate(hashed{id: "x", junk: []int{2}})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if got := c.Keys(); len(got) != 1 || got[0] != "x" {
		t.Errorf("Keys() = %v, want [x]", got)
	}
}

func TestUnserializableArgument(t *testing.T) {
	calls := 0
	c, _ := New(func(ch chan int) (int, error) {
		calls++
		return 0, nil
	}, Options[chan int, int]{})

	_, err := c.Calculate(make(chan int))
	if !errors.Is(err, ErrKeyGeneration) {
		t.Errorf("error = %v, want ErrKeyGeneration", err)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestIsEqualKeepsPreviousValue(t *testing.T) {
	type result struct{ v float64 }
	calls := 0
	c, _ := New(func(x float64) (*result, error) {
		calls++
		return &result{v: x * 2}, nil
	}, Options[float64, *result]{
		IsEqual: func(a, b *result) bool { return math.Abs(a.v-b.v) < 0.1 },
	})

	first, _ := c.Calculate(1.01)
	second, _ := c.Calculate(1.02)
	if second != first {
		t.Error("expected equal result to return the previous value")
	}
	third, _ := c.Calculate(1.2)
	if third == first {
		t.Error("expected a new value when results differ")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}

	again, _ := c.Calculate(1.02)
	if again != first {
		t.Error("cached entry for 1.02 should hold the stable value")
	}
}

func TestDebugDiagnostics(t *testing.T) {
	calls := 0
	rec := &recorder{}
	c, _ := New(double(&calls), Options[int, int]{MaxCacheSize: 1, Sink: rec.sink})

	_, _ = c.Calculate(5)
	if len(rec.messages) != 0 {
		t.Fatalf("sink called with debug off: %v", rec.messages)
	}

	c.SetDebug(true)
	if !c.Debug() {
		t.Fatal("Debug() = false after SetDebug(true)")
	}
	if c.Len() != 1 {
		t.Fatalf("SetDebug reset the cache")
	}

	_, _ = c.Calculate(5)
	_, _ = c.Calculate(6)

	wantMsgs := []string{"Cache hit", "Cache miss", "Cache evict"}
	wantKeys := []string{"[5]", "[6]", "[5]"}
	if len(rec.messages) != len(wantMsgs) {
		t.Fatalf("messages = %v, want %v", rec.messages, wantMsgs)
	}
	for i := range wantMsgs {
		if rec.messages[i] != wantMsgs[i] || rec.keys[i] != wantKeys[i] {
			t.Errorf("diagnostic %d = %s %s, want %s %s", i, rec.messages[i], rec.keys[i], wantMsgs[i], wantKeys[i])
		}
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 2 || stats.Evictions != 1 {
		t.Errorf("Stats() = %+v, want 1 hit, 2 misses, 1 eviction", stats)
	}
}

func TestEntriesTrackLastAccessed(t *testing.T) {
	calls := 0
	c, _ := New(double(&calls), Options[int, int]{})

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	c.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	_, _ = c.Calculate(1) // t=1
	_, _ = c.Calculate(2) // t=2
	_, _ = c.Calculate(1) // t=3

	entries := c.Entries()
	if len(entries) != 2 {
		t.Fatalf("Entries() = %v, want 2 entries", entries)
	}
	if entries[0].Key != "[2]" || !entries[0].LastAccessed.Equal(base.Add(2*time.Second)) {
		t.Errorf("oldest entry = %+v, want [2] at t=2", entries[0])
	}
	if entries[1].Key != "[1]" || entries[1].Value != 2 || !entries[1].LastAccessed.Equal(base.Add(3*time.Second)) {
		t.Errorf("newest entry = %+v, want [1]=2 at t=3", entries[1])
	}
}

func TestDefaultKey(t *testing.T) {
	tests := []struct {
		arg  any
		want string
	}{
		{5, "[5]"},
		{"go", `["go"]`},
		{struct{ ID int }{1}, `[{"ID":1}]`},
		{map[string]int{"b": 2, "a": 1}, `[{"a":1,"b":2}]`},
		{nil, "[null]"},
	}

	for _, tt := range tests {
		got, err := DefaultKey(tt.arg)
		if err != nil {
			t.Fatalf("DefaultKey(%v): %v", tt.arg, err)
		}
		if got != tt.want {
			t.Errorf("DefaultKey(%v) = %q, want %q", tt.arg, got, tt.want)
		}
	}
}
