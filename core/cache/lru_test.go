package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func newTestLRU(t *testing.T, maxSize int, ttl time.Duration) (*LRU[string, int], *fakeClock) {
	t.Helper()
	clk := newFakeClock()
	c, err := New[string, int](Options{
		Name:       "test",
		MaxSize:    maxSize,
		DefaultTTL: ttl,
		Clock:      clk.now,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, clk
}

func TestNew_Validation(t *testing.T) {
	_, err := New[string, int](Options{MaxSize: 0, DefaultTTL: time.Minute})
	if !errors.Is(err, ErrBadMaxSize) {
		t.Errorf("expected ErrBadMaxSize, got %v", err)
	}

	_, err = New[string, int](Options{MaxSize: 10, DefaultTTL: 0})
	if !errors.Is(err, ErrBadTTL) {
		t.Errorf("expected ErrBadTTL, got %v", err)
	}

	_, err = New[string, int](Options{MaxSize: 10, DefaultTTL: time.Minute})
	if err != nil {
		t.Errorf("valid options rejected: %v", err)
	}
}

func TestLRU_SetGet(t *testing.T) {
	c, _ := newTestLRU(t, 10, time.Minute)

	c.Set("a", 1)

	val, ok := c.Get("a")
	if !ok || val != 1 {
		t.Errorf("expected a=1, got %v, %v", val, ok)
	}

	_, ok = c.Get("missing")
	if ok {
		t.Errorf("expected miss for absent key")
	}
}

func TestLRU_Update(t *testing.T) {
	c, _ := newTestLRU(t, 10, time.Minute)

	c.Set("a", 1)
	c.Set("a", 2)

	val, ok := c.Get("a")
	if !ok || val != 2 {
		t.Errorf("expected a=2, got %v, %v", val, ok)
	}
	if c.Len() != 1 {
		t.Errorf("expected len 1, got %d", c.Len())
	}
}

func TestLRU_Expiry(t *testing.T) {
	c, clk := newTestLRU(t, 10, time.Minute)

	c.Set("a", 1)
	clk.advance(time.Minute + time.Second)

	if _, ok := c.Get("a"); ok {
		t.Errorf("expected a to be expired")
	}
	if c.Contains("a") {
		t.Errorf("Contains reported a dead entry")
	}
}

func TestLRU_ExpiryIsAbsolute(t *testing.T) {
	c, clk := newTestLRU(t, 10, time.Minute)

	c.Set("k", 1, WithTTL(10*time.Second))

	clk.advance(5 * time.Second)
	if val, ok := c.Get("k"); !ok || val != 1 {
		t.Errorf("expected hit at t=5s, got %v, %v", val, ok)
	}

	// The read at t=5s must not extend the entry's life.
	clk.advance(10 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Errorf("expected k to be expired at t=15s")
	}
}

func TestLRU_SetResetsTTLWindow(t *testing.T) {
	c, clk := newTestLRU(t, 10, 10*time.Second)

	c.Set("k", 1)
	clk.advance(8 * time.Second)
	c.Set("k", 2)
	clk.advance(8 * time.Second)

	// 16s after the first write, but only 8s after the second.
	if val, ok := c.Get("k"); !ok || val != 2 {
		t.Errorf("expected k=2 to be live after rewrite, got %v, %v", val, ok)
	}
}

func TestLRU_SizeBound(t *testing.T) {
	c, _ := newTestLRU(t, 3, time.Minute)

	for i := range 20 {
		c.Set(fmt.Sprintf("k%d", i), i)
		if n := c.Len(); n > 3 {
			t.Fatalf("size bound violated after set %d: len=%d", i, n)
		}
	}
}

func TestLRU_EvictionOrder(t *testing.T) {
	c, _ := newTestLRU(t, 2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // promote a
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Errorf("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Errorf("expected a to survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Errorf("expected c to be present")
	}
}

func TestLRU_EvictionInsertionOrderTiebreak(t *testing.T) {
	c, _ := newTestLRU(t, 2, time.Minute)

	// Never read: eviction falls back to insertion order, oldest first.
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Errorf("expected a (oldest) to be evicted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Errorf("expected b to survive")
	}
}

func TestLRU_EvictionSparesJustInserted(t *testing.T) {
	c, _ := newTestLRU(t, 1, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)

	if _, ok := c.Get("b"); !ok {
		t.Errorf("expected the just-inserted entry to survive eviction")
	}
	if _, ok := c.Get("a"); ok {
		t.Errorf("expected a to be evicted")
	}
}

func TestLRU_ContainsDoesNotPromote(t *testing.T) {
	c, _ := newTestLRU(t, 2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Contains("a") // must not refresh recency
	c.Set("c", 3)

	if c.Contains("a") {
		t.Errorf("expected a to be evicted despite Contains probe")
	}
	if !c.Contains("b") {
		t.Errorf("expected b to survive")
	}
}

func TestLRU_RemoveIdempotent(t *testing.T) {
	c, _ := newTestLRU(t, 10, time.Minute)

	changes := 0
	c.Subscribe(func(ch Change[string]) {
		if ch.Kind == ChangeRemove {
			changes++
		}
	})

	c.Set("a", 1)
	c.Remove("a")
	c.Remove("a") // no-op, no second notification

	if _, ok := c.Get("a"); ok {
		t.Errorf("expected a to be removed")
	}
	if changes != 1 {
		t.Errorf("expected 1 remove notification, got %d", changes)
	}
}

func TestLRU_Keys(t *testing.T) {
	c, clk := newTestLRU(t, 10, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2, WithTTL(time.Second))
	clk.advance(2 * time.Second)

	keys := c.Keys()
	if !keys.EqValues("a") {
		t.Errorf("expected keys [a], got %v", keys)
	}
}

func TestLRU_RemoveExpired(t *testing.T) {
	c, clk := newTestLRU(t, 10, time.Minute)

	var expireEvents []Change[string]
	c.Subscribe(func(ch Change[string]) {
		if ch.Kind == ChangeExpire {
			expireEvents = append(expireEvents, ch)
		}
	})

	c.Set("a", 1, WithTTL(time.Second))
	c.Set("b", 2, WithTTL(time.Second))
	c.Set("c", 3)

	clk.advance(2 * time.Second)

	if n := c.RemoveExpired(); n != 2 {
		t.Errorf("expected 2 removed, got %d", n)
	}
	if !c.Keys().EqValues("c") {
		t.Errorf("expected only c to remain, got %v", c.Keys())
	}
	if len(expireEvents) != 1 || len(expireEvents[0].Keys) != 2 {
		t.Errorf("expected one aggregate expire notification for 2 keys, got %v", expireEvents)
	}

	// Nothing left to purge: no count, no notification.
	if n := c.RemoveExpired(); n != 0 {
		t.Errorf("expected 0 removed on second sweep, got %d", n)
	}
	if len(expireEvents) != 1 {
		t.Errorf("unexpected notification for empty sweep")
	}
}

func TestLRU_Clear(t *testing.T) {
	c, _ := newTestLRU(t, 10, time.Minute)

	clears := 0
	c.Subscribe(func(ch Change[string]) {
		if ch.Kind == ChangeClear {
			clears++
		}
	})

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	if !c.Keys().IsEmpty() {
		t.Errorf("expected no keys after clear, got %v", c.Keys())
	}
	if c.Len() != 0 {
		t.Errorf("expected len 0 after clear, got %d", c.Len())
	}

	c.Clear() // already empty, no notification
	if clears != 1 {
		t.Errorf("expected 1 clear notification, got %d", clears)
	}
}

func TestLRU_SetNotifies(t *testing.T) {
	c, _ := newTestLRU(t, 10, time.Minute)

	var seen []Change[string]
	sub := c.Subscribe(func(ch Change[string]) { seen = append(seen, ch) })

	c.Set("a", 1)
	c.Get("a") // reads never notify

	if len(seen) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(seen))
	}
	if seen[0].Kind != ChangeSet || len(seen[0].Keys) != 1 || seen[0].Keys[0] != "a" {
		t.Errorf("unexpected change payload: %+v", seen[0])
	}

	sub.Unsubscribe()
	c.Set("b", 2)
	if len(seen) != 1 {
		t.Errorf("notification delivered after unsubscribe")
	}
}

func TestLRU_SubscriberReadsConsistentSnapshot(t *testing.T) {
	c, _ := newTestLRU(t, 10, time.Minute)

	// Subscribers run after the lock is released; reading back must not
	// deadlock and must see the committed write.
	c.Subscribe(func(ch Change[string]) {
		for _, k := range ch.Keys {
			if ch.Kind != ChangeSet {
				continue
			}
			if _, ok := c.Get(k); !ok {
				t.Errorf("subscriber could not read committed key %q", k)
			}
		}
	})

	c.Set("a", 1)
}

func TestLRU_HealthEventsScenario(t *testing.T) {
	clk := newFakeClock()
	c, err := New[string, []string](Options{
		Name:       "health_events",
		MaxSize:    50,
		DefaultTTL: 1800 * time.Second,
		Clock:      clk.now,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.Set("pet-1", []string{"event_a", "event_b"})

	val, ok := c.Get("pet-1")
	if !ok || len(val) != 2 || val[0] != "event_a" || val[1] != "event_b" {
		t.Errorf("expected immediate readback, got %v, %v", val, ok)
	}

	clk.advance(1801 * time.Second)

	if _, ok := c.Get("pet-1"); ok {
		t.Errorf("expected pet-1 to be expired after 1801s")
	}
	if c.Keys().Contains("pet-1") {
		t.Errorf("expected pet-1 to be absent from Keys()")
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c, _ := newTestLRU(t, 100, time.Minute)

	const workers = 10
	const ops = 1000

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", id%3)
			for j := range ops {
				c.Set(key, j)
				c.Get(key)
				c.Contains(key)
			}
		}(i)
	}
	wg.Wait()

	if n := c.Len(); n > 100 {
		t.Errorf("size bound violated under concurrency: %d", n)
	}
}
