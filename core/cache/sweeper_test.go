package cache

import (
	"context"
	"testing"
	"time"
)

func TestSweeper_PurgesExpired(t *testing.T) {
	c, clk := newTestLRU(t, 10, time.Minute)

	swept := make(chan Change[string], 1)
	c.Subscribe(func(ch Change[string]) {
		if ch.Kind == ChangeExpire {
			select {
			case swept <- ch:
			default:
			}
		}
	})

	c.Set("a", 1)
	clk.advance(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewSweeper(c, 10*time.Millisecond, nil)
	go s.Run(ctx)

	select {
	case ch := <-swept:
		if len(ch.Keys) != 1 || ch.Keys[0] != "a" {
			t.Errorf("unexpected sweep payload: %+v", ch)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("sweeper never purged the expired entry")
	}

	if c.Contains("a") {
		t.Errorf("expected a to be gone after sweep")
	}
}

func TestSweeper_StopsOnContextDone(t *testing.T) {
	c, _ := newTestLRU(t, 10, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s := NewSweeper(c, 10*time.Millisecond, nil)
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}
}
