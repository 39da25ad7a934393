package debounce

import (
	"context"
	"errors"
	"testing"
	"time"
)

const testDelay = 40 * time.Millisecond

func TestInitialValueIsVisibleImmediately(t *testing.T) {
	d := New("admin", testDelay)
	defer d.Stop()

	if got := d.Value(); got != "admin" {
		t.Fatalf("expected initial value, got %q", got)
	}
	if d.Pending() {
		t.Fatalf("expected nothing pending at mount")
	}
}

func TestSetPropagatesAfterDelay(t *testing.T) {
	d := New("", testDelay)
	defer d.Stop()

	d.Set("a")
	if got := d.Value(); got != "" {
		t.Fatalf("expected no propagation before delay, got %q", got)
	}

	v, err := d.Wait(context.Background())
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if v != "a" {
		t.Fatalf("expected propagated value a, got %q", v)
	}
}

func TestNewerInputRestartsTimer(t *testing.T) {
	d := New("", testDelay)
	defer d.Stop()

	start := time.Now()
	d.Set("a")
	time.Sleep(testDelay / 4)
	d.Set("ad")
	time.Sleep(testDelay / 4)
	d.Set("adm")

	if got := d.Value(); got != "" {
		t.Fatalf("expected superseded inputs not to propagate, got %q", got)
	}
	v, err := d.Wait(context.Background())
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if v != "adm" {
		t.Fatalf("expected latest input, got %q", v)
	}
	if elapsed := time.Since(start); elapsed < testDelay+testDelay/2 {
		t.Fatalf("expected restarts to extend the wait, elapsed %s", elapsed)
	}
}

func TestSetSameInputIsNoop(t *testing.T) {
	d := New("eng", testDelay)
	defer d.Stop()

	d.Set("eng")
	if d.Pending() {
		t.Fatalf("expected identical input not to schedule propagation")
	}
}

func TestResetCancelsPending(t *testing.T) {
	d := New("x", testDelay)
	defer d.Stop()

	d.Set("xyz")
	d.Reset("")
	if d.Pending() {
		t.Fatalf("expected reset to clear pending propagation")
	}
	if got := d.Value(); got != "" {
		t.Fatalf("expected reset value, got %q", got)
	}

	time.Sleep(2 * testDelay)
	if got := d.Value(); got != "" {
		t.Fatalf("expected cancelled timer never to fire, got %q", got)
	}
}

func TestWaitHonoursContext(t *testing.T) {
	d := New(0, time.Hour)
	defer d.Stop()

	d.Set(1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := d.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestStopDropsPendingAndReleasesWaiters(t *testing.T) {
	d := New("", testDelay)
	d.Set("late")

	done := make(chan string, 1)
	go func() {
		v, _ := d.Wait(context.Background())
		done <- v
	}()

	d.Stop()
	select {
	case v := <-done:
		if v != "" {
			t.Fatalf("expected pending input dropped, got %q", v)
		}
	case <-time.After(time.Second):
		t.Fatalf("waiter not released by Stop")
	}

	d.Set("after")
	time.Sleep(2 * testDelay)
	if got := d.Value(); got != "" {
		t.Fatalf("expected no propagation after Stop, got %q", got)
	}
}
