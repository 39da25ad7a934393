package cache

import (
	"testing"
	"time"
)

type fakeSession struct{ closed bool }

func (s *fakeSession) Close() { s.closed = true }

func TestSessionCacheFindTouchesAndSweepEvicts(t *testing.T) {
	c := NewSessionCache[*fakeSession](time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	active, idle := &fakeSession{}, &fakeSession{}
	c.Add("active", active)
	c.Add("idle", idle)

	now = now.Add(50 * time.Second)
	if _, ok := c.Find("active"); !ok {
		t.Fatalf("expected active session")
	}
	now = now.Add(30 * time.Second)

	if n := c.Sweep(); n != 1 {
		t.Fatalf("expected one eviction, got %d", n)
	}
	if !idle.closed || active.closed {
		t.Fatalf("expected only the idle session closed")
	}
	if _, ok := c.Find("idle"); ok {
		t.Fatalf("expected idle session gone")
	}
	if c.Len() != 1 {
		t.Fatalf("expected one session left, got %d", c.Len())
	}
}

func TestSessionCacheReplaceAndDeleteClose(t *testing.T) {
	c := NewSessionCache[*fakeSession](0)
	first, second := &fakeSession{}, &fakeSession{}

	c.Add("tok", first)
	c.Add("tok", second)
	if !first.closed {
		t.Fatalf("expected replaced session closed")
	}

	c.Delete("tok")
	if !second.closed {
		t.Fatalf("expected deleted session closed")
	}
	if c.Sweep() != 0 {
		t.Fatalf("expected sweep disabled without idle timeout")
	}
}
