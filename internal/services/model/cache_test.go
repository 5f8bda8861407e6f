package model

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestCacheKeyFormat(t *testing.T) {
	asOf := time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC)
	got := Key("AAPL", 90, asOf)
	if got != "AAPL_90_2024-03-15" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestCacheHitWithinTTL(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	c := NewCache(5*time.Minute, 0, clk.Now)

	m := &Model{}
	c.Put("k", m)

	clk.Advance(4 * time.Minute)
	got, ok := c.Get("k")
	if !ok {
		t.Fatalf("expected hit within ttl")
	}
	if got != m {
		t.Fatalf("expected the identical model instance back")
	}
}

func TestCacheExpiry(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	c := NewCache(5*time.Minute, 0, clk.Now)

	c.Put("k", &Model{})
	clk.Advance(5*time.Minute + time.Second)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected miss after ttl")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be evicted on read, len=%d", c.Len())
	}
}

func TestCachePutRefreshesEntry(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	c := NewCache(5*time.Minute, 0, clk.Now)

	c.Put("k", &Model{})
	clk.Advance(4 * time.Minute)
	fresh := &Model{}
	c.Put("k", fresh)
	clk.Advance(4 * time.Minute)

	got, ok := c.Get("k")
	if !ok || got != fresh {
		t.Fatalf("re-put should reset the entry's clock")
	}
}

func TestCacheCapacityEvictsOldest(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	c := NewCache(time.Hour, 2, clk.Now)

	c.Put("a", &Model{})
	clk.Advance(time.Minute)
	c.Put("b", &Model{})
	clk.Advance(time.Minute)
	c.Put("c", &Model{})

	if _, ok := c.Get("a"); ok {
		t.Fatalf("oldest entry should have been evicted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Fatalf("newer entry evicted unexpectedly")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatalf("latest entry missing")
	}
	if c.Len() != 2 {
		t.Fatalf("expected len 2, got %d", c.Len())
	}
}
