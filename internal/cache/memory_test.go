package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestMemoryCacheExpiration(t *testing.T) {
	c := NewMemoryCache[string](10, 30*time.Millisecond)

	c.Set("k", "v")
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("expected hit immediately after Set, got %q ok=%v", v, ok)
	}

	time.Sleep(50 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after TTL")
	}
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	c := NewMemoryCache[int](3, time.Minute)

	for i := 0; i < 4; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}

	if _, ok := c.Get("k0"); ok {
		t.Fatal("oldest entry should have been evicted")
	}
	if c.Size() != 3 {
		t.Fatalf("Size = %d, want 3", c.Size())
	}
}

func TestMemoryCacheCleanExpired(t *testing.T) {
	c := NewMemoryCache[int](10, time.Minute)

	c.SetWithTTL("short", 1, 10*time.Millisecond)
	c.Set("long", 2)

	time.Sleep(30 * time.Millisecond)
	if removed := c.CleanExpired(); removed != 1 {
		t.Fatalf("CleanExpired removed %d, want 1", removed)
	}
	if _, ok := c.Get("long"); !ok {
		t.Fatal("live entry must survive cleanup")
	}
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewMemoryCache[int](10, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Clear()
	if c.Size() != 0 {
		t.Fatalf("Size after Clear = %d", c.Size())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("entry survived Clear")
	}
}
