package cache

import (
	"fmt"
	"net/url"
	"testing"
	"time"
)

func openTest(t *testing.T, ttl time.Duration, maxEntries int) *Cache {
	t.Helper()
	c, err := Open(":memory:", ttl, maxEntries)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_PutGet(t *testing.T) {
	c := openTest(t, time.Minute, 10)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}

	if err := c.Put("k", []byte("payload")); err != nil {
		t.Fatal(err)
	}
	got, ok := c.Get("k")
	if !ok || string(got) != "payload" {
		t.Errorf("expected hit with payload, got %q %v", got, ok)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	c := openTest(t, time.Minute, 10)

	base := time.Now()
	c.now = func() time.Time { return base }
	if err := c.Put("k", []byte("v")); err != nil {
		t.Fatal(err)
	}

	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}

	// The expired row is purged, not just skipped.
	n, err := c.Len()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected purge, got %d entries", n)
	}
}

func TestCache_CapacityEviction(t *testing.T) {
	c := openTest(t, time.Hour, 3)

	base := time.Now()
	for i := 0; i < 5; i++ {
		tick := base.Add(time.Duration(i) * time.Second)
		c.now = func() time.Time { return tick }
		if err := c.Put(fmt.Sprintf("k%d", i), []byte("v")); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Len()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("expected 3 entries after eviction, got %d", n)
	}

	c.now = func() time.Time { return base.Add(time.Minute) }
	if _, ok := c.Get("k0"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := c.Get("k4"); !ok {
		t.Error("newest entry should survive")
	}
}

func TestCache_Overwrite(t *testing.T) {
	c := openTest(t, time.Minute, 10)
	c.Put("k", []byte("one"))
	c.Put("k", []byte("two"))
	got, ok := c.Get("k")
	if !ok || string(got) != "two" {
		t.Errorf("expected overwrite, got %q %v", got, ok)
	}
}

func TestKey_Deterministic(t *testing.T) {
	a := url.Values{}
	a.Set("cursor", "abc")
	a.Set("limit", "50")

	b := url.Values{}
	b.Set("limit", "50")
	b.Set("cursor", "abc")

	if Key("/v2/calls", a) != Key("/v2/calls", b) {
		t.Error("parameter order must not change the key")
	}
	if Key("/v2/calls", nil) != "/v2/calls" {
		t.Error("no params means the bare endpoint")
	}
}
