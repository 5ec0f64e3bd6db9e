package cache

import (
	"testing"
	"time"
)

func TestInvalidateDropsPrefixedKeys(t *testing.T) {
	c := New(true)
	c.Set("players:all", []byte(`[]`), time.Hour)
	c.Set("stats:competition", []byte(`[]`), time.Hour)
	c.Set("stats:matches", []byte(`[]`), time.Hour)
	c.Set("scheduler:next", []byte(`{}`), time.Hour)

	if dropped := c.Invalidate("stats:"); dropped != 2 {
		t.Errorf("dropped %d entries, want 2", dropped)
	}
	if _, _, ok := c.Get("stats:competition"); ok {
		t.Error("stats:competition survived invalidation")
	}
	if _, _, ok := c.Get("players:all"); !ok {
		t.Error("players:all should be untouched by the stats: prefix")
	}
	if _, _, ok := c.Get("scheduler:next"); !ok {
		t.Error("scheduler:next should be untouched by the stats: prefix")
	}
}

func TestDisabledCacheStoresNothing(t *testing.T) {
	c := New(false)

	etag := c.Set("players:all", []byte(`[]`), time.Hour)
	if etag == "" {
		t.Error("disabled cache should still compute an ETag")
	}
	if _, _, ok := c.Get("players:all"); ok {
		t.Error("disabled cache should never hit")
	}
	if dropped := c.Invalidate("players:"); dropped != 0 {
		t.Errorf("disabled cache invalidated %d entries, want 0", dropped)
	}
}

func TestExpiredEntryMisses(t *testing.T) {
	c := New(true)
	c.Set("stats:matches", []byte(`[]`), -time.Second)
	if _, _, ok := c.Get("stats:matches"); ok {
		t.Error("expired entry should miss")
	}
}
