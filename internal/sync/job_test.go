package sync

import (
	"context"
	"testing"
	"time"

	"github.com/bgabor/legiostat/internal/cache"
)

func TestFinishDropsStaleCachedResponses(t *testing.T) {
	c := cache.New(true)
	c.Set("players:all", []byte(`[]`), time.Hour)
	c.Set("stats:competition", []byte(`[]`), time.Hour)
	c.Set("other:key", []byte(`{}`), time.Hour)

	r := NewRunner(nil, nil, nil, nil, c, nil)
	report := &Report{Kind: JobStats, Started: time.Now(), Finished: time.Now(), Attempted: 1, Succeeded: 1}
	r.finish(context.Background(), report)

	if _, _, ok := c.Get("players:all"); ok {
		t.Error("players:all still cached after a successful sync")
	}
	if _, _, ok := c.Get("stats:competition"); ok {
		t.Error("stats:competition still cached after a successful sync")
	}
	if _, _, ok := c.Get("other:key"); !ok {
		t.Error("unrelated key dropped")
	}
}

func TestFinishKeepsCacheWhenNothingChanged(t *testing.T) {
	c := cache.New(true)
	c.Set("players:all", []byte(`[]`), time.Hour)

	r := NewRunner(nil, nil, nil, nil, c, nil)
	report := &Report{Kind: JobStats, Started: time.Now(), Finished: time.Now(), Attempted: 1,
		Failures: []Failure{{PlayerID: 3, PlayerName: "Szoboszlai Dominik", Reason: "status 500"}}}
	r.finish(context.Background(), report)

	if _, _, ok := c.Get("players:all"); !ok {
		t.Error("cache dropped although no player was written")
	}
}

func TestFinishToleratesMissingCache(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil, nil, nil)
	report := &Report{Kind: JobStats, Started: time.Now(), Finished: time.Now(), Attempted: 1, Succeeded: 1}
	r.finish(context.Background(), report)
}
