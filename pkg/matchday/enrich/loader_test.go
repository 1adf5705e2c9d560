package enrich

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/betbro/matchday/pkg/apifootball"
)

// fakeFetcher fails configured fixture ids on every attempt and counts
// attempts per fixture.
type fakeFetcher struct {
	mu          sync.Mutex
	attempts    map[int]int
	failing     map[int]error
	absent      map[int]bool
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		attempts: make(map[int]int),
		failing:  make(map[int]error),
		absent:   make(map[int]bool),
	}
}

func (f *fakeFetcher) FetchPrediction(ctx context.Context, fixtureID int) (*apifootball.Prediction, error) {
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		max := f.maxInFlight.Load()
		if cur <= max || f.maxInFlight.CompareAndSwap(max, cur) {
			break
		}
	}
	time.Sleep(time.Millisecond)

	f.mu.Lock()
	f.attempts[fixtureID]++
	err := f.failing[fixtureID]
	absent := f.absent[fixtureID]
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if absent {
		return nil, nil
	}
	return &apifootball.Prediction{
		Predictions: apifootball.PredictionCore{
			Percent: apifootball.Percent{Home: "60%", Draw: "25%", Away: "15%"},
		},
	}, nil
}

func testConfig() Config {
	return Config{
		Workers:       3,
		Attempts:      3,
		RetryWait:     5 * time.Millisecond,
		RateLimitWait: 20 * time.Millisecond,
		ItemPause:     time.Millisecond,
	}
}

func TestLoadAllSucceed(t *testing.T) {
	fetcher := newFakeFetcher()
	loader := NewLoader(fetcher, testConfig())

	ids := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	got := loader.Load(context.Background(), ids)

	if len(got) != 10 {
		t.Fatalf("Expected 10 predictions, got %d", len(got))
	}
	for _, id := range ids {
		if fetcher.attempts[id] != 1 {
			t.Errorf("Fixture %d attempted %d times, want 1", id, fetcher.attempts[id])
		}
	}
}

func TestLoadOneItemExhaustsRetries(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.failing[4] = fmt.Errorf("boom")
	loader := NewLoader(fetcher, testConfig())

	ids := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	got := loader.Load(context.Background(), ids)

	if len(got) != 9 {
		t.Fatalf("Expected 9 predictions, got %d", len(got))
	}
	if _, ok := got[4]; ok {
		t.Error("Expected fixture 4 to be absent")
	}
	if fetcher.attempts[4] != 3 {
		t.Errorf("Fixture 4 attempted %d times, want 3", fetcher.attempts[4])
	}
}

func TestLoadBackoffBetweenAttemptsOnly(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.failing[1] = fmt.Errorf("boom")

	cfg := testConfig()
	cfg.Workers = 1
	cfg.RetryWait = 30 * time.Millisecond
	cfg.ItemPause = time.Millisecond
	loader := NewLoader(fetcher, cfg)

	start := time.Now()
	loader.Load(context.Background(), []int{1})
	elapsed := time.Since(start)

	// 3 attempts mean exactly 2 backoff waits.
	if elapsed < 60*time.Millisecond {
		t.Errorf("Elapsed %v, want at least 2 backoff waits (60ms)", elapsed)
	}
	if elapsed > 150*time.Millisecond {
		t.Errorf("Elapsed %v, suggests a third backoff after the final attempt", elapsed)
	}
}

func TestLoadRateLimitBackoff(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.failing[1] = fmt.Errorf("predictions: %w", apifootball.ErrRateLimited)

	cfg := testConfig()
	cfg.Workers = 1
	cfg.RetryWait = time.Millisecond
	cfg.RateLimitWait = 40 * time.Millisecond
	loader := NewLoader(fetcher, cfg)

	start := time.Now()
	loader.Load(context.Background(), []int{1})
	elapsed := time.Since(start)

	if elapsed < 80*time.Millisecond {
		t.Errorf("Elapsed %v, want the longer rate-limit backoff twice (80ms)", elapsed)
	}
}

func TestLoadUpstreamAbsenceIsNotRetried(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.absent[7] = true
	loader := NewLoader(fetcher, testConfig())

	got := loader.Load(context.Background(), []int{7})

	if _, ok := got[7]; ok {
		t.Error("Expected no entry for a fixture without a prediction")
	}
	if fetcher.attempts[7] != 1 {
		t.Errorf("Absence retried: %d attempts, want 1", fetcher.attempts[7])
	}
}

func TestLoadConcurrencyCap(t *testing.T) {
	fetcher := newFakeFetcher()
	loader := NewLoader(fetcher, testConfig())

	ids := make([]int, 30)
	for i := range ids {
		ids[i] = i + 1
	}
	loader.Load(context.Background(), ids)

	if max := fetcher.maxInFlight.Load(); max > 3 {
		t.Errorf("Observed %d concurrent fetches, pool size is 3", max)
	}
}
