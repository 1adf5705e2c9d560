// Package enrich loads per-fixture supplementary data over a fixed-size
// worker pool, tolerating failures and upstream rate limiting.
package enrich

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/betbro/matchday/pkg/apifootball"
)

// PredictionFetcher fetches the supplementary record for one fixture.
type PredictionFetcher interface {
	FetchPrediction(ctx context.Context, fixtureID int) (*apifootball.Prediction, error)
}

// Config tunes the loader. Zero fields take the defaults.
type Config struct {
	Workers       int           // pool size; never exceeded regardless of list length
	Attempts      int           // attempts per fixture before recording absence
	RetryWait     time.Duration // backoff after a transient failure
	RateLimitWait time.Duration // backoff after an upstream rate-limit signal
	ItemPause     time.Duration // pause after each item, for the global rate budget
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		Workers:       3,
		Attempts:      3,
		RetryWait:     600 * time.Millisecond,
		RateLimitWait: 2 * time.Second,
		ItemPause:     200 * time.Millisecond,
	}
}

// Loader runs a bounded worker pool over a fixture list.
type Loader struct {
	fetcher PredictionFetcher
	cfg     Config
}

// NewLoader creates a loader. Zero config fields fall back to DefaultConfig.
func NewLoader(fetcher PredictionFetcher, cfg Config) *Loader {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = def.Attempts
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = def.RetryWait
	}
	if cfg.RateLimitWait <= 0 {
		cfg.RateLimitWait = def.RateLimitWait
	}
	if cfg.ItemPause <= 0 {
		cfg.ItemPause = def.ItemPause
	}
	return &Loader{fetcher: fetcher, cfg: cfg}
}

// Load attempts every fixture id exactly once (with per-item retries) and
// returns the fixture-id → prediction map. Fixtures whose fetch failed all
// attempts, or that have no prediction upstream, are simply absent from the
// map; that is not an error for the caller.
func (l *Loader) Load(ctx context.Context, fixtureIDs []int) map[int]*apifootball.Prediction {
	out := make(map[int]*apifootball.Prediction, len(fixtureIDs))
	var mu sync.Mutex

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < l.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for fid := range jobs {
				if pred := l.loadOne(ctx, fid); pred != nil {
					mu.Lock()
					out[fid] = pred
					mu.Unlock()
				}
				if !sleep(ctx, l.cfg.ItemPause) {
					return
				}
			}
		}()
	}

	for _, fid := range fixtureIDs {
		select {
		case jobs <- fid:
		case <-ctx.Done():
			// Drain: remaining ids are recorded as absent.
			close(jobs)
			wg.Wait()
			return out
		}
	}
	close(jobs)
	wg.Wait()

	return out
}

// loadOne fetches one fixture's prediction with retries. The backoff is
// applied between attempts only; after the last failed attempt the record
// is absent.
func (l *Loader) loadOne(ctx context.Context, fixtureID int) *apifootball.Prediction {
	for attempt := 1; attempt <= l.cfg.Attempts; attempt++ {
		pred, err := l.fetcher.FetchPrediction(ctx, fixtureID)
		if err == nil {
			return pred
		}

		if attempt == l.cfg.Attempts {
			break
		}
		wait := l.cfg.RetryWait
		if errors.Is(err, apifootball.ErrRateLimited) {
			wait = l.cfg.RateLimitWait
		}
		if !sleep(ctx, wait) {
			break
		}
	}
	return nil
}

// sleep waits for d or until the context is done. It reports whether the
// full delay elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
