// Package leagues classifies the provider's league catalog into a
// high-interest "top" set, refreshed once per day.
package leagues

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/betbro/matchday/pkg/apifootball"
	"github.com/betbro/matchday/pkg/matchday/cache"
)

const catalogCacheKey = "leagues:all"

// CatalogFetcher pulls the whole league/country catalog.
type CatalogFetcher interface {
	FetchLeagueCatalog(ctx context.Context) ([]apifootball.LeagueEntry, error)
}

// Classifier resolves top-league ids from the catalog. The catalog is
// cached until local midnight; the id set itself is recomputed only when
// empty, so its effective refresh point is tied to the catalog cache, not
// to its own age.
type Classifier struct {
	fetcher CatalogFetcher
	rules   []Rule
	catalog *cache.Store[[]apifootball.LeagueEntry]
	now     func() time.Time

	mu     sync.RWMutex
	topIDs map[int]struct{}
}

// NewClassifier creates a classifier over the fetcher. A nil rules slice
// uses DefaultRules.
func NewClassifier(fetcher CatalogFetcher, rules []Rule) *Classifier {
	if rules == nil {
		rules = DefaultRules
	}
	return &Classifier{
		fetcher: fetcher,
		rules:   rules,
		catalog: cache.New[[]apifootball.LeagueEntry](),
		now:     time.Now,
		topIDs:  make(map[int]struct{}),
	}
}

// EnsureTopIDs computes the top-league id set if it is currently empty.
// A catalog fetch failure degrades to an empty set and is not an error:
// every fixture simply reports "not top" until the next attempt.
func (c *Classifier) EnsureTopIDs(ctx context.Context) {
	c.mu.RLock()
	ready := len(c.topIDs) > 0
	c.mu.RUnlock()
	if ready {
		return
	}

	entries := c.loadCatalog(ctx)

	ids := make(map[int]struct{})
	for _, e := range entries {
		if e.League.ID == 0 {
			continue
		}
		if c.matches(e) {
			ids[e.League.ID] = struct{}{}
		}
	}

	// Last writer wins; overlapping requests recompute the same set.
	c.mu.Lock()
	c.topIDs = ids
	c.mu.Unlock()
}

// IsTop reports whether the league id is in the top set.
func (c *Classifier) IsTop(leagueID int) bool {
	if leagueID == 0 {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.topIDs[leagueID]
	return ok
}

// TopIDs returns a copy of the current top set.
func (c *Classifier) TopIDs() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]int, 0, len(c.topIDs))
	for id := range c.topIDs {
		ids = append(ids, id)
	}
	return ids
}

// loadCatalog returns the cached catalog, fetching and caching it until
// local midnight on a miss.
func (c *Classifier) loadCatalog(ctx context.Context) []apifootball.LeagueEntry {
	if entries, ok := c.catalog.Get(catalogCacheKey); ok {
		return entries
	}
	entries, err := c.fetcher.FetchLeagueCatalog(ctx)
	if err != nil {
		log.Printf("[leagues] catalog fetch failed: %v", err)
		return nil
	}
	c.catalog.Set(catalogCacheKey, entries, cache.TTLToMidnight(c.now()))
	return entries
}

func (c *Classifier) matches(e apifootball.LeagueEntry) bool {
	name := normalize(e.League.Name)
	country := normalize(e.Country.Name)
	for _, r := range c.rules {
		if r.Matches(name, country) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
