package leagues

import (
	"context"
	"fmt"
	"testing"

	"github.com/betbro/matchday/pkg/apifootball"
)

type fakeCatalog struct {
	entries []catalogRow
	err     error
	calls   int
}

type catalogRow struct {
	id      int
	name    string
	country string
}

func (f *fakeCatalog) FetchLeagueCatalog(ctx context.Context) ([]apifootball.LeagueEntry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]apifootball.LeagueEntry, 0, len(f.entries))
	for _, e := range f.entries {
		var le apifootball.LeagueEntry
		le.League.ID = e.id
		le.League.Name = e.name
		le.Country.Name = e.country
		out = append(out, le)
	}
	return out, nil
}

func TestRuleMatching(t *testing.T) {
	tests := []struct {
		name    string
		league  string
		country string
		want    bool
	}{
		{"champions league under world", "UEFA Champions League", "World", true},
		{"premier league england", "Premier League", "England", true},
		{"premier league wrong country", "Premier League", "Russia", false},
		{"first bundesliga", "Bundesliga", "Germany", true},
		{"second bundesliga tier matches own rule", "2. Bundesliga", "Germany", true},
		{"third liga excluded", "3. Liga", "Germany", false},
		{"dfb pokal", "DFB-Pokal", "Germany", true},
		{"la liga with casing and spaces", "  LaLiga  ", "Spain", true},
		{"serie a italy", "Serie A", "Italy", true},
		{"serie a brazil not top", "Serie A", "Brazil", false},
		{"world cup", "World Cup", "World", true},
		{"copa america south america", "Copa America", "South America", true},
		{"unknown league", "Regionalliga West", "Germany", false},
	}

	c := NewClassifier(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e apifootball.LeagueEntry
			e.League.ID = 1
			e.League.Name = tt.league
			e.Country.Name = tt.country
			if got := c.matches(e); got != tt.want {
				t.Errorf("matches(%q, %q) = %v, want %v", tt.league, tt.country, got, tt.want)
			}
		})
	}
}

func TestEnsureTopIDs(t *testing.T) {
	catalog := &fakeCatalog{entries: []catalogRow{
		{39, "Premier League", "England"},
		{78, "Bundesliga", "Germany"},
		{79, "2. Bundesliga", "Germany"},
		{80, "3. Liga", "Germany"},
		{2, "UEFA Champions League", "World"},
		{271, "Superliga", "Denmark"},
	}}
	c := NewClassifier(catalog, nil)

	c.EnsureTopIDs(context.Background())

	wantTop := []int{39, 78, 79, 2}
	for _, id := range wantTop {
		if !c.IsTop(id) {
			t.Errorf("Expected league %d to be top", id)
		}
	}
	for _, id := range []int{80, 271, 0} {
		if c.IsTop(id) {
			t.Errorf("Expected league %d not to be top", id)
		}
	}
	if got := len(c.TopIDs()); got != len(wantTop) {
		t.Errorf("Top set size = %d, want %d", got, len(wantTop))
	}
}

func TestEnsureTopIDsRecomputesOnlyWhenEmpty(t *testing.T) {
	catalog := &fakeCatalog{entries: []catalogRow{{39, "Premier League", "England"}}}
	c := NewClassifier(catalog, nil)

	c.EnsureTopIDs(context.Background())
	c.EnsureTopIDs(context.Background())
	c.EnsureTopIDs(context.Background())

	if catalog.calls != 1 {
		t.Errorf("Catalog fetched %d times, want 1 (set is only recomputed when empty)", catalog.calls)
	}
}

func TestCatalogFailureDegradesToEmptySet(t *testing.T) {
	catalog := &fakeCatalog{err: fmt.Errorf("upstream down")}
	c := NewClassifier(catalog, nil)

	c.EnsureTopIDs(context.Background())

	if c.IsTop(39) {
		t.Error("Expected empty top set after catalog failure")
	}
	if len(c.TopIDs()) != 0 {
		t.Errorf("Expected empty set, got %v", c.TopIDs())
	}

	// The failure is not cached: the next call tries the catalog again.
	c.EnsureTopIDs(context.Background())
	if catalog.calls != 2 {
		t.Errorf("Catalog fetched %d times, want 2", catalog.calls)
	}
}
