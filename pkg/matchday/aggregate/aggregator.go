// Package aggregate orchestrates the daily pipeline: cached fixture and
// heavy-data loads, strict prediction filtering, top-league tagging,
// bucketing, and pick ranking.
package aggregate

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/betbro/matchday/pkg/apifootball"
	"github.com/betbro/matchday/pkg/matchday/cache"
	"github.com/betbro/matchday/pkg/matchday/enrich"
	"github.com/betbro/matchday/pkg/matchday/leagues"
	"github.com/betbro/matchday/pkg/matchday/metrics"
	"github.com/betbro/matchday/pkg/matchday/odds"
	"github.com/betbro/matchday/pkg/matchday/picks"
	"github.com/betbro/matchday/pkg/matchday/predict"
)

// FixtureFetcher pulls the day's fixture list.
type FixtureFetcher interface {
	FetchFixtures(ctx context.Context, date string) ([]apifootball.Fixture, error)
}

// Config tunes the aggregator.
type Config struct {
	// PicksIncludeLive also scores the live bucket. Default is pre-match
	// picks only.
	PicksIncludeLive bool

	// Location anchors the day-boundary ttl. Defaults to the local zone.
	Location *time.Location
}

// Aggregator assembles the categorized daily view. It is safe for
// concurrent use; in-flight requests share the process-wide caches.
type Aggregator struct {
	fixtureFetcher FixtureFetcher
	merger         *odds.Merger
	loader         *enrich.Loader
	classifier     *leagues.Classifier
	cfg            Config
	met            *metrics.Metrics

	fixtures *cache.Store[[]apifootball.Fixture]
	heavy    *cache.Store[heavyData]
	now      func() time.Time
}

// heavyData is the merged odds map and prediction map, computed together
// and cached atomically as one unit per day.
type heavyData struct {
	Odds        map[int]odds.Quote
	Predictions map[int]*apifootball.Prediction
}

// New creates an aggregator. The metrics handle may be nil.
func New(
	fixtureFetcher FixtureFetcher,
	merger *odds.Merger,
	loader *enrich.Loader,
	classifier *leagues.Classifier,
	met *metrics.Metrics,
	cfg Config,
) *Aggregator {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Aggregator{
		fixtureFetcher: fixtureFetcher,
		merger:         merger,
		loader:         loader,
		classifier:     classifier,
		cfg:            cfg,
		met:            met,
		fixtures:       cache.New[[]apifootball.Fixture](),
		heavy:          cache.New[heavyData](),
		now:            time.Now,
	}
}

// Item is one fixture joined with its supplementary data and derived
// fields. Constructed fresh per request, never persisted.
type Item struct {
	Fixture    apifootball.Fixture     `json:"fixture"`
	Prediction *apifootball.Prediction `json:"prediction"`
	Odds       *odds.Quote             `json:"odds"`
	Result     *Result                 `json:"result"`
	Evaluation predict.Evaluation      `json:"evaluation"`
	IsTop      bool                    `json:"isTop"`
	Pick       *picks.Pick             `json:"pick,omitempty"`
}

// Result is a known final score.
type Result struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Sections is a live/upcoming bucket pair.
type Sections struct {
	Live     []*Item `json:"live"`
	Upcoming []*Item `json:"upcoming"`
}

// TopSections mirrors all three buckets for top leagues.
type TopSections struct {
	Live     []*Item `json:"live"`
	Upcoming []*Item `json:"upcoming"`
	Past     []*Item `json:"past"`
}

// DailyView is the categorized, sorted output for one calendar day.
type DailyView struct {
	Date  string      `json:"date"`
	Today Sections    `json:"today"`
	Top   TopSections `json:"top"`
	Past  []*Item     `json:"past"`
	Picks []*Item     `json:"picks"`
}

// DailyView assembles the view for a date (YYYY-MM-DD). It is a pure
// function of the date and current cache state, idempotent and safe to
// call repeatedly. Only a fixture-list failure on a cold cache is fatal;
// everything downstream degrades to partial data.
func (a *Aggregator) DailyView(ctx context.Context, date string) (*DailyView, error) {
	a.classifier.EnsureTopIDs(ctx)

	fixtures, err := a.loadFixtures(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("fixtures for %s: %w", date, err)
	}

	heavy := a.loadHeavy(ctx, date, fixtures)

	items := a.assemble(fixtures, heavy)

	view := &DailyView{Date: date}
	a.bucket(view, items)
	sortView(view)

	if a.met != nil {
		a.met.ObserveView(len(view.Today.Live), len(view.Today.Upcoming), len(view.Past), len(view.Picks))
	}
	return view, nil
}

// loadFixtures serves the fixture list from cache, fetching and caching it
// until the next quarter-hour boundary on a miss.
func (a *Aggregator) loadFixtures(ctx context.Context, date string) ([]apifootball.Fixture, error) {
	key := "status:" + date
	if fixtures, ok := a.fixtures.Get(key); ok {
		a.count("fixtures", true)
		return fixtures, nil
	}
	a.count("fixtures", false)

	fixtures, err := a.fixtureFetcher.FetchFixtures(ctx, date)
	if err != nil {
		return nil, err
	}
	a.fixtures.Set(key, fixtures, cache.TTLToNextQuarterHour(a.now().In(a.cfg.Location)))
	return fixtures, nil
}

// loadHeavy serves the odds+predictions unit from cache. On a miss the
// odds merger and the enrichment loader run concurrently; their joined
// result is stored atomically until local midnight. Overlapping requests
// may both compute it; last writer wins.
func (a *Aggregator) loadHeavy(ctx context.Context, date string, fixtures []apifootball.Fixture) heavyData {
	key := "heavy:" + date
	if heavy, ok := a.heavy.Get(key); ok {
		a.count("heavy", true)
		return heavy
	}
	a.count("heavy", false)

	ids := make([]int, 0, len(fixtures))
	for _, f := range fixtures {
		if f.Fixture.ID != 0 {
			ids = append(ids, f.Fixture.ID)
		}
	}

	var (
		wg      sync.WaitGroup
		oddsMap map[int]odds.Quote
		predMap map[int]*apifootball.Prediction
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		oddsMap = a.merger.MergeDay(ctx, date)
	}()
	go func() {
		defer wg.Done()
		predMap = a.loader.Load(ctx, ids)
	}()
	wg.Wait()

	heavy := heavyData{Odds: oddsMap, Predictions: predMap}
	a.heavy.Set(key, heavy, cache.TTLToMidnight(a.now().In(a.cfg.Location)))
	return heavy
}

// assemble joins fixtures with their heavy data and applies the strict
// validity filter: fixtures without a valid prediction are dropped from
// every bucket.
func (a *Aggregator) assemble(fixtures []apifootball.Fixture, heavy heavyData) []*Item {
	items := make([]*Item, 0, len(fixtures))
	for i := range fixtures {
		f := fixtures[i]
		pred := heavy.Predictions[f.Fixture.ID]
		if !predict.Valid(pred) {
			continue
		}

		item := &Item{
			Fixture:    f,
			Prediction: pred,
			Evaluation: predict.Evaluate(&f, pred),
			IsTop:      a.classifier.IsTop(f.League.ID),
		}
		if q, ok := heavy.Odds[f.Fixture.ID]; ok {
			item.Odds = &q
		}
		if gh, ga := predict.FinalGoals(&f); gh != nil && ga != nil {
			item.Result = &Result{Home: *gh, Away: *ga}
		}
		items = append(items, item)
	}
	return items
}

// bucket distributes items by status (status code first, then kickoff
// timestamp), mirrors top-league items, and scores picks for the upcoming
// bucket (and live, when configured).
func (a *Aggregator) bucket(view *DailyView, items []*Item) {
	now := a.now().Unix()

	for _, item := range items {
		status := item.Fixture.Fixture.Status
		ts := item.Fixture.Fixture.Timestamp

		var bucket string
		switch {
		case status.Live():
			bucket = "live"
		case status.NotStarted() || ts >= now:
			bucket = "upcoming"
		default:
			bucket = "past"
		}

		switch bucket {
		case "live":
			view.Today.Live = append(view.Today.Live, item)
			if item.IsTop {
				view.Top.Live = append(view.Top.Live, item)
			}
		case "upcoming":
			view.Today.Upcoming = append(view.Today.Upcoming, item)
			if item.IsTop {
				view.Top.Upcoming = append(view.Top.Upcoming, item)
			}
		case "past":
			view.Past = append(view.Past, item)
			if item.IsTop {
				view.Top.Past = append(view.Top.Past, item)
			}
		}

		// Picks are never computed for past fixtures.
		if bucket == "upcoming" || (a.cfg.PicksIncludeLive && bucket == "live") {
			if pick := picks.Compute(&item.Fixture, item.Prediction); pick != nil {
				item.Pick = pick
				view.Picks = append(view.Picks, item)
			}
		}
	}
}

// sortView applies the deterministic sort orders: live and past descending
// by kickoff, upcoming ascending, picks by score then prediction
// confidence then kickoff.
func sortView(view *DailyView) {
	byKickoffAsc := func(items []*Item) {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Fixture.Fixture.Timestamp < items[j].Fixture.Fixture.Timestamp
		})
	}
	byKickoffDesc := func(items []*Item) {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Fixture.Fixture.Timestamp > items[j].Fixture.Fixture.Timestamp
		})
	}

	byKickoffDesc(view.Today.Live)
	byKickoffAsc(view.Today.Upcoming)
	byKickoffDesc(view.Past)
	byKickoffDesc(view.Top.Live)
	byKickoffAsc(view.Top.Upcoming)
	byKickoffDesc(view.Top.Past)

	sort.SliceStable(view.Picks, func(i, j int) bool {
		pi, pj := view.Picks[i].Pick, view.Picks[j].Pick
		if pi.Score != pj.Score {
			return pi.Score > pj.Score
		}
		if pi.PredictionScore != pj.PredictionScore {
			return pi.PredictionScore > pj.PredictionScore
		}
		return view.Picks[i].Fixture.Fixture.Timestamp < view.Picks[j].Fixture.Fixture.Timestamp
	})
}

func (a *Aggregator) count(cacheName string, hit bool) {
	if a.met != nil {
		a.met.CountCache(cacheName, hit)
	}
}
