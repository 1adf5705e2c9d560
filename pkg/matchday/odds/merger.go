// Package odds reduces the provider's paged odds result set to one 1X2
// quote per fixture.
package odds

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/betbro/matchday/pkg/apifootball"
)

// DefaultPageDelay is the enforced spacing between page requests, to stay
// inside the upstream rate budget.
const DefaultPageDelay = 320 * time.Millisecond

// Quote is a decimal-odds triple for the 1X2 market. A Quote only exists
// when all three legs came from a single bookmaker's market.
type Quote struct {
	Home decimal.Decimal `json:"home"`
	Draw decimal.Decimal `json:"draw"`
	Away decimal.Decimal `json:"away"`
}

// PageFetcher fetches one page of the odds result set.
type PageFetcher interface {
	FetchOddsPage(ctx context.Context, date string, page int) (*apifootball.OddsPage, error)
}

// Merger walks the paged odds endpoint and keeps the first complete quote
// per fixture.
type Merger struct {
	fetcher   PageFetcher
	pageDelay time.Duration
}

// NewMerger creates a merger over the given fetcher. A non-positive delay
// falls back to DefaultPageDelay.
func NewMerger(fetcher PageFetcher, pageDelay time.Duration) *Merger {
	if pageDelay <= 0 {
		pageDelay = DefaultPageDelay
	}
	return &Merger{fetcher: fetcher, pageDelay: pageDelay}
}

// MergeDay fetches every page for the date and returns a fixture-id → quote
// map. A request failure mid-loop aborts the remaining pages and returns
// what was accumulated so far; a partial map is a valid outcome.
func (m *Merger) MergeDay(ctx context.Context, date string) map[int]Quote {
	quotes := make(map[int]Quote)

	page, total := 1, 1
	for page <= total {
		resp, err := m.fetcher.FetchOddsPage(ctx, date, page)
		if err != nil {
			log.Printf("[odds] aborting at page %d/%d for %s: %v", page, total, date, err)
			return quotes
		}
		if resp.Paging.Total > 0 {
			total = resp.Paging.Total
		}

		for _, item := range resp.Fixtures {
			fid := item.Fixture.ID
			if fid == 0 {
				continue
			}
			if _, seen := quotes[fid]; seen {
				continue
			}
			if q, ok := extractQuote(item.Bookmakers); ok {
				quotes[fid] = q
			}
		}

		page++
		if page <= total && !sleep(ctx, m.pageDelay) {
			return quotes
		}
	}

	return quotes
}

// extractQuote scans bookmakers in provider order and returns the first
// complete 1X2 triple. Bookmakers after the first hit are not consulted.
func extractQuote(bookmakers []apifootball.Bookmaker) (Quote, bool) {
	for _, bm := range bookmakers {
		for _, bet := range bm.Bets {
			name := strings.ToLower(bet.Name)
			if !strings.Contains(name, "1x2") && !strings.Contains(name, "match winner") {
				continue
			}

			var home, draw, away *decimal.Decimal
			for _, v := range bet.Values {
				label := strings.ToLower(v.Value)
				odd, err := decimal.NewFromString(v.Odd)
				if err != nil {
					continue
				}
				switch {
				case strings.Contains(label, "home") || label == "1":
					home = &odd
				case strings.Contains(label, "draw") || label == "x":
					draw = &odd
				case strings.Contains(label, "away") || label == "2":
					away = &odd
				}
			}
			if home != nil && draw != nil && away != nil {
				return Quote{Home: *home, Draw: *draw, Away: *away}, true
			}
		}
	}
	return Quote{}, false
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
