// Package picks computes the weighted composite ranking score behind the
// recommendation list. A pick only exists for fixtures carrying a
// prediction record; it is independent of the top-league concept.
package picks

import (
	"math"

	"github.com/betbro/matchday/pkg/apifootball"
	"github.com/betbro/matchday/pkg/matchday/predict"
)

// Composite weights. Prediction confidence dominates; form and table
// differentials refine the ranking.
const (
	weightPrediction = 0.5
	weightForm       = 0.3
	weightTable      = 0.2
)

// Pick is a scored 1X2 recommendation. The three components are kept for
// display and audit alongside the composite.
type Pick struct {
	Market          string          `json:"market"`
	Selection       predict.Outcome `json:"selection"`
	PredictionScore int             `json:"predictionScore"`
	FormScore       int             `json:"formScore"`
	TableScore      int             `json:"tableScore"`
	Score           int             `json:"score"`
}

// Compute scores one fixture. It returns nil when the fixture carries no
// prediction record.
//
// predictionScore is the favored side's confidence (the maximum percentage
// leg), formScore the absolute recent-form differential, tableScore the
// absolute standings-rank differential; missing inputs contribute 0.
func Compute(f *apifootball.Fixture, p *apifootball.Prediction) *Pick {
	if p == nil {
		return nil
	}

	home := predict.Percent(p.Predictions.Percent.Home)
	draw := predict.Percent(p.Predictions.Percent.Draw)
	away := predict.Percent(p.Predictions.Percent.Away)

	selection, predictionScore := favored(home, draw, away)

	formHome := predict.Percent(p.Teams.Home.Last5.Form)
	formAway := predict.Percent(p.Teams.Away.Last5.Form)
	formScore := abs(formHome - formAway)

	tableScore := 0
	if rankHome, rankAway, ok := standingsRanks(f, p); ok {
		tableScore = abs(rankHome - rankAway)
	}

	total := int(math.Round(
		weightPrediction*float64(predictionScore) +
			weightForm*float64(formScore) +
			weightTable*float64(tableScore)))

	return &Pick{
		Market:          "1X2",
		Selection:       selection,
		PredictionScore: predictionScore,
		FormScore:       formScore,
		TableScore:      tableScore,
		Score:           total,
	}
}

// favored returns the side owning the highest percentage leg. Ties resolve
// in H, D, A order.
func favored(home, draw, away int) (predict.Outcome, int) {
	selection, best := predict.OutcomeHome, home
	if draw > best {
		selection, best = predict.OutcomeDraw, draw
	}
	if away > best {
		selection, best = predict.OutcomeAway, away
	}
	return selection, best
}

// standingsRanks resolves both teams' league-table ranks from the
// prediction's standings snapshot by normalized-name lookup. The provider
// nests standings per group; all groups are searched. Either team missing
// means no table signal.
func standingsRanks(f *apifootball.Fixture, p *apifootball.Prediction) (home, away int, ok bool) {
	homeName := predict.NormalizeTeamName(f.Teams.Home.Name)
	awayName := predict.NormalizeTeamName(f.Teams.Away.Name)
	if homeName == "" || awayName == "" {
		return 0, 0, false
	}

	var homeRank, awayRank *int
	for _, group := range p.League.Standings {
		for _, row := range group {
			n := predict.NormalizeTeamName(row.Team.Name)
			if n == "" {
				continue
			}
			if homeRank == nil && n == homeName {
				r := row.Rank
				homeRank = &r
			}
			if awayRank == nil && n == awayName {
				r := row.Rank
				awayRank = &r
			}
			if homeRank != nil && awayRank != nil {
				return *homeRank, *awayRank, true
			}
		}
	}
	return 0, 0, false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
