// Package predict decides whether a forecast is usable and whether it
// matched the actual outcome of a finished fixture.
package predict

import (
	"strconv"
	"strings"

	"github.com/betbro/matchday/pkg/apifootball"
)

// Outcome is a 1X2 selection.
type Outcome string

const (
	OutcomeHome Outcome = "H"
	OutcomeDraw Outcome = "D"
	OutcomeAway Outcome = "A"
	OutcomeNone Outcome = ""
)

// Evaluation is the verdict of a prediction against the actual result.
// Empty means no verdict could be derived.
type Evaluation string

const (
	EvalCorrect Evaluation = "correct"
	EvalWrong   Evaluation = "wrong"
	EvalNone    Evaluation = ""
)

// Percent parses a provider percent string ("45%", "45") into an integer.
// Non-numeric input parses to 0.
func Percent(s string) int {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// percents returns the three percentage legs of a prediction.
func percents(p *apifootball.Prediction) (home, draw, away int) {
	pc := p.Predictions.Percent
	return Percent(pc.Home), Percent(pc.Draw), Percent(pc.Away)
}

// uniqueMax returns the outcome owning the strict maximum of the three
// legs, or OutcomeNone when the maximum is zero or tied.
func uniqueMax(home, draw, away int) Outcome {
	max := home
	if draw > max {
		max = draw
	}
	if away > max {
		max = away
	}
	if max <= 0 {
		return OutcomeNone
	}

	var winner Outcome
	count := 0
	if home == max {
		winner = OutcomeHome
		count++
	}
	if draw == max {
		winner = OutcomeDraw
		count++
	}
	if away == max {
		winner = OutcomeAway
		count++
	}
	if count != 1 {
		return OutcomeNone
	}
	return winner
}

// Valid reports whether the prediction is usable: it either names an
// explicit winning side, or exactly one percentage leg holds the strict
// maximum. Tied legs invalidate the record.
func Valid(p *apifootball.Prediction) bool {
	if p == nil {
		return false
	}
	if p.Predictions.Winner.Name != "" {
		return true
	}
	h, d, a := percents(p)
	return uniqueMax(h, d, a) != OutcomeNone
}

// PredictedOutcome derives the forecast side. A named winner is matched
// against the team names by normalized equality or substring containment
// in either direction; "draw" (and the German "unentschieden") maps to a
// draw. If no named winner resolves, the unique-maximum-percentage rule
// applies.
func PredictedOutcome(p *apifootball.Prediction, homeName, awayName string) Outcome {
	if !Valid(p) {
		return OutcomeNone
	}

	if name := p.Predictions.Winner.Name; name != "" {
		w := NormalizeTeamName(name)
		if w == "draw" || w == "unentschieden" {
			return OutcomeDraw
		}
		h := NormalizeTeamName(homeName)
		a := NormalizeTeamName(awayName)
		if w != "" && (w == h || strings.Contains(h, w) || strings.Contains(w, h)) {
			return OutcomeHome
		}
		if w != "" && (w == a || strings.Contains(a, w) || strings.Contains(w, a)) {
			return OutcomeAway
		}
	}

	h, d, a := percents(p)
	return uniqueMax(h, d, a)
}

// ActualOutcome derives the real result of a fixture, preferring the
// fulltime score, then the running goals, then the provider's per-team
// winner flags (both false is a draw). OutcomeNone means no result could
// be derived.
func ActualOutcome(f *apifootball.Fixture) Outcome {
	gh, ga := finalGoals(f)
	if gh != nil && ga != nil {
		switch {
		case *gh > *ga:
			return OutcomeHome
		case *gh < *ga:
			return OutcomeAway
		default:
			return OutcomeDraw
		}
	}

	hw, aw := f.Teams.Home.Winner, f.Teams.Away.Winner
	switch {
	case hw != nil && *hw:
		return OutcomeHome
	case aw != nil && *aw:
		return OutcomeAway
	case hw != nil && aw != nil && !*hw && !*aw:
		return OutcomeDraw
	}
	return OutcomeNone
}

// FinalGoals returns the fixture's final score when one is known: the
// fulltime score if present, otherwise the running goals.
func FinalGoals(f *apifootball.Fixture) (home, away *int) {
	return finalGoals(f)
}

func finalGoals(f *apifootball.Fixture) (home, away *int) {
	home, away = f.Score.Fulltime.Home, f.Score.Fulltime.Away
	if home == nil {
		home = f.Goals.Home
	}
	if away == nil {
		away = f.Goals.Away
	}
	return home, away
}

// Evaluate compares a prediction against the actual result. It only
// applies to finished fixtures with a valid prediction; in every other
// case, and when no actual outcome can be derived, the verdict is EvalNone.
func Evaluate(f *apifootball.Fixture, p *apifootball.Prediction) Evaluation {
	if !f.Fixture.Status.Finished() || !Valid(p) {
		return EvalNone
	}
	pred := PredictedOutcome(p, f.Teams.Home.Name, f.Teams.Away.Name)
	if pred == OutcomeNone {
		return EvalNone
	}
	act := ActualOutcome(f)
	if act == OutcomeNone {
		return EvalNone
	}
	if pred == act {
		return EvalCorrect
	}
	return EvalWrong
}
