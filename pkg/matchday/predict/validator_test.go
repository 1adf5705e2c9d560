package predict

import (
	"testing"

	"github.com/betbro/matchday/pkg/apifootball"
)

func prediction(home, draw, away string) *apifootball.Prediction {
	return &apifootball.Prediction{
		Predictions: apifootball.PredictionCore{
			Percent: apifootball.Percent{Home: home, Draw: draw, Away: away},
		},
	}
}

func namedWinner(name string) *apifootball.Prediction {
	p := prediction("", "", "")
	p.Predictions.Winner.Name = name
	return p
}

func intp(n int) *int { return &n }

func boolp(b bool) *bool { return &b }

func TestPercent(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"45%", 45},
		{"45", 45},
		{" 45% ", 45},
		{"0%", 0},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		if got := Percent(tt.in); got != tt.want {
			t.Errorf("Percent(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTeamName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Manchester United FC", "manchester"},
		{"Man United", "man"},
		{"FC Bayern München", "bayernmunchen"},
		{"Borussia Mönchengladbach", "borussiamonchengladbach"},
		{"1. FC Köln", "1koln"},
		{"AS Monaco", "monaco"},
		{"Manchester City", "manchester"},
	}
	for _, tt := range tests {
		if got := NormalizeTeamName(tt.in); got != tt.want {
			t.Errorf("NormalizeTeamName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		p    *apifootball.Prediction
		want bool
	}{
		{"nil prediction", nil, false},
		{"named winner", namedWinner("Arsenal"), true},
		{"unique max away", prediction("33%", "33%", "34%"), true},
		{"tie at max", prediction("40%", "40%", "20%"), false},
		{"three-way tie", prediction("33%", "33%", "33%"), false},
		{"all zero", prediction("0%", "0%", "0%"), false},
		{"non-numeric legs", prediction("n/a", "n/a", "n/a"), false},
		{"single nonzero leg", prediction("0%", "0%", "10%"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(tt.p); got != tt.want {
				t.Errorf("Valid = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPredictedOutcome(t *testing.T) {
	tests := []struct {
		name string
		p    *apifootball.Prediction
		home string
		away string
		want Outcome
	}{
		{"unique max selects away", prediction("33%", "33%", "34%"), "A", "B", OutcomeAway},
		{"tie yields none", prediction("40%", "40%", "20%"), "A", "B", OutcomeNone},
		{"named winner matches home by containment", namedWinner("Man United"), "Manchester United FC", "Newcastle", OutcomeHome},
		{"named winner matches away exactly", namedWinner("Chelsea"), "Arsenal", "Chelsea FC", OutcomeAway},
		{"draw keyword", namedWinner("Draw"), "A", "B", OutcomeDraw},
		{"german draw keyword", namedWinner("Unentschieden"), "A", "B", OutcomeDraw},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PredictedOutcome(tt.p, tt.home, tt.away); got != tt.want {
				t.Errorf("PredictedOutcome = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPredictedOutcomeFallsBackToPercents(t *testing.T) {
	// The named winner resolves to neither team; the percentage rule
	// decides instead.
	p := namedWinner("Some Other Team")
	p.Predictions.Percent = apifootball.Percent{Home: "55%", Draw: "25%", Away: "20%"}

	if got := PredictedOutcome(p, "Arsenal", "Chelsea"); got != OutcomeHome {
		t.Errorf("PredictedOutcome = %q, want H", got)
	}
}

func finishedFixture(short string) *apifootball.Fixture {
	return &apifootball.Fixture{
		Fixture: apifootball.FixtureCore{
			ID:     1,
			Status: apifootball.FixtureStatus{Short: short},
		},
		Teams: apifootball.TeamPair{
			Home: apifootball.TeamSide{Name: "Arsenal"},
			Away: apifootball.TeamSide{Name: "Chelsea"},
		},
	}
}

func TestActualOutcome(t *testing.T) {
	f := finishedFixture("FT")
	f.Score.Fulltime = apifootball.Goals{Home: intp(2), Away: intp(1)}
	if got := ActualOutcome(f); got != OutcomeHome {
		t.Errorf("ActualOutcome = %q, want H", got)
	}

	// Fulltime absent: the running goals decide.
	f = finishedFixture("FT")
	f.Goals = apifootball.Goals{Home: intp(0), Away: intp(0)}
	if got := ActualOutcome(f); got != OutcomeDraw {
		t.Errorf("ActualOutcome = %q, want D", got)
	}

	// No score at all: winner flags decide, both false is a draw.
	f = finishedFixture("AWD")
	f.Teams.Away.Winner = boolp(true)
	if got := ActualOutcome(f); got != OutcomeAway {
		t.Errorf("ActualOutcome = %q, want A", got)
	}

	f = finishedFixture("AWD")
	f.Teams.Home.Winner = boolp(false)
	f.Teams.Away.Winner = boolp(false)
	if got := ActualOutcome(f); got != OutcomeDraw {
		t.Errorf("ActualOutcome = %q, want D", got)
	}

	// Nothing derivable.
	f = finishedFixture("ABD")
	if got := ActualOutcome(f); got != OutcomeNone {
		t.Errorf("ActualOutcome = %q, want none", got)
	}
}

func TestEvaluate(t *testing.T) {
	f := finishedFixture("FT")
	f.Score.Fulltime = apifootball.Goals{Home: intp(3), Away: intp(1)}

	p := prediction("60%", "25%", "15%")
	if got := Evaluate(f, p); got != EvalCorrect {
		t.Errorf("Evaluate = %q, want correct", got)
	}

	p = prediction("10%", "25%", "65%")
	if got := Evaluate(f, p); got != EvalWrong {
		t.Errorf("Evaluate = %q, want wrong", got)
	}

	// Not finished: no verdict even with a valid prediction.
	live := finishedFixture("1H")
	live.Goals = apifootball.Goals{Home: intp(1), Away: intp(0)}
	if got := Evaluate(live, p); got != EvalNone {
		t.Errorf("Evaluate on live fixture = %q, want none", got)
	}

	// Finished but no derivable result: null verdict.
	abd := finishedFixture("ABD")
	if got := Evaluate(abd, p); got != EvalNone {
		t.Errorf("Evaluate without result = %q, want none", got)
	}

	// Invalid prediction: no verdict.
	if got := Evaluate(f, prediction("40%", "40%", "20%")); got != EvalNone {
		t.Errorf("Evaluate with tied prediction = %q, want none", got)
	}
}
