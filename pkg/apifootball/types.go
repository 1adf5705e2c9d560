// Package apifootball provides a client for the api-football v3 REST API.
// It covers the read-only endpoints the aggregation engine needs: fixtures,
// paged 1X2 odds, per-fixture predictions, and the league catalog.
package apifootball

// Paging is the pagination metadata returned on paged endpoints.
type Paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// envelope is the common api-football response wrapper.
type envelope[T any] struct {
	Results  int    `json:"results"`
	Paging   Paging `json:"paging"`
	Response T      `json:"response"`
}

// FixtureStatus describes the current state of a fixture.
type FixtureStatus struct {
	Long    string `json:"long"`
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed"`
}

// Provider status codes grouped by phase.
var (
	liveCodes     = map[string]bool{"1H": true, "2H": true, "ET": true, "BT": true, "HT": true, "P": true, "LIVE": true}
	finishedCodes = map[string]bool{"FT": true, "AET": true, "PEN": true, "ABD": true, "AWD": true, "WO": true}
)

// Live reports whether the fixture is currently being played.
func (s FixtureStatus) Live() bool {
	return liveCodes[s.Short]
}

// Finished reports whether the fixture has been settled, including
// abandoned and awarded outcomes.
func (s FixtureStatus) Finished() bool {
	return finishedCodes[s.Short]
}

// NotStarted reports whether the fixture has not kicked off.
func (s FixtureStatus) NotStarted() bool {
	return s.Short == "NS"
}

// FixtureCore carries the fixture identity and schedule.
type FixtureCore struct {
	ID        int           `json:"id"`
	Referee   string        `json:"referee"`
	Timezone  string        `json:"timezone"`
	Date      string        `json:"date"`
	Timestamp int64         `json:"timestamp"`
	Status    FixtureStatus `json:"status"`
}

// LeagueInfo identifies the competition a fixture belongs to.
type LeagueInfo struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Logo    string `json:"logo"`
	Flag    string `json:"flag"`
	Season  int    `json:"season"`
	Round   string `json:"round"`
}

// TeamSide is one side of a fixture. Winner is nil until the provider
// settles the fixture.
type TeamSide struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
	Winner *bool  `json:"winner"`
}

// TeamPair holds both sides of a fixture.
type TeamPair struct {
	Home TeamSide `json:"home"`
	Away TeamSide `json:"away"`
}

// Goals is a nullable home/away goal pair. Nil means not played (or not
// reached, for period scores).
type Goals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Score breaks the result down by period.
type Score struct {
	Halftime  Goals `json:"halftime"`
	Fulltime  Goals `json:"fulltime"`
	Extratime Goals `json:"extratime"`
	Penalty   Goals `json:"penalty"`
}

// Fixture is a single scheduled match as returned by /fixtures.
type Fixture struct {
	Fixture FixtureCore `json:"fixture"`
	League  LeagueInfo  `json:"league"`
	Teams   TeamPair    `json:"teams"`
	Goals   Goals       `json:"goals"`
	Score   Score       `json:"score"`
}

// BetValue is one selection inside a bookmaker market. Odd is the decimal
// price as a string, exactly as the provider sends it.
type BetValue struct {
	Value string `json:"value"`
	Odd   string `json:"odd"`
}

// Bet is one market offered by a bookmaker.
type Bet struct {
	ID     int        `json:"id"`
	Name   string     `json:"name"`
	Values []BetValue `json:"values"`
}

// Bookmaker is one bookmaker's markets for a fixture.
type Bookmaker struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Bets []Bet  `json:"bets"`
}

// OddsFixture is one fixture's odds entry on the /odds endpoint.
type OddsFixture struct {
	Fixture    FixtureCore `json:"fixture"`
	League     LeagueInfo  `json:"league"`
	Bookmakers []Bookmaker `json:"bookmakers"`
}

// OddsPage is a single page of the paged /odds result set.
type OddsPage struct {
	Paging   Paging
	Fixtures []OddsFixture
}

// Winner is the model-named winning side of a prediction.
type Winner struct {
	ID      *int   `json:"id"`
	Name    string `json:"name"`
	Comment string `json:"comment"`
}

// Percent is the 1X2 probability split, percent strings like "45%".
type Percent struct {
	Home string `json:"home"`
	Draw string `json:"draw"`
	Away string `json:"away"`
}

// PredictionCore is the forecast block of a prediction payload.
type PredictionCore struct {
	Winner    Winner  `json:"winner"`
	WinOrDraw bool    `json:"win_or_draw"`
	UnderOver string  `json:"under_over"`
	Advice    string  `json:"advice"`
	Percent   Percent `json:"percent"`
}

// Last5 is a team's recent-form snapshot. Form is a percent string.
type Last5 struct {
	Form string `json:"form"`
	Att  string `json:"att"`
	Def  string `json:"def"`
}

// PredictionTeam is one team's supplementary metrics inside a prediction.
type PredictionTeam struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Logo  string `json:"logo"`
	Last5 Last5  `json:"last_5"`
}

// PredictionTeams holds per-team prediction metrics.
type PredictionTeams struct {
	Home PredictionTeam `json:"home"`
	Away PredictionTeam `json:"away"`
}

// ComparisonPair is a home/away percent-string pair.
type ComparisonPair struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// Comparison is the comparative-strength block of a prediction.
type Comparison struct {
	Form                ComparisonPair `json:"form"`
	Att                 ComparisonPair `json:"att"`
	Def                 ComparisonPair `json:"def"`
	PoissonDistribution ComparisonPair `json:"poisson_distribution"`
	H2H                 ComparisonPair `json:"h2h"`
	Goals               ComparisonPair `json:"goals"`
	Total               ComparisonPair `json:"total"`
}

// StandingRow is one row of a league table inside a prediction payload.
type StandingRow struct {
	Rank int `json:"rank"`
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Logo string `json:"logo"`
	} `json:"team"`
	Points int `json:"points"`
}

// PredictionLeague is the league block of a prediction, including the
// standings snapshot. The provider nests standings as [][]row (one inner
// slice per group or stage).
type PredictionLeague struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Country   string          `json:"country"`
	Season    int             `json:"season"`
	Standings [][]StandingRow `json:"standings"`
}

// Prediction is the full forecast payload for one fixture.
type Prediction struct {
	Predictions PredictionCore   `json:"predictions"`
	League      PredictionLeague `json:"league"`
	Teams       PredictionTeams  `json:"teams"`
	Comparison  Comparison       `json:"comparison"`
	H2H         []Fixture        `json:"h2h"`
}

// LeagueEntry is one entry of the /leagues catalog.
type LeagueEntry struct {
	League struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
		Logo string `json:"logo"`
	} `json:"league"`
	Country struct {
		Name string `json:"name"`
		Code string `json:"code"`
		Flag string `json:"flag"`
	} `json:"country"`
}
