package leagues

import "strings"

// Rule classifies a league as high-interest by name/country matching. All
// comparisons run on trimmed, lower-cased strings; name matching is
// substring containment. A rule matches when any NameIncludes substring
// hits, no NameExcludes substring hits, and the country constraint holds
// (exact Country, or membership in CountryAnyOf). Rules are data, not code:
// the set is evaluated in order, first match wins.
type Rule struct {
	Country      string
	CountryAnyOf []string
	NameIncludes []string
	NameExcludes []string
}

// Matches reports whether the rule hits the given league name and country.
// Both arguments are expected pre-normalized by the classifier.
func (r Rule) Matches(name, country string) bool {
	hit := false
	for _, n := range r.NameIncludes {
		if strings.Contains(name, n) {
			hit = true
			break
		}
	}
	if !hit {
		return false
	}
	for _, n := range r.NameExcludes {
		if strings.Contains(name, n) {
			return false
		}
	}
	for _, c := range r.CountryAnyOf {
		if c == country {
			return true
		}
	}
	return r.Country != "" && r.Country == country
}

// DefaultRules is the production top-league catalog: continental club
// competitions, the major national-team tournaments, the big domestic
// leagues (both German tiers), and the domestic cups.
var DefaultRules = []Rule{
	// Continental club competitions
	{CountryAnyOf: []string{"world", "europe"}, NameIncludes: []string{"uefa champions league"}},
	{CountryAnyOf: []string{"world", "europe"}, NameIncludes: []string{"uefa europa league"}},
	{CountryAnyOf: []string{"world", "europe"}, NameIncludes: []string{"uefa europa conference league"}},

	// National-team tournaments
	{CountryAnyOf: []string{"world", "europe"}, NameIncludes: []string{"euro championship", "uefa euro"}},
	{CountryAnyOf: []string{"world", "europe"}, NameIncludes: []string{"uefa nations league"}},
	{CountryAnyOf: []string{"world", "south america"}, NameIncludes: []string{"copa america"}},
	{CountryAnyOf: []string{"world"}, NameIncludes: []string{"world cup"}},

	// Top domestic leagues, including the German second tier
	{Country: "england", NameIncludes: []string{"premier league"}},
	{Country: "spain", NameIncludes: []string{"la liga", "laliga"}},
	{Country: "italy", NameIncludes: []string{"serie a"}},
	{Country: "germany", NameIncludes: []string{"bundesliga"}, NameExcludes: []string{"2."}},
	{Country: "germany", NameIncludes: []string{"2. bundesliga", "2 bundesliga", "2-bundesliga"}},
	{Country: "france", NameIncludes: []string{"ligue 1"}},
	{Country: "netherlands", NameIncludes: []string{"eredivisie"}},
	{Country: "portugal", NameIncludes: []string{"primeira liga", "liga portugal"}},

	// Domestic cups
	{Country: "germany", NameIncludes: []string{"dfb-pokal", "dfb pokal"}},
	{Country: "england", NameIncludes: []string{"fa cup"}},
	{Country: "england", NameIncludes: []string{"efl cup", "league cup", "carabao cup"}},
	{Country: "spain", NameIncludes: []string{"copa del rey"}},
	{Country: "italy", NameIncludes: []string{"coppa italia"}},
	{Country: "france", NameIncludes: []string{"coupe de france"}},
	{Country: "portugal", NameIncludes: []string{"taça de portugal", "taca de portugal", "taca portugal"}},
	{Country: "netherlands", NameIncludes: []string{"knvb beker"}},
}
