package predict

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// clubSuffixes matches the filler tokens that club naming conventions add
// around the distinctive part of a team name.
var clubSuffixes = regexp.MustCompile(`\b(fc|sc|ac|cf|cd|afc|utd|united|city|club|sv|ss|as)\b`)

// NormalizeTeamName reduces a team name to a comparable key: lower-cased,
// accents removed, club-suffix tokens stripped, and everything outside
// [a-z0-9] dropped. "Manchester United FC" and "Man Utd" both keep only
// their distinctive parts, so substring containment can match them.
func NormalizeTeamName(name string) string {
	s := strings.ToLower(name)

	// Remove diacritics so "münchen" keys as "munchen".
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, _ = transform.String(t, s)

	s = clubSuffixes.ReplaceAllString(s, "")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
