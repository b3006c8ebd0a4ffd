// Package callmatch finds recorded calls whose titles match a free-text
// customer name, exactly or fuzzily.
package callmatch

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/sih3rron/boardcall/internal/similarity"
)

// Call is the read-only shape supplied by the call platform.
type Call struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	Started       time.Time `json:"started"`
	PrimaryUserID string    `json:"primaryUserId"`
	Duration      int       `json:"duration"`
	Parties       []string  `json:"parties"`
}

// Match types.
const (
	TypeExact = "exact"
	TypeFuzzy = "fuzzy"
)

// Fuzzy scoring weights.
const (
	exactScore     = 100
	substringScore = 90
	tokenScore     = 20
	coverageScore  = 30
	fuzzyScoreCap  = 85
	tokenCutoff    = 0.8
	pairCutoff     = 0.7
)

// Match is one candidate call with its confidence score. Selection is a
// 1-based position assigned after sorting so callers can re-select a
// specific call in a follow-up request.
type Match struct {
	Call      Call   `json:"call"`
	Type      string `json:"matchType"`
	Score     int    `json:"score"`
	Selection int    `json:"selection"`
}

var nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

// Find matches query against call titles. Whole-word matches score 100;
// fuzzy matching only runs when no title matches exactly. Results are
// sorted by score descending, then by start time descending. An empty
// candidate list or a query matching nothing yields an empty slice.
func Find(calls []Call, query string) []Match {
	matches := []Match{}
	query = strings.TrimSpace(query)
	if len(calls) == 0 || query == "" {
		return matches
	}

	wordBoundary, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(query) + `\b`)
	if err == nil {
		for _, call := range calls {
			if wordBoundary.MatchString(call.Title) {
				matches = append(matches, Match{Call: call, Type: TypeExact, Score: exactScore})
			}
		}
	}

	// Fuzzy fallback only when nothing matched exactly anywhere.
	if len(matches) == 0 {
		normQuery := normalize(query)
		queryTokens := strings.Fields(normQuery)
		for _, call := range calls {
			normTitle := normalize(call.Title)
			if !fuzzyAccept(normTitle, normQuery, queryTokens) {
				continue
			}
			matches = append(matches, Match{
				Call:  call,
				Type:  TypeFuzzy,
				Score: fuzzyScore(normTitle, normQuery, queryTokens),
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Call.Started.After(matches[j].Call.Started)
	})

	for i := range matches {
		matches[i].Selection = i + 1
	}
	return matches
}

// normalize strips punctuation, collapses whitespace, and lowercases.
func normalize(s string) string {
	s = nonWordPattern.ReplaceAllString(s, " ")
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// fuzzyAccept applies the three fallback criteria in order: normalized
// substring, full token coverage, then any close token pair.
func fuzzyAccept(normTitle, normQuery string, queryTokens []string) bool {
	if normQuery == "" {
		return false
	}
	if strings.Contains(normTitle, normQuery) {
		return true
	}

	titleTokens := strings.Fields(normTitle)

	allCovered := len(queryTokens) > 0
	for _, qt := range queryTokens {
		if !tokenMatches(qt, titleTokens) {
			allCovered = false
			break
		}
	}
	if allCovered {
		return true
	}

	for _, qt := range queryTokens {
		for _, tt := range titleTokens {
			if similarity.Score(qt, tt) > pairCutoff {
				return true
			}
		}
	}
	return false
}

// tokenMatches reports whether a query token is found among the title
// tokens: substring in either direction, or within the similarity cutoff.
func tokenMatches(qt string, titleTokens []string) bool {
	for _, tt := range titleTokens {
		if strings.Contains(tt, qt) || strings.Contains(qt, tt) {
			return true
		}
		if similarity.Score(qt, tt) > tokenCutoff {
			return true
		}
	}
	return false
}

// fuzzyScore assigns a confidence to an accepted fuzzy match: 90 when
// the normalized query is a substring of the title, otherwise 20 per
// matched token plus up to 30 for coverage, capped at 85.
func fuzzyScore(normTitle, normQuery string, queryTokens []string) int {
	if strings.Contains(normTitle, normQuery) {
		return substringScore
	}

	titleTokens := strings.Fields(normTitle)
	matched := 0
	for _, qt := range queryTokens {
		if tokenMatches(qt, titleTokens) {
			matched++
		}
	}

	score := matched * tokenScore
	if len(queryTokens) > 0 {
		score += int(float64(coverageScore) * float64(matched) / float64(len(queryTokens)))
	}
	if score > fuzzyScoreCap {
		score = fuzzyScoreCap
	}
	return score
}
