// Package summarize reduces noisy extracted text to a bounded,
// deduplicated, relevance-ranked summary.
package summarize

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sih3rron/boardcall/internal/similarity"
)

// DefaultMaxItems bounds a summary when the caller doesn't say otherwise.
const DefaultMaxItems = 15

// Filter and scoring thresholds.
const (
	minLength     = 3
	maxLength     = 300
	dedupCutoff   = 0.8
	repeatedRunes = 4
)

var (
	urlPattern       = regexp.MustCompile(`^https?://\S+$`)
	punctOnlyPattern = regexp.MustCompile(`^[^\p{L}\p{N}]+$`)
	numericPattern   = regexp.MustCompile(`^\d+$`)
	placeholderTitle = regexp.MustCompile(`(?i)^(untitled|new|item|text|note|card)\s*\d*$`)
)

// businessTerms boost relevance for items that talk about actual work.
var businessTerms = []string{
	"project", "task", "goal", "team", "strategy", "plan", "idea",
	"issue", "solution", "user", "customer", "feature", "requirement",
	"sprint", "meeting", "action", "decision", "risk", "opportunity",
}

// Stats reports how much input survived summarization.
type Stats struct {
	Total      int `json:"total"`
	Summarized int `json:"summarized"`
	Skipped    int `json:"skipped"`
}

// Result is a ranked summary plus its stats.
type Result struct {
	Summary []string `json:"summary"`
	Stats   Stats    `json:"stats"`
}

// Summarize filters, deduplicates, and relevance-ranks items, keeping at
// most max entries. A non-positive max yields an empty summary.
func Summarize(items []string, max int) Result {
	r := Result{Summary: []string{}, Stats: Stats{Total: len(items)}}
	if max <= 0 || len(items) == 0 {
		r.Stats.Skipped = len(items)
		return r
	}

	var kept []string
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if !keep(trimmed) {
			continue
		}
		if isDuplicate(trimmed, kept) {
			continue
		}
		kept = append(kept, trimmed)
	}

	// Stable sort so equal scores preserve source order.
	sort.SliceStable(kept, func(i, j int) bool {
		return Relevance(kept[i]) > Relevance(kept[j])
	})

	if len(kept) > max {
		kept = kept[:max]
	}

	r.Summary = kept
	r.Stats.Summarized = len(kept)
	r.Stats.Skipped = r.Stats.Total - len(kept)
	return r
}

// keep reports whether a trimmed item passes the noise filter.
func keep(s string) bool {
	if n := utf8.RuneCountInString(s); n < minLength || n > maxLength {
		return false
	}
	if urlPattern.MatchString(s) {
		return false
	}
	if punctOnlyPattern.MatchString(s) {
		return false
	}
	if isRepeatedRune(s) {
		return false
	}
	return true
}

// isRepeatedRune reports whether s is nothing but one rune repeated at
// least repeatedRunes times. A run inside real content is fine.
func isRepeatedRune(s string) bool {
	var first rune
	n := 0
	for _, r := range s {
		if n == 0 {
			first = r
		} else if r != first {
			return false
		}
		n++
	}
	return n >= repeatedRunes
}

// isDuplicate reports whether candidate matches any accepted item,
// either case-insensitively or above the similarity cutoff. Greedy and
// order-dependent on purpose: the first occurrence wins.
func isDuplicate(candidate string, accepted []string) bool {
	lower := strings.ToLower(candidate)
	for _, a := range accepted {
		al := strings.ToLower(a)
		if al == lower {
			return true
		}
		if similarity.Score(al, lower) > dedupCutoff {
			return true
		}
	}
	return false
}

// Relevance scores a single item. Higher means more likely to carry
// real content rather than board noise.
func Relevance(s string) int {
	score := 0

	switch n := utf8.RuneCountInString(s); {
	case n >= 10 && n <= 100:
		score += 3
	case n > 100 && n <= 200:
		score++
	}

	words := strings.Fields(s)
	if len(words) > 1 {
		score += 2
	}
	if len(words) >= 4 {
		score++
	}

	lower := strings.ToLower(s)
	for _, term := range businessTerms {
		if strings.Contains(lower, term) {
			score += 2
		}
	}

	if strings.Contains(s, "?") {
		score++
	}

	if placeholderTitle.MatchString(s) {
		score -= 5
	}
	if numericPattern.MatchString(s) {
		score -= 3
	}

	return score
}
