package taxonomy

import (
	"math"
	"sort"
	"strings"
)

// contextFallback is reported when no category matches the text.
const contextFallback = "General collaborative work"

// Analysis is the result of matching text against the catalog.
type Analysis struct {
	Keywords   []string `json:"keywords"`
	Categories []string `json:"categories"`
	Context    string   `json:"context"`
}

// Match scores the joined, lowercased text against every category.
// Category ranking uses weighted scores (ceil of match count times the
// category weight) so that a weighted category outranks an unweighted
// one with the same raw matches; ties keep declaration order.
func (t *Taxonomy) Match(texts []string) Analysis {
	joined := strings.ToLower(strings.Join(texts, " "))

	type ranked struct {
		key   string
		score int
	}

	var (
		matches  []ranked
		keywords []string
		seen     = make(map[string]bool)
	)

	for _, c := range t.Categories {
		count := 0
		for _, kw := range c.Keywords {
			if strings.Contains(joined, kw) {
				count++
				if !seen[kw] {
					seen[kw] = true
					keywords = append(keywords, kw)
				}
			}
		}
		if count == 0 {
			continue
		}
		matches = append(matches, ranked{
			key:   c.Key,
			score: int(math.Ceil(float64(count) * c.Weight)),
		})
	}

	// Stable: equal scores keep catalog declaration order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	a := Analysis{Keywords: []string{}, Categories: []string{}}
	if keywords != nil {
		a.Keywords = keywords
	}
	for _, m := range matches {
		a.Categories = append(a.Categories, m.key)
	}
	a.Context = t.context(a.Categories)
	return a
}

// context renders the top three matched categories as a display string.
func (t *Taxonomy) context(keys []string) string {
	if len(keys) > 3 {
		keys = keys[:3]
	}
	var names []string
	for _, key := range keys {
		if c := t.Category(key); c != nil && c.Display != "" {
			names = append(names, c.Display)
		}
	}
	if len(names) == 0 {
		return contextFallback
	}
	return "Content appears to focus on: " + strings.Join(names, ", ")
}
