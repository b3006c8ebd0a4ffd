// Package recommend maps ranked categories to template recommendations.
package recommend

import (
	"fmt"
	"sort"

	"github.com/sih3rron/boardcall/internal/taxonomy"
)

// DefaultMax caps a recommendation list when the caller doesn't say otherwise.
const DefaultMax = 5

const (
	topCategories       = 3
	templatesPerCategory = 2
)

// Recommendation is one suggested template with its ranking signal.
type Recommendation struct {
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Relevance   float64 `json:"relevance"`
	Link        string  `json:"link"`
}

// Templates returns at most max recommendations for the ranked categories.
// Relevance is the fraction of the category's keywords present in the
// found-keyword set, on a 0-1 scale. Unknown category keys are skipped;
// an empty category list yields an empty (non-nil) slice.
func Templates(tax *taxonomy.Taxonomy, categories, keywords []string, max int) []Recommendation {
	recs := []Recommendation{}
	if tax == nil || max <= 0 {
		return recs
	}

	found := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		found[kw] = true
	}

	considered := categories
	if len(considered) > topCategories {
		considered = considered[:topCategories]
	}

	for _, key := range considered {
		c := tax.Category(key)
		if c == nil {
			continue
		}
		relevance := keywordCoverage(c, found)
		for i, tpl := range c.Templates {
			if i >= templatesPerCategory {
				break
			}
			recs = append(recs, Recommendation{
				Name:        tpl.Name,
				URL:         tpl.URL,
				Description: tpl.Description,
				Category:    c.Key,
				Relevance:   relevance,
				Link:        fmt.Sprintf("[%s](%s)", tpl.Name, tpl.URL),
			})
		}
	}

	// Stable: equal relevance keeps category ranking order.
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Relevance > recs[j].Relevance
	})

	if len(recs) > max {
		recs = recs[:max]
	}
	return recs
}

// keywordCoverage is the fraction of the category's keywords found in the text.
func keywordCoverage(c *taxonomy.Category, found map[string]bool) float64 {
	if len(c.Keywords) == 0 {
		return 0
	}
	matched := 0
	for _, kw := range c.Keywords {
		if found[kw] {
			matched++
		}
	}
	return float64(matched) / float64(len(c.Keywords))
}
