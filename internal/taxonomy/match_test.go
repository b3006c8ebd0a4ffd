package taxonomy

import (
	"reflect"
	"testing"
)

func mustDefault(t *testing.T) *Taxonomy {
	t.Helper()
	tax, err := Default()
	if err != nil {
		t.Fatalf("load default taxonomy: %v", err)
	}
	return tax
}

func TestMatch_AgileText(t *testing.T) {
	tax := mustDefault(t)
	a := tax.Match([]string{"We ran a sprint retrospective with the scrum team"})

	if len(a.Categories) == 0 || a.Categories[0] != "agile" {
		t.Fatalf("expected agile as top category, got %v", a.Categories)
	}
	for _, want := range []string{"sprint", "retrospective", "scrum"} {
		if !contains(a.Keywords, want) {
			t.Errorf("keywords missing %q: %v", want, a.Keywords)
		}
	}
	if a.Context != "Content appears to focus on: Agile/Scrum methodology" {
		t.Errorf("unexpected context: %q", a.Context)
	}
}

func TestMatch_NoMatches(t *testing.T) {
	tax := mustDefault(t)
	a := tax.Match([]string{"zzz qqq xyzzy"})
	if len(a.Categories) != 0 || len(a.Keywords) != 0 {
		t.Errorf("expected no matches, got %+v", a)
	}
	if a.Context != "General collaborative work" {
		t.Errorf("unexpected context: %q", a.Context)
	}
}

func TestMatch_EmptyInput(t *testing.T) {
	tax := mustDefault(t)
	a := tax.Match(nil)
	if len(a.Categories) != 0 {
		t.Errorf("expected no categories, got %v", a.Categories)
	}
	if a.Context != "General collaborative work" {
		t.Errorf("unexpected context: %q", a.Context)
	}
}

func TestMatch_Deterministic(t *testing.T) {
	tax := mustDefault(t)
	texts := []string{
		"sprint backlog refinement",
		"customer journey workshop",
		"quarterly roadmap review meeting",
	}
	first := tax.Match(texts)
	second := tax.Match(texts)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Match is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestMatch_WeightBreaksEqualCounts(t *testing.T) {
	tax := &Taxonomy{Categories: []Category{
		{Key: "plain", Weight: 1.0, Keywords: []string{"alpha", "beta"}},
		{Key: "boosted", Weight: 1.2, Keywords: []string{"gamma", "delta"}},
	}}
	a := tax.Match([]string{"alpha beta gamma delta"})
	// Both match 2 keywords; the boosted weight wins: ceil(2*1.2)=3 vs 2.
	if len(a.Categories) != 2 || a.Categories[0] != "boosted" {
		t.Errorf("expected boosted first, got %v", a.Categories)
	}
}

func TestMatch_TieKeepsDeclarationOrder(t *testing.T) {
	tax := &Taxonomy{Categories: []Category{
		{Key: "first", Weight: 1.0, Keywords: []string{"alpha"}},
		{Key: "second", Weight: 1.0, Keywords: []string{"beta"}},
	}}
	a := tax.Match([]string{"beta alpha"})
	if len(a.Categories) != 2 || a.Categories[0] != "first" || a.Categories[1] != "second" {
		t.Errorf("expected declaration order on tie, got %v", a.Categories)
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
