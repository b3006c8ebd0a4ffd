package callmatch

import (
	"testing"
	"time"
)

func call(id, title string, started time.Time) Call {
	return Call{ID: id, Title: title, URL: "https://app.gong.io/call?id=" + id, Started: started}
}

func TestFind_ExactWordBoundary(t *testing.T) {
	calls := []Call{call("1", "Acme Corp - Q1 Review", time.Now())}
	matches := Find(calls, "Acme")
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	m := matches[0]
	if m.Type != TypeExact || m.Score != 100 {
		t.Errorf("expected exact/100, got %s/%d", m.Type, m.Score)
	}
	if m.Selection != 1 {
		t.Errorf("expected selection 1, got %d", m.Selection)
	}
}

func TestFind_ExactIsCaseInsensitive(t *testing.T) {
	calls := []Call{call("1", "ACME CORP SYNC", time.Now())}
	matches := Find(calls, "acme")
	if len(matches) != 1 || matches[0].Type != TypeExact {
		t.Fatalf("expected case-insensitive exact match, got %v", matches)
	}
}

func TestFind_NoPartialWordExact(t *testing.T) {
	// "Acmeta" contains "Acme" but not on a word boundary, so the
	// match comes from the fuzzy stage instead.
	calls := []Call{call("1", "Acmeta working session", time.Now())}
	matches := Find(calls, "Acme")
	if len(matches) != 1 || matches[0].Type != TypeFuzzy {
		t.Fatalf("expected a fuzzy match, got %v", matches)
	}
}

func TestFind_FuzzyMisspelling(t *testing.T) {
	calls := []Call{call("1", "Akme Corportation sync", time.Now())}
	matches := Find(calls, "Acme Corp")
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	m := matches[0]
	if m.Type != TypeFuzzy {
		t.Errorf("expected fuzzy, got %s", m.Type)
	}
	if m.Score < 20 || m.Score > 85 {
		t.Errorf("score %d out of [20,85]", m.Score)
	}
}

func TestFind_SubstringOfNormalizedTitleScores90(t *testing.T) {
	calls := []Call{call("1", "weekly acme-corp pipeline check", time.Now())}
	matches := Find(calls, "acme corp pipeline")
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Type != TypeFuzzy || matches[0].Score != 90 {
		t.Errorf("expected fuzzy/90, got %s/%d", matches[0].Type, matches[0].Score)
	}
}

func TestFind_ExactSuppressesFuzzy(t *testing.T) {
	calls := []Call{
		call("1", "Acme onboarding", time.Now()),
		call("2", "Akme catch-up", time.Now()),
	}
	matches := Find(calls, "Acme")
	if len(matches) != 1 || matches[0].Call.ID != "1" {
		t.Fatalf("expected only the exact match, got %v", matches)
	}
}

func TestFind_SortAndSelection(t *testing.T) {
	older := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	calls := []Call{
		call("old", "Acme quarterly review", older),
		call("new", "Acme renewal discussion", newer),
	}
	matches := Find(calls, "Acme")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Call.ID != "new" {
		t.Errorf("tie on score must prefer the newer call, got %s first", matches[0].Call.ID)
	}
	if matches[0].Selection != 1 || matches[1].Selection != 2 {
		t.Errorf("selections wrong: %d, %d", matches[0].Selection, matches[1].Selection)
	}
}

func TestFind_EmptyInputs(t *testing.T) {
	if got := Find(nil, "Acme"); len(got) != 0 {
		t.Errorf("expected empty for no calls, got %v", got)
	}
	calls := []Call{call("1", "Acme sync", time.Now())}
	if got := Find(calls, ""); len(got) != 0 {
		t.Errorf("expected empty for empty query, got %v", got)
	}
}

func TestFind_NoMatch(t *testing.T) {
	calls := []Call{call("1", "Globex weekly standup", time.Now())}
	matches := Find(calls, "Initech")
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %v", matches)
	}
}
