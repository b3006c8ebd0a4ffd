package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sih3rron/boardcall/internal/callmatch"
	"github.com/sih3rron/boardcall/internal/miro"
	"github.com/sih3rron/boardcall/internal/recommend"
	"github.com/sih3rron/boardcall/internal/summarize"
	"github.com/sih3rron/boardcall/internal/taxonomy"
)

type fakeBoards struct {
	boards []miro.Board
	texts  map[string][]string
	err    error
}

func (f fakeBoards) ListBoards(ctx context.Context) ([]miro.Board, error) {
	return f.boards, f.err
}

func (f fakeBoards) BoardTexts(ctx context.Context, boardID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	texts, ok := f.texts[boardID]
	if !ok {
		return nil, errors.New("board not found: " + boardID)
	}
	return texts, nil
}

type fakeCalls struct {
	calls []callmatch.Call
	from  time.Time
	to    time.Time
}

func (f *fakeCalls) ListCalls(ctx context.Context, from, to time.Time) ([]callmatch.Call, error) {
	f.from, f.to = from, to
	return f.calls, nil
}

func testGateway(t *testing.T, boards BoardSource, calls CallSource) *Gateway {
	t.Helper()
	tax, err := taxonomy.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	return New(boards, calls, tax, nil)
}

func callTool(t *testing.T, g *Gateway, name string, args any) (any, error) {
	t.Helper()
	var raw json.RawMessage
	if args != nil {
		b, err := json.Marshal(args)
		if err != nil {
			t.Fatalf("marshal args: %v", err)
		}
		raw = b
	}
	for _, tool := range g.Tools() {
		if tool.Name == name {
			return tool.Handler(context.Background(), raw)
		}
	}
	t.Fatalf("no tool %q", name)
	return nil, nil
}

func TestTools_Names(t *testing.T) {
	g := testGateway(t, fakeBoards{}, &fakeCalls{})
	want := []string{"list_boards", "summarize_board", "analyze_board", "recommend_templates", "find_calls"}
	tools := g.Tools()
	if len(tools) != len(want) {
		t.Fatalf("got %d tools, want %d", len(tools), len(want))
	}
	for i, name := range want {
		if tools[i].Name != name {
			t.Errorf("tool %d = %q, want %q", i, tools[i].Name, name)
		}
	}
}

func TestListBoards(t *testing.T) {
	g := testGateway(t, fakeBoards{boards: []miro.Board{{ID: "b1", Name: "Sprint"}}}, &fakeCalls{})
	out, err := callTool(t, g, "list_boards", nil)
	if err != nil {
		t.Fatalf("list_boards: %v", err)
	}
	boards := out.(map[string]any)["boards"].([]miro.Board)
	if len(boards) != 1 || boards[0].ID != "b1" {
		t.Errorf("boards = %+v", boards)
	}
}

func TestSummarizeBoard(t *testing.T) {
	boards := fakeBoards{texts: map[string][]string{
		"b1": {"Sprint planning for the next release", "ok", "Sprint planning for the next release"},
	}}
	g := testGateway(t, boards, &fakeCalls{})

	out, err := callTool(t, g, "summarize_board", map[string]any{"board_id": "b1"})
	if err != nil {
		t.Fatalf("summarize_board: %v", err)
	}
	result := out.(summarize.Result)
	if result.Stats.Total != 3 {
		t.Errorf("Total = %d, want 3", result.Stats.Total)
	}
	if len(result.Summary) != 1 {
		t.Errorf("Summary = %v, want one item", result.Summary)
	}
}

func TestSummarizeBoard_MissingID(t *testing.T) {
	g := testGateway(t, fakeBoards{}, &fakeCalls{})
	if _, err := callTool(t, g, "summarize_board", map[string]any{}); err == nil {
		t.Error("expected error for missing board_id")
	}
}

func TestAnalyzeBoard(t *testing.T) {
	boards := fakeBoards{texts: map[string][]string{
		"b1": {"Sprint retrospective notes from the team", "Backlog grooming for next sprint"},
	}}
	g := testGateway(t, boards, &fakeCalls{})

	out, err := callTool(t, g, "analyze_board", map[string]any{"board_id": "b1"})
	if err != nil {
		t.Fatalf("analyze_board: %v", err)
	}
	analysis := out.(taxonomy.Analysis)
	if len(analysis.Categories) == 0 || analysis.Categories[0] != "agile" {
		t.Errorf("Categories = %+v, want agile first", analysis.Categories)
	}
	if !strings.Contains(analysis.Context, "Agile") {
		t.Errorf("Context = %q", analysis.Context)
	}
}

func TestRecommendTemplates_TextPath(t *testing.T) {
	g := testGateway(t, fakeBoards{}, &fakeCalls{})

	out, err := callTool(t, g, "recommend_templates", map[string]any{
		"text": []string{"Brainstorm new product ideas with the design team"},
	})
	if err != nil {
		t.Fatalf("recommend_templates: %v", err)
	}
	result := out.(map[string]any)
	recs := result["recommendations"].([]recommend.Recommendation)
	if len(recs) == 0 {
		t.Fatal("expected recommendations")
	}
	if len(recs) > recommend.DefaultMax {
		t.Errorf("got %d recommendations, cap is %d", len(recs), recommend.DefaultMax)
	}
}

func TestRecommendTemplates_NeedsInput(t *testing.T) {
	g := testGateway(t, fakeBoards{}, &fakeCalls{})
	if _, err := callTool(t, g, "recommend_templates", map[string]any{}); err == nil {
		t.Error("expected error with neither board_id nor text")
	}
}

func TestRecommendTemplates_NoCategories(t *testing.T) {
	g := testGateway(t, fakeBoards{}, &fakeCalls{})
	out, err := callTool(t, g, "recommend_templates", map[string]any{
		"text": []string{"xyzzy plugh quux"},
	})
	if err != nil {
		t.Fatalf("recommend_templates: %v", err)
	}
	recs := out.(map[string]any)["recommendations"].([]recommend.Recommendation)
	if len(recs) != 0 {
		t.Errorf("recs = %+v, want empty", recs)
	}
}

func TestFindCalls(t *testing.T) {
	calls := &fakeCalls{calls: []callmatch.Call{
		{ID: "c1", Title: "Acme Corp - Q1 Review", Started: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "c2", Title: "Internal standup", Started: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)},
	}}
	g := testGateway(t, fakeBoards{}, calls)

	out, err := callTool(t, g, "find_calls", map[string]any{
		"customer": "Acme Corp",
		"from":     "2026-03-01",
		"to":       "2026-03-31",
	})
	if err != nil {
		t.Fatalf("find_calls: %v", err)
	}
	result := out.(map[string]any)
	matches := result["matches"].([]callmatch.Match)
	if len(matches) != 1 || matches[0].Call.ID != "c1" {
		t.Errorf("matches = %+v", matches)
	}
	if matches[0].Type != callmatch.TypeExact {
		t.Errorf("Type = %q, want exact", matches[0].Type)
	}
	if _, ok := result["hint"]; ok {
		t.Error("hint should be absent when there are matches")
	}
	if calls.from.Day() != 1 || calls.to.Day() != 31 {
		t.Errorf("date window not forwarded: from=%v to=%v", calls.from, calls.to)
	}
}

func TestFindCalls_Hint(t *testing.T) {
	g := testGateway(t, fakeBoards{}, &fakeCalls{})
	out, err := callTool(t, g, "find_calls", map[string]any{"customer": "Nobody Inc"})
	if err != nil {
		t.Fatalf("find_calls: %v", err)
	}
	result := out.(map[string]any)
	if result["hint"] != noMatchHint {
		t.Errorf("hint = %v", result["hint"])
	}
}

func TestFindCalls_BadDate(t *testing.T) {
	g := testGateway(t, fakeBoards{}, &fakeCalls{})
	_, err := callTool(t, g, "find_calls", map[string]any{"customer": "Acme", "from": "March 1st"})
	if err == nil {
		t.Error("expected error for unparseable date")
	}
}

func TestParseDate(t *testing.T) {
	if d, err := parseDate(""); err != nil || !d.IsZero() {
		t.Errorf("empty: %v, %v", d, err)
	}
	if d, err := parseDate("2026-03-01"); err != nil || d.Month() != time.March {
		t.Errorf("date-only: %v, %v", d, err)
	}
	if d, err := parseDate("2026-03-01T09:30:00Z"); err != nil || d.Hour() != 9 {
		t.Errorf("RFC 3339: %v, %v", d, err)
	}
}

func TestSetTaxonomy_Swap(t *testing.T) {
	g := testGateway(t, fakeBoards{}, &fakeCalls{})
	replacement := &taxonomy.Taxonomy{Categories: []taxonomy.Category{
		{Key: "solo", Display: "Solo work", Weight: 1.0, Keywords: []string{"solo"}},
	}}
	g.SetTaxonomy(replacement)
	if got := g.Taxonomy(); got != replacement {
		t.Error("Taxonomy did not return the swapped catalog")
	}
}
