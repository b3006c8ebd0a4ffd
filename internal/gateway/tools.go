package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sih3rron/boardcall/internal/mcp"
	"github.com/sih3rron/boardcall/internal/recommend"
	"github.com/sih3rron/boardcall/internal/summarize"
	"github.com/sih3rron/boardcall/internal/taxonomy"
)

// noMatchHint is returned alongside an empty find_calls result so the
// caller knows the query ran and simply found nothing.
const noMatchHint = "No calls matched. Try a shorter customer name or widen the date range."

// Tools returns the gateway's MCP tool set.
func (g *Gateway) Tools() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "list_boards",
			Description: "List the boards visible to the configured credentials.",
			InputSchema: objectSchema(nil, nil),
			Handler:     g.listBoards,
		},
		{
			Name:        "summarize_board",
			Description: "Summarize a board's content: filtered, deduplicated, relevance-ranked text items.",
			InputSchema: objectSchema(map[string]any{
				"board_id":  map[string]any{"type": "string", "description": "Board to summarize"},
				"max_items": map[string]any{"type": "integer", "description": "Summary size bound (default 15)"},
			}, []string{"board_id"}),
			Handler: g.summarizeBoard,
		},
		{
			Name:        "analyze_board",
			Description: "Match a board's content against the category catalog: keywords, ranked categories, and a context string.",
			InputSchema: objectSchema(map[string]any{
				"board_id": map[string]any{"type": "string", "description": "Board to analyze"},
			}, []string{"board_id"}),
			Handler: g.analyzeBoard,
		},
		{
			Name:        "recommend_templates",
			Description: "Recommend templates for a board (or free text), ranked by category relevance.",
			InputSchema: objectSchema(map[string]any{
				"board_id":            map[string]any{"type": "string", "description": "Board to analyze (omit when passing text)"},
				"text":                map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Raw text items to analyze instead of a board"},
				"max_recommendations": map[string]any{"type": "integer", "description": "Result cap (default 5)"},
			}, nil),
			Handler: g.recommendTemplates,
		},
		{
			Name:        "find_calls",
			Description: "Find recorded calls for a customer name, with fuzzy fallback when nothing matches exactly.",
			InputSchema: objectSchema(map[string]any{
				"customer": map[string]any{"type": "string", "description": "Customer name to look for"},
				"from":     map[string]any{"type": "string", "description": "Earliest call date (YYYY-MM-DD or RFC 3339)"},
				"to":       map[string]any{"type": "string", "description": "Latest call date (YYYY-MM-DD or RFC 3339)"},
			}, []string{"customer"}),
			Handler: g.findCalls,
		},
	}
}

func objectSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{"type": "object"}
	if len(properties) > 0 {
		schema["properties"] = properties
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func (g *Gateway) listBoards(ctx context.Context, _ json.RawMessage) (any, error) {
	boards, err := g.boards.ListBoards(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"boards": boards}, nil
}

func (g *Gateway) summarizeBoard(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		BoardID  string `json:"board_id"`
		MaxItems int    `json:"max_items"`
	}
	if err := unmarshalArgs(args, &in); err != nil {
		return nil, err
	}
	if in.BoardID == "" {
		return nil, fmt.Errorf("board_id is required")
	}
	if in.MaxItems == 0 {
		in.MaxItems = summarize.DefaultMaxItems
	}

	texts, err := g.boards.BoardTexts(ctx, in.BoardID)
	if err != nil {
		return nil, err
	}
	return summarize.Summarize(texts, in.MaxItems), nil
}

func (g *Gateway) analyzeBoard(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		BoardID string `json:"board_id"`
	}
	if err := unmarshalArgs(args, &in); err != nil {
		return nil, err
	}
	if in.BoardID == "" {
		return nil, fmt.Errorf("board_id is required")
	}

	texts, err := g.boards.BoardTexts(ctx, in.BoardID)
	if err != nil {
		return nil, err
	}
	summary := summarize.Summarize(texts, summarize.DefaultMaxItems)
	return g.Taxonomy().Match(summary.Summary), nil
}

func (g *Gateway) recommendTemplates(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		BoardID string   `json:"board_id"`
		Text    []string `json:"text"`
		Max     int      `json:"max_recommendations"`
	}
	if err := unmarshalArgs(args, &in); err != nil {
		return nil, err
	}
	if in.Max == 0 {
		in.Max = recommend.DefaultMax
	}

	texts := in.Text
	if len(texts) == 0 {
		if in.BoardID == "" {
			return nil, fmt.Errorf("either board_id or text is required")
		}
		fetched, err := g.boards.BoardTexts(ctx, in.BoardID)
		if err != nil {
			return nil, err
		}
		texts = fetched
	}

	tax := g.Taxonomy()
	summary := summarize.Summarize(texts, summarize.DefaultMaxItems)
	analysis := tax.Match(summary.Summary)
	recs := recommend.Templates(tax, analysis.Categories, analysis.Keywords, in.Max)

	return map[string]any{
		"context":         analysis.Context,
		"categories":      analysis.Categories,
		"recommendations": recs,
	}, nil
}

func (g *Gateway) findCalls(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		Customer string `json:"customer"`
		From     string `json:"from"`
		To       string `json:"to"`
	}
	if err := unmarshalArgs(args, &in); err != nil {
		return nil, err
	}
	if in.Customer == "" {
		return nil, fmt.Errorf("customer is required")
	}

	from, err := parseDate(in.From)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	to, err := parseDate(in.To)
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}

	matches, err := g.FindCalls(ctx, in.Customer, from, to)
	if err != nil {
		return nil, err
	}
	result := map[string]any{"matches": matches}
	if len(matches) == 0 {
		result["hint"] = noMatchHint
	}
	return result, nil
}

// Analyze runs the full pipeline on raw text. The one-shot CLI
// commands use this directly; the MCP tools share the same stages.
func (g *Gateway) Analyze(texts []string, maxItems int) (summarize.Result, taxonomy.Analysis) {
	summary := summarize.Summarize(texts, maxItems)
	return summary, g.Taxonomy().Match(summary.Summary)
}

func unmarshalArgs(args json.RawMessage, out any) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, out); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// parseDate accepts a date or a full RFC 3339 timestamp; empty means
// no bound.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q (want YYYY-MM-DD or RFC 3339)", s)
	}
	return t, nil
}
