// Package gateway wires the analysis pipeline and the platform clients
// into the tool set the MCP server exposes.
package gateway

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sih3rron/boardcall/internal/callmatch"
	"github.com/sih3rron/boardcall/internal/miro"
	"github.com/sih3rron/boardcall/internal/taxonomy"
)

// BoardSource supplies boards and their extracted text. The live
// implementation is the whiteboard client; offline mode uses fixtures.
type BoardSource interface {
	ListBoards(ctx context.Context) ([]miro.Board, error)
	BoardTexts(ctx context.Context, boardID string) ([]string, error)
}

// CallSource supplies recorded calls.
type CallSource interface {
	ListCalls(ctx context.Context, from, to time.Time) ([]callmatch.Call, error)
}

// Gateway holds the sources and the current category catalog. The
// catalog is swappable at runtime (live reload in serve mode), so
// reads go through a lock.
type Gateway struct {
	boards BoardSource
	calls  CallSource
	logger *slog.Logger

	mu  sync.RWMutex
	tax *taxonomy.Taxonomy
}

// New assembles a gateway.
func New(boards BoardSource, calls CallSource, tax *taxonomy.Taxonomy, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{boards: boards, calls: calls, tax: tax, logger: logger}
}

// Taxonomy returns the current catalog.
func (g *Gateway) Taxonomy() *taxonomy.Taxonomy {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.tax
}

// SetTaxonomy swaps the catalog; in-flight calls keep the one they
// already read.
func (g *Gateway) SetTaxonomy(tax *taxonomy.Taxonomy) {
	g.mu.Lock()
	g.tax = tax
	g.mu.Unlock()
}

// ListBoards returns the boards the source can see.
func (g *Gateway) ListBoards(ctx context.Context) ([]miro.Board, error) {
	return g.boards.ListBoards(ctx)
}

// BoardTexts returns a board's extracted text items.
func (g *Gateway) BoardTexts(ctx context.Context, boardID string) ([]string, error) {
	return g.boards.BoardTexts(ctx, boardID)
}

// FindCalls matches recorded calls in [from, to] against a customer
// name. Zero times mean no bound.
func (g *Gateway) FindCalls(ctx context.Context, customer string, from, to time.Time) ([]callmatch.Match, error) {
	calls, err := g.calls.ListCalls(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return callmatch.Find(calls, customer), nil
}
