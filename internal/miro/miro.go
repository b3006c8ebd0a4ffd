// Package miro is the whiteboard platform client: boards, board items
// with cursor pagination, and per-type text extraction.
package miro

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sih3rron/boardcall/internal/normalize"
	"github.com/sih3rron/boardcall/internal/rest"
)

// DefaultBaseURL is the platform's REST endpoint.
const DefaultBaseURL = "https://api.miro.com"

const pageSize = 50

// Board is one whiteboard.
type Board struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Item is one widget on a board. Data fields are populated differently
// per item type; extraction rules live in Text.
type Item struct {
	ID   string   `json:"id"`
	Type string   `json:"type"`
	Data ItemData `json:"data"`
}

// ItemData carries the type-specific content of an item.
type ItemData struct {
	Content string `json:"content,omitempty"`
	Title   string `json:"title,omitempty"`
}

// Text extracts the displayable text of an item. Text, sticky notes,
// and cards carry content (cards fall back to their title); frames only
// have a title; shapes may have label content. Unknown types yield "".
// Output is normalized: markup stripped, entities decoded, whitespace
// collapsed.
func Text(item Item) string {
	var raw string
	switch item.Type {
	case "text", "sticky_note", "shape":
		raw = item.Data.Content
	case "card":
		raw = item.Data.Content
		if raw == "" {
			raw = item.Data.Title
		}
	case "frame":
		raw = item.Data.Title
	default:
		return ""
	}
	return normalize.Text(raw)
}

// Client calls the whiteboard REST API with a bearer token.
type Client struct {
	rest *rest.Client
}

// NewClient returns a client for the given base URL ("" for the
// platform default) authenticated with token.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{rest: rest.NewClient(baseURL, rest.BearerAuth{Token: token})}
}

// SetRetry overrides the transport retry policy.
func (c *Client) SetRetry(maxAttempts int, maxDelay time.Duration) {
	c.rest.MaxRetries = maxAttempts
	c.rest.MaxDelay = maxDelay
}

type boardsPage struct {
	Data   []Board `json:"data"`
	Cursor string  `json:"cursor,omitempty"`
}

type itemsPage struct {
	Data   []Item `json:"data"`
	Cursor string `json:"cursor,omitempty"`
}

// ListBoards returns all boards the token can see, following cursors.
func (c *Client) ListBoards(ctx context.Context) ([]Board, error) {
	var boards []Board
	cursor := ""
	for {
		params := url.Values{}
		params.Set("limit", fmt.Sprint(pageSize))
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var page boardsPage
		if err := c.rest.GetJSON(ctx, "miro.boards.list", "/v2/boards?"+params.Encode(), &page); err != nil {
			return nil, err
		}
		boards = append(boards, page.Data...)
		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}
	return boards, nil
}

// BoardItems returns every item on a board, following cursors.
func (c *Client) BoardItems(ctx context.Context, boardID string) ([]Item, error) {
	var items []Item
	cursor := ""
	for {
		params := url.Values{}
		params.Set("limit", fmt.Sprint(pageSize))
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		path := fmt.Sprintf("/v2/boards/%s/items?%s", url.PathEscape(boardID), params.Encode())
		var page itemsPage
		if err := c.rest.GetJSON(ctx, "miro.items.list", path, &page); err != nil {
			return nil, err
		}
		items = append(items, page.Data...)
		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}
	return items, nil
}

// BoardTexts returns the ordered, normalized, non-empty text of every
// item on a board: the raw content shape the analysis pipeline consumes.
func (c *Client) BoardTexts(ctx context.Context, boardID string) ([]string, error) {
	items, err := c.BoardItems(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return Texts(items), nil
}

// Texts extracts normalized non-empty text from items in source order.
func Texts(items []Item) []string {
	var texts []string
	for _, item := range items {
		if t := Text(item); t != "" {
			texts = append(texts, t)
		}
	}
	return texts
}
