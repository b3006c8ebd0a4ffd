// Package gong is the call-analytics platform client. Call listing is
// cursor-paginated and each page is served through the pagination
// cache, keyed by endpoint plus serialized query parameters.
package gong

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/sih3rron/boardcall/internal/cache"
	"github.com/sih3rron/boardcall/internal/callmatch"
	"github.com/sih3rron/boardcall/internal/rest"
)

// DefaultBaseURL is the platform's REST endpoint.
const DefaultBaseURL = "https://api.gong.io"

const callsPath = "/v2/calls"

// Client calls the platform API with access-key credentials.
type Client struct {
	rest  *rest.Client
	cache *cache.Cache
}

// NewClient returns a client for the given base URL ("" for the
// platform default). pages may be nil to disable page caching.
func NewClient(baseURL, accessKey, secret string, pages *cache.Cache) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		rest:  rest.NewClient(baseURL, rest.BasicAuth{Key: accessKey, Secret: secret}),
		cache: pages,
	}
}

// SetRetry overrides the transport retry policy.
func (c *Client) SetRetry(maxAttempts int, maxDelay time.Duration) {
	c.rest.MaxRetries = maxAttempts
	c.rest.MaxDelay = maxDelay
}

type wireCall struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Started       string   `json:"started"`
	PrimaryUserID string   `json:"primaryUserId"`
	Duration      int      `json:"duration"`
	Parties       []string `json:"parties"`
}

type callsPage struct {
	Calls   []wireCall `json:"calls"`
	Records struct {
		Cursor string `json:"cursor,omitempty"`
	} `json:"records"`
}

// ListCalls returns all calls in [from, to], following cursors. Zero
// times omit the corresponding bound.
func (c *Client) ListCalls(ctx context.Context, from, to time.Time) ([]callmatch.Call, error) {
	var calls []callmatch.Call
	cursor := ""
	for {
		params := url.Values{}
		if !from.IsZero() {
			params.Set("fromDateTime", from.UTC().Format(time.RFC3339))
		}
		if !to.IsZero() {
			params.Set("toDateTime", to.UTC().Format(time.RFC3339))
		}
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		page, err := c.callsPage(ctx, params)
		if err != nil {
			return nil, err
		}

		for _, wc := range page.Calls {
			call, err := wc.decode()
			if err != nil {
				return nil, fmt.Errorf("gong.calls.list: %w", err)
			}
			calls = append(calls, call)
		}

		if page.Records.Cursor == "" {
			break
		}
		cursor = page.Records.Cursor
	}
	return calls, nil
}

// callsPage fetches one page, consulting the cache first. Cache errors
// never fail the request; a page that can't be stored is just refetched
// next time.
func (c *Client) callsPage(ctx context.Context, params url.Values) (*callsPage, error) {
	key := cache.Key(callsPath, params)

	var body []byte
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			body = cached
		}
	}

	if body == nil {
		fetched, err := c.rest.Get(ctx, "gong.calls.list", callsPath+"?"+params.Encode())
		if err != nil {
			return nil, err
		}
		body = fetched
		if c.cache != nil {
			// Best effort; a page that can't be stored is refetched.
			_ = c.cache.Put(key, body)
		}
	}

	var page callsPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("gong.calls.list: decode page: %w", err)
	}
	return &page, nil
}

func (wc wireCall) decode() (callmatch.Call, error) {
	var started time.Time
	if wc.Started != "" {
		t, err := time.Parse(time.RFC3339, wc.Started)
		if err != nil {
			return callmatch.Call{}, fmt.Errorf("call %s: bad start time %q: %w", wc.ID, wc.Started, err)
		}
		started = t
	}
	return callmatch.Call{
		ID:            wc.ID,
		Title:         wc.Title,
		URL:           wc.URL,
		Started:       started,
		PrimaryUserID: wc.PrimaryUserID,
		Duration:      wc.Duration,
		Parties:       wc.Parties,
	}, nil
}
