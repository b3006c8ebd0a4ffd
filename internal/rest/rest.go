// Package rest is the shared HTTP base for the platform clients:
// authenticated JSON requests with bounded retry on rate limits and
// upstream failures.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// Retry policy defaults.
const (
	DefaultMaxRetries = 3
	DefaultMaxDelay   = 60 * time.Second
	baseDelay         = time.Second
)

// APIError reports an upstream failure with enough context for the
// caller to render or classify it.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: upstream status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Retryable reports whether repeating the call might succeed.
func (e *APIError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// Auth sets request credentials. Bearer and Basic cover both platforms.
type Auth interface {
	apply(req *http.Request)
}

// BearerAuth sends an OAuth bearer token.
type BearerAuth struct{ Token string }

func (a BearerAuth) apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+a.Token)
}

// BasicAuth sends access-key credentials.
type BasicAuth struct{ Key, Secret string }

func (a BasicAuth) apply(req *http.Request) {
	req.SetBasicAuth(a.Key, a.Secret)
}

// Client issues JSON requests against one platform's base URL.
type Client struct {
	BaseURL    string
	Auth       Auth
	HTTPClient *http.Client
	MaxRetries int
	MaxDelay   time.Duration

	// sleep is swappable in tests.
	sleep func(time.Duration)
}

// NewClient returns a client with the default retry policy.
func NewClient(baseURL string, auth Auth) *Client {
	return &Client{
		BaseURL:    baseURL,
		Auth:       auth,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		MaxRetries: DefaultMaxRetries,
		MaxDelay:   DefaultMaxDelay,
		sleep:      time.Sleep,
	}
}

// GetJSON issues a GET and decodes the response body into out.
// Rate-limited (429) and server-error responses are retried with
// exponential backoff and jitter, honoring a Retry-After hint when the
// server supplies one; after the retry budget is exhausted the last
// error is returned unmodified.
func (c *Client) GetJSON(ctx context.Context, op, path string, out any) error {
	body, err := c.Get(ctx, op, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// Get issues a GET and returns the raw response body. Callers that
// cache pages use this form so the cached payload stays opaque bytes.
func (c *Client) Get(ctx context.Context, op, path string) ([]byte, error) {
	return c.do(ctx, op, http.MethodGet, path, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, reqBody io.Reader) ([]byte, error) {
	var lastErr error

	retries := c.MaxRetries
	if retries < 0 {
		retries = 0
	}

	for attempt := 0; attempt <= retries; attempt++ {
		body, retryAfter, err := c.once(ctx, op, method, path, reqBody)
		if err == nil {
			return body, nil
		}
		lastErr = err

		apiErr, ok := err.(*APIError)
		if !ok || !apiErr.Retryable() || attempt == retries {
			break
		}

		delay := c.backoff(attempt, retryAfter)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		c.sleep(delay)
	}

	return nil, lastErr
}

func (c *Client) once(ctx context.Context, op, method, path string, reqBody io.Reader) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.Auth != nil {
		c.Auth.apply(req)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, &APIError{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &APIError{Op: op, Status: resp.StatusCode, Message: "read response: " + err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), &APIError{
			Op:      op,
			Status:  resp.StatusCode,
			Message: trimBody(body),
		}
	}

	return body, 0, nil
}

// backoff returns the delay before the next attempt: the server's
// Retry-After hint when present, otherwise exponential with jitter.
// Either way the delay never exceeds MaxDelay.
func (c *Client) backoff(attempt int, retryAfter time.Duration) time.Duration {
	delay := retryAfter
	if delay <= 0 {
		delay = baseDelay << attempt
		delay += time.Duration(rand.Int63n(int64(baseDelay)))
	}
	if max := c.MaxDelay; max > 0 && delay > max {
		delay = max
	}
	return delay
}

// parseRetryAfter handles both the delta-seconds and HTTP-date forms.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(value); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// trimBody keeps error messages readable when the upstream returns a page.
func trimBody(body []byte) string {
	const max = 200
	s := string(body)
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
