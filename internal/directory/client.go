package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Kind classifies a sheet fetch failure.
type Kind int

const (
	// KindNetwork covers transport errors, timeouts and non-2xx statuses.
	KindNetwork Kind = iota + 1
	// KindInvalidResponse means the body was not valid JSON.
	KindInvalidResponse
	// KindServer means the endpoint returned an explicit error field.
	KindServer
	// KindUnexpectedShape means well-formed JSON that matches no known shape.
	KindUnexpectedShape
	// KindNotFound means no directory row matched the lookup key.
	KindNotFound
)

// Error is a classified directory failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// IsKind reports whether err is a directory Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}

// Options tunes a Client. Zero values fall back to the defaults the
// upstream gateway expects.
type Options struct {
	Timeout    time.Duration // per-fetch bound, default 8s
	CacheTTL   time.Duration // memoization window, default 60s
	HTTPClient *http.Client
}

// Client fetches rows from the sheet gateway. A fetch is a single bounded
// GET with no retries; failures surface to the caller as *Error.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
	cache      *fetchCache
}

// New creates a Client for the given endpoint.
func New(endpoint, token string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 8 * time.Second
	}
	ttl := opts.CacheTTL
	if ttl == 0 {
		ttl = 60 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		url:        endpoint,
		token:      token,
		httpClient: hc,
		cache:      newFetchCache(ttl),
	}
}

// Fetch retrieves the given sheet (empty string for the default sheet) and
// returns its entries: object rows as Row, positional rows as []any.
// Successful results are memoized per (url, token, sheet) for the cache TTL.
func (c *Client) Fetch(ctx context.Context, sheet string) ([]any, error) {
	if c.url == "" {
		return nil, &Error{Kind: KindNetwork, Message: "sheet endpoint URL not configured"}
	}

	key := c.url + "|" + c.token + "|" + sheet
	if entries, ok := c.cache.get(key); ok {
		return entries, nil
	}

	entries, err := c.fetch(ctx, sheet)
	if err != nil {
		return nil, err
	}

	c.cache.put(key, entries)
	return entries, nil
}

func (c *Client) fetch(ctx context.Context, sheet string) ([]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: fmt.Sprintf("building request: %v", err)}
	}

	q := url.Values{}
	if c.token != "" {
		q.Set("token", c.token)
	}
	if sheet != "" {
		q.Set("sheet", sheet)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: fmt.Sprintf("network error: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: fmt.Sprintf("reading response: %v", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Kind: KindNetwork, Message: fmt.Sprintf("unexpected status %d from sheet endpoint", resp.StatusCode)}
	}

	return classify(body)
}

// classify maps a response body onto the recognized shapes: an object with
// an error field, an object with a data array, or a bare array.
func classify(body []byte) ([]any, error) {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &Error{Kind: KindInvalidResponse, Message: "invalid JSON returned from sheet endpoint"}
	}

	switch v := parsed.(type) {
	case map[string]any:
		if msg, ok := v["error"]; ok {
			return nil, &Error{Kind: KindServer, Message: fmt.Sprintf("server error: %v", msg)}
		}
		if _, ok := v["data"]; ok {
			var wrapper struct {
				Data []json.RawMessage `json:"data"`
			}
			if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Data != nil {
				entries, err := decodeEntries(wrapper.Data)
				if err != nil {
					return nil, &Error{Kind: KindInvalidResponse, Message: fmt.Sprintf("decoding data rows: %v", err)}
				}
				return entries, nil
			}
		}
		return nil, &Error{Kind: KindUnexpectedShape, Message: "unexpected response from sheet endpoint"}
	case []any:
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, &Error{Kind: KindInvalidResponse, Message: fmt.Sprintf("decoding rows: %v", err)}
		}
		entries, err := decodeEntries(items)
		if err != nil {
			return nil, &Error{Kind: KindInvalidResponse, Message: fmt.Sprintf("decoding rows: %v", err)}
		}
		return entries, nil
	default:
		return nil, &Error{Kind: KindUnexpectedShape, Message: "unexpected response from sheet endpoint"}
	}
}
