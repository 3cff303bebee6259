package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/spotx/internal/shared"
)

// Page is one page of a paginated collection.
type Page[T any] struct {
	Href     string  `json:"href"`
	Items    []T     `json:"items"`
	Limit    int     `json:"limit"`
	Next     *string `json:"next"`
	Offset   int     `json:"offset"`
	Previous *string `json:"previous"`
	Total    int     `json:"total"`
}

// HasNext reports whether the page carries a cursor to another page.
func (p *Page[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// get performs an authorized GET and returns the JSON body of a successful response.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range c.headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	c.tokens.authorize(req)

	c.logger.Debug("GET", "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return nil, &ProtocolError{URL: url, ContentType: contentType, Err: shared.ErrNotJSON}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if !json.Valid(body) {
		return nil, &ProtocolError{URL: url, ContentType: contentType, Err: fmt.Errorf("%w: malformed body", shared.ErrNotJSON)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newRemoteError(url, resp.StatusCode, body)
	}

	return body, nil
}

// getJSON fetches url and decodes the body into a T.
func getJSON[T any](ctx context.Context, c *Client, url string) (*T, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, &ProtocolError{URL: url, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return &v, nil
}

// fetchPages fetches the page at url and, when all is set, every page after it.
func fetchPages[T any](ctx context.Context, c *Client, url string, all bool) ([]T, error) {
	page, err := getJSON[Page[T]](ctx, c, url)
	if err != nil {
		return nil, err
	}

	if all {
		if err := followPages(ctx, c, page, url); err != nil {
			return nil, err
		}
	}
	return page.Items, nil
}

// followPages walks page's next cursor until it runs out, appending each page's items to
// page.Items and advancing page.Next. A cursor pointing at an already consumed page ends the walk.
func followPages[T any](ctx context.Context, c *Client, page *Page[T], origin string) error {
	seen := map[string]bool{origin: true}

	for page.HasNext() {
		next := *page.Next
		if seen[next] {
			c.logger.Warn("pagination cursor repeats a consumed page", "url", next)
			page.Next = nil
			return nil
		}
		seen[next] = true

		c.logger.Debug("following page", "url", next, "items", len(page.Items))

		more, err := getJSON[Page[T]](ctx, c, next)
		if err != nil {
			return err
		}
		page.Items = append(page.Items, more.Items...)
		page.Next = more.Next
	}
	return nil
}
