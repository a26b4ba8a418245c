// Package wikipedia fetches short article summaries used as a fallback
// description source.
package wikipedia

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/amaumene/mediashelf/internal/services/catalog"
)

// Client reads the Wikipedia REST summary endpoint
type Client struct {
	baseURL string
	fetcher *catalog.Fetcher
}

// NewClient creates a client for the wiki of language (e.g. "es")
func NewClient(language string, fetcher *catalog.Fetcher) *Client {
	return &Client{
		baseURL: fmt.Sprintf("https://%s.wikipedia.org/api/rest_v1", language),
		fetcher: fetcher,
	}
}

// WithBaseURL overrides the REST root, used by tests
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

type summaryResponse struct {
	Type    string `json:"type"`
	Extract string `json:"extract"`
}

// Summary returns the lead extract of the article titled title.
// Disambiguation pages and empty extracts count as not found.
func (c *Client) Summary(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("empty title: %w", catalog.ErrNotFound)
	}
	path := url.PathEscape(strings.ReplaceAll(title, " ", "_"))

	var resp summaryResponse
	if err := c.fetcher.GetJSON(ctx, c.baseURL+"/page/summary/"+path, nil, &resp); err != nil {
		return "", err
	}
	if resp.Type == "disambiguation" || strings.TrimSpace(resp.Extract) == "" {
		return "", fmt.Errorf("wikipedia %q: %w", title, catalog.ErrNotFound)
	}
	return resp.Extract, nil
}
