package rawg

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/amaumene/mediashelf/internal/models"
	"github.com/amaumene/mediashelf/internal/services/catalog"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/iter"
)

const (
	DefaultBaseURL = "https://api.rawg.io/api"

	searchLimit = 20
)

// Summarizer provides a fallback description by title
type Summarizer interface {
	Summary(ctx context.Context, title string) (string, error)
}

// Client talks to the RAWG games API
type Client struct {
	baseURL     string
	apiKey      string
	concurrency int
	fetcher     *catalog.Fetcher
	summarizer  Summarizer
	logger      *logrus.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another host, used by tests
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithConcurrency bounds the detail lookups made per search
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// NewClient creates a RAWG client. summarizer may be nil.
func NewClient(apiKey string, fetcher *catalog.Fetcher, summarizer Summarizer, logger *logrus.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		apiKey:      apiKey,
		concurrency: 8,
		fetcher:     fetcher,
		summarizer:  summarizer,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type named struct {
	Name string `json:"name"`
}

type game struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Released        string  `json:"released"`
	BackgroundImage string  `json:"background_image"`
	Genres          []named `json:"genres"`
	Platforms       []struct {
		Platform named `json:"platform"`
	} `json:"platforms"`
}

type gameDetail struct {
	game
	DescriptionRaw string  `json:"description_raw"`
	Developers     []named `json:"developers"`
}

type searchResponse struct {
	Results []game `json:"results"`
}

func (c *Client) url(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", c.apiKey)
	return c.baseURL + path + "?" + params.Encode()
}

// Search looks up games and resolves each description concurrently.
// A failed description lookup never drops the game.
func (c *Client) Search(ctx context.Context, query string) []models.Content {
	params := url.Values{}
	params.Set("search", query)
	params.Set("page_size", strconv.Itoa(searchLimit))

	var resp searchResponse
	if err := c.fetcher.GetJSON(ctx, c.url("/games", params), nil, &resp); err != nil {
		c.logger.WithFields(logrus.Fields{
			"provider": "rawg",
			"query":    query,
		}).WithError(err).Warn("RAWG search failed")
		return []models.Content{}
	}

	results := resp.Results
	if len(results) > searchLimit {
		results = results[:searchLimit]
	}

	mapper := iter.Mapper[game, models.Content]{MaxGoroutines: c.concurrency}
	return mapper.Map(results, func(g *game) models.Content {
		item := toContent(*g)
		item.Description = c.describe(ctx, g.ID, g.Name)
		item.Normalize()
		return item
	})
}

// FetchByID retrieves one game with its developers and description
func (c *Client) FetchByID(ctx context.Context, externalID string) (*models.Content, error) {
	if _, err := strconv.Atoi(externalID); err != nil {
		return nil, fmt.Errorf("rawg game %q: %w", externalID, catalog.ErrNotFound)
	}
	var d gameDetail
	if err := c.fetcher.GetJSON(ctx, c.url("/games/"+externalID, nil), nil, &d); err != nil {
		return nil, err
	}

	item := toContent(d.game)
	if item.ExternalID == "0" {
		item.ExternalID = externalID
	}
	item.Description = d.DescriptionRaw
	if strings.TrimSpace(item.Description) == "" {
		item.Description = c.summary(ctx, d.Name)
	}
	developers := make([]string, 0, len(d.Developers))
	for _, dev := range d.Developers {
		developers = append(developers, dev.Name)
	}
	item.Author = strings.Join(developers, ", ")
	item.Normalize()
	return &item, nil
}

// describe tries the game detail first and the summarizer second
func (c *Client) describe(ctx context.Context, id int, title string) string {
	var d gameDetail
	err := c.fetcher.GetJSON(ctx, c.url("/games/"+strconv.Itoa(id), nil), nil, &d)
	if err == nil && strings.TrimSpace(d.DescriptionRaw) != "" {
		return d.DescriptionRaw
	}
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"provider": "rawg",
			"game_id":  id,
		}).WithError(err).Debug("RAWG detail lookup failed")
	}
	return c.summary(ctx, title)
}

func (c *Client) summary(ctx context.Context, title string) string {
	if c.summarizer == nil || title == "" {
		return ""
	}
	text, err := c.summarizer.Summary(ctx, title)
	if err != nil {
		c.logger.WithField("title", title).WithError(err).Debug("Summary lookup failed")
		return ""
	}
	return text
}

func toContent(g game) models.Content {
	genres := make([]string, 0, len(g.Genres))
	for _, genre := range g.Genres {
		genres = append(genres, genre.Name)
	}
	platforms := make([]string, 0, len(g.Platforms))
	for _, p := range g.Platforms {
		platforms = append(platforms, p.Platform.Name)
	}
	return models.Content{
		ExternalID:  strconv.Itoa(g.ID),
		Category:    models.CategoryGame,
		Title:       g.Name,
		ImageURL:    models.StringPtr(g.BackgroundImage),
		Genres:      genres,
		ReleaseDate: models.StringPtr(g.Released),
		Platforms:   platforms,
	}
}
