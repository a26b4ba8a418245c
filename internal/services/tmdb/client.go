package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/amaumene/mediashelf/internal/models"
	"github.com/amaumene/mediashelf/internal/services/catalog"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"
	ImageBaseURL   = "https://image.tmdb.org/t/p/w500"

	searchLimit = 20
	castLimit   = 10
)

// Client talks to the TMDB v3 API for movies and TV series
type Client struct {
	baseURL  string
	token    string
	language string
	fetcher  *catalog.Fetcher
	genres   *GenreTable
	logger   *logrus.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another host, used by tests
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithLanguage sets the display language of titles, overviews and genres
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

// WithGenreTable shares a genre table between clients
func WithGenreTable(g *GenreTable) Option {
	return func(c *Client) { c.genres = g }
}

// NewClient creates a TMDB client authenticating with a v4 read token
func NewClient(token string, fetcher *catalog.Fetcher, logger *logrus.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		token:    token,
		language: "es-ES",
		fetcher:  fetcher,
		genres:   NewGenreTable(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Genres exposes the genre table
func (c *Client) Genres() *GenreTable {
	return c.genres
}

// Movies returns the adapter for the movie category
func (c *Client) Movies() catalog.Adapter {
	return &adapter{client: c, kind: KindMovie, category: models.CategoryMovie}
}

// Series returns the adapter for the series category
func (c *Client) Series() catalog.Adapter {
	return &adapter{client: c, kind: KindTV, category: models.CategorySeries}
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("language", c.language)
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token)
	return c.fetcher.GetJSON(ctx, c.baseURL+path+"?"+params.Encode(), header, out)
}

type genreListResponse struct {
	Genres []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

// LoadGenres fills the genre table for movies and TV. Concurrent callers
// share a single upstream round trip.
func (c *Client) LoadGenres(ctx context.Context) error {
	_, err, _ := c.genres.load.Do("genres", func() (interface{}, error) {
		var failed []string
		for _, kind := range []Kind{KindMovie, KindTV} {
			var resp genreListResponse
			if err := c.get(ctx, "/genre/"+string(kind)+"/list", nil, &resp); err != nil {
				c.logger.WithError(err).WithField("kind", kind).Warn("Failed to load TMDB genres")
				failed = append(failed, string(kind))
				continue
			}
			table := make(map[int]string, len(resp.Genres))
			for _, g := range resp.Genres {
				table[g.ID] = g.Name
			}
			c.genres.Store(kind, table)
			c.logger.WithFields(logrus.Fields{
				"kind":  kind,
				"count": len(table),
			}).Info("TMDB genres loaded")
		}
		if len(failed) > 0 {
			return nil, fmt.Errorf("failed to load genres for %s", strings.Join(failed, ", "))
		}
		return nil, nil
	})
	return err
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Name         string `json:"name"`
	Overview     string `json:"overview"`
	PosterPath   string `json:"poster_path"`
	GenreIDs     []int  `json:"genre_ids"`
	ReleaseDate  string `json:"release_date"`
	FirstAirDate string `json:"first_air_date"`
}

type person struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type detailResponse struct {
	searchResult
	Genres []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Runtime          int      `json:"runtime"`
	EpisodeRunTime   []int    `json:"episode_run_time"`
	NumberOfEpisodes int      `json:"number_of_episodes"`
	CreatedBy        []person `json:"created_by"`
	Credits          struct {
		Cast []person `json:"cast"`
		Crew []person `json:"crew"`
	} `json:"credits"`
}

func posterURL(path string) *string {
	if path == "" {
		return nil
	}
	u := ImageBaseURL + path
	return &u
}

// adapter is the movie or series view of a Client
type adapter struct {
	client   *Client
	kind     Kind
	category models.Category
}

func (a *adapter) Search(ctx context.Context, query string) []models.Content {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("include_adult", "false")

	var resp searchResponse
	if err := a.client.get(ctx, "/search/"+string(a.kind), params, &resp); err != nil {
		a.client.logger.WithFields(logrus.Fields{
			"provider": "tmdb",
			"kind":     a.kind,
			"query":    query,
		}).WithError(err).Warn("TMDB search failed")
		return []models.Content{}
	}

	results := resp.Results
	if len(results) > searchLimit {
		results = results[:searchLimit]
	}

	items := make([]models.Content, 0, len(results))
	for _, r := range results {
		item := a.base(r)
		item.Genres = a.client.genres.Names(a.kind, r.GenreIDs)
		item.Normalize()
		items = append(items, item)
	}
	return items
}

func (a *adapter) FetchByID(ctx context.Context, externalID string) (*models.Content, error) {
	if _, err := strconv.Atoi(externalID); err != nil {
		return nil, fmt.Errorf("tmdb %s %q: %w", a.kind, externalID, catalog.ErrNotFound)
	}
	params := url.Values{}
	params.Set("append_to_response", "credits")

	var resp detailResponse
	if err := a.client.get(ctx, "/"+string(a.kind)+"/"+externalID, params, &resp); err != nil {
		return nil, err
	}

	item := a.base(resp.searchResult)
	for _, g := range resp.Genres {
		item.Genres = append(item.Genres, g.Name)
	}
	for i, p := range resp.Credits.Cast {
		if i == castLimit {
			break
		}
		item.Cast = append(item.Cast, p.Name)
	}

	switch a.kind {
	case KindMovie:
		item.Author = strings.Join(crewWithJob(resp.Credits.Crew, "Director"), ", ")
		item.Runtime = models.IntPtr(resp.Runtime)
	case KindTV:
		names := make([]string, 0, len(resp.CreatedBy))
		for _, p := range resp.CreatedBy {
			names = append(names, p.Name)
		}
		item.Author = strings.Join(names, ", ")
		item.Count = models.IntPtr(resp.NumberOfEpisodes)
		if len(resp.EpisodeRunTime) > 0 {
			item.Runtime = models.IntPtr(resp.EpisodeRunTime[0])
		}
	}

	item.Normalize()
	return &item, nil
}

func (a *adapter) base(r searchResult) models.Content {
	title, date := r.Title, r.ReleaseDate
	if a.kind == KindTV || title == "" {
		title = firstNonEmpty(r.Name, r.Title)
		date = firstNonEmpty(r.FirstAirDate, r.ReleaseDate)
	}
	return models.Content{
		ExternalID:  strconv.Itoa(r.ID),
		Category:    a.category,
		Title:       title,
		Description: r.Overview,
		ImageURL:    posterURL(r.PosterPath),
		ReleaseDate: models.StringPtr(date),
	}
}

func crewWithJob(crew []person, job string) []string {
	var names []string
	for _, p := range crew {
		if p.Job == job {
			names = append(names, p.Name)
		}
	}
	return names
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
