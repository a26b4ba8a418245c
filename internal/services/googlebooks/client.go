package googlebooks

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/amaumene/mediashelf/internal/models"
	"github.com/amaumene/mediashelf/internal/services/catalog"
	"github.com/amaumene/mediashelf/internal/utils"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/books/v1"

	searchLimit = 30
)

// Client talks to the Google Books volumes API
type Client struct {
	baseURL      string
	apiKey       string
	language     string
	translations *utils.Translations
	fetcher      *catalog.Fetcher
	logger       *logrus.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another host, used by tests
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithLanguage restricts results to a language code such as "es"
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

// WithTranslations sets the category translation table
func WithTranslations(t *utils.Translations) Option {
	return func(c *Client) { c.translations = t }
}

// NewClient creates a Google Books client. apiKey may be empty.
func NewClient(apiKey string, fetcher *catalog.Fetcher, logger *logrus.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		apiKey:       apiKey,
		language:     "es",
		translations: utils.NewTranslations(utils.DefaultGenreTranslations()),
		fetcher:      fetcher,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type volume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title         string   `json:"title"`
		Authors       []string `json:"authors"`
		Description   string   `json:"description"`
		Categories    []string `json:"categories"`
		PublishedDate string   `json:"publishedDate"`
		PageCount     int      `json:"pageCount"`
		ImageLinks    struct {
			Thumbnail      string `json:"thumbnail"`
			SmallThumbnail string `json:"smallThumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

type volumesResponse struct {
	Items []volume `json:"items"`
}

func (c *Client) params() url.Values {
	params := url.Values{}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	return params
}

// Search looks up volumes matching query
func (c *Client) Search(ctx context.Context, query string) []models.Content {
	params := c.params()
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(searchLimit))
	if c.language != "" {
		params.Set("langRestrict", c.language)
	}

	var resp volumesResponse
	if err := c.fetcher.GetJSON(ctx, c.baseURL+"/volumes?"+params.Encode(), nil, &resp); err != nil {
		c.logger.WithFields(logrus.Fields{
			"provider": "googlebooks",
			"query":    query,
		}).WithError(err).Warn("Google Books search failed")
		return []models.Content{}
	}

	items := make([]models.Content, 0, len(resp.Items))
	for i, v := range resp.Items {
		if i == searchLimit {
			break
		}
		items = append(items, c.toContent(v))
	}
	return items
}

// FetchByID retrieves one volume
func (c *Client) FetchByID(ctx context.Context, externalID string) (*models.Content, error) {
	var v volume
	u := c.baseURL + "/volumes/" + url.PathEscape(externalID) + "?" + c.params().Encode()
	if err := c.fetcher.GetJSON(ctx, u, nil, &v); err != nil {
		return nil, err
	}
	if v.ID == "" {
		v.ID = externalID
	}
	item := c.toContent(v)
	return &item, nil
}

func (c *Client) toContent(v volume) models.Content {
	info := v.VolumeInfo

	genres := make([]string, 0, len(info.Categories))
	for _, cat := range info.Categories {
		genres = append(genres, c.translations.Translate(cat))
	}

	image := info.ImageLinks.Thumbnail
	if image == "" {
		image = info.ImageLinks.SmallThumbnail
	}
	image = strings.Replace(image, "http://", "https://", 1)

	item := models.Content{
		ExternalID:  v.ID,
		Category:    models.CategoryBook,
		Title:       info.Title,
		Description: info.Description,
		ImageURL:    models.StringPtr(image),
		Genres:      genres,
		ReleaseDate: models.StringPtr(info.PublishedDate),
		Author:      strings.Join(info.Authors, ", "),
		Count:       models.IntPtr(info.PageCount),
	}
	item.Normalize()
	return item
}
