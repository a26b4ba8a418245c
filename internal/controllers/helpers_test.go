package controllers

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/amaumene/mediashelf/internal/models"
	"github.com/amaumene/mediashelf/internal/services/catalog"
	"github.com/amaumene/mediashelf/internal/utils"
	"github.com/stretchr/testify/require"
)

// fakeAdapter serves canned content; items, failing and panics are read-only
// once a test starts.
type fakeAdapter struct {
	category models.Category
	results  []models.Content
	items    map[string]models.Content
	failing  map[string]error
	panics   map[string]bool
}

func (f *fakeAdapter) Search(ctx context.Context, query string) []models.Content {
	return f.results
}

func (f *fakeAdapter) FetchByID(ctx context.Context, externalID string) (*models.Content, error) {
	if f.panics[externalID] {
		panic("boom " + externalID)
	}
	if err, ok := f.failing[externalID]; ok {
		return nil, err
	}
	item, ok := f.items[externalID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", externalID, catalog.ErrNotFound)
	}
	return &item, nil
}

func content(category models.Category, id, title string) models.Content {
	c := models.Content{
		ExternalID: id,
		Category:   category,
		Title:      title,
		ImageURL:   models.StringPtr("https://img.test/" + id + ".jpg"),
	}
	c.Normalize()
	return c
}

type fixture struct {
	db       *models.Database
	movies   *fakeAdapter
	series   *fakeAdapter
	books    *fakeAdapter
	games    *fakeAdapter
	registry *catalog.Registry
	resolver *Resolver
}

func newFixture(t *testing.T, mode models.GraphMode) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := models.NewDatabase(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), mode, utils.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		db:     db,
		movies: &fakeAdapter{category: models.CategoryMovie, items: map[string]models.Content{}},
		series: &fakeAdapter{category: models.CategorySeries, items: map[string]models.Content{}},
		books:  &fakeAdapter{category: models.CategoryBook, items: map[string]models.Content{}},
		games:  &fakeAdapter{category: models.CategoryGame, items: map[string]models.Content{}},
	}
	f.registry = catalog.NewRegistry(f.movies, f.series, f.books, f.games)
	f.resolver = NewResolver(f.registry, 4, utils.NewNopLogger())
	return f
}

func (f *fixture) user(t *testing.T, name string) models.Identity {
	t.Helper()
	u := &models.User{Email: models.DefaultUsername(name) + "@example.com", Name: name}
	require.NoError(t, f.db.CreateUser(context.Background(), u))
	return models.Identity{UserID: u.ID, Email: u.Email}
}

func (f *fixture) own(t *testing.T, who models.Identity, id string, category models.Category, status models.Status) *models.UserItem {
	t.Helper()
	item, _, err := f.db.AddItem(context.Background(), who.UserID, id, category, status)
	require.NoError(t, err)
	return item
}

func (f *fixture) connect(t *testing.T, from, to models.Identity) {
	t.Helper()
	require.NoError(t, f.db.Connect(context.Background(), from.UserID, to.UserID))
}
