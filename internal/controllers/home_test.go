package controllers

import (
	"context"
	"testing"

	"github.com/amaumene/mediashelf/internal/models"
	"github.com/amaumene/mediashelf/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrendingRanksByHoldersWithFallbackTitles(t *testing.T) {
	f := newFixture(t, models.GraphFollow)
	me := f.user(t, "Me")
	bob := f.user(t, "Bob")
	cat := f.user(t, "Cat")
	f.connect(t, me, bob)
	f.connect(t, me, cat)

	f.movies.items["10"] = content(models.CategoryMovie, "10", "Heat")
	f.own(t, bob, "10", models.CategoryMovie, models.StatusCompleted)
	f.own(t, cat, "10", models.CategoryMovie, models.StatusPending)
	f.own(t, cat, "99", models.CategoryGame, models.StatusPending)

	logger := utils.NewNopLogger()
	collection := NewCollectionController(f.db, f.resolver, logger)
	c := NewHomeController(f.db, f.resolver, collection, logger)

	trending, err := c.Trending(context.Background(), me, 0)
	require.NoError(t, err)
	require.Len(t, trending, 2)

	assert.Equal(t, "10", trending[0].ExternalID)
	assert.Equal(t, "Heat", trending[0].Title)
	assert.Equal(t, 2, trending[0].HolderCount)
	require.NotNil(t, trending[0].ImageURL)

	assert.Equal(t, "99", trending[1].ExternalID)
	assert.Equal(t, "Content 99", trending[1].Title)
	assert.Nil(t, trending[1].ImageURL)
	assert.Equal(t, 1, trending[1].HolderCount)
}

func TestTrendingWithoutNetworkIsEmpty(t *testing.T) {
	f := newFixture(t, models.GraphFollow)
	me := f.user(t, "Me")
	f.own(t, me, "1", models.CategoryMovie, models.StatusPending)

	logger := utils.NewNopLogger()
	c := NewHomeController(f.db, f.resolver, NewCollectionController(f.db, f.resolver, logger), logger)
	trending, err := c.Trending(context.Background(), me, 5)
	require.NoError(t, err)
	assert.Empty(t, trending)
}

func TestCurrentAndWatchlist(t *testing.T) {
	f := newFixture(t, models.GraphFollow)
	me := f.user(t, "Me")
	f.own(t, me, "1", models.CategorySeries, models.StatusInProgress)
	f.own(t, me, "2", models.CategoryBook, models.StatusPending)
	f.own(t, me, "3", models.CategoryBook, models.StatusPending)

	logger := utils.NewNopLogger()
	c := NewHomeController(f.db, f.resolver, NewCollectionController(f.db, f.resolver, logger), logger)

	current, err := c.Current(context.Background(), me)
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, "1", current[0].ExternalID)

	watchlist, err := c.Watchlist(context.Background(), me)
	require.NoError(t, err)
	assert.Len(t, watchlist, 2)
}
