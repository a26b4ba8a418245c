package controllers

import (
	"context"
	"testing"
	"time"

	"github.com/amaumene/mediashelf/internal/models"
	"github.com/amaumene/mediashelf/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityFeed(t *testing.T) {
	f := newFixture(t, models.GraphFollow)
	me := f.user(t, "Me")
	bob := f.user(t, "Bob")
	stranger := f.user(t, "Stranger")
	f.connect(t, me, bob)

	f.movies.items["1"] = content(models.CategoryMovie, "1", "Alien")
	f.own(t, me, "1", models.CategoryMovie, models.StatusCompleted)
	f.own(t, bob, "2", models.CategoryGame, models.StatusDropped)
	f.own(t, stranger, "3", models.CategoryGame, models.StatusInProgress)

	c := NewActivityController(f.db, f.resolver, utils.NewNopLogger())
	feed, err := c.Activity(context.Background(), me, 0, 1, 10)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	byItem := map[string]ActivityView{}
	for _, v := range feed {
		byItem[v.Content.ExternalID] = v
	}
	require.Contains(t, byItem, "1")
	require.Contains(t, byItem, "2")
	assert.Equal(t, "finished", byItem["1"].ActionType)
	assert.Equal(t, "Alien", byItem["1"].Content.Title)
	assert.Equal(t, "dropped", byItem["2"].ActionType)
	assert.Equal(t, "Content 2", byItem["2"].Content.Title)
	assert.Equal(t, "Bob", byItem["2"].User.Name)
	assert.Equal(t, models.PlaceholderAvatar, byItem["2"].User.Avatar)
	assert.Nil(t, byItem["2"].SharedCount)

	page, err := c.Activity(context.Background(), me, 0, 2, 1)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	own, err := c.Activity(context.Background(), me, stranger.UserID, 1, 10)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "started", own[0].ActionType)

	_, err = c.Activity(context.Background(), me, 999, 1, 10)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestNetworkActivitySharedCounts(t *testing.T) {
	f := newFixture(t, models.GraphFollow)
	me := f.user(t, "Me")
	bob := f.user(t, "Bob")
	f.connect(t, me, bob)

	f.own(t, me, "1", models.CategoryMovie, models.StatusCompleted)
	f.own(t, bob, "1", models.CategoryMovie, models.StatusPending)
	f.own(t, bob, "2", models.CategoryMovie, models.StatusPending)

	c := NewActivityController(f.db, f.resolver, utils.NewNopLogger())
	c.now = func() time.Time { return time.Now().Add(3 * time.Hour) }

	feed, err := c.NetworkActivity(context.Background(), me, 1, 10)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	for _, v := range feed {
		assert.Equal(t, bob.UserID, v.User.ID)
		require.NotNil(t, v.SharedCount)
		assert.Equal(t, 1, *v.SharedCount)
		assert.Equal(t, "3 hours ago", v.TimeAgo)
	}
}
