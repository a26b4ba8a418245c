package controllers

import (
	"context"
	"testing"

	"github.com/amaumene/mediashelf/internal/models"
	"github.com/amaumene/mediashelf/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleFollowOnlyInFollowMode(t *testing.T) {
	f := newFixture(t, models.GraphFollow)
	me := f.user(t, "Me")
	bob := f.user(t, "Bob")
	c := NewSocialController(f.db, f.resolver, utils.NewNopLogger())
	ctx := context.Background()

	on, err := c.ToggleFollow(ctx, me, bob.UserID)
	require.NoError(t, err)
	assert.True(t, on)

	off, err := c.ToggleFollow(ctx, me, bob.UserID)
	require.NoError(t, err)
	assert.False(t, off)

	_, err = c.ToggleFollow(ctx, me, me.UserID)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.ErrorIs(t, c.AddFriend(ctx, me, bob.UserID), models.ErrValidation)
}

func TestAddFriendOnlyInFriendsMode(t *testing.T) {
	f := newFixture(t, models.GraphFriends)
	me := f.user(t, "Me")
	ana := f.user(t, "Ana")
	c := NewSocialController(f.db, f.resolver, utils.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, c.AddFriend(ctx, me, ana.UserID))
	assert.ErrorIs(t, c.AddFriend(ctx, ana, me.UserID), models.ErrConflict)
	_, err := c.ToggleFollow(ctx, me, ana.UserID)
	assert.ErrorIs(t, err, models.ErrValidation)

	require.NoError(t, c.RemoveConnection(ctx, ana, me.UserID))
	assert.ErrorIs(t, c.RemoveConnection(ctx, ana, me.UserID), models.ErrNotFound)
}

func TestConnectionsCarryTotalsAndLastActivity(t *testing.T) {
	f := newFixture(t, models.GraphFollow)
	me := f.user(t, "Me")
	bob := f.user(t, "Bob")
	quiet := f.user(t, "Quiet")
	f.connect(t, me, bob)
	f.connect(t, me, quiet)

	f.own(t, me, "1", models.CategoryMovie, models.StatusCompleted)
	f.own(t, bob, "1", models.CategoryMovie, models.StatusCompleted)

	c := NewSocialController(f.db, f.resolver, utils.NewNopLogger())
	following, err := c.Following(context.Background(), me, me.UserID, 1, 10)
	require.NoError(t, err)
	require.Len(t, following, 2)

	// ordered by name
	assert.Equal(t, "Bob", following[0].Name)
	assert.Equal(t, 1, following[0].TotalItems)
	assert.Equal(t, 1, following[0].SharedCount)
	require.NotNil(t, following[0].LastActivity)
	assert.Equal(t, "Content 1", following[0].LastActivity.Title)
	assert.Equal(t, "finished", following[0].LastActivity.ActionType)

	assert.Equal(t, "Quiet", following[1].Name)
	assert.Zero(t, following[1].TotalItems)
	assert.Nil(t, following[1].LastActivity)

	followers, err := c.Followers(context.Background(), me, bob.UserID, 1, 10)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, me.UserID, followers[0].ID)

	_, err = c.Followers(context.Background(), me, 999, 1, 10)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSharedCount(t *testing.T) {
	f := newFixture(t, models.GraphFollow)
	me := f.user(t, "Me")
	bob := f.user(t, "Bob")
	f.own(t, me, "1", models.CategoryBook, models.StatusPending)
	f.own(t, bob, "1", models.CategoryBook, models.StatusPending)

	c := NewSocialController(f.db, f.resolver, utils.NewNopLogger())
	n, err := c.SharedCount(context.Background(), me, bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = c.SharedCount(context.Background(), me, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
