package controllers

import (
	"context"
	"testing"

	"github.com/amaumene/mediashelf/internal/models"
	"github.com/amaumene/mediashelf/internal/utils"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileTotals(t *testing.T) {
	f := newFixture(t, models.GraphFollow)
	me := f.user(t, "Me")
	bob := f.user(t, "Bob")
	f.connect(t, me, bob)
	f.own(t, bob, "1", models.CategoryMovie, models.StatusPending)
	f.own(t, bob, "2", models.CategoryMovie, models.StatusPending)

	c := NewProfileController(f.db, utils.NewNopLogger())
	ctx := context.Background()

	view, err := c.Profile(ctx, me, bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", view.Name)
	assert.Equal(t, 2, view.TotalItems)
	assert.Equal(t, 1, view.Followers)
	assert.Equal(t, 0, view.Following)
	assert.False(t, view.IsMine)
	assert.True(t, view.IsFollowed)

	mine, err := c.Profile(ctx, me, 0)
	require.NoError(t, err)
	assert.True(t, mine.IsMine)
	assert.Equal(t, 1, mine.Following)

	_, err = c.Profile(ctx, me, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateProfileAndAvatar(t *testing.T) {
	f := newFixture(t, models.GraphFollow)
	me := f.user(t, "Me")
	c := NewProfileController(f.db, utils.NewNopLogger())
	ctx := context.Background()

	bio := "reads a lot"
	user, err := c.UpdateProfile(ctx, me, models.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "reads a lot", user.Bio)
	assert.Equal(t, "Me", user.Name)

	blank := "  "
	_, err = c.UpdateProfile(ctx, me, models.ProfileUpdate{Name: &blank})
	assert.ErrorIs(t, err, models.ErrValidation)

	user, err = c.UpdateAvatar(ctx, me, "avatar7")
	require.NoError(t, err)
	assert.Equal(t, "avatar7", user.AvatarID)

	_, err = c.UpdateAvatar(ctx, me, "")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSearchUsersRanksAndExcludesCaller(t *testing.T) {
	f := newFixture(t, models.GraphFollow)
	me := f.user(t, "Ana")
	anabel := f.user(t, "Anabel")
	ana2 := &models.User{Email: "ana.two@example.com", Name: "Ana", Username: "ana2"}
	require.NoError(t, f.db.CreateUser(context.Background(), ana2))
	f.user(t, "Bob")
	f.connect(t, me, anabel)

	c := NewProfileController(f.db, utils.NewNopLogger())
	matches, err := c.SearchUsers(context.Background(), me, "ana")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, ana2.ID, matches[0].ID)
	assert.False(t, matches[0].IsFollowed)
	assert.Equal(t, anabel.UserID, matches[1].ID)
	assert.True(t, matches[1].IsFollowed)

	empty, err := c.SearchUsers(context.Background(), me, " ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestOtherUsersNeverExposeEmail(t *testing.T) {
	f := newFixture(t, models.GraphFollow)
	me := f.user(t, "Me")
	bob := f.user(t, "Bob Marley")
	c := NewProfileController(f.db, utils.NewNopLogger())
	ctx := context.Background()

	matches, err := c.SearchUsers(ctx, me, "bob")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	body, err := json.Marshal(matches)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "email")
	assert.NotContains(t, string(body), "@example.com")

	// searching by the email address finds nobody
	matches, err = c.SearchUsers(ctx, me, "bobmarley@example.com")
	require.NoError(t, err)
	assert.Empty(t, matches)

	other, err := c.Profile(ctx, me, bob.UserID)
	require.NoError(t, err)
	body, err = json.Marshal(other)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "email")

	mine, err := c.Profile(ctx, me, 0)
	require.NoError(t, err)
	assert.Equal(t, me.Email, mine.Email)
}
