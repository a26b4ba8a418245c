package models

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowGraphIsDirected(t *testing.T) {
	db := newTestDB(t, GraphFollow)
	ctx := context.Background()
	ana := createUser(t, db, "Ana")
	bob := createUser(t, db, "Bob")

	require.NoError(t, db.Connect(ctx, ana.ID, bob.ID))
	assert.ErrorIs(t, db.Connect(ctx, ana.ID, bob.ID), ErrConflict)
	assert.ErrorIs(t, db.Connect(ctx, ana.ID, ana.ID), ErrConflict)
	assert.ErrorIs(t, db.Connect(ctx, ana.ID, 999), ErrNotFound)

	_, _, err := db.AddItem(ctx, bob.ID, "42", CategoryGame, "")
	require.NoError(t, err)
	_, _, err = db.AddItem(ctx, ana.ID, "42", CategoryGame, "")
	require.NoError(t, err)

	// ana follows bob, so bob is in ana's network but not the other way round
	n, err := db.CountHolders(ctx, "42", CategoryGame, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = db.CountHolders(ctx, "42", CategoryGame, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	followers, err := db.Followers(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, ana.ID, followers[0].ID)

	following, err := db.Following(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, following)
}

func TestFriendGraphIsSymmetric(t *testing.T) {
	db := newTestDB(t, GraphFriends)
	ctx := context.Background()
	ana := createUser(t, db, "Ana")
	bob := createUser(t, db, "Bob")

	require.NoError(t, db.Connect(ctx, ana.ID, bob.ID))
	assert.ErrorIs(t, db.Connect(ctx, bob.ID, ana.ID), ErrConflict)

	_, _, err := db.AddItem(ctx, ana.ID, "7", CategoryBook, "")
	require.NoError(t, err)
	_, _, err = db.AddItem(ctx, bob.ID, "7", CategoryBook, "")
	require.NoError(t, err)

	for _, viewer := range []uint{ana.ID, bob.ID} {
		n, err := db.CountHolders(ctx, "7", CategoryBook, viewer)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	}

	connected, err := db.IsConnected(ctx, bob.ID, ana.ID)
	require.NoError(t, err)
	assert.True(t, connected)
}

func TestFriendGraphStoresOneRowPerPair(t *testing.T) {
	db := newTestDB(t, GraphFriends)
	ctx := context.Background()
	ana := createUser(t, db, "Ana")
	bob := createUser(t, db, "Bob")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, pair := range [][2]uint{{ana.ID, bob.ID}, {bob.ID, ana.ID}} {
		wg.Add(1)
		go func(i int, from, to uint) {
			defer wg.Done()
			errs[i] = db.Connect(ctx, from, to)
		}(i, pair[0], pair[1])
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, ErrConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)

	var rows int64
	require.NoError(t, db.conn.Model(&Friend{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	removed, err := db.Disconnect(ctx, bob.ID, ana.ID)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestToggleConnection(t *testing.T) {
	db := newTestDB(t, GraphFollow)
	ctx := context.Background()
	ana := createUser(t, db, "Ana")
	bob := createUser(t, db, "Bob")

	on, err := db.ToggleConnection(ctx, ana.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, on)

	off, err := db.ToggleConnection(ctx, ana.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, off)

	_, err = db.ToggleConnection(ctx, ana.ID, ana.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCountHoldersBatchAndListHolders(t *testing.T) {
	db := newTestDB(t, GraphFollow)
	ctx := context.Background()
	me := createUser(t, db, "Me")
	bob := createUser(t, db, "Bob")
	cat := createUser(t, db, "Cat")
	stranger := createUser(t, db, "Stranger")

	require.NoError(t, db.Connect(ctx, me.ID, bob.ID))
	require.NoError(t, db.Connect(ctx, me.ID, cat.ID))

	for _, u := range []uint{bob.ID, cat.ID, stranger.ID} {
		_, _, err := db.AddItem(ctx, u, "1", CategoryMovie, StatusCompleted)
		require.NoError(t, err)
	}
	_, _, err := db.AddItem(ctx, bob.ID, "2", CategoryMovie, "")
	require.NoError(t, err)
	_, _, err = db.AddItem(ctx, bob.ID, "3", CategorySeries, "")
	require.NoError(t, err)

	counts, err := db.CountHoldersBatch(ctx, CategoryMovie, []string{"1", "2", "3"}, me.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"1": 2, "2": 1}, counts)

	holders, err := db.ListHolders(ctx, "1", CategoryMovie, me.ID)
	require.NoError(t, err)
	assert.Len(t, holders, 2)
	for _, h := range holders {
		assert.NotEqual(t, stranger.ID, h.UserID)
		assert.Equal(t, StatusCompleted, h.Status)
	}

	empty, err := db.CountHoldersBatch(ctx, CategoryMovie, nil, me.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPopularAmongNetwork(t *testing.T) {
	db := newTestDB(t, GraphFollow)
	ctx := context.Background()
	me := createUser(t, db, "Me")
	bob := createUser(t, db, "Bob")
	cat := createUser(t, db, "Cat")
	require.NoError(t, db.Connect(ctx, me.ID, bob.ID))
	require.NoError(t, db.Connect(ctx, me.ID, cat.ID))
	now := time.Now()

	add := func(u uint, id string, c Category, at time.Time) {
		item, _, err := db.AddItem(ctx, u, id, c, "")
		require.NoError(t, err)
		touch(t, db, item.ID, at)
	}
	add(bob.ID, "10", CategoryMovie, now.Add(-time.Hour))
	add(cat.ID, "10", CategoryMovie, now.Add(-time.Hour))
	add(bob.ID, "20", CategoryBook, now.Add(-2*time.Hour))
	add(cat.ID, "30", CategoryGame, now.Add(-time.Minute))
	add(me.ID, "99", CategoryGame, now)

	popular, err := db.PopularAmongNetwork(ctx, me.ID, 5)
	require.NoError(t, err)
	require.Len(t, popular, 3)
	assert.Equal(t, PopularItem{ExternalID: "10", Category: CategoryMovie, HolderCount: 2}, popular[0])
	assert.Equal(t, "30", popular[1].ExternalID, "ties broken by most recent update")
	assert.Equal(t, "20", popular[2].ExternalID)

	limited, err := db.PopularAmongNetwork(ctx, me.ID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSharedCountIsSymmetric(t *testing.T) {
	db := newTestDB(t, GraphFollow)
	ctx := context.Background()
	ana := createUser(t, db, "Ana")
	bob := createUser(t, db, "Bob")

	for _, id := range []string{"1", "2", "3"} {
		_, _, err := db.AddItem(ctx, ana.ID, id, CategoryMovie, "")
		require.NoError(t, err)
	}
	for _, id := range []string{"2", "3"} {
		_, _, err := db.AddItem(ctx, bob.ID, id, CategoryMovie, "")
		require.NoError(t, err)
	}
	// same id, different category does not count
	_, _, err := db.AddItem(ctx, bob.ID, "1", CategoryBook, "")
	require.NoError(t, err)

	ab, err := db.SharedCount(ctx, ana.ID, bob.ID)
	require.NoError(t, err)
	ba, err := db.SharedCount(ctx, bob.ID, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, ab)
	assert.Equal(t, ab, ba)
}

func TestRecentActivityScopes(t *testing.T) {
	db := newTestDB(t, GraphFollow)
	ctx := context.Background()
	me := createUser(t, db, "Me")
	bob := createUser(t, db, "Bob")
	stranger := createUser(t, db, "Stranger")
	require.NoError(t, db.Connect(ctx, me.ID, bob.ID))
	now := time.Now()

	add := func(u uint, id string, at time.Time) {
		item, _, err := db.AddItem(ctx, u, id, CategoryMovie, StatusInProgress)
		require.NoError(t, err)
		touch(t, db, item.ID, at)
	}
	add(me.ID, "1", now.Add(-3*time.Minute))
	add(bob.ID, "2", now.Add(-1*time.Minute))
	add(stranger.ID, "3", now)
	add(bob.ID, "4", now.Add(-2*time.Minute))

	feed, err := db.RecentActivity(ctx, me.ID, ScopeSelfAndNetwork, 1, 10)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, "2", feed[0].ExternalID)
	assert.Equal(t, "Bob", feed[0].Name)
	assert.Equal(t, "4", feed[1].ExternalID)
	assert.Equal(t, "1", feed[2].ExternalID)

	page2, err := db.RecentActivity(ctx, me.ID, ScopeSelfAndNetwork, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "1", page2[0].ExternalID)

	own, err := db.RecentActivity(ctx, me.ID, ScopeSelf, 1, 10)
	require.NoError(t, err)
	require.Len(t, own, 1)

	network, err := db.RecentActivity(ctx, me.ID, ScopeNetwork, 1, 10)
	require.NoError(t, err)
	require.Len(t, network, 2)
	assert.Equal(t, StatusInProgress, network[0].Status)
	assert.False(t, network[0].UpdatedAt.IsZero())
}
