package models

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Holder is a network member holding an item
type Holder struct {
	UserID uint
	Status Status
}

// PopularItem is an item ranked by how many network members hold it
type PopularItem struct {
	ExternalID  string
	Category    Category
	HolderCount int
}

// ActivityEntry is an ownership row joined with its owner
type ActivityEntry struct {
	ItemID     uint
	UserID     uint
	ExternalID string
	Category   Category
	Status     Status
	UpdatedAt  time.Time
	Name       string
	Username   string
	AvatarID   string
}

func (db *Database) network(userID uint) *gorm.DB {
	return db.graph.Related(db.conn, userID)
}

// CountHolders counts network members of userID holding the item
func (db *Database) CountHolders(ctx context.Context, externalID string, category Category, userID uint) (int, error) {
	var n int64
	err := db.conn.WithContext(ctx).Model(&UserItem{}).
		Where("external_id = ? AND category = ?", externalID, category).
		Where("user_id IN (?)", db.network(userID)).
		Count(&n).Error
	return int(n), err
}

// CountHoldersBatch counts network holders for a whole result batch in one grouped query.
// IDs nobody in the network holds are absent from the map.
func (db *Database) CountHoldersBatch(ctx context.Context, category Category, externalIDs []string, userID uint) (map[string]int, error) {
	out := make(map[string]int, len(externalIDs))
	if len(externalIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		ExternalID string
		Holders    int
	}
	err := db.conn.WithContext(ctx).Model(&UserItem{}).
		Select("external_id, COUNT(DISTINCT user_id) AS holders").
		Where("category = ? AND external_id IN ?", category, externalIDs).
		Where("user_id IN (?)", db.network(userID)).
		Group("external_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count holders: %w", err)
	}
	for _, r := range rows {
		out[r.ExternalID] = r.Holders
	}
	return out, nil
}

// ListHolders lists network members of userID holding the item
func (db *Database) ListHolders(ctx context.Context, externalID string, category Category, userID uint) ([]Holder, error) {
	var holders []Holder
	err := db.conn.WithContext(ctx).Model(&UserItem{}).
		Select("user_id, status").
		Where("external_id = ? AND category = ?", externalID, category).
		Where("user_id IN (?)", db.network(userID)).
		Order("updated_at DESC").
		Scan(&holders).Error
	return holders, err
}

// PopularAmongNetwork ranks items held in userID's network by distinct holders,
// ties broken by the most recent update
func (db *Database) PopularAmongNetwork(ctx context.Context, userID uint, limit int) ([]PopularItem, error) {
	var items []PopularItem
	err := db.conn.WithContext(ctx).Model(&UserItem{}).
		Select("external_id, category, COUNT(DISTINCT user_id) AS holder_count").
		Where("user_id IN (?)", db.network(userID)).
		Group("external_id, category").
		Order("COUNT(DISTINCT user_id) DESC, MAX(updated_at) DESC").
		Limit(limit).
		Scan(&items).Error
	return items, err
}

// SharedCount counts items held by both users
func (db *Database) SharedCount(ctx context.Context, a, b uint) (int, error) {
	var n int64
	err := db.conn.WithContext(ctx).Table("user_items AS a").
		Joins("JOIN user_items AS b ON a.external_id = b.external_id AND a.category = b.category").
		Where("a.user_id = ? AND b.user_id = ?", a, b).
		Count(&n).Error
	return int(n), err
}

// ActivityScope selects whose rows an activity query returns
type ActivityScope int

const (
	// ScopeSelf returns only the user's own rows
	ScopeSelf ActivityScope = iota
	// ScopeSelfAndNetwork returns the user's rows and their network's
	ScopeSelfAndNetwork
	// ScopeNetwork returns only the network's rows
	ScopeNetwork
)

// RecentActivity pages through ownership rows ordered by last update.
// page starts at 1.
func (db *Database) RecentActivity(ctx context.Context, userID uint, scope ActivityScope, page, pageSize int) ([]ActivityEntry, error) {
	if page < 1 {
		page = 1
	}
	q := db.conn.WithContext(ctx).Table("user_items").
		Select("user_items.id AS item_id, user_items.user_id, user_items.external_id, user_items.category, " +
			"user_items.status, user_items.updated_at, users.name, users.username, users.avatar_id").
		Joins("JOIN users ON users.id = user_items.user_id")

	switch scope {
	case ScopeSelf:
		q = q.Where("user_items.user_id = ?", userID)
	case ScopeSelfAndNetwork:
		q = q.Where("user_items.user_id = ? OR user_items.user_id IN (?)", userID, db.network(userID))
	case ScopeNetwork:
		q = q.Where("user_items.user_id IN (?)", db.network(userID))
	}

	var entries []ActivityEntry
	err := q.Order("user_items.updated_at DESC, user_items.id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Scan(&entries).Error
	return entries, err
}

// Connect adds an edge from one user to another
func (db *Database) Connect(ctx context.Context, from, to uint) error {
	return db.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return db.graph.Connect(tx, from, to)
	})
}

// Disconnect removes the edge, reporting whether one existed
func (db *Database) Disconnect(ctx context.Context, from, to uint) (bool, error) {
	return db.graph.Disconnect(db.conn.WithContext(ctx), from, to)
}

// IsConnected reports whether to is in from's network
func (db *Database) IsConnected(ctx context.Context, from, to uint) (bool, error) {
	return db.graph.Connected(db.conn.WithContext(ctx), from, to)
}

// ToggleConnection removes the edge if present and adds it otherwise.
// It returns whether the edge exists afterwards.
func (db *Database) ToggleConnection(ctx context.Context, from, to uint) (bool, error) {
	var connected bool
	err := db.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed, err := db.graph.Disconnect(tx, from, to)
		if err != nil {
			return err
		}
		if removed {
			connected = false
			return nil
		}
		if err := db.graph.Connect(tx, from, to); err != nil {
			return err
		}
		connected = true
		return nil
	})
	return connected, err
}

// Following pages through the users in userID's network by name
func (db *Database) Following(ctx context.Context, userID uint, page, pageSize int) ([]User, error) {
	return db.pageUsers(ctx, db.graph.Related(db.conn, userID), page, pageSize)
}

// Followers pages through the users whose network contains userID by name
func (db *Database) Followers(ctx context.Context, userID uint, page, pageSize int) ([]User, error) {
	return db.pageUsers(ctx, db.graph.Reverse(db.conn, userID), page, pageSize)
}

func (db *Database) pageUsers(ctx context.Context, ids *gorm.DB, page, pageSize int) ([]User, error) {
	if page < 1 {
		page = 1
	}
	var users []User
	err := db.conn.WithContext(ctx).
		Where("id IN (?)", ids).
		Order("name ASC, id ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&users).Error
	return users, err
}

// CountFollowing counts the users in userID's network
func (db *Database) CountFollowing(ctx context.Context, userID uint) (int, error) {
	return db.countUsers(ctx, db.graph.Related(db.conn, userID))
}

// CountFollowers counts the users whose network contains userID
func (db *Database) CountFollowers(ctx context.Context, userID uint) (int, error) {
	return db.countUsers(ctx, db.graph.Reverse(db.conn, userID))
}

func (db *Database) countUsers(ctx context.Context, ids *gorm.DB) (int, error) {
	var n int64
	err := db.conn.WithContext(ctx).Model(&User{}).Where("id IN (?)", ids).Count(&n).Error
	return int(n), err
}
