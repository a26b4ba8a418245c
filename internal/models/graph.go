package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Follow is a directed edge: FollowerID follows FollowedID
type Follow struct {
	FollowerID uint `gorm:"primaryKey"`
	Follower   User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	FollowedID uint `gorm:"primaryKey;index"`
	Followed   User `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
}

// Friend is a symmetric edge stored once per pair, lower user ID first
type Friend struct {
	UserID    uint `gorm:"primaryKey"`
	User      User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	FriendID  uint `gorm:"primaryKey;index"`
	Other     User `gorm:"foreignKey:FriendID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// TableName keeps the historical table name
func (Friend) TableName() string {
	return "user_friends"
}

// Graph is the relationship model of a deployment. Every network query goes
// through the configured Graph so directed and symmetric edges never mix.
type Graph interface {
	Mode() GraphMode
	// Related selects the IDs in userID's network
	Related(tx *gorm.DB, userID uint) *gorm.DB
	// Reverse selects the IDs whose network contains userID
	Reverse(tx *gorm.DB, userID uint) *gorm.DB
	Connect(tx *gorm.DB, from, to uint) error
	Disconnect(tx *gorm.DB, from, to uint) (bool, error)
	Connected(tx *gorm.DB, from, to uint) (bool, error)
}

// NewGraph returns the Graph for mode
func NewGraph(mode GraphMode) (Graph, error) {
	switch mode {
	case GraphFollow, "":
		return FollowGraph{}, nil
	case GraphFriends:
		return FriendGraph{}, nil
	}
	return nil, fmt.Errorf("%w: unsupported social graph %q", ErrValidation, mode)
}

func checkEndpoints(tx *gorm.DB, from, to uint) error {
	if from == to {
		return fmt.Errorf("%w: cannot connect a user to themselves", ErrConflict)
	}
	var n int64
	if err := tx.Model(&User{}).Where("id IN ?", []uint{from, to}).Count(&n).Error; err != nil {
		return err
	}
	if n != 2 {
		return fmt.Errorf("user: %w", ErrNotFound)
	}
	return nil
}

// FollowGraph is the directed model: a user's network is who they follow
type FollowGraph struct{}

func (FollowGraph) Mode() GraphMode { return GraphFollow }

func (FollowGraph) Related(tx *gorm.DB, userID uint) *gorm.DB {
	return tx.Model(&Follow{}).Select("followed_id").Where("follower_id = ?", userID)
}

func (FollowGraph) Reverse(tx *gorm.DB, userID uint) *gorm.DB {
	return tx.Model(&Follow{}).Select("follower_id").Where("followed_id = ?", userID)
}

func (FollowGraph) Connect(tx *gorm.DB, from, to uint) error {
	if err := checkEndpoints(tx, from, to); err != nil {
		return err
	}
	res := tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Follow{FollowerID: from, FollowedID: to})
	if res.Error != nil {
		return fmt.Errorf("failed to follow: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: already following", ErrConflict)
	}
	return nil
}

func (FollowGraph) Disconnect(tx *gorm.DB, from, to uint) (bool, error) {
	res := tx.Where("follower_id = ? AND followed_id = ?", from, to).Delete(&Follow{})
	return res.RowsAffected > 0, res.Error
}

func (FollowGraph) Connected(tx *gorm.DB, from, to uint) (bool, error) {
	var n int64
	err := tx.Model(&Follow{}).Where("follower_id = ? AND followed_id = ?", from, to).Count(&n).Error
	return n > 0, err
}

// FriendGraph is the symmetric model: an edge in either direction relates both users
type FriendGraph struct{}

func (FriendGraph) Mode() GraphMode { return GraphFriends }

func (FriendGraph) Related(tx *gorm.DB, userID uint) *gorm.DB {
	return tx.Model(&Friend{}).
		Select("CASE WHEN user_id = ? THEN friend_id ELSE user_id END", userID).
		Where("user_id = ? OR friend_id = ?", userID, userID)
}

func (g FriendGraph) Reverse(tx *gorm.DB, userID uint) *gorm.DB {
	return g.Related(tx, userID)
}

func (FriendGraph) Connect(tx *gorm.DB, from, to uint) error {
	if err := checkEndpoints(tx, from, to); err != nil {
		return err
	}
	lo, hi := from, to
	if lo > hi {
		lo, hi = hi, lo
	}
	res := tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Friend{UserID: lo, FriendID: hi})
	if res.Error != nil {
		return fmt.Errorf("failed to add friend: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: already friends", ErrConflict)
	}
	return nil
}

func (FriendGraph) Disconnect(tx *gorm.DB, from, to uint) (bool, error) {
	res := tx.Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", from, to, to, from).
		Delete(&Friend{})
	return res.RowsAffected > 0, res.Error
}

func (FriendGraph) Connected(tx *gorm.DB, from, to uint) (bool, error) {
	var n int64
	err := tx.Model(&Friend{}).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", from, to, to, from).
		Count(&n).Error
	return n > 0, err
}
