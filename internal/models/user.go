package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amaumene/mediashelf/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// User is a member of the network
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Name      string    `gorm:"not null" json:"name"`
	Bio       string    `json:"bio"`
	AvatarID  string    `json:"avatar"`
	SearchKey string    `gorm:"index;not null;default:''" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// searchKey is the accent-folded text user search matches against
func searchKey(name, username string) string {
	return utils.Fold(name + " " + username)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// DefaultUsername derives a handle from a display name
func DefaultUsername(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

// CreateUser inserts a user, filling username and avatar defaults
func (db *Database) CreateUser(ctx context.Context, user *User) error {
	if user.Email == "" || user.Name == "" {
		return fmt.Errorf("%w: email and name are required", ErrValidation)
	}
	if user.Username == "" {
		user.Username = DefaultUsername(user.Name)
	}
	if user.AvatarID == "" {
		user.AvatarID = PlaceholderAvatar
	}
	user.SearchKey = searchKey(user.Name, user.Username)

	err := db.conn.WithContext(ctx).Omit(clause.Associations).Create(user).Error
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: email or username already registered", ErrConflict)
	}
	return err
}

// GetUser retrieves a user by ID
func (db *Database) GetUser(ctx context.Context, id uint) (*User, error) {
	var user User
	err := db.conn.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsers loads several users keyed by ID
func (db *Database) GetUsers(ctx context.Context, ids []uint) (map[uint]User, error) {
	out := make(map[uint]User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []User
	if err := db.conn.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// ProfileUpdate carries optional profile fields; nil leaves a field unchanged
type ProfileUpdate struct {
	Name     *string
	Bio      *string
	AvatarID *string
}

// UpdateProfile applies the non-nil fields of update
func (db *Database) UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*User, error) {
	values := map[string]interface{}{}
	if update.Name != nil {
		current, err := db.GetUser(ctx, id)
		if err != nil {
			return nil, err
		}
		values["name"] = *update.Name
		values["search_key"] = searchKey(*update.Name, current.Username)
	}
	if update.Bio != nil {
		values["bio"] = *update.Bio
	}
	if update.AvatarID != nil {
		values["avatar_id"] = *update.AvatarID
	}
	if len(values) == 0 {
		return db.GetUser(ctx, id)
	}

	res := db.conn.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return db.GetUser(ctx, id)
}

// SearchUsers matches name or username ignoring case and accents, never
// returning excludeID. LIKE wildcards in query match literally.
func (db *Database) SearchUsers(ctx context.Context, query string, excludeID uint, limit int) ([]User, error) {
	pattern := "%" + likeEscaper.Replace(utils.Fold(query)) + "%"
	var users []User
	err := db.conn.WithContext(ctx).
		Where("id <> ?", excludeID).
		Where(`search_key LIKE ? ESCAPE '\'`, pattern).
		Order("name ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// DeleteUser removes a user; owned items and edges cascade
func (db *Database) DeleteUser(ctx context.Context, id uint) error {
	res := db.conn.WithContext(ctx).Delete(&User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return nil
}

// Identity is the authenticated caller of a request
type Identity struct {
	UserID uint
	Email  string
}
