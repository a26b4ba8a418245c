package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserItem records that a user holds a catalog item with a status.
// (UserID, ExternalID, Category) is unique.
type UserItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_user_items_owner" json:"userId"`
	User       User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ExternalID string    `gorm:"not null;uniqueIndex:idx_user_items_owner;index" json:"externalId"`
	Category   Category  `gorm:"type:varchar(1);not null;uniqueIndex:idx_user_items_owner" json:"category"`
	Status     Status    `gorm:"type:varchar(1);not null;default:P" json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

var ownerColumns = []clause.Column{{Name: "user_id"}, {Name: "external_id"}, {Name: "category"}}

func validateItem(externalID string, category Category, status Status) error {
	if externalID == "" {
		return fmt.Errorf("%w: external id is required", ErrValidation)
	}
	if !category.Valid() {
		return fmt.Errorf("%w: unsupported category %q", ErrValidation, category)
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unsupported status %q", ErrValidation, status)
	}
	return nil
}

// AddItem inserts an ownership row. If the user already holds the item the
// existing row is returned with created=false and nothing is written.
func (db *Database) AddItem(ctx context.Context, userID uint, externalID string, category Category, status Status) (*UserItem, bool, error) {
	if status == "" {
		status = StatusPending
	}
	if err := validateItem(externalID, category, status); err != nil {
		return nil, false, err
	}

	item := UserItem{UserID: userID, ExternalID: externalID, Category: category, Status: status}
	res := db.conn.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: ownerColumns, DoNothing: true}).
		Create(&item)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return nil, false, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, false, fmt.Errorf("failed to add item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		existing, err := db.FindItem(ctx, userID, externalID, category)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	return &item, true, nil
}

// SetStatus creates or updates the ownership row in a single upsert
func (db *Database) SetStatus(ctx context.Context, userID uint, externalID string, category Category, status Status) (*UserItem, error) {
	if err := validateItem(externalID, category, status); err != nil {
		return nil, err
	}

	item := UserItem{UserID: userID, ExternalID: externalID, Category: category, Status: status}
	err := db.conn.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: ownerColumns,
			DoUpdates: clause.Assignments(map[string]interface{}{
				"status":     status,
				"updated_at": time.Now(),
			}),
		}).
		Create(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to set status: %w", err)
	}
	return db.FindItem(ctx, userID, externalID, category)
}

// UpdateItemStatus changes the status of one of userID's rows
func (db *Database) UpdateItemStatus(ctx context.Context, userID, itemID uint, status Status) (*UserItem, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unsupported status %q", ErrValidation, status)
	}
	res := db.conn.WithContext(ctx).Model(&UserItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	return db.GetItem(ctx, userID, itemID)
}

// DeleteItem removes one of userID's rows
func (db *Database) DeleteItem(ctx context.Context, userID, itemID uint) error {
	res := db.conn.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).Delete(&UserItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	return nil
}

// GetItem retrieves a row by ID scoped to its owner
func (db *Database) GetItem(ctx context.Context, userID, itemID uint) (*UserItem, error) {
	var item UserItem
	err := db.conn.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindItem retrieves userID's row for an external item
func (db *Database) FindItem(ctx context.Context, userID uint, externalID string, category Category) (*UserItem, error) {
	var item UserItem
	err := db.conn.WithContext(ctx).
		Where("user_id = ? AND external_id = ? AND category = ?", userID, externalID, category).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("item %s/%s: %w", category, externalID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ItemsByExternalID fetches userID's rows for a batch of external IDs in one query
func (db *Database) ItemsByExternalID(ctx context.Context, userID uint, category Category, externalIDs []string) (map[string]UserItem, error) {
	out := make(map[string]UserItem, len(externalIDs))
	if len(externalIDs) == 0 {
		return out, nil
	}
	var items []UserItem
	err := db.conn.WithContext(ctx).
		Where("user_id = ? AND category = ? AND external_id IN ?", userID, category, externalIDs).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		out[item.ExternalID] = item
	}
	return out, nil
}

// CollectionFilter narrows a collection query; zero values match everything
type CollectionFilter struct {
	Category Category
	Status   Status
}

// Collection lists userID's rows, most recently updated first
func (db *Database) Collection(ctx context.Context, userID uint, filter CollectionFilter) ([]UserItem, error) {
	q := db.conn.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	var items []UserItem
	err := q.Order("updated_at DESC, id DESC").Find(&items).Error
	return items, err
}

// ItemsByStatus lists userID's rows in a status, most recently updated first
func (db *Database) ItemsByStatus(ctx context.Context, userID uint, status Status) ([]UserItem, error) {
	return db.Collection(ctx, userID, CollectionFilter{Status: status})
}

// CountItems returns how many items userID holds
func (db *Database) CountItems(ctx context.Context, userID uint) (int, error) {
	var n int64
	err := db.conn.WithContext(ctx).Model(&UserItem{}).Where("user_id = ?", userID).Count(&n).Error
	return int(n), err
}

// LastActivity returns userID's most recently updated row
func (db *Database) LastActivity(ctx context.Context, userID uint) (*UserItem, error) {
	var item UserItem
	err := db.conn.WithContext(ctx).Where("user_id = ?", userID).Order("updated_at DESC, id DESC").First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("activity of user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
