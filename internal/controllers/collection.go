package controllers

import (
	"context"
	"fmt"

	"github.com/amaumene/mediashelf/internal/models"
	"github.com/sirupsen/logrus"
)

// CollectionController handles ownership rows and collection listings
type CollectionController struct {
	db       *models.Database
	resolver *Resolver
	logger   *logrus.Logger
}

// NewCollectionController creates a new collection controller
func NewCollectionController(db *models.Database, resolver *Resolver, logger *logrus.Logger) *CollectionController {
	return &CollectionController{
		db:       db,
		resolver: resolver,
		logger:   logger,
	}
}

// ItemsByStatus lists userID's items in status with live content, newest first
func (c *CollectionController) ItemsByStatus(ctx context.Context, userID uint, status models.Status) ([]CollectionEntry, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unsupported status %q", models.ErrValidation, status)
	}
	items, err := c.db.ItemsByStatus(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return c.resolver.entries(ctx, "items_by_status", items), nil
}

// FullCollection lists userID's items with live content, optionally filtered
func (c *CollectionController) FullCollection(ctx context.Context, userID uint, filter models.CollectionFilter) ([]CollectionEntry, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, fmt.Errorf("%w: unsupported category %q", models.ErrValidation, filter.Category)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unsupported status %q", models.ErrValidation, filter.Status)
	}
	if _, err := c.db.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	items, err := c.db.Collection(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection: %w", err)
	}
	return c.resolver.entries(ctx, "full_collection", items), nil
}

// AddItem adds an item to the caller's list. created is false when it was already there.
func (c *CollectionController) AddItem(ctx context.Context, identity models.Identity, externalID string, category models.Category, status models.Status) (*models.UserItem, bool, error) {
	item, created, err := c.db.AddItem(ctx, identity.UserID, externalID, category, status)
	if err != nil {
		return nil, false, err
	}
	c.logger.WithFields(logrus.Fields{
		"user_id":     identity.UserID,
		"external_id": externalID,
		"category":    category,
		"created":     created,
	}).Info("Item added")
	return item, created, nil
}

// SetStatus creates or updates the caller's row for an item
func (c *CollectionController) SetStatus(ctx context.Context, identity models.Identity, externalID string, category models.Category, status models.Status) (*models.UserItem, error) {
	item, err := c.db.SetStatus(ctx, identity.UserID, externalID, category, status)
	if err != nil {
		return nil, err
	}
	c.logger.WithFields(logrus.Fields{
		"user_id":     identity.UserID,
		"external_id": externalID,
		"status":      status,
	}).Info("Status set")
	return item, nil
}

// UpdateItem changes the status of one of the caller's rows
func (c *CollectionController) UpdateItem(ctx context.Context, identity models.Identity, itemID uint, status models.Status) (*models.UserItem, error) {
	return c.db.UpdateItemStatus(ctx, identity.UserID, itemID, status)
}

// DeleteItem removes one of the caller's rows
func (c *CollectionController) DeleteItem(ctx context.Context, identity models.Identity, itemID uint) error {
	if err := c.db.DeleteItem(ctx, identity.UserID, itemID); err != nil {
		return err
	}
	c.logger.WithFields(logrus.Fields{
		"user_id": identity.UserID,
		"item_id": itemID,
	}).Info("Item removed")
	return nil
}
