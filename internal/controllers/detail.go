package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/amaumene/mediashelf/internal/models"
	"github.com/amaumene/mediashelf/internal/services/catalog"
	"github.com/sirupsen/logrus"
)

// HolderView is a network member holding the item.
// Avatar is always models.PlaceholderAvatar.
type HolderView struct {
	UserID uint          `json:"id"`
	Status models.Status `json:"status"`
	Avatar string        `json:"avatar"`
}

// DetailResult is a single item with the caller's state and the network holders
type DetailResult struct {
	Content models.Content `json:"content"`
	Item    *OwnState      `json:"item"`
	Holders []HolderView   `json:"holders"`
}

// DetailController handles item detail lookups
type DetailController struct {
	db       *models.Database
	registry *catalog.Registry
	logger   *logrus.Logger
}

// NewDetailController creates a new detail controller
func NewDetailController(db *models.Database, registry *catalog.Registry, logger *logrus.Logger) *DetailController {
	return &DetailController{
		db:       db,
		registry: registry,
		logger:   logger,
	}
}

// GetDetail fetches the item upstream. Any upstream failure is reported as
// models.ErrNotFound.
func (c *DetailController) GetDetail(ctx context.Context, identity models.Identity, category models.Category, externalID string) (*DetailResult, error) {
	adapter, ok := c.registry.For(category)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported category %q", models.ErrValidation, category)
	}

	content, err := adapter.FetchByID(ctx, externalID)
	if err != nil || content == nil {
		c.logger.WithFields(logrus.Fields{
			"category":    category,
			"external_id": externalID,
			"unavailable": errors.Is(err, catalog.ErrUnavailable),
		}).WithError(err).Info("Item not available upstream")
		return nil, fmt.Errorf("item %s/%s: %w", category, externalID, models.ErrNotFound)
	}

	result := &DetailResult{Content: *content, Holders: []HolderView{}}

	own, err := c.db.FindItem(ctx, identity.UserID, externalID, category)
	switch {
	case err == nil:
		result.Item = &OwnState{ID: own.ID, Status: own.Status}
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("failed to load own item: %w", err)
	}

	holders, err := c.db.ListHolders(ctx, externalID, category, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holders: %w", err)
	}
	for _, h := range holders {
		result.Holders = append(result.Holders, HolderView{
			UserID: h.UserID,
			Status: h.Status,
			Avatar: models.PlaceholderAvatar,
		})
	}

	return result, nil
}
