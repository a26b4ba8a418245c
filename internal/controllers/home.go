package controllers

import (
	"context"
	"fmt"

	"github.com/amaumene/mediashelf/internal/models"
	"github.com/sirupsen/logrus"
)

const defaultTrendingLimit = 5

// TrendingEntry is an item popular in the caller's network
type TrendingEntry struct {
	ExternalID  string          `json:"id"`
	Category    models.Category `json:"category"`
	Title       string          `json:"title"`
	ImageURL    *string         `json:"image"`
	Author      string          `json:"author"`
	HolderCount int             `json:"holderCount"`
}

// HomeController builds the home screen sections
type HomeController struct {
	db         *models.Database
	resolver   *Resolver
	collection *CollectionController
	logger     *logrus.Logger
}

// NewHomeController creates a new home controller
func NewHomeController(db *models.Database, resolver *Resolver, collection *CollectionController, logger *logrus.Logger) *HomeController {
	return &HomeController{
		db:         db,
		resolver:   resolver,
		collection: collection,
		logger:     logger,
	}
}

// Trending ranks what the caller's network holds, most holders first
func (c *HomeController) Trending(ctx context.Context, identity models.Identity, limit int) ([]TrendingEntry, error) {
	if limit < 1 {
		limit = defaultTrendingLimit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	popular, err := c.db.PopularAmongNetwork(ctx, identity.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank network items: %w", err)
	}

	refs := make([]ItemRef, len(popular))
	for i, p := range popular {
		refs[i] = ItemRef{ExternalID: p.ExternalID, Category: p.Category}
	}
	contents := c.resolver.Resolve(ctx, "trending", refs)

	out := make([]TrendingEntry, len(popular))
	for i, p := range popular {
		out[i] = TrendingEntry{
			ExternalID:  p.ExternalID,
			Category:    p.Category,
			Title:       contents[i].Title,
			ImageURL:    contents[i].ImageURL,
			Author:      contents[i].Author,
			HolderCount: p.HolderCount,
		}
	}
	return out, nil
}

// Current lists what the caller is in the middle of
func (c *HomeController) Current(ctx context.Context, identity models.Identity) ([]CollectionEntry, error) {
	return c.collection.ItemsByStatus(ctx, identity.UserID, models.StatusInProgress)
}

// Watchlist lists what the caller still has pending
func (c *HomeController) Watchlist(ctx context.Context, identity models.Identity) ([]CollectionEntry, error) {
	return c.collection.ItemsByStatus(ctx, identity.UserID, models.StatusPending)
}
