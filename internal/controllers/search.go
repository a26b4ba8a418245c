package controllers

import (
	"context"
	"strings"

	"github.com/amaumene/mediashelf/internal/metrics"
	"github.com/amaumene/mediashelf/internal/models"
	"github.com/amaumene/mediashelf/internal/services/catalog"
	"github.com/sirupsen/logrus"
)

// SearchResult is a catalog hit enriched with network signals
type SearchResult struct {
	models.Content
	FriendCount int       `json:"friendCount"`
	OwnItem     *OwnState `json:"ownItem"`
}

// SearchController handles catalog searches
type SearchController struct {
	db       *models.Database
	registry *catalog.Registry
	logger   *logrus.Logger
}

// NewSearchController creates a new search controller
func NewSearchController(db *models.Database, registry *catalog.Registry, logger *logrus.Logger) *SearchController {
	return &SearchController{
		db:       db,
		registry: registry,
		logger:   logger,
	}
}

// Search queries the adapter of category, drops results without an image and
// attaches how many network members hold each item and the caller's own row.
// Enrichment failures zero the affected fields; results are never dropped for them.
func (c *SearchController) Search(ctx context.Context, identity models.Identity, query string, category models.Category) []SearchResult {
	query = strings.TrimSpace(query)
	results := []SearchResult{}
	if query == "" {
		return results
	}

	adapter, ok := c.registry.For(category)
	if !ok {
		c.logger.WithField("category", category).Warn("Search for unsupported category")
		return results
	}

	items := adapter.Search(ctx, query)
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.ImageURL == nil {
			continue
		}
		results = append(results, SearchResult{Content: item})
		ids = append(ids, item.ExternalID)
	}

	counts, err := c.db.CountHoldersBatch(ctx, category, ids, identity.UserID)
	if err != nil {
		c.logger.WithError(err).WithField("category", category).Warn("Failed to count holders, reporting zero")
		metrics.EnrichmentFallbacks.WithLabelValues("search_holders").Inc()
		counts = map[string]int{}
	}

	owned, err := c.db.ItemsByExternalID(ctx, identity.UserID, category, ids)
	if err != nil {
		c.logger.WithError(err).WithField("category", category).Warn("Failed to load own items")
		metrics.EnrichmentFallbacks.WithLabelValues("search_own").Inc()
		owned = map[string]models.UserItem{}
	}

	for i := range results {
		id := results[i].ExternalID
		results[i].FriendCount = counts[id]
		if item, ok := owned[id]; ok {
			results[i].OwnItem = &OwnState{ID: item.ID, Status: item.Status}
		}
	}

	c.logger.WithFields(logrus.Fields{
		"category": category,
		"query":    query,
		"upstream": len(items),
		"results":  len(results),
	}).Debug("Search completed")

	return results
}
