package controllers

import (
	"context"
	"fmt"
	"time"

	"github.com/amaumene/mediashelf/internal/metrics"
	"github.com/amaumene/mediashelf/internal/models"
	"github.com/amaumene/mediashelf/internal/services/catalog"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/iter"
)

// ItemRef identifies a catalog item without its content
type ItemRef struct {
	ExternalID string
	Category   models.Category
}

// OwnState is the caller's ownership row for an item
type OwnState struct {
	ID     uint          `json:"id"`
	Status models.Status `json:"status"`
}

// Resolver fetches live content for stored references concurrently.
// Output position i always describes input position i.
type Resolver struct {
	registry    *catalog.Registry
	concurrency int
	logger      *logrus.Logger
}

// NewResolver creates a resolver running at most concurrency lookups at once
func NewResolver(registry *catalog.Registry, concurrency int, logger *logrus.Logger) *Resolver {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Resolver{registry: registry, concurrency: concurrency, logger: logger}
}

// Resolve looks up every ref. A failed lookup yields the placeholder for that
// ref and never affects its siblings.
func (r *Resolver) Resolve(ctx context.Context, operation string, refs []ItemRef) []models.Content {
	if len(refs) == 0 {
		return []models.Content{}
	}
	mapper := iter.Mapper[ItemRef, models.Content]{MaxGoroutines: r.concurrency}
	return mapper.Map(refs, func(ref *ItemRef) models.Content {
		return r.lookup(ctx, operation, *ref)
	})
}

func (r *Resolver) lookup(ctx context.Context, operation string, ref ItemRef) (content models.Content) {
	fields := logrus.Fields{
		"operation":   operation,
		"category":    ref.Category,
		"external_id": ref.ExternalID,
	}
	defer func() {
		if p := recover(); p != nil {
			r.logger.WithFields(fields).WithError(fmt.Errorf("panic: %v", p)).Error("Content lookup panicked")
			metrics.EnrichmentFallbacks.WithLabelValues(operation).Inc()
			content = models.Placeholder(ref.Category, ref.ExternalID)
		}
	}()

	adapter, ok := r.registry.For(ref.Category)
	if !ok {
		r.logger.WithFields(fields).Warn("No adapter for category")
		metrics.EnrichmentFallbacks.WithLabelValues(operation).Inc()
		return models.Placeholder(ref.Category, ref.ExternalID)
	}

	item, err := adapter.FetchByID(ctx, ref.ExternalID)
	if err != nil || item == nil {
		r.logger.WithFields(fields).WithError(err).Warn("Content lookup failed, using placeholder")
		metrics.EnrichmentFallbacks.WithLabelValues(operation).Inc()
		return models.Placeholder(ref.Category, ref.ExternalID)
	}
	return *item
}

// CollectionEntry is an owned item with its live content
type CollectionEntry struct {
	models.Content
	ItemID    uint          `json:"itemId"`
	Status    models.Status `json:"status"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (r *Resolver) entries(ctx context.Context, operation string, items []models.UserItem) []CollectionEntry {
	refs := make([]ItemRef, len(items))
	for i, item := range items {
		refs[i] = ItemRef{ExternalID: item.ExternalID, Category: item.Category}
	}
	contents := r.Resolve(ctx, operation, refs)

	out := make([]CollectionEntry, len(items))
	for i, item := range items {
		out[i] = CollectionEntry{
			Content:   contents[i],
			ItemID:    item.ID,
			Status:    item.Status,
			UpdatedAt: item.UpdatedAt,
		}
	}
	return out
}

func pageBounds(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case size < 1:
		size = defaultPageSize
	case size > maxPageSize:
		size = maxPageSize
	}
	return page, size
}

const (
	defaultPageSize = 10
	maxPageSize     = 50
)
