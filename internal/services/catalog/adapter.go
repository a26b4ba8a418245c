// Package catalog defines the contract every upstream catalog adapter meets
// and the shared HTTP plumbing they use to reach their providers.
package catalog

import (
	"context"
	"errors"

	"github.com/amaumene/mediashelf/internal/models"
)

var (
	// ErrNotFound means the provider answered that the item does not exist
	ErrNotFound = errors.New("not found upstream")
	// ErrUnavailable wraps every other upstream failure: network, status, decoding
	ErrUnavailable = errors.New("upstream unavailable")
)

// Adapter searches and fetches items from one provider.
// Search never fails: upstream problems yield an empty slice.
type Adapter interface {
	Search(ctx context.Context, query string) []models.Content
	FetchByID(ctx context.Context, externalID string) (*models.Content, error)
}

// Registry dispatches a category to its adapter
type Registry struct {
	movie  Adapter
	series Adapter
	book   Adapter
	game   Adapter
}

// NewRegistry creates a registry; nil adapters leave their category unsupported
func NewRegistry(movie, series, book, game Adapter) *Registry {
	return &Registry{movie: movie, series: series, book: book, game: game}
}

// For returns the adapter of category
func (r *Registry) For(category models.Category) (Adapter, bool) {
	var a Adapter
	switch category {
	case models.CategoryMovie:
		a = r.movie
	case models.CategorySeries:
		a = r.series
	case models.CategoryBook:
		a = r.book
	case models.CategoryGame:
		a = r.game
	}
	return a, a != nil
}

// IsUpstream reports whether err came from a provider rather than local state
func IsUpstream(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnavailable)
}
