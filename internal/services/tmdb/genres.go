package tmdb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/amaumene/mediashelf/internal/metrics"
	"github.com/amaumene/mediashelf/internal/models"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Kind is the TMDB media type used in paths
type Kind string

const (
	KindMovie Kind = "movie"
	KindTV    Kind = "tv"
)

// GenreTable resolves TMDB genre IDs to names. It is populated once at
// startup and by the periodic refresh; lookups never wait for population.
type GenreTable struct {
	entries *cache.Cache
	load    singleflight.Group
}

// NewGenreTable creates an empty table
func NewGenreTable() *GenreTable {
	return &GenreTable{entries: cache.New(cache.NoExpiration, 0)}
}

func genreKey(kind Kind, id int) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

// Name returns the genre name, or "Unknown" when the ID is not in the table
func (g *GenreTable) Name(kind Kind, id int) string {
	if v, ok := g.entries.Get(genreKey(kind, id)); ok {
		return v.(string)
	}
	return models.Unknown
}

// Names resolves a list of IDs in order
func (g *GenreTable) Names(kind Kind, ids []int) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, g.Name(kind, id))
	}
	return names
}

// Store adds or replaces the entries of kind
func (g *GenreTable) Store(kind Kind, genres map[int]string) {
	for id, name := range genres {
		g.entries.Set(genreKey(kind, id), name, cache.NoExpiration)
	}
	metrics.GenreTableSize.WithLabelValues(string(kind)).Set(float64(len(genres)))
}

// Len returns the number of entries across kinds
func (g *GenreTable) Len() int {
	return g.entries.ItemCount()
}

// Entries returns a copy of the entries of kind
func (g *GenreTable) Entries(kind Kind) map[int]string {
	prefix := string(kind) + ":"
	out := map[int]string{}
	for key, item := range g.entries.Items() {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}
		if id, err := strconv.Atoi(rest); err == nil {
			out[id] = item.Object.(string)
		}
	}
	return out
}
