package models

import "fmt"

// Default values used when a catalog leaves a field out
const (
	DefaultTitle       = "Untitled"
	DefaultDescription = "No description available"
	Unknown            = "Unknown"

	// PlaceholderAvatar is returned for every holder until avatars are resolved per user
	PlaceholderAvatar = "avatar1"
)

// Content is a catalog item normalized across providers
type Content struct {
	ExternalID  string   `json:"id"`
	Category    Category `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    *string  `json:"image"`
	Genres      []string `json:"genres"`
	ReleaseDate *string  `json:"releaseDate"`
	Author      string   `json:"author"`
	Count       *int     `json:"count"`
	Runtime     *int     `json:"runtime,omitempty"`
	Platforms   []string `json:"platforms"`
	Cast        []string `json:"cast"`
}

// Normalize fills every field a provider did not supply
func (c *Content) Normalize() {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Description == "" {
		c.Description = DefaultDescription
	}
	if c.Author == "" {
		c.Author = Unknown
	}
	if c.ImageURL != nil && *c.ImageURL == "" {
		c.ImageURL = nil
	}
	if c.ReleaseDate != nil && *c.ReleaseDate == "" {
		c.ReleaseDate = nil
	}
	c.Genres = compact(c.Genres)
	if len(c.Genres) == 0 {
		c.Genres = []string{Unknown}
	}
	c.Platforms = compact(c.Platforms)
	if c.Category == CategoryGame && len(c.Platforms) == 0 {
		c.Platforms = []string{Unknown}
	}
	if c.Cast == nil {
		c.Cast = []string{}
	}
}

// Placeholder is the record shown when live enrichment of an owned item fails
func Placeholder(category Category, externalID string) Content {
	c := Content{
		ExternalID: externalID,
		Category:   category,
		Title:      fmt.Sprintf("Content %s", externalID),
	}
	c.Normalize()
	return c
}

// StringPtr returns nil for empty strings
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// IntPtr returns nil for zero
func IntPtr(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
