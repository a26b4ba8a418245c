package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	c := Content{ExternalID: "1", Category: CategoryGame, ImageURL: StringPtr(""), Genres: []string{""}}
	c.Normalize()

	assert.Equal(t, DefaultTitle, c.Title)
	assert.Equal(t, DefaultDescription, c.Description)
	assert.Equal(t, Unknown, c.Author)
	assert.Nil(t, c.ImageURL)
	assert.Equal(t, []string{Unknown}, c.Genres)
	assert.Equal(t, []string{Unknown}, c.Platforms)
	assert.NotNil(t, c.Cast)
}

func TestNormalizeKeepsProvidedValues(t *testing.T) {
	c := Content{
		ExternalID: "27205",
		Category:   CategoryMovie,
		Title:      "Inception",
		ImageURL:   StringPtr("https://image.tmdb.org/t/p/w500/x.jpg"),
		Genres:     []string{"Action", "Science Fiction"},
	}
	c.Normalize()

	assert.Equal(t, "Inception", c.Title)
	assert.Equal(t, []string{"Action", "Science Fiction"}, c.Genres)
	assert.Empty(t, c.Platforms)
	assert.NotNil(t, c.Platforms)
}

func TestPlaceholder(t *testing.T) {
	p := Placeholder(CategoryMovie, "42")
	assert.Equal(t, "Content 42", p.Title)
	assert.Nil(t, p.ImageURL)
	assert.Equal(t, []string{Unknown}, p.Genres)
}

func TestParseHelpers(t *testing.T) {
	c, err := ParseCategory("v")
	assert.NoError(t, err)
	assert.Equal(t, CategoryGame, c)
	_, err = ParseCategory("comic")
	assert.ErrorIs(t, err, ErrValidation)

	s, err := ParseStatus("")
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, s)
	assert.Equal(t, "finished", StatusCompleted.ActionType())
	assert.Equal(t, "started", StatusInProgress.ActionType())
	assert.Equal(t, "dropped", StatusDropped.ActionType())
	assert.Equal(t, "added", StatusPending.ActionType())
}
