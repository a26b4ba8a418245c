package models

import (
	"fmt"
	"strings"
)

// Category identifies which catalog an item belongs to.
// The single-letter codes are what clients send on the wire.
type Category string

const (
	CategoryMovie  Category = "P"
	CategorySeries Category = "S"
	CategoryBook   Category = "L"
	CategoryGame   Category = "V"
)

// Categories lists every supported category in dispatch order
var Categories = []Category{CategoryMovie, CategorySeries, CategoryBook, CategoryGame}

// ParseCategory accepts the wire code or the English name
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "p", "movie", "movies":
		return CategoryMovie, nil
	case "s", "series", "tv":
		return CategorySeries, nil
	case "l", "book", "books":
		return CategoryBook, nil
	case "v", "game", "games":
		return CategoryGame, nil
	}
	return "", fmt.Errorf("%w: unsupported category %q", ErrValidation, s)
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryMovie, CategorySeries, CategoryBook, CategoryGame:
		return true
	}
	return false
}

// Label returns a human readable name
func (c Category) Label() string {
	switch c {
	case CategoryMovie:
		return "movie"
	case CategorySeries:
		return "series"
	case CategoryBook:
		return "book"
	case CategoryGame:
		return "game"
	}
	return "unknown"
}

// Status represents where a user is with an item
type Status string

const (
	StatusPending    Status = "P"
	StatusInProgress Status = "E"
	StatusCompleted  Status = "C"
	StatusDropped    Status = "A"
)

// ParseStatus accepts the wire code or the English name.
// An empty string maps to StatusPending.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "p", "pending":
		return StatusPending, nil
	case "e", "inprogress", "in_progress":
		return StatusInProgress, nil
	case "c", "completed":
		return StatusCompleted, nil
	case "a", "dropped":
		return StatusDropped, nil
	}
	return "", fmt.Errorf("%w: unsupported status %q", ErrValidation, s)
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusDropped:
		return true
	}
	return false
}

// ActionType is the feed verb for an item in this status
func (s Status) ActionType() string {
	switch s {
	case StatusCompleted:
		return "finished"
	case StatusInProgress:
		return "started"
	case StatusDropped:
		return "dropped"
	}
	return "added"
}

// GraphMode selects the relationship model of a deployment
type GraphMode string

const (
	GraphFollow  GraphMode = "follow"
	GraphFriends GraphMode = "friends"
)

// ParseGraphMode validates a configured relationship model
func ParseGraphMode(s string) (GraphMode, error) {
	switch GraphMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", GraphFollow:
		return GraphFollow, nil
	case GraphFriends:
		return GraphFriends, nil
	}
	return "", fmt.Errorf("%w: unsupported social graph %q", ErrValidation, s)
}
