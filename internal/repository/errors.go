package repository

import "errors"

// Common repository errors
var (
	// ErrWidgetNotFound is returned when a widget does not exist for the board
	ErrWidgetNotFound = errors.New("widget not found for board")

	// ErrConflict is returned when a save loses an optimistic-version race or
	// trips a uniqueness constraint; the caller should retry or reject
	ErrConflict = errors.New("conflicting concurrent update detected")
)
