package repository

import "errors"

var (
	// ErrInvalidImageURL indicates an invalid image URL
	ErrInvalidImageURL = errors.New("invalid image URL")

	// ErrEntryNotFound indicates the history entry was not found
	ErrEntryNotFound = errors.New("history entry not found")
)
