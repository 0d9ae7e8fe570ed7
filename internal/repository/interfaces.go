package repository

import (
	"context"
	"image"

	"go-complexity-inspector/pkg/models"
)

// ImageRepository defines the interface for image data access operations
type ImageRepository interface {
	// FetchImage retrieves and decodes an image, returning its format name
	FetchImage(ctx context.Context, imageURL string) (image.Image, string, error)

	// ValidateImageURL validates if the provided URL is acceptable
	ValidateImageURL(imageURL string) error
}

// HistoryRepository stores measurements in the order they were made
type HistoryRepository interface {
	// Append stores an entry; the oldest entry is evicted once capacity is reached
	Append(ctx context.Context, entry models.HistoryEntry) error

	// List returns every entry in insertion order
	List(ctx context.Context) ([]models.HistoryEntry, error)

	// Get returns one entry or ErrEntryNotFound
	Get(ctx context.Context, id string) (models.HistoryEntry, error)

	// Clear removes all entries
	Clear(ctx context.Context) error

	// Len returns the number of stored entries
	Len() int
}
