package repository

import (
	"context"
	"fmt"
	"image"

	"go-complexity-inspector/internal/storage"
)

// URLValidator is the subset of validation.URLValidator the repository needs
type URLValidator interface {
	ValidateImageURL(imageURL string) error
}

// HTTPImageRepository implements ImageRepository using an ImageFetcher
type HTTPImageRepository struct {
	fetcher   storage.ImageFetcher
	validator URLValidator
}

// NewHTTPImageRepository creates a new fetcher-backed image repository
func NewHTTPImageRepository(fetcher storage.ImageFetcher, validator URLValidator) ImageRepository {
	return &HTTPImageRepository{
		fetcher:   fetcher,
		validator: validator,
	}
}

// FetchImage validates the URL and retrieves the image
func (r *HTTPImageRepository) FetchImage(ctx context.Context, imageURL string) (image.Image, string, error) {
	if err := r.ValidateImageURL(imageURL); err != nil {
		return nil, "", err
	}
	return r.fetcher.FetchImage(ctx, imageURL)
}

// ValidateImageURL validates if the provided URL is acceptable
func (r *HTTPImageRepository) ValidateImageURL(imageURL string) error {
	if imageURL == "" {
		return ErrInvalidImageURL
	}
	if r.validator == nil {
		return nil
	}
	if err := r.validator.ValidateImageURL(imageURL); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidImageURL, err)
	}
	return nil
}
