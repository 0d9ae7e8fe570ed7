package validation

import (
	"fmt"
	"image"
	"path/filepath"
	"slices"
	"strings"

	apperrors "go-complexity-inspector/internal/errors"
)

// ImageLimits bounds the images accepted for measurement
type ImageLimits struct {
	// Largest accepted source image, checked before any downsampling
	MaxWidth  int
	MaxHeight int
	// Smallest side the configured box and window sizes need
	MinSide int
	// Accepted upload extensions, lower case with the dot
	Extensions []string
}

// DefaultImageLimits returns the default image limits
func DefaultImageLimits() ImageLimits {
	return ImageLimits{
		MaxWidth:   4096,
		MaxHeight:  4096,
		MinSide:    64,
		Extensions: []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff"},
	}
}

// ImageValidator checks decoded images and upload names against ImageLimits
type ImageValidator struct {
	limits ImageLimits
}

// NewImageValidator creates a validator with default limits
func NewImageValidator() *ImageValidator {
	return &ImageValidator{limits: DefaultImageLimits()}
}

// NewImageValidatorWithLimits creates a validator with custom limits
func NewImageValidatorWithLimits(limits ImageLimits) *ImageValidator {
	return &ImageValidator{limits: limits}
}

// Limits returns the configured limits
func (iv *ImageValidator) Limits() ImageLimits {
	return iv.limits
}

// ValidateSource rejects empty and oversized images before they are bounded
func (iv *ImageValidator) ValidateSource(img image.Image) error {
	if img == nil {
		return apperrors.NewInvalidInputError("Image is empty", nil)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return apperrors.NewInvalidInputError("Image has zero area", nil)
	}
	if iv.limits.MaxWidth > 0 && b.Dx() > iv.limits.MaxWidth || iv.limits.MaxHeight > 0 && b.Dy() > iv.limits.MaxHeight {
		err := apperrors.NewInvalidInputError("Image exceeds maximum dimensions", nil)
		err.Details = fmt.Sprintf("%dx%d exceeds %dx%d", b.Dx(), b.Dy(), iv.limits.MaxWidth, iv.limits.MaxHeight)
		return err
	}
	return nil
}

// ValidateWorking rejects images too small for the configured box and window sizes
func (iv *ImageValidator) ValidateWorking(img image.Image) error {
	b := img.Bounds()
	if side := min(b.Dx(), b.Dy()); side < iv.limits.MinSide {
		err := apperrors.NewInvalidConfigurationError("Image is smaller than the largest box or window", nil)
		err.Details = fmt.Sprintf("shorter side %d is below %d", side, iv.limits.MinSide)
		return err
	}
	return nil
}

// ValidateFileName checks the upload extension
func (iv *ImageValidator) ValidateFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewValidationError("File name cannot be empty", nil)
	}
	if len(iv.limits.Extensions) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !slices.Contains(iv.limits.Extensions, ext) {
		return apperrors.NewValidationError(fmt.Sprintf("Unsupported file extension %q", ext), nil)
	}
	return nil
}
