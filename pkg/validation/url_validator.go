package validation

import (
	"net/url"
	"slices"
	"strings"

	apperrors "go-complexity-inspector/internal/errors"
)

// azureBlobSuffix is the public Azure Blob Storage endpoint suffix
const azureBlobSuffix = ".blob.core.windows.net"

// URLValidator handles URL validation logic
type URLValidator struct {
	allowedSchemes []string
	allowedHosts   []string
}

// NewURLValidator creates a new URL validator with default settings
func NewURLValidator() *URLValidator {
	return &URLValidator{
		allowedSchemes: []string{"http", "https"},
		allowedHosts:   []string{}, // empty means all hosts allowed
	}
}

// NewURLValidatorWithOptions creates a URL validator with custom options
func NewURLValidatorWithOptions(schemes []string, hosts []string) *URLValidator {
	return &URLValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
	}
}

// ValidateImageURL validates if the provided URL is acceptable for image processing
func (v *URLValidator) ValidateImageURL(imageURL string) error {
	_, err := v.parse(imageURL)
	return err
}

// ValidateBlobURL additionally requires an https Azure Blob Storage endpoint
func (v *URLValidator) ValidateBlobURL(blobURL string) error {
	parsedURL, err := v.parse(blobURL)
	if err != nil {
		return err
	}
	if parsedURL.Scheme != "https" {
		return apperrors.NewValidationError("Blob URL must use https", nil)
	}
	if !strings.HasSuffix(strings.ToLower(parsedURL.Hostname()), azureBlobSuffix) {
		return apperrors.NewValidationError("Blob URL must point to Azure Blob Storage", nil)
	}
	if strings.Trim(parsedURL.Path, "/") == "" {
		return apperrors.NewValidationError("Blob URL must name a container", nil)
	}
	return nil
}

func (v *URLValidator) parse(rawURL string) (*url.URL, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, apperrors.NewValidationError("URL cannot be empty", nil)
	}

	parsedURL, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid URL format", err)
	}

	if !v.isSchemeAllowed(parsedURL.Scheme) {
		return nil, apperrors.NewValidationError("URL scheme not allowed", nil)
	}

	if parsedURL.Hostname() == "" {
		return nil, apperrors.NewValidationError("URL must have a valid host", nil)
	}

	if !v.isHostAllowed(parsedURL.Hostname()) {
		return nil, apperrors.NewValidationError("URL host not allowed", nil)
	}
	return parsedURL, nil
}

// isSchemeAllowed checks if the URL scheme is in the allowed list
func (v *URLValidator) isSchemeAllowed(scheme string) bool {
	return slices.Contains(v.allowedSchemes, strings.ToLower(scheme))
}

// isHostAllowed checks if the URL host is in the allowed list.
// Returns true if no host restrictions are set.
func (v *URLValidator) isHostAllowed(host string) bool {
	if len(v.allowedHosts) == 0 {
		return true
	}
	return slices.ContainsFunc(v.allowedHosts, func(allowed string) bool {
		return strings.EqualFold(host, allowed)
	})
}
