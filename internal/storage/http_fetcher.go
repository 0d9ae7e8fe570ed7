package storage

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"time"
)

// ImageFetcher loads and decodes an image from a remote location
type ImageFetcher interface {
	FetchImage(ctx context.Context, imageURL string) (image.Image, string, error)
}

// HTTPFetcherConfig tunes the HTTP fetcher
type HTTPFetcherConfig struct {
	Timeout       time.Duration
	MaxImageBytes int64
	// Backoff is multiplied by the attempt number between retries
	Backoff time.Duration
	// Declared pixel dimensions above these are rejected before decoding;
	// zero means MaxSourceSide
	MaxWidth  int
	MaxHeight int
}

// DefaultHTTPFetcherConfig returns the fetcher defaults
func DefaultHTTPFetcherConfig() HTTPFetcherConfig {
	return HTTPFetcherConfig{
		Timeout:       30 * time.Second,
		MaxImageBytes: 20 * 1024 * 1024,
		Backoff:       time.Second,
	}
}

const maxAttempts = 3

// HTTPImageFetcher implements ImageFetcher over plain HTTP(S)
type HTTPImageFetcher struct {
	client  *http.Client
	limits  Limits
	backoff time.Duration
}

// NewHTTPImageFetcher creates an HTTP image fetcher
func NewHTTPImageFetcher(cfg HTTPFetcherConfig) *HTTPImageFetcher {
	// Connection pooling tuned for single image downloads
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxWidth <= 0 {
		cfg.MaxWidth = MaxSourceSide
	}
	if cfg.MaxHeight <= 0 {
		cfg.MaxHeight = MaxSourceSide
	}

	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		limits:  Limits{MaxBytes: cfg.MaxImageBytes, MaxWidth: cfg.MaxWidth, MaxHeight: cfg.MaxHeight},
		backoff: cfg.Backoff,
	}
}

func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "image/png, image/jpeg, image/webp, image/tiff, image/bmp, image/gif, */*")
	req.Header.Set("User-Agent", "Go-Complexity-Inspector/1.0")

	// Retry logic (3 attempts): 4xx is final, 5xx and transport errors are retried
	var resp *http.Response
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err = h.client.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			lastErr = nil
			break
		}

		retryable := true
		if err != nil {
			lastErr = err
		} else {
			resp.Body.Close()
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				lastErr = fmt.Errorf("client error: status code %d", resp.StatusCode)
				retryable = false
			} else {
				lastErr = fmt.Errorf("server error: status code %d", resp.StatusCode)
			}
		}
		resp = nil

		if !retryable || attempt == maxAttempts-1 {
			break
		}
		if err := h.sleep(ctx, attempt+1); err != nil {
			lastErr = err
			break
		}
	}

	if resp == nil {
		return nil, "", fmt.Errorf("failed to fetch image after %d attempts: %w", maxAttempts, lastErr)
	}
	defer resp.Body.Close()

	if limit := h.limits.MaxBytes; limit > 0 && resp.ContentLength > limit {
		return nil, "", fmt.Errorf("%w: content length %d exceeds %d bytes", ErrTooLarge, resp.ContentLength, limit)
	}
	return DecodeImageWithLimits(resp.Body, h.limits)
}

func (h *HTTPImageFetcher) sleep(ctx context.Context, attempt int) error {
	timer := time.NewTimer(time.Duration(attempt) * h.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
