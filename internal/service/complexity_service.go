package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"go-complexity-inspector/internal/analyzer"
	apperrors "go-complexity-inspector/internal/errors"
	"go-complexity-inspector/internal/observer"
	"go-complexity-inspector/internal/repository"
	"go-complexity-inspector/internal/storage"
	"go-complexity-inspector/pkg/export"
	"go-complexity-inspector/pkg/models"
	"go-complexity-inspector/pkg/validation"
)

// ComplexityService measures images and keeps the caller-visible history
type ComplexityService interface {
	// Measurement from the supported sources
	MeasureURL(ctx context.Context, imageURL string) (*models.MeasurementResponse, error)
	MeasureBlob(ctx context.Context, blobURL string) (*models.MeasurementResponse, error)
	MeasureUpload(ctx context.Context, name string, r io.Reader) (*models.MeasurementResponse, error)
	MeasureImage(ctx context.Context, source string, img image.Image) (*models.MeasurementResponse, error)
	MeasureDetailed(ctx context.Context, imageURL string) (*models.DetailedMeasurementResponse, error)

	// History access
	History(ctx context.Context) (*models.HistoryResponse, error)
	HistoryEntry(ctx context.Context, id string) (*models.HistoryEntry, error)
	ClearHistory(ctx context.Context) error
	ExportHistoryCSV(ctx context.Context, w io.Writer) error
	ExportEntryCSV(ctx context.Context, id string, w io.Writer) (string, error)

	Stats(ctx context.Context) models.StatsResponse
}

// Config holds intake limits applied before the analyzer runs
type Config struct {
	MaxImageBytes int64
	// Longer side after downsampling; 0 keeps the original size
	MaxDimension int
}

// Dependencies wires the collaborators; Blobs, Events and Metrics are optional
type Dependencies struct {
	Images    repository.ImageRepository
	Blobs     storage.BlobStorage
	History   repository.HistoryRepository
	Analyzer  analyzer.ImageAnalyzer
	URLs      *validation.URLValidator
	Validator *validation.ImageValidator
	Events    observer.Subject
	Metrics   *observer.MetricsObserver
}

type complexityService struct {
	deps Dependencies
	cfg  Config
}

// NewComplexityService creates a new complexity service
func NewComplexityService(deps Dependencies, cfg Config) ComplexityService {
	if deps.URLs == nil {
		deps.URLs = validation.NewURLValidator()
	}
	if deps.Validator == nil {
		limits := validation.DefaultImageLimits()
		limits.MinSide = deps.Analyzer.Options().MinDimension()
		deps.Validator = validation.NewImageValidatorWithLimits(limits)
	}
	if deps.History == nil {
		deps.History = repository.NewMemoryHistoryRepository(0)
	}
	return &complexityService{deps: deps, cfg: cfg}
}

// loader produces the source image and its format name
type loader func(ctx context.Context) (image.Image, string, error)

func (s *complexityService) MeasureURL(ctx context.Context, imageURL string) (*models.MeasurementResponse, error) {
	resp, err := s.run(ctx, imageURL, s.urlLoader(imageURL))
	if err != nil {
		return nil, err
	}
	return &resp.MeasurementResponse, nil
}

func (s *complexityService) MeasureDetailed(ctx context.Context, imageURL string) (*models.DetailedMeasurementResponse, error) {
	return s.run(ctx, imageURL, s.urlLoader(imageURL))
}

func (s *complexityService) MeasureBlob(ctx context.Context, blobURL string) (*models.MeasurementResponse, error) {
	if s.deps.Blobs == nil {
		return nil, apperrors.NewValidationError("blob storage is not configured", nil)
	}
	if err := s.deps.URLs.ValidateBlobURL(blobURL); err != nil {
		return nil, err
	}
	resp, err := s.run(ctx, blobURL, func(ctx context.Context) (image.Image, string, error) {
		return s.deps.Blobs.GetImage(ctx, blobURL)
	})
	if err != nil {
		return nil, err
	}
	return &resp.MeasurementResponse, nil
}

func (s *complexityService) MeasureUpload(ctx context.Context, name string, r io.Reader) (*models.MeasurementResponse, error) {
	if err := s.deps.Validator.ValidateFileName(name); err != nil {
		return nil, err
	}
	resp, err := s.run(ctx, name, func(context.Context) (image.Image, string, error) {
		limits := s.deps.Validator.Limits()
		return storage.DecodeImageWithLimits(r, storage.Limits{
			MaxBytes:  s.cfg.MaxImageBytes,
			MaxWidth:  limits.MaxWidth,
			MaxHeight: limits.MaxHeight,
		})
	})
	if err != nil {
		return nil, err
	}
	return &resp.MeasurementResponse, nil
}

func (s *complexityService) MeasureImage(ctx context.Context, source string, img image.Image) (*models.MeasurementResponse, error) {
	resp, err := s.run(ctx, source, func(context.Context) (image.Image, string, error) {
		return img, "", nil
	})
	if err != nil {
		return nil, err
	}
	return &resp.MeasurementResponse, nil
}

func (s *complexityService) urlLoader(imageURL string) loader {
	return func(ctx context.Context) (image.Image, string, error) {
		if s.deps.Images == nil {
			return nil, "", apperrors.NewValidationError("URL fetching is not configured", nil)
		}
		if err := s.deps.URLs.ValidateImageURL(imageURL); err != nil {
			return nil, "", err
		}
		return s.deps.Images.FetchImage(ctx, imageURL)
	}
}

// run loads, bounds and measures one image, then records it in the history
func (s *complexityService) run(ctx context.Context, source string, load loader) (*models.DetailedMeasurementResponse, error) {
	start := time.Now()
	s.publish(ctx, observer.NewEvent(observer.MeasurementStarted, source))

	resp, err := s.measure(ctx, source, load, start)
	if err != nil {
		event := observer.NewEvent(observer.MeasurementFailed, source)
		event.ProcessingTime = time.Since(start)
		event.ErrorMessage = err.Error()
		s.publish(ctx, event)
		return nil, err
	}

	event := observer.NewEvent(observer.MeasurementCompleted, source)
	event.Success = true
	event.ProcessingTime = time.Since(start)
	event.Metadata = map[string]interface{}{
		"fd": resp.Measurement.FDRaw,
		"l":  resp.Measurement.LRaw,
		"c":  resp.Measurement.C,
	}
	s.publish(ctx, event)
	return resp, nil
}

func (s *complexityService) measure(ctx context.Context, source string, load loader, start time.Time) (*models.DetailedMeasurementResponse, error) {
	img, format, err := load(ctx)
	if err != nil {
		failed := observer.NewEvent(observer.ImageFetchFailed, source)
		failed.ErrorMessage = err.Error()
		s.publish(ctx, failed)
		return nil, mapLoadError(err)
	}
	fetched := observer.NewEvent(observer.ImageFetched, source)
	fetched.Success = true
	s.publish(ctx, fetched)

	if err := s.deps.Validator.ValidateSource(img); err != nil {
		return nil, err
	}
	original := img.Bounds()
	working := storage.Bound(img, s.cfg.MaxDimension)
	if err := s.deps.Validator.ValidateWorking(working); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError("measurement cancelled", err)
	}
	report, err := s.deps.Analyzer.MeasureReport(working)
	if err != nil {
		return nil, apperrors.FromAnalysis(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError("measurement deadline exceeded", err)
	}

	id, err := newID()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to allocate measurement id", err)
	}
	now := time.Now().UTC()
	entry := models.HistoryEntry{ID: id, Source: source, Timestamp: now, Measurement: report.Measurement}
	if err := s.deps.History.Append(ctx, entry); err != nil {
		return nil, apperrors.NewInternalError("failed to record measurement", err)
	}

	return &models.DetailedMeasurementResponse{
		MeasurementResponse: models.MeasurementResponse{
			ID:                id,
			Source:            source,
			Timestamp:         now.Format(time.RFC3339),
			ProcessingTimeSec: time.Since(start).Seconds(),
			Image: models.ImageInfo{
				OriginalWidth:  original.Dx(),
				OriginalHeight: original.Dy(),
				Width:          report.Width,
				Height:         report.Height,
				Format:         format,
			},
			Measurement: report.Measurement,
		},
		EdgePixels:  report.EdgePixels,
		EdgeDensity: report.EdgeDensity,
		BoxCounts:   report.BoxCountPoints(),
		Slope:       report.Fractal.Regression.Slope,
		Intercept:   report.Fractal.Regression.Intercept,
		RSquared:    report.Fractal.Regression.RSquared,
		Degenerate:  report.Fractal.Degenerate,
		Lacunarity:  report.LacunarityPoints(),
	}, nil
}

func (s *complexityService) History(ctx context.Context) (*models.HistoryResponse, error) {
	entries, err := s.deps.History.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read history", err)
	}
	return &models.HistoryResponse{Count: len(entries), Entries: entries}, nil
}

func (s *complexityService) HistoryEntry(ctx context.Context, id string) (*models.HistoryEntry, error) {
	entry, err := s.deps.History.Get(ctx, id)
	if errors.Is(err, repository.ErrEntryNotFound) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("measurement %q not found", id), err)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read history", err)
	}
	return &entry, nil
}

func (s *complexityService) ClearHistory(ctx context.Context) error {
	if err := s.deps.History.Clear(ctx); err != nil {
		return apperrors.NewInternalError("failed to clear history", err)
	}
	s.publish(ctx, observer.NewEvent(observer.HistoryCleared, ""))
	return nil
}

func (s *complexityService) ExportHistoryCSV(ctx context.Context, w io.Writer) error {
	entries, err := s.deps.History.List(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to read history", err)
	}
	if err := export.WriteHistoryCSV(w, entries); err != nil {
		return apperrors.NewInternalError("failed to write CSV", err)
	}
	return nil
}

// ExportEntryCSV writes one entry and returns the suggested file name
func (s *complexityService) ExportEntryCSV(ctx context.Context, id string, w io.Writer) (string, error) {
	entry, err := s.HistoryEntry(ctx, id)
	if err != nil {
		return "", err
	}
	if err := export.WriteMeasurementCSV(w, entry.Source, entry.Measurement); err != nil {
		return "", apperrors.NewInternalError("failed to write CSV", err)
	}
	return export.MeasurementFileName(entry.Source), nil
}

func (s *complexityService) Stats(ctx context.Context) models.StatsResponse {
	stats := models.StatsResponse{HistoryLength: s.deps.History.Len()}
	if s.deps.Metrics == nil {
		return stats
	}
	snapshot := s.deps.Metrics.Snapshot()
	stats.Started = snapshot.Started
	stats.Completed = snapshot.Completed
	stats.Failed = snapshot.Failed
	stats.ImagesFetched = snapshot.ImagesFetched
	stats.AvgDurationSec = snapshot.AvgProcessingTime().Seconds()
	return stats
}

func (s *complexityService) publish(ctx context.Context, event observer.MeasurementEvent) {
	if s.deps.Events != nil {
		s.deps.Events.NotifyObservers(ctx, event)
	}
}

// mapLoadError classifies fetch and decode failures
func mapLoadError(err error) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, repository.ErrInvalidImageURL):
		return apperrors.NewValidationError("invalid image URL", err)
	case errors.Is(err, storage.ErrTooLarge):
		return apperrors.NewInvalidInputError("image exceeds size limit", err)
	case errors.Is(err, storage.ErrDecode):
		return apperrors.NewInvalidInputError("failed to decode image", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.NewTimeoutError("image fetch timed out", err)
	default:
		return apperrors.NewNetworkError("failed to fetch image", err)
	}
}

func newID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
