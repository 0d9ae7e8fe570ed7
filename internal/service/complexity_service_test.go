package service

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"math/rand"
	"strings"
	"testing"

	"go-complexity-inspector/internal/analyzer"
	apperrors "go-complexity-inspector/internal/errors"
	"go-complexity-inspector/internal/observer"
	"go-complexity-inspector/internal/repository"
	"go-complexity-inspector/internal/storage"
)

type stubImages struct {
	img    image.Image
	format string
	err    error
	calls  int
}

func (s *stubImages) FetchImage(ctx context.Context, imageURL string) (image.Image, string, error) {
	s.calls++
	return s.img, s.format, s.err
}

func (s *stubImages) ValidateImageURL(string) error { return nil }

type stubBlobs struct {
	img image.Image
}

func (s *stubBlobs) GetImage(ctx context.Context, blobURL string) (image.Image, string, error) {
	return s.img, "png", nil
}

// createNoiseImage creates a deterministic RGB noise image
func createNoiseImage(width, height int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		if i%4 == 3 {
			img.Pix[i] = 255
			continue
		}
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

type fixture struct {
	service   ComplexityService
	images    *stubImages
	history   *repository.MemoryHistoryRepository
	publisher *observer.EventPublisher
	metrics   *observer.MetricsObserver
}

func newFixture(t *testing.T, cfg Config, blobs storage.BlobStorage) *fixture {
	t.Helper()
	a, err := analyzer.NewImageAnalyzer(analyzer.DefaultOptions())
	if err != nil {
		t.Fatalf("NewImageAnalyzer failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })

	f := &fixture{
		images:    &stubImages{img: createNoiseImage(128, 128, 1), format: "png"},
		history:   repository.NewMemoryHistoryRepository(0),
		publisher: observer.NewEventPublisher(),
		metrics:   observer.NewMetricsObserver(),
	}
	f.publisher.Subscribe(f.metrics)
	f.service = NewComplexityService(Dependencies{
		Images:   f.images,
		Blobs:    blobs,
		History:  f.history,
		Analyzer: a,
		Events:   f.publisher,
		Metrics:  f.metrics,
	}, cfg)
	return f
}

func TestMeasureURL(t *testing.T) {
	f := newFixture(t, Config{MaxDimension: 1024}, nil)

	resp, err := f.service.MeasureURL(context.Background(), "https://example.com/oak.png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if resp.ID == "" || len(resp.ID) != 32 {
		t.Errorf("Expected a 32 character id, got %q", resp.ID)
	}
	if resp.Source != "https://example.com/oak.png" || resp.Image.Format != "png" {
		t.Errorf("Unexpected source or format: %+v", resp)
	}
	if resp.Image.Width != 128 || resp.Image.OriginalWidth != 128 {
		t.Errorf("Expected an unbounded 128px image, got %+v", resp.Image)
	}
	m := resp.Measurement
	if m.FDRaw < 1 || m.FDRaw > 2 || m.C < 0 || m.C > 1 || m.FDLabel == "" {
		t.Errorf("Unexpected measurement %+v", m)
	}

	entry, err := f.service.HistoryEntry(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("Expected measurement to be recorded, got %v", err)
	}
	if entry.Measurement != m {
		t.Error("Expected the history entry to hold the same measurement")
	}

	f.publisher.Wait()
	stats := f.service.Stats(context.Background())
	if stats.Started != 1 || stats.Completed != 1 || stats.ImagesFetched != 1 || stats.HistoryLength != 1 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestMeasureURL_Errors(t *testing.T) {
	testCases := []struct {
		name      string
		url       string
		img       image.Image
		fetchErr  error
		errorType apperrors.ErrorType
	}{
		{"invalid url", "ftp://example.com/a.png", nil, nil, apperrors.ErrorTypeValidation},
		{"network failure", "https://example.com/a.png", nil, errors.New("connection refused"), apperrors.ErrorTypeNetwork},
		{"decode failure", "https://example.com/a.png", nil, fmt.Errorf("%w: bad header", storage.ErrDecode), apperrors.ErrorTypeInvalidInput},
		{"too large", "https://example.com/a.png", nil, storage.ErrTooLarge, apperrors.ErrorTypeInvalidInput},
		{"timeout", "https://example.com/a.png", nil, context.DeadlineExceeded, apperrors.ErrorTypeTimeout},
		{"too small", "https://example.com/a.png", createNoiseImage(32, 200, 2), nil, apperrors.ErrorTypeInvalidConfiguration},
		{"too big", "https://example.com/a.png", image.NewGray(image.Rect(0, 0, 5000, 100)), nil, apperrors.ErrorTypeInvalidInput},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, Config{MaxDimension: 1024}, nil)
			f.images.img, f.images.err = tc.img, tc.fetchErr

			_, err := f.service.MeasureURL(context.Background(), tc.url)
			if !apperrors.IsType(err, tc.errorType) {
				t.Fatalf("Expected %s error, got %v", tc.errorType, err)
			}
			if f.history.Len() != 0 {
				t.Error("Expected failed measurements to stay out of the history")
			}

			f.publisher.Wait()
			if stats := f.service.Stats(context.Background()); stats.Failed != 1 || stats.Completed != 0 {
				t.Errorf("Unexpected stats %+v", stats)
			}
		})
	}
}

func TestMeasureDetailed_Bounded(t *testing.T) {
	f := newFixture(t, Config{MaxDimension: 256}, nil)
	f.images.img = createNoiseImage(1024, 512, 3)

	resp, err := f.service.MeasureDetailed(context.Background(), "https://example.com/wide.png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.Image.OriginalWidth != 1024 || resp.Image.OriginalHeight != 512 {
		t.Errorf("Expected original size 1024x512, got %+v", resp.Image)
	}
	if resp.Image.Width != 256 || resp.Image.Height != 128 {
		t.Errorf("Expected working size 256x128, got %+v", resp.Image)
	}
	if len(resp.BoxCounts) != 6 || len(resp.Lacunarity) != 1 {
		t.Errorf("Expected 6 box counts and 1 lacunarity sample, got %d and %d", len(resp.BoxCounts), len(resp.Lacunarity))
	}
	if resp.EdgePixels == 0 || resp.EdgeDensity <= 0 || resp.Degenerate {
		t.Errorf("Expected edges on noise, got %+v", resp)
	}
}

func TestMeasureImage_Uniform(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	img := image.NewGray(image.Rect(0, 0, 128, 128))
	for i := range img.Pix {
		img.Pix[i] = 200
	}

	resp, err := f.service.MeasureImage(context.Background(), "plain.png", img)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.Measurement.FDRaw != 1.0 || resp.Measurement.C != 0 {
		t.Errorf("Expected FD 1 and C 0 for a uniform image, got %+v", resp.Measurement)
	}
}

func TestMeasureImage_CancelledContext(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service.MeasureImage(ctx, "x.png", createNoiseImage(128, 128, 4))
	if !apperrors.IsType(err, apperrors.ErrorTypeTimeout) {
		t.Errorf("Expected timeout error, got %v", err)
	}
}

func TestMeasureUpload(t *testing.T) {
	f := newFixture(t, Config{MaxImageBytes: 1 << 20}, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, createNoiseImage(96, 96, 5)); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	data := buf.Bytes()

	resp, err := f.service.MeasureUpload(context.Background(), "tile.png", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.Image.Format != "png" || resp.Source != "tile.png" {
		t.Errorf("Unexpected response %+v", resp)
	}

	if _, err := f.service.MeasureUpload(context.Background(), "notes.txt", bytes.NewReader(data)); !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error for a bad extension, got %v", err)
	}
	if _, err := f.service.MeasureUpload(context.Background(), "fake.png", strings.NewReader("nope")); !apperrors.IsType(err, apperrors.ErrorTypeInvalidInput) {
		t.Errorf("Expected invalid input for undecodable bytes, got %v", err)
	}
}

func TestMeasureUpload_RejectsDeclaredDimensions(t *testing.T) {
	f := newFixture(t, Config{MaxImageBytes: 1 << 20}, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	data := buf.Bytes()
	// rewrite the IHDR dimensions to 5000x5000 and fix its CRC
	binary.BigEndian.PutUint32(data[16:20], 5000)
	binary.BigEndian.PutUint32(data[20:24], 5000)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))

	_, err := f.service.MeasureUpload(context.Background(), "huge.png", bytes.NewReader(data))
	if !apperrors.IsType(err, apperrors.ErrorTypeInvalidInput) {
		t.Fatalf("Expected invalid input for an oversized header, got %v", err)
	}
	if f.history.Len() != 0 {
		t.Errorf("Expected nothing recorded, got %d entries", f.history.Len())
	}
}

func TestMeasureBlob(t *testing.T) {
	const blobURL = "https://acct.blob.core.windows.net/tiles/slate.png"

	withoutBlobs := newFixture(t, Config{}, nil)
	if _, err := withoutBlobs.service.MeasureBlob(context.Background(), blobURL); !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error without blob storage, got %v", err)
	}

	f := newFixture(t, Config{}, &stubBlobs{img: createNoiseImage(128, 128, 6)})
	resp, err := f.service.MeasureBlob(context.Background(), blobURL)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.Source != blobURL {
		t.Errorf("Expected blob URL as source, got %q", resp.Source)
	}
	if _, err := f.service.MeasureBlob(context.Background(), "https://example.com/tiles/a.png"); !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected non-Azure URL to be rejected, got %v", err)
	}
}

func TestHistoryAndExport(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	ctx := context.Background()

	var ids []string
	for i, name := range []string{"a.png", "b.png"} {
		resp, err := f.service.MeasureImage(ctx, name, createNoiseImage(128, 128, int64(10+i)))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		ids = append(ids, resp.ID)
	}

	history, err := f.service.History(ctx)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if history.Count != 2 || history.Entries[0].ID != ids[0] || history.Entries[1].ID != ids[1] {
		t.Errorf("Expected entries in insertion order, got %+v", history)
	}

	var all bytes.Buffer
	if err := f.service.ExportHistoryCSV(ctx, &all); err != nil {
		t.Fatalf("ExportHistoryCSV failed: %v", err)
	}
	if lines := strings.Count(all.String(), "\n"); lines != 3 {
		t.Errorf("Expected header and 2 rows, got %d lines", lines)
	}

	var one bytes.Buffer
	name, err := f.service.ExportEntryCSV(ctx, ids[1], &one)
	if err != nil {
		t.Fatalf("ExportEntryCSV failed: %v", err)
	}
	if name != "complexity_b.csv" || !strings.Contains(one.String(), "\nb.png,") {
		t.Errorf("Unexpected export %q: %q", name, one.String())
	}

	if _, err := f.service.HistoryEntry(ctx, "missing"); !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}

	if err := f.service.ClearHistory(ctx); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}
	if history, _ := f.service.History(ctx); history.Count != 0 {
		t.Errorf("Expected empty history after clear, got %d", history.Count)
	}
}

func TestNewComplexityService_DefaultsMinSide(t *testing.T) {
	a, err := analyzer.NewImageAnalyzer(analyzer.DetailedOptions())
	if err != nil {
		t.Fatalf("NewImageAnalyzer failed: %v", err)
	}
	defer a.Close()

	svc := NewComplexityService(Dependencies{Analyzer: a}, Config{})
	img := image.NewRGBA(image.Rect(0, 0, 63, 63))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	if _, err := svc.MeasureImage(context.Background(), "small.png", img); !apperrors.IsType(err, apperrors.ErrorTypeInvalidConfiguration) {
		t.Errorf("Expected invalid configuration below the largest box, got %v", err)
	}
	if _, err := svc.MeasureURL(context.Background(), "https://example.com/a.png"); !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error without an image repository, got %v", err)
	}
}
