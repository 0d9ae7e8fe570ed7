package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrDecode is returned when the bytes are not a supported image
	ErrDecode = errors.New("unsupported or corrupt image")
	// ErrTooLarge is returned when the payload exceeds the byte limit
	ErrTooLarge = errors.New("image exceeds size limit")
)

// SupportedFormats lists the decoders registered by this package
var SupportedFormats = []string{"jpeg", "png", "gif", "webp", "bmp", "tiff"}

// MaxSourceSide is the default pixel limit per side, checked before decoding
const MaxSourceSide = 4096

// Limits bounds a decode. Zero fields disable the corresponding check.
type Limits struct {
	MaxBytes  int64
	MaxWidth  int
	MaxHeight int
}

// DecodeImage decodes at most limit bytes from r and rejects images larger than
// MaxSourceSide pixels per side. A limit <= 0 disables the byte check.
func DecodeImage(r io.Reader, limit int64) (image.Image, string, error) {
	return DecodeImageWithLimits(r, Limits{MaxBytes: limit, MaxWidth: MaxSourceSide, MaxHeight: MaxSourceSide})
}

// DecodeImageWithLimits reads the image header first so declared dimensions are
// rejected before any pixel buffer is allocated.
func DecodeImageWithLimits(r io.Reader, limits Limits) (image.Image, string, error) {
	reader := r
	var counter *limitedReader
	if limits.MaxBytes > 0 {
		counter = &limitedReader{r: r, remaining: limits.MaxBytes + 1}
		reader = counter
	}
	tooLarge := func() bool { return counter != nil && counter.remaining <= 0 }
	buffered := bufio.NewReader(reader)

	var header bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(buffered, &header))
	if tooLarge() {
		return nil, "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limits.MaxBytes)
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if (limits.MaxWidth > 0 && cfg.Width > limits.MaxWidth) || (limits.MaxHeight > 0 && cfg.Height > limits.MaxHeight) {
		return nil, "", fmt.Errorf("%w: %dx%d pixels exceeds %dx%d",
			ErrTooLarge, cfg.Width, cfg.Height, limits.MaxWidth, limits.MaxHeight)
	}

	img, format, err := image.Decode(io.MultiReader(&header, buffered))
	if tooLarge() {
		return nil, "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limits.MaxBytes)
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, format, nil
}

// limitedReader is io.LimitReader that lets the caller see exhaustion
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}
