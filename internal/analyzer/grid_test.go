package analyzer

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestGrayscaleGrid(t *testing.T) {
	testCases := []struct {
		name     string
		color    color.RGBA
		expected uint8
	}{
		{"black", color.RGBA{0, 0, 0, 255}, 0},
		{"white", color.RGBA{255, 255, 255, 255}, 255},
		{"mid gray", color.RGBA{128, 128, 128, 255}, 128},
		{"red", color.RGBA{255, 0, 0, 255}, 76},
		{"green", color.RGBA{0, 255, 0, 255}, 149},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			grid, err := GrayscaleGrid(createTestImage(4, 3, tc.color))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if grid.Width != 4 || grid.Height != 3 {
				t.Fatalf("Expected 4x3 grid, got %dx%d", grid.Width, grid.Height)
			}
			for _, v := range grid.Pix {
				if v != tc.expected {
					t.Fatalf("Expected luminance %d, got %d", tc.expected, v)
				}
			}
		})
	}
}

func TestGrayscaleGrid_GraySubImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(y*8 + x)})
		}
	}
	sub := img.SubImage(image.Rect(2, 3, 6, 5))

	grid, err := GrayscaleGrid(sub)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if grid.Width != 4 || grid.Height != 2 {
		t.Fatalf("Expected 4x2 grid, got %dx%d", grid.Width, grid.Height)
	}
	if got := grid.At(0, 0); got != 3*8+2 {
		t.Errorf("Expected origin to map to source (2,3), got %d", got)
	}
	if got := grid.At(3, 1); got != 4*8+5 {
		t.Errorf("Expected (3,1) to map to source (5,4), got %d", got)
	}
}

func TestGrayscaleGrid_InvalidInput(t *testing.T) {
	if _, err := GrayscaleGrid(nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil image, got %v", err)
	}
	empty := image.NewRGBA(image.Rect(0, 0, 0, 10))
	if _, err := GrayscaleGrid(empty); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty image, got %v", err)
	}
}

func TestEdgeMaskCount(t *testing.T) {
	mask := NewEdgeMask(5, 5)
	mask.Set(1, 1, true)
	mask.Set(4, 2, true)

	if got := mask.Count(); got != 2 {
		t.Errorf("Expected 2 edge pixels, got %d", got)
	}
	if !mask.At(4, 2) || mask.At(2, 4) {
		t.Error("Expected At to index by (x, y)")
	}
}
