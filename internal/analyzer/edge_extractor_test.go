package analyzer

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func extractEdges(t *testing.T, img image.Image) *EdgeMask {
	t.Helper()
	grid, err := GrayscaleGrid(img)
	if err != nil {
		t.Fatalf("GrayscaleGrid failed: %v", err)
	}
	extractor, err := NewEdgeExtractor(DefaultOptions())
	if err != nil {
		t.Fatalf("NewEdgeExtractor failed: %v", err)
	}
	mask, err := extractor.Extract(grid)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	return mask
}

func TestCannyUniformImageHasNoEdges(t *testing.T) {
	for _, c := range []color.RGBA{{0, 0, 0, 255}, {128, 128, 128, 255}, {255, 255, 255, 255}} {
		mask := extractEdges(t, createTestImage(64, 64, c))
		if n := mask.Count(); n != 0 {
			t.Errorf("Expected no edges for uniform %v, got %d", c, n)
		}
	}
}

func TestCannyStepEdge(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 32; x < 64; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	mask := extractEdges(t, img)

	// one-pixel line on the dark side of the step, frame excluded
	if n := mask.Count(); n != 62 {
		t.Errorf("Expected 62 edge pixels, got %d", n)
	}
	for y := 1; y < 63; y++ {
		if !mask.At(31, y) {
			t.Errorf("Expected edge at (31,%d)", y)
		}
		if mask.At(32, y) {
			t.Errorf("Expected no edge at (32,%d)", y)
		}
	}
}

func TestCannyFrameIsNeverEdge(t *testing.T) {
	mask := extractEdges(t, createNoiseImage(32, 32, 7))
	for i := 0; i < 32; i++ {
		if mask.At(i, 0) || mask.At(i, 31) || mask.At(0, i) || mask.At(31, i) {
			t.Fatalf("Expected border pixels to never be edges (index %d)", i)
		}
	}
	if mask.Count() == 0 {
		t.Error("Expected noise to produce edges")
	}
}

func TestCannyWeakStepBelowThresholds(t *testing.T) {
	// magnitude 4*10 = 40 never exceeds the default low threshold
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 8; x < 16; x++ {
			img.SetGray(x, y, color.Gray{Y: 10})
		}
	}
	if n := extractEdges(t, img).Count(); n != 0 {
		t.Errorf("Expected weak step to be ignored, got %d edges", n)
	}
}

func TestCannyTinyGrid(t *testing.T) {
	extractor, _ := NewEdgeExtractor(DefaultOptions())
	mask, err := extractor.Extract(NewGrid(2, 2))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if mask.Count() != 0 {
		t.Error("Expected empty mask for a grid without interior pixels")
	}

	if _, err := extractor.Extract(nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil grid, got %v", err)
	}
}

func TestGradientSector(t *testing.T) {
	testCases := []struct {
		gx, gy   int32
		expected uint8
	}{
		{10, 0, sectorHorizontal},
		{-10, 1, sectorHorizontal},
		{0, 10, sectorVertical},
		{1, -10, sectorVertical},
		{10, 10, sectorDiagonal},
		{-10, -10, sectorDiagonal},
		{10, -10, sectorAntiDiagonal},
		{-10, 10, sectorAntiDiagonal},
	}
	for _, tc := range testCases {
		if got := gradientSector(tc.gx, tc.gy); got != tc.expected {
			t.Errorf("gradientSector(%d, %d): expected %d, got %d", tc.gx, tc.gy, tc.expected, got)
		}
	}
}
