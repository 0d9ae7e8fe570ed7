package analyzer

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// MassGrid holds the per-pixel mass the gliding box sums over
type MassGrid struct {
	Width  int
	Height int
	Mass   []uint32
}

// NewMassGrid derives the lacunarity source plane from the grid or the mask
func NewMassGrid(source LacunaritySource, grid *Grid, mask *EdgeMask, threshold uint8) (*MassGrid, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: empty grid", ErrInvalidInput)
	}
	m := &MassGrid{Width: grid.Width, Height: grid.Height, Mass: make([]uint32, len(grid.Pix))}
	switch source {
	case SourceBinary, "":
		for i, v := range grid.Pix {
			if v > threshold {
				m.Mass[i] = 1
			}
		}
	case SourceIntensity:
		for i, v := range grid.Pix {
			m.Mass[i] = uint32(v)
		}
	case SourceEdges:
		if mask == nil || mask.Width != grid.Width || mask.Height != grid.Height {
			return nil, fmt.Errorf("%w: edge mask does not match grid", ErrInvalidInput)
		}
		for i, b := range mask.Bits {
			if b {
				m.Mass[i] = 1
			}
		}
	default:
		return nil, fmt.Errorf("%w: unknown lacunarity source %q", ErrInvalidConfiguration, source)
	}
	return m, nil
}

// GlidingBoxSample summarises the box masses for one window size
type GlidingBoxSample struct {
	Window     int
	Positions  int
	Mean       float64
	StdDev     float64
	Lacunarity float64
}

// LacunarityEstimate is the raw lacunarity and its per-window samples
type LacunarityEstimate struct {
	Raw     float64
	Samples []GlidingBoxSample
}

// LacunarityEstimator computes gliding-box lacunarity
type LacunarityEstimator interface {
	Estimate(grid *MassGrid) (LacunarityEstimate, error)
}

type glidingBox struct {
	windows []int
	stride  int
	pool    *WorkerPool
}

// NewLacunarityEstimator creates an estimator for the windows in opts
func NewLacunarityEstimator(opts Options, pool *WorkerPool) LacunarityEstimator {
	return &glidingBox{
		windows: append([]int(nil), opts.WindowSizes...),
		stride:  opts.WindowStride,
		pool:    pool,
	}
}

// Estimate returns the mean lacunarity over the configured windows
func (gb *glidingBox) Estimate(grid *MassGrid) (LacunarityEstimate, error) {
	if grid == nil || grid.Width <= 0 || grid.Height <= 0 {
		return LacunarityEstimate{}, fmt.Errorf("%w: empty mass grid", ErrInvalidInput)
	}
	if gb.stride < 1 {
		return LacunarityEstimate{}, fmt.Errorf("%w: window stride must be >= 1", ErrInvalidConfiguration)
	}
	for _, w := range gb.windows {
		if w < 1 || w > grid.Width || w > grid.Height {
			return LacunarityEstimate{}, fmt.Errorf("%w: window size %d exceeds grid dimensions %dx%d",
				ErrInvalidConfiguration, w, grid.Width, grid.Height)
		}
	}

	table := summedArea(grid)
	estimate := LacunarityEstimate{Samples: make([]GlidingBoxSample, len(gb.windows))}
	var total float64
	for i, w := range gb.windows {
		sample := gb.sample(grid, table, w)
		estimate.Samples[i] = sample
		total += sample.Lacunarity
	}
	estimate.Raw = total / float64(len(gb.windows))
	return estimate, nil
}

// sample sweeps a w×w window over every stride-aligned position, both ends included
func (gb *glidingBox) sample(grid *MassGrid, table []uint64, w int) GlidingBoxSample {
	cols := (grid.Width-w)/gb.stride + 1
	rows := (grid.Height-w)/gb.stride + 1
	stride := grid.Width + 1

	masses := make([]float64, cols*rows)
	gb.pool.ParallelFor(rows, func(start, end int) {
		for r := start; r < end; r++ {
			y0 := r * gb.stride
			y1 := y0 + w
			for c := 0; c < cols; c++ {
				x0 := c * gb.stride
				x1 := x0 + w
				sum := table[y1*stride+x1] - table[y0*stride+x1] - table[y1*stride+x0] + table[y0*stride+x0]
				masses[r*cols+c] = float64(sum)
			}
		}
	})

	mean, std := stat.PopMeanStdDev(masses, nil)
	sample := GlidingBoxSample{Window: w, Positions: len(masses), Mean: mean, StdDev: std}
	if mean > 0 {
		ratio := std / mean
		sample.Lacunarity = ratio * ratio
	}
	return sample
}

// summedArea builds a (w+1)×(h+1) integral image with a zero first row and column
func summedArea(grid *MassGrid) []uint64 {
	stride := grid.Width + 1
	table := make([]uint64, stride*(grid.Height+1))
	for y := 0; y < grid.Height; y++ {
		var rowSum uint64
		for x := 0; x < grid.Width; x++ {
			rowSum += uint64(grid.Mass[y*grid.Width+x])
			table[(y+1)*stride+x+1] = table[y*stride+x+1] + rowSum
		}
	}
	return table
}
