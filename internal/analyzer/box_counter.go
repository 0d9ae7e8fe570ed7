package analyzer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// BoxCount is the number of occupied boxes at one box size
type BoxCount struct {
	Size  int
	Count int
}

// Regression is the least-squares fit of log N(ε) against log(1/ε)
type Regression struct {
	Slope     float64
	Intercept float64
	RSquared  float64
	Points    int
}

// FractalEstimate is the outcome of box counting on one mask
type FractalEstimate struct {
	Raw        float64
	Counts     []BoxCount
	Regression Regression
	// Degenerate is set when no slope could be fitted and Raw is the domain minimum
	Degenerate bool
}

// BoxCounter estimates the fractal dimension of an edge mask
type BoxCounter interface {
	Estimate(mask *EdgeMask) (FractalEstimate, error)
}

type boxCounter struct {
	sizes        []int
	fdMin, fdMax float64
	pool         *WorkerPool
}

// NewBoxCounter creates a box counter for the sizes and domain in opts
func NewBoxCounter(opts Options, pool *WorkerPool) BoxCounter {
	return &boxCounter{
		sizes: append([]int(nil), opts.BoxSizes...),
		fdMin: opts.FDMin,
		fdMax: opts.FDMax,
		pool:  pool,
	}
}

// Estimate counts boxes at every size and fits the log-log slope
func (bc *boxCounter) Estimate(mask *EdgeMask) (FractalEstimate, error) {
	if mask == nil || mask.Width <= 0 || mask.Height <= 0 {
		return FractalEstimate{}, fmt.Errorf("%w: empty edge mask", ErrInvalidInput)
	}
	if largest := bc.sizes[len(bc.sizes)-1]; largest > min(mask.Width, mask.Height) {
		return FractalEstimate{}, fmt.Errorf("%w: box size %d exceeds mask dimensions %dx%d",
			ErrInvalidConfiguration, largest, mask.Width, mask.Height)
	}

	counts := make([]BoxCount, len(bc.sizes))
	bc.pool.ParallelFor(len(bc.sizes), func(start, end int) {
		for i := start; i < end; i++ {
			counts[i] = BoxCount{Size: bc.sizes[i], Count: CountBoxes(mask, bc.sizes[i])}
		}
	})

	estimate := FractalEstimate{Counts: counts}

	var xs, ys []float64
	first, distinct := 0, false
	for _, c := range counts {
		if c.Count == 0 {
			continue
		}
		if len(xs) == 0 {
			first = c.Count
		} else if c.Count != first {
			distinct = true
		}
		xs = append(xs, math.Log(1/float64(c.Size)))
		ys = append(ys, math.Log(float64(c.Count)))
	}

	if len(xs) == 1 {
		return FractalEstimate{}, fmt.Errorf("%w: only %d of %d box sizes contain edges",
			ErrInsufficientData, len(xs), len(counts))
	}
	if !distinct {
		// empty mask, or one distinct N(ε) among the scales that saw edges
		estimate.Raw = bc.fdMin
		estimate.Degenerate = true
		estimate.Regression = Regression{Points: len(xs)}
		return estimate, nil
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, intercept, slope)
	if math.IsNaN(r2) {
		r2 = 0
	}
	estimate.Regression = Regression{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  r2,
		Points:    len(xs),
	}
	estimate.Raw = clamp(slope, bc.fdMin, bc.fdMax)
	return estimate, nil
}

// CountBoxes tiles the mask with size×size cells and counts cells holding an edge.
// Partial cells on the right and bottom border are truncated.
func CountBoxes(mask *EdgeMask, size int) int {
	cols := mask.Width / size
	rows := mask.Height / size
	if cols == 0 || rows == 0 {
		return 0
	}

	occupied := make([]bool, cols)
	count := 0
	for by := 0; by < rows; by++ {
		clear(occupied)
		for y := by * size; y < (by+1)*size; y++ {
			row := mask.Bits[y*mask.Width : y*mask.Width+cols*size]
			for x, bit := range row {
				if bit {
					occupied[x/size] = true
				}
			}
		}
		for _, o := range occupied {
			if o {
				count++
			}
		}
	}
	return count
}
