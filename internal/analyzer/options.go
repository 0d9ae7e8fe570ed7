package analyzer

import (
	"fmt"
	"math"
)

// LacunaritySource selects the grid the gliding box is swept over
type LacunaritySource string

const (
	// SourceBinary counts pixels brighter than BinaryThreshold
	SourceBinary LacunaritySource = "binary"
	// SourceEdges counts edge-mask pixels
	SourceEdges LacunaritySource = "edges"
	// SourceIntensity sums raw grayscale intensities
	SourceIntensity LacunaritySource = "intensity"
)

// EdgeBackend selects the edge detector implementation
type EdgeBackend string

const (
	// BackendNative is the pure Go Canny detector
	BackendNative EdgeBackend = "native"
	// BackendGoCV delegates to OpenCV and requires the gocv build tag
	BackendGoCV EdgeBackend = "gocv"
)

// weightTolerance bounds how far FDWeight+LWeight may drift from 1
const weightTolerance = 1e-9

// Options holds every tunable of the measurement pipeline
type Options struct {
	// Edge extraction
	EdgeBackend EdgeBackend
	CannyLow    float64
	CannyHigh   float64

	// Box counting; strictly increasing, all >= 2
	BoxSizes []int

	// Gliding box
	WindowSizes      []int
	WindowStride     int
	LacunaritySource LacunaritySource
	BinaryThreshold  uint8

	// Normalization. LNorm = clamp(LRaw * LacunarityScale, 0, 1)
	FDMin           float64
	FDMax           float64
	LacunarityScale float64
	FDWeight        float64
	LWeight         float64

	// Classification
	FDTable ThresholdTable
	LTable  ThresholdTable
	CTable  ThresholdTable

	// Performance options
	UseWorkerPool bool
	MaxWorkers    int
}

// DefaultOptions returns default measurement options
func DefaultOptions() Options {
	return Options{
		EdgeBackend:      BackendNative,
		CannyLow:         50,
		CannyHigh:        150,
		BoxSizes:         []int{2, 4, 8, 16, 32, 64},
		WindowSizes:      []int{32},
		WindowStride:     1,
		LacunaritySource: SourceBinary,
		BinaryThreshold:  128,
		FDMin:            1.0,
		FDMax:            2.0,
		LacunarityScale:  0.5,
		FDWeight:         0.7,
		LWeight:          0.3,
		FDTable:          DefaultFDTable(),
		LTable:           DefaultLTable(),
		CTable:           DefaultCTable(),
		UseWorkerPool:    true,
		MaxWorkers:       0, // Use default CPU count
	}
}

// FastOptions trades gliding-box resolution for speed
func FastOptions() Options {
	opts := DefaultOptions()
	opts.WindowStride = 4
	return opts
}

// DetailedOptions sweeps several window sizes and averages their lacunarity
func DetailedOptions() Options {
	opts := DefaultOptions()
	opts.WindowSizes = []int{8, 16, 32, 64}
	return opts
}

// Preset returns the named option preset
func Preset(name string) (Options, error) {
	switch name {
	case "", "standard", "default":
		return DefaultOptions(), nil
	case "fast":
		return FastOptions(), nil
	case "detailed":
		return DetailedOptions(), nil
	default:
		return Options{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidConfiguration, name)
	}
}

// WithBoxSizes returns options using the given box size set
func (opts Options) WithBoxSizes(sizes ...int) Options {
	opts.BoxSizes = append([]int(nil), sizes...)
	return opts
}

// WithCannyThresholds sets the hysteresis thresholds
func (opts Options) WithCannyThresholds(low, high float64) Options {
	opts.CannyLow = low
	opts.CannyHigh = high
	return opts
}

// WithWindows sets the gliding-box window sizes and stride
func (opts Options) WithWindows(stride int, sizes ...int) Options {
	opts.WindowStride = stride
	opts.WindowSizes = append([]int(nil), sizes...)
	return opts
}

// WithLacunaritySource selects the gliding-box source grid
func (opts Options) WithLacunaritySource(source LacunaritySource) Options {
	opts.LacunaritySource = source
	return opts
}

// WithWeights sets the composite weights; they must sum to 1
func (opts Options) WithWeights(fd, l float64) Options {
	opts.FDWeight = fd
	opts.LWeight = l
	return opts
}

// WithoutWorkerPool runs every stage on the calling goroutine
func (opts Options) WithoutWorkerPool() Options {
	opts.UseWorkerPool = false
	return opts
}

// Validate checks the options independently of any image
func (opts Options) Validate() error {
	switch opts.EdgeBackend {
	case BackendNative, BackendGoCV:
	default:
		return fmt.Errorf("%w: unknown edge backend %q", ErrInvalidConfiguration, opts.EdgeBackend)
	}
	if opts.CannyLow < 0 || opts.CannyHigh < opts.CannyLow || isBad(opts.CannyLow) || isBad(opts.CannyHigh) {
		return fmt.Errorf("%w: canny thresholds must satisfy 0 <= low <= high (got %v, %v)",
			ErrInvalidConfiguration, opts.CannyLow, opts.CannyHigh)
	}

	if len(opts.BoxSizes) < 2 {
		return fmt.Errorf("%w: at least two box sizes are required (got %d)", ErrInvalidConfiguration, len(opts.BoxSizes))
	}
	for i, size := range opts.BoxSizes {
		if size < 2 {
			return fmt.Errorf("%w: box size %d must be >= 2", ErrInvalidConfiguration, size)
		}
		if i > 0 && size <= opts.BoxSizes[i-1] {
			return fmt.Errorf("%w: box sizes must be strictly increasing (%d after %d)",
				ErrInvalidConfiguration, size, opts.BoxSizes[i-1])
		}
	}

	if len(opts.WindowSizes) == 0 {
		return fmt.Errorf("%w: at least one window size is required", ErrInvalidConfiguration)
	}
	for _, w := range opts.WindowSizes {
		if w < 1 {
			return fmt.Errorf("%w: window size %d must be >= 1", ErrInvalidConfiguration, w)
		}
	}
	if opts.WindowStride < 1 {
		return fmt.Errorf("%w: window stride must be >= 1 (got %d)", ErrInvalidConfiguration, opts.WindowStride)
	}
	switch opts.LacunaritySource {
	case SourceBinary, SourceEdges, SourceIntensity:
	default:
		return fmt.Errorf("%w: unknown lacunarity source %q", ErrInvalidConfiguration, opts.LacunaritySource)
	}

	if isBad(opts.FDMin) || isBad(opts.FDMax) || opts.FDMax <= opts.FDMin {
		return fmt.Errorf("%w: fractal domain must satisfy min < max (got [%v, %v])",
			ErrInvalidConfiguration, opts.FDMin, opts.FDMax)
	}
	if isBad(opts.LacunarityScale) || opts.LacunarityScale <= 0 {
		return fmt.Errorf("%w: lacunarity scale must be > 0 (got %v)", ErrInvalidConfiguration, opts.LacunarityScale)
	}
	if isBad(opts.FDWeight) || isBad(opts.LWeight) || opts.FDWeight < 0 || opts.LWeight < 0 {
		return fmt.Errorf("%w: weights must be non-negative (got %v, %v)", ErrInvalidConfiguration, opts.FDWeight, opts.LWeight)
	}
	if math.Abs(opts.FDWeight+opts.LWeight-1) > weightTolerance {
		return fmt.Errorf("%w: weights must sum to 1 (got %v)", ErrInvalidConfiguration, opts.FDWeight+opts.LWeight)
	}

	for _, table := range []ThresholdTable{opts.FDTable, opts.LTable, opts.CTable} {
		if err := table.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFor checks the options against the dimensions of an image
func (opts Options) ValidateFor(width, height int) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	limit := min(width, height)
	if largest := opts.BoxSizes[len(opts.BoxSizes)-1]; largest > limit {
		return fmt.Errorf("%w: box size %d exceeds image dimensions %dx%d",
			ErrInvalidConfiguration, largest, width, height)
	}
	for _, w := range opts.WindowSizes {
		if w > width || w > height {
			return fmt.Errorf("%w: window size %d exceeds image dimensions %dx%d",
				ErrInvalidConfiguration, w, width, height)
		}
	}
	return nil
}

// MinDimension is the smallest side an image may have under these options
func (opts Options) MinDimension() int {
	need := 1
	if n := len(opts.BoxSizes); n > 0 {
		need = max(need, opts.BoxSizes[n-1])
	}
	for _, w := range opts.WindowSizes {
		need = max(need, w)
	}
	return need
}

func isBad(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// clone deep-copies the slices so callers cannot mutate a running analyzer
func (opts Options) clone() Options {
	opts.BoxSizes = append([]int(nil), opts.BoxSizes...)
	opts.WindowSizes = append([]int(nil), opts.WindowSizes...)
	opts.FDTable = opts.FDTable.clone()
	opts.LTable = opts.LTable.clone()
	opts.CTable = opts.CTable.clone()
	return opts
}
