package analyzer

import (
	"fmt"
	"image"
)

// coreAnalyzer implements ImageAnalyzer interface and orchestrates all components
type coreAnalyzer struct {
	opts       Options
	workerPool *WorkerPool
	edges      EdgeExtractor
	boxes      BoxCounter
	lacunarity LacunarityEstimator
	normalizer Normalizer
	classifier Classifier
}

// NewImageAnalyzer creates a new image analyzer with all components
func NewImageAnalyzer(opts Options) (ImageAnalyzer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.clone()

	edges, err := NewEdgeExtractor(opts)
	if err != nil {
		return nil, err
	}

	var pool *WorkerPool
	if opts.UseWorkerPool {
		pool = NewWorkerPool(opts.MaxWorkers)
		pool.Start()
	}

	return &coreAnalyzer{
		opts:       opts,
		workerPool: pool,
		edges:      edges,
		boxes:      NewBoxCounter(opts, pool),
		lacunarity: NewLacunarityEstimator(opts, pool),
		normalizer: NewNormalizer(opts),
		classifier: NewClassifier(opts),
	}, nil
}

// Measure runs the pipeline and returns the flat measurement
func (ca *coreAnalyzer) Measure(img image.Image) (Measurement, error) {
	report, err := ca.MeasureReport(img)
	if err != nil {
		return Measurement{}, err
	}
	return report.Measurement, nil
}

// MeasureReport runs edge extraction, box counting, lacunarity, normalization and classification
func (ca *coreAnalyzer) MeasureReport(img image.Image) (Report, error) {
	grid, err := GrayscaleGrid(img)
	if err != nil {
		return Report{}, err
	}
	if err := ca.opts.ValidateFor(grid.Width, grid.Height); err != nil {
		return Report{}, err
	}

	mask, err := ca.edges.Extract(grid)
	if err != nil {
		return Report{}, fmt.Errorf("edge extraction failed: %w", err)
	}

	fractal, err := ca.boxes.Estimate(mask)
	if err != nil {
		return Report{}, fmt.Errorf("box counting failed: %w", err)
	}

	mass, err := NewMassGrid(ca.opts.LacunaritySource, grid, mask, ca.opts.BinaryThreshold)
	if err != nil {
		return Report{}, err
	}
	lacunarity, err := ca.lacunarity.Estimate(mass)
	if err != nil {
		return Report{}, fmt.Errorf("lacunarity failed: %w", err)
	}

	edgePixels := mask.Count()
	report := Report{
		Width:       grid.Width,
		Height:      grid.Height,
		EdgePixels:  edgePixels,
		EdgeDensity: float64(edgePixels) / float64(grid.Width*grid.Height),
		Fractal:     fractal,
		Lacunarity:  lacunarity,
	}
	report.Measurement = ca.combine(fractal.Raw, lacunarity.Raw)
	return report, nil
}

// combine normalizes both statistics, derives C and labels all three
func (ca *coreAnalyzer) combine(fdRaw, lRaw float64) Measurement {
	fdNorm := ca.normalizer.NormalizeFD(fdRaw)
	lNorm := ca.normalizer.NormalizeL(lRaw)
	c := ca.normalizer.Composite(fdNorm, lNorm)
	labels := ca.classifier.Classify(fdRaw, lNorm, c)

	return Measurement{
		FDRaw:         fdRaw,
		FDNorm:        fdNorm,
		LRaw:          lRaw,
		LNorm:         lNorm,
		C:             c,
		FDLabel:       labels.FD.Label,
		LLabel:        labels.L.Label,
		CLabel:        labels.C.Label,
		FDDescription: labels.FD.Description,
		LDescription:  labels.L.Description,
		CDescription:  labels.C.Description,
	}
}

// Options returns a copy of the analyzer options
func (ca *coreAnalyzer) Options() Options {
	return ca.opts.clone()
}

// Close stops the worker pool; later calls run sequentially
func (ca *coreAnalyzer) Close() error {
	if ca.workerPool != nil {
		ca.workerPool.Close()
	}
	return nil
}
