package analyzer

import "image"

// ImageAnalyzer measures the visual complexity of an image.
// Implementations hold no state between calls and are safe for concurrent use.
type ImageAnalyzer interface {
	// Measure returns the flat measurement for img
	Measure(img image.Image) (Measurement, error)

	// MeasureReport returns the measurement with its intermediate statistics
	MeasureReport(img image.Image) (Report, error)

	// Options returns a copy of the options the analyzer was built with
	Options() Options

	// Lifecycle management
	Close() error
}
