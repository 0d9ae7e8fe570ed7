package analyzer

import (
	"go-complexity-inspector/pkg/models"
)

// Measurement is an alias to the shared models.Measurement
type Measurement = models.Measurement

// Report is a Measurement plus the intermediate statistics that produced it
type Report struct {
	Measurement Measurement

	Width       int
	Height      int
	EdgePixels  int
	EdgeDensity float64

	Fractal    FractalEstimate
	Lacunarity LacunarityEstimate
}

// BoxCountPoints converts the box counts to the shared model
func (r Report) BoxCountPoints() []models.BoxCountPoint {
	points := make([]models.BoxCountPoint, len(r.Fractal.Counts))
	for i, c := range r.Fractal.Counts {
		points[i] = models.BoxCountPoint{Size: c.Size, Count: c.Count}
	}
	return points
}

// LacunarityPoints converts the gliding-box samples to the shared model
func (r Report) LacunarityPoints() []models.LacunarityPoint {
	points := make([]models.LacunarityPoint, len(r.Lacunarity.Samples))
	for i, s := range r.Lacunarity.Samples {
		points[i] = models.LacunarityPoint{
			Window:     s.Window,
			Positions:  s.Positions,
			Mean:       s.Mean,
			StdDev:     s.StdDev,
			Lacunarity: s.Lacunarity,
		}
	}
	return points
}
