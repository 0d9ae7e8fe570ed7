package analyzer

import (
	"fmt"
	"math"
)

// Band is one interval of a threshold table
type Band struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// ThresholdTable maps a value to a Band using half-open intervals.
// Bands[i] covers [Cuts[i-1], Cuts[i]); the first band is open below and the last open above.
type ThresholdTable struct {
	Name  string
	Cuts  []float64
	Bands []Band
}

// DefaultFDTable classifies raw fractal dimension
func DefaultFDTable() ThresholdTable {
	return ThresholdTable{
		Name: "fd",
		Cuts: []float64{1.2, 1.4, 1.7, 1.8},
		Bands: []Band{
			{Label: "simple", Description: "very simple: plain or grid-like pattern"},
			{Label: "preferred", Description: "preferred range (low): comfortable complexity"},
			{Label: "preferred", Description: "preferred range (high): engaging complexity"},
			{Label: "complex", Description: "complex: high complexity"},
			{Label: "complex", Description: "very complex: very high complexity"},
		},
	}
}

// DefaultLTable classifies normalized lacunarity
func DefaultLTable() ThresholdTable {
	return ThresholdTable{
		Name: "l",
		Cuts: []float64{0.3, 0.6},
		Bands: []Band{
			{Label: "uniform", Description: "uniform: regular arrangement"},
			{Label: "medium", Description: "medium: moderately irregular arrangement"},
			{Label: "irregular", Description: "irregular: scattered arrangement"},
		},
	}
}

// DefaultCTable classifies the composite score
func DefaultCTable() ThresholdTable {
	return ThresholdTable{
		Name: "c",
		Cuts: []float64{0.3, 0.6},
		Bands: []Band{
			{Label: "low", Description: "low overall complexity"},
			{Label: "moderate", Description: "moderate overall complexity"},
			{Label: "high", Description: "high overall complexity"},
		},
	}
}

// Classify returns the band containing v. NaN falls into the first band.
func (t ThresholdTable) Classify(v float64) Band {
	if math.IsNaN(v) {
		return t.Bands[0]
	}
	for i, cut := range t.Cuts {
		if v < cut {
			return t.Bands[i]
		}
	}
	return t.Bands[len(t.Bands)-1]
}

// Validate checks that the table has no gaps or overlaps
func (t ThresholdTable) Validate() error {
	if len(t.Bands) != len(t.Cuts)+1 {
		return fmt.Errorf("%w: table %q needs %d bands for %d cuts (got %d)",
			ErrInvalidConfiguration, t.Name, len(t.Cuts)+1, len(t.Cuts), len(t.Bands))
	}
	for i, cut := range t.Cuts {
		if isBad(cut) {
			return fmt.Errorf("%w: table %q has a non-finite cut", ErrInvalidConfiguration, t.Name)
		}
		if i > 0 && cut <= t.Cuts[i-1] {
			return fmt.Errorf("%w: table %q cuts must be strictly increasing", ErrInvalidConfiguration, t.Name)
		}
	}
	return nil
}

// Classification holds the bands chosen for one measurement
type Classification struct {
	FD Band
	L  Band
	C  Band
}

// Classifier is a pure mapping from scores to bands
type Classifier struct {
	fd, l, c ThresholdTable
}

// NewClassifier creates a classifier from the tables in opts
func NewClassifier(opts Options) Classifier {
	return Classifier{fd: opts.FDTable, l: opts.LTable, c: opts.CTable}
}

// Classify labels FD on its raw domain and L and C on their normalized ranges
func (c Classifier) Classify(fdRaw, lNorm, composite float64) Classification {
	return Classification{
		FD: c.fd.Classify(fdRaw),
		L:  c.l.Classify(lNorm),
		C:  c.c.Classify(composite),
	}
}

func (t ThresholdTable) clone() ThresholdTable {
	t.Cuts = append([]float64(nil), t.Cuts...)
	t.Bands = append([]Band(nil), t.Bands...)
	return t
}
