package analyzer

import "math"

// Normalizer maps raw statistics into [0,1] and combines them
type Normalizer struct {
	fdMin, fdMax    float64
	lacunarityScale float64
	fdWeight        float64
	lWeight         float64
}

// NewNormalizer creates a normalizer from validated options
func NewNormalizer(opts Options) Normalizer {
	return Normalizer{
		fdMin:           opts.FDMin,
		fdMax:           opts.FDMax,
		lacunarityScale: opts.LacunarityScale,
		fdWeight:        opts.FDWeight,
		lWeight:         opts.LWeight,
	}
}

// NormalizeFD rescales the fractal domain linearly onto [0,1]
func (n Normalizer) NormalizeFD(raw float64) float64 {
	return clamp01((raw - n.fdMin) / (n.fdMax - n.fdMin))
}

// NormalizeL scales raw lacunarity by the configured constant and clamps it
func (n Normalizer) NormalizeL(raw float64) float64 {
	return clamp01(raw * n.lacunarityScale)
}

// Composite is the weighted sum of normalized FD and normalized L
func (n Normalizer) Composite(fdNorm, lNorm float64) float64 {
	return clamp01(n.fdWeight*fdNorm + n.lWeight*lNorm)
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

// clamp maps NaN to lo
func clamp(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v), v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
