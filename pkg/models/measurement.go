package models

import "time"

// Measurement is the flat result of one complexity measurement.
// FDRaw lives in the fractal domain [1,2]; every *Norm value and C lie in [0,1].
type Measurement struct {
	FDRaw  float64 `json:"fd_raw"`
	FDNorm float64 `json:"fd_norm"`
	LRaw   float64 `json:"l_raw"`
	LNorm  float64 `json:"l_norm"`
	C      float64 `json:"c"`

	FDLabel string `json:"fd_label"`
	LLabel  string `json:"l_label"`
	CLabel  string `json:"c_label"`

	FDDescription string `json:"fd_description"`
	LDescription  string `json:"l_description"`
	CDescription  string `json:"c_description"`
}

// HistoryEntry is one measurement recorded by a caller-owned history
type HistoryEntry struct {
	ID          string      `json:"id"`
	Source      string      `json:"source"`
	Timestamp   time.Time   `json:"timestamp"`
	Measurement Measurement `json:"measurement"`
}

// BoxCountPoint is a single (box size, occupied boxes) sample
type BoxCountPoint struct {
	Size  int `json:"size"`
	Count int `json:"count"`
}

// LacunarityPoint summarises the gliding-box masses for one window size
type LacunarityPoint struct {
	Window     int     `json:"window"`
	Positions  int     `json:"positions"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Lacunarity float64 `json:"lacunarity"`
}

// ImageInfo describes the image as it was measured
type ImageInfo struct {
	OriginalWidth  int    `json:"original_width"`
	OriginalHeight int    `json:"original_height"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Format         string `json:"format,omitempty"`
}
