package models

// MeasureRequest asks for a measurement of a remote image
type MeasureRequest struct {
	URL      string `json:"url" binding:"required"`
	Detailed bool   `json:"detailed,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MeasurementResponse is returned for every successful measurement
type MeasurementResponse struct {
	ID                string      `json:"id"`
	Source            string      `json:"source"`
	Timestamp         string      `json:"timestamp"`
	ProcessingTimeSec float64     `json:"processing_time_sec"`
	Image             ImageInfo   `json:"image"`
	Measurement       Measurement `json:"measurement"`
}

// DetailedMeasurementResponse adds the intermediate statistics of the pipeline
type DetailedMeasurementResponse struct {
	MeasurementResponse

	EdgePixels  int               `json:"edge_pixels"`
	EdgeDensity float64           `json:"edge_density"`
	BoxCounts   []BoxCountPoint   `json:"box_counts"`
	Slope       float64           `json:"slope"`
	Intercept   float64           `json:"intercept"`
	RSquared    float64           `json:"r_squared"`
	Degenerate  bool              `json:"degenerate"`
	Lacunarity  []LacunarityPoint `json:"lacunarity"`
}

// HistoryResponse lists recorded measurements in insertion order
type HistoryResponse struct {
	Count   int            `json:"count"`
	Entries []HistoryEntry `json:"entries"`
}

// BlobMeasureRequest asks for a measurement of an Azure blob
type BlobMeasureRequest struct {
	BlobURL string `json:"blob_url" binding:"required"`
}

// StatsResponse reports measurement counters since start-up
type StatsResponse struct {
	Started        int64   `json:"started"`
	Completed      int64   `json:"completed"`
	Failed         int64   `json:"failed"`
	ImagesFetched  int64   `json:"images_fetched"`
	AvgDurationSec float64 `json:"avg_duration_sec"`
	HistoryLength  int     `json:"history_length"`
}
