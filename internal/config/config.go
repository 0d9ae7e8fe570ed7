package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"go-complexity-inspector/internal/analyzer"
)

// Storage backends understood by STORAGE_BACKEND
const (
	StorageHTTP  = "http"
	StorageAzure = "azure"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	AnalysisTimeout    time.Duration
	MaxRequestBodySize int64

	// Image intake
	MaxImageBytes int64
	MaxDimension  int

	HistoryCapacity int

	StorageBackend      string
	AzureStorageAccount string
	AzureStorageKey     string

	Analyzer analyzer.Options
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// AzureEnabled reports whether blob measurements can be served
func (c *Config) AzureEnabled() bool {
	return c.StorageBackend == StorageAzure && c.AzureStorageAccount != "" && c.AzureStorageKey != ""
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		Host:                getEnvOrDefault("HOST", "0.0.0.0"),
		Port:                getEnvOrDefault("PORT", "8080"),
		RequestTimeout:      parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ImageFetchTimeout:   parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		AnalysisTimeout:     parseDurationOrDefault("ANALYSIS_TIMEOUT", 20*time.Second),
		MaxRequestBodySize:  parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB
		MaxImageBytes:       parseIntOrDefault("MAX_IMAGE_BYTES", 20*1024*1024),
		MaxDimension:        int(parseIntOrDefault("MAX_DIMENSION", 1024)),
		HistoryCapacity:     int(parseIntOrDefault("HISTORY_CAPACITY", 1000)),
		StorageBackend:      strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", StorageHTTP)),
		AzureStorageAccount: os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureStorageKey:     os.Getenv("AZURE_STORAGE_KEY"),
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.MaxImageBytes <= 0 {
		return nil, fmt.Errorf("MAX_IMAGE_BYTES must be > 0 (got %d)", cfg.MaxImageBytes)
	}
	if cfg.MaxDimension < 0 || cfg.HistoryCapacity < 0 {
		return nil, fmt.Errorf("MAX_DIMENSION and HISTORY_CAPACITY must be >= 0 (got %d, %d)",
			cfg.MaxDimension, cfg.HistoryCapacity)
	}
	if cfg.RequestTimeout <= 0 || cfg.ImageFetchTimeout <= 0 || cfg.AnalysisTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, analysis=%s)",
			cfg.RequestTimeout, cfg.ImageFetchTimeout, cfg.AnalysisTimeout)
	}
	switch cfg.StorageBackend {
	case StorageHTTP:
	case StorageAzure:
		if cfg.AzureStorageAccount == "" || cfg.AzureStorageKey == "" {
			return nil, fmt.Errorf("STORAGE_BACKEND=azure requires AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY")
		}
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND: %q", cfg.StorageBackend)
	}

	opts, err := LoadAnalyzerOptions()
	if err != nil {
		return nil, err
	}
	cfg.Analyzer = opts
	return cfg, nil
}

// LoadAnalyzerOptions starts from ANALYZER_PRESET and applies the per-field overrides
func LoadAnalyzerOptions() (analyzer.Options, error) {
	opts, err := analyzer.Preset(strings.TrimSpace(os.Getenv("ANALYZER_PRESET")))
	if err != nil {
		return analyzer.Options{}, err
	}

	if v := os.Getenv("EDGE_BACKEND"); v != "" {
		opts.EdgeBackend = analyzer.EdgeBackend(strings.TrimSpace(v))
	}
	if v := os.Getenv("LACUNARITY_SOURCE"); v != "" {
		opts.LacunaritySource = analyzer.LacunaritySource(strings.TrimSpace(v))
	}

	floats := []struct {
		key    string
		target *float64
	}{
		{"CANNY_LOW", &opts.CannyLow},
		{"CANNY_HIGH", &opts.CannyHigh},
		{"LACUNARITY_SCALE", &opts.LacunarityScale},
		{"FD_WEIGHT", &opts.FDWeight},
		{"L_WEIGHT", &opts.LWeight},
	}
	for _, f := range floats {
		if err := parseFloatInto(f.key, f.target); err != nil {
			return analyzer.Options{}, err
		}
	}

	if err := parseIntListInto("BOX_SIZES", &opts.BoxSizes); err != nil {
		return analyzer.Options{}, err
	}
	if err := parseIntListInto("WINDOW_SIZES", &opts.WindowSizes); err != nil {
		return analyzer.Options{}, err
	}
	if v := strings.TrimSpace(os.Getenv("WINDOW_STRIDE")); v != "" {
		stride, err := strconv.Atoi(v)
		if err != nil {
			return analyzer.Options{}, fmt.Errorf("invalid WINDOW_STRIDE: %q", v)
		}
		opts.WindowStride = stride
	}
	if v := strings.TrimSpace(os.Getenv("MAX_WORKERS")); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return analyzer.Options{}, fmt.Errorf("invalid MAX_WORKERS: %q", v)
		}
		opts.MaxWorkers = workers
	}

	if err := opts.Validate(); err != nil {
		return analyzer.Options{}, fmt.Errorf("invalid analyzer configuration: %w", err)
	}
	return opts, nil
}

// ParseIntList parses a comma separated list such as "2,4,8"
func ParseIntList(value string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

func parseIntListInto(key string, target *[]int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	list, err := ParseIntList(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*target = list
	return nil
}

func parseFloatInto(key string, target *float64) error {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, value)
	}
	*target = f
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
