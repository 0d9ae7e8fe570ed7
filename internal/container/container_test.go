package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-complexity-inspector/internal/analyzer"
	"go-complexity-inspector/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Host:               "127.0.0.1",
		Port:               "8080",
		MaxRequestBodySize: 1 << 20,
		MaxImageBytes:      1 << 20,
		MaxDimension:       256,
		HistoryCapacity:    10,
		StorageBackend:     config.StorageHTTP,
		Analyzer:           analyzer.DefaultOptions().WithoutWorkerPool(),
	}
}

func TestNewContainerRequiresConfig(t *testing.T) {
	if _, err := NewContainer(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestNewContainerRejectsInvalidAnalyzer(t *testing.T) {
	cfg := testConfig()
	cfg.Analyzer = cfg.Analyzer.WithBoxSizes(8)
	if _, err := NewContainer(cfg); err == nil {
		t.Fatal("expected error for invalid analyzer options")
	}
}

func TestContainerServesHealth(t *testing.T) {
	c, err := NewContainer(testConfig())
	if err != nil {
		t.Fatalf("NewContainer() error: %v", err)
	}
	defer c.Close()

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 from /health, got %d", w.Code)
	}

	stats := c.Service().Stats(context.Background())
	if stats.HistoryLength != 0 {
		t.Errorf("expected empty history, got %d", stats.HistoryLength)
	}
}
