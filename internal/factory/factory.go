package factory

import (
	"fmt"
	"time"

	"go-complexity-inspector/internal/analyzer"
	"go-complexity-inspector/internal/config"
	"go-complexity-inspector/internal/storage"
)

// AnalyzerType names an analyzer option preset
type AnalyzerType string

const (
	// StandardAnalyzer uses the default box sizes and windows
	StandardAnalyzer AnalyzerType = "standard"
	// FastAnalyzer trades scales for speed
	FastAnalyzer AnalyzerType = "fast"
	// DetailedAnalyzer samples more scales
	DetailedAnalyzer AnalyzerType = "detailed"
)

// StorageType represents different types of storage backends
type StorageType string

const (
	// HTTPStorage for HTTP-based image fetching
	HTTPStorage StorageType = config.StorageHTTP
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = config.StorageAzure
)

// AnalyzerFactory creates image analyzers
type AnalyzerFactory interface {
	CreateAnalyzer(analyzerType AnalyzerType) (analyzer.ImageAnalyzer, error)
	CreateFromOptions(opts analyzer.Options) (analyzer.ImageAnalyzer, error)
}

// StorageFactory creates storage implementations
type StorageFactory interface {
	CreateImageFetcher() storage.ImageFetcher
	CreateBlobStorage() (storage.BlobStorage, error)
}

type analyzerFactory struct{}

// NewAnalyzerFactory creates a new analyzer factory
func NewAnalyzerFactory() AnalyzerFactory {
	return &analyzerFactory{}
}

// CreateAnalyzer creates an analyzer from the named preset
func (f *analyzerFactory) CreateAnalyzer(analyzerType AnalyzerType) (analyzer.ImageAnalyzer, error) {
	opts, err := analyzer.Preset(string(analyzerType))
	if err != nil {
		return nil, fmt.Errorf("unsupported analyzer type %q: %w", analyzerType, err)
	}
	return analyzer.NewImageAnalyzer(opts)
}

// CreateFromOptions creates an analyzer from explicit options
func (f *analyzerFactory) CreateFromOptions(opts analyzer.Options) (analyzer.ImageAnalyzer, error) {
	return analyzer.NewImageAnalyzer(opts)
}

type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a storage factory bound to cfg
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateImageFetcher returns the HTTP fetcher used for URL measurements
func (f *storageFactory) CreateImageFetcher() storage.ImageFetcher {
	return storage.NewHTTPImageFetcher(storage.HTTPFetcherConfig{
		Timeout:       f.cfg.ImageFetchTimeout,
		MaxImageBytes: f.cfg.MaxImageBytes,
		Backoff:       time.Second,
	})
}

// CreateBlobStorage returns the blob backend, or nil when blob storage is not configured
func (f *storageFactory) CreateBlobStorage() (storage.BlobStorage, error) {
	if StorageType(f.cfg.StorageBackend) != AzureStorage {
		return nil, nil
	}
	if !f.cfg.AzureEnabled() {
		return nil, fmt.Errorf("azure storage requires account name and key")
	}
	return storage.NewAzureStorage(f.cfg.AzureStorageAccount, f.cfg.AzureStorageKey, f.cfg.MaxImageBytes)
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	AnalyzerFactory AnalyzerFactory
	StorageFactory  StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		AnalyzerFactory: NewAnalyzerFactory(),
		StorageFactory:  NewStorageFactory(cfg),
	}
}
