package container

import (
	"fmt"
	"net/http"

	"go-complexity-inspector/internal/analyzer"
	"go-complexity-inspector/internal/config"
	"go-complexity-inspector/internal/factory"
	"go-complexity-inspector/internal/logger"
	"go-complexity-inspector/internal/observer"
	"go-complexity-inspector/internal/repository"
	"go-complexity-inspector/internal/service"
	"go-complexity-inspector/internal/transport"
	"go-complexity-inspector/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config            *config.Config
	imageAnalyzer     analyzer.ImageAnalyzer
	imageRepository   repository.ImageRepository
	historyRepository repository.HistoryRepository
	events            *observer.EventPublisher
	complexityService service.ComplexityService
	handler           http.Handler
}

// NewContainer builds the dependency graph for cfg
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	components := factory.NewComponentFactory(cfg)

	imageAnalyzer, err := components.AnalyzerFactory.CreateFromOptions(cfg.Analyzer)
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}

	blobs, err := components.StorageFactory.CreateBlobStorage()
	if err != nil {
		imageAnalyzer.Close()
		return nil, fmt.Errorf("failed to create blob storage: %w", err)
	}

	urls := validation.NewURLValidator()
	imageRepository := repository.NewHTTPImageRepository(components.StorageFactory.CreateImageFetcher(), urls)
	historyRepository := repository.NewMemoryHistoryRepository(cfg.HistoryCapacity)

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	complexityService := service.NewComplexityService(service.Dependencies{
		Images:   imageRepository,
		Blobs:    blobs,
		History:  historyRepository,
		Analyzer: imageAnalyzer,
		URLs:     urls,
		Events:   events,
		Metrics:  metrics,
	}, service.Config{
		MaxImageBytes: cfg.MaxImageBytes,
		MaxDimension:  cfg.MaxDimension,
	})

	return &Container{
		config:            cfg,
		imageAnalyzer:     imageAnalyzer,
		imageRepository:   imageRepository,
		historyRepository: historyRepository,
		events:            events,
		complexityService: complexityService,
		handler:           transport.NewHandler(complexityService, cfg),
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Service returns the measurement service
func (c *Container) Service() service.ComplexityService {
	return c.complexityService
}

// Close drains pending events and stops the analyzer workers
func (c *Container) Close() error {
	c.events.Wait()
	return c.imageAnalyzer.Close()
}
