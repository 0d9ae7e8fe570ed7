package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// MeasurementEvent represents a measurement lifecycle event
type MeasurementEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	Source         string                 `json:"source"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of measurement event
type EventType string

const (
	// MeasurementStarted when a measurement begins
	MeasurementStarted EventType = "measurement_started"
	// MeasurementCompleted when a measurement finishes successfully
	MeasurementCompleted EventType = "measurement_completed"
	// MeasurementFailed when a measurement fails
	MeasurementFailed EventType = "measurement_failed"
	// ImageFetched when the image is successfully loaded
	ImageFetched EventType = "image_fetched"
	// ImageFetchFailed when the image cannot be loaded
	ImageFetchFailed EventType = "image_fetch_failed"
	// HistoryCleared when the history is emptied
	HistoryCleared EventType = "history_cleared"
)

// NewEvent stamps an event with the current time
func NewEvent(eventType EventType, source string) MeasurementEvent {
	return MeasurementEvent{EventType: eventType, Timestamp: time.Now(), Source: source}
}

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event MeasurementEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event MeasurementEvent)
}

// LoggingObserver logs measurement events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles measurement events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event MeasurementEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"source":     event.Source,
		"success":    event.Success,
	}
	if event.ProcessingTime > 0 {
		fields["processing_time_sec"] = event.ProcessingTime.Seconds()
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case MeasurementStarted:
		entry.Debug("Measurement started")
	case MeasurementCompleted:
		entry.Info("Measurement completed")
	case MeasurementFailed:
		entry.Error("Measurement failed")
	case ImageFetched:
		entry.Debug("Image fetched successfully")
	case ImageFetchFailed:
		entry.Error("Image fetch failed")
	case HistoryCleared:
		entry.Info("History cleared")
	default:
		entry.Info("Measurement event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsSnapshot is a copy of the MetricsObserver counters
type MetricsSnapshot struct {
	Started             int64
	Completed           int64
	Failed              int64
	ImagesFetched       int64
	TotalProcessingTime time.Duration
}

// AvgProcessingTime is the mean duration of completed measurements
func (s MetricsSnapshot) AvgProcessingTime() time.Duration {
	if s.Completed == 0 {
		return 0
	}
	return s.TotalProcessingTime / time.Duration(s.Completed)
}

// MetricsObserver collects counters from measurement events
type MetricsObserver struct {
	mu       sync.RWMutex
	snapshot MetricsSnapshot
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent handles measurement events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event MeasurementEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case MeasurementStarted:
		o.snapshot.Started++
	case MeasurementCompleted:
		o.snapshot.Completed++
		o.snapshot.TotalProcessingTime += event.ProcessingTime
	case MeasurementFailed:
		o.snapshot.Failed++
	case ImageFetched:
		o.snapshot.ImagesFetched++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// Snapshot returns the current counters
func (o *MetricsObserver) Snapshot() MetricsSnapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.snapshot
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
	pending   sync.WaitGroup
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event.
// Observers run concurrently and outlive the caller's context cancellation.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event MeasurementEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	ctx = context.WithoutCancel(ctx)
	for _, observer := range observers {
		p.pending.Add(1)
		go func(obs Observer) {
			defer p.pending.Done()
			defer func() {
				if r := recover(); r != nil {
					// Log panic but don't crash the application
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}

// Wait blocks until every notification sent so far has been handled
func (p *EventPublisher) Wait() {
	p.pending.Wait()
}
