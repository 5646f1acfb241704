package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/itemfeed/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment labels where the binary runs.
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns defaults for a local collector.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "local",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       10 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Debug("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the feed's metric instruments.
type Metrics struct {
	itemsIngested     metric.Int64Counter
	componentsActive  metric.Int64UpDownCounter
	processExits      metric.Int64Counter
	collectorDuration metric.Float64Histogram
	errorTotal        metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	itemsIngested, err := meter.Int64Counter(MetricItemsIngested,
		metric.WithDescription("Items published by ingestion loops"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricItemsIngested, err)
	}

	componentsActive, err := meter.Int64UpDownCounter(MetricComponentsActive,
		metric.WithDescription("Ingestion and watcher goroutines currently running"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricComponentsActive, err)
	}

	processExits, err := meter.Int64Counter(MetricProcessExits,
		metric.WithDescription("Reaped command processes by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricProcessExits, err)
	}

	collectorDuration, err := meter.Float64Histogram(MetricCollectorDuration,
		metric.WithDescription("Duration of collector runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricCollectorDuration, err)
	}

	errorTotal, err := meter.Int64Counter(MetricErrors,
		metric.WithDescription("Errors by code and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricErrors, err)
	}

	return &Metrics{
		itemsIngested:     itemsIngested,
		componentsActive:  componentsActive,
		processExits:      processExits,
		collectorDuration: collectorDuration,
		errorTotal:        errorTotal,
	}, nil
}

// Metric names.
const (
	MetricItemsIngested     = "feed.items.ingested"
	MetricComponentsActive  = "feed.components.active"
	MetricProcessExits      = "feed.process.exits"
	MetricCollectorDuration = "feed.collector.duration"
	MetricErrors            = "feed.errors"
)

// RecordItems adds n published items for source.
func (m *Metrics) RecordItems(ctx context.Context, source string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.itemsIngested.Add(ctx, int64(n), metric.WithAttributes(attribute.String(AttrSource, source)))
}

// ComponentStarted increments the active component gauge.
func (m *Metrics) ComponentStarted(ctx context.Context, name string) {
	if m == nil {
		return
	}
	m.componentsActive.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrComponent, name)))
}

// ComponentStopped decrements the active component gauge.
func (m *Metrics) ComponentStopped(ctx context.Context, name string) {
	if m == nil {
		return
	}
	m.componentsActive.Add(ctx, -1, metric.WithAttributes(attribute.String(AttrComponent, name)))
}

// RecordProcessExit counts one reaped process.
func (m *Metrics) RecordProcessExit(ctx context.Context, exitCode int, signaled bool) {
	if m == nil {
		return
	}
	status := "success"
	switch {
	case signaled:
		status = "signaled"
	case exitCode != 0:
		status = "failure"
	}
	m.processExits.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int(AttrExitCode, exitCode),
	))
}

// RecordCollection records a finished collector run.
func (m *Metrics) RecordCollection(ctx context.Context, source, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.collectorDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrSource, source),
		attribute.String(AttrStatus, status),
	))
}

// RecordError records an error by code and component.
func (m *Metrics) RecordError(ctx context.Context, code, component string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String(AttrComponent, component),
	))
}
