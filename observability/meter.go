package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/savvy/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
	// Logger receives the initialization message. Nil uses a default logger.
	Logger logger.Sink
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider should be shut down on application exit.
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

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(newResource(config.ServiceName, config.ServiceVersion, config.Environment)),
	)

	otel.SetMeterProvider(mp)

	logger.OrDefault(config.Logger, "observability").Info("meter initialized", logger.Fields(
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

// Metrics holds the instruments recorded by the REST client and the command
// runner. A nil *Metrics records nothing.
type Metrics struct {
	httpRequests metric.Int64Counter
	httpDuration metric.Float64Histogram
	execTotal    metric.Int64Counter
	execDuration metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	httpRequests, err := meter.Int64Counter("savvy.http.requests",
		metric.WithDescription("Total number of REST requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating savvy.http.requests counter: %w", err)
	}

	httpDuration, err := meter.Float64Histogram("savvy.http.duration",
		metric.WithDescription("Duration of REST requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating savvy.http.duration histogram: %w", err)
	}

	execTotal, err := meter.Int64Counter("savvy.process.execs",
		metric.WithDescription("Total number of executed commands"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating savvy.process.execs counter: %w", err)
	}

	execDuration, err := meter.Float64Histogram("savvy.process.duration",
		metric.WithDescription("Duration of executed commands in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating savvy.process.duration histogram: %w", err)
	}

	return &Metrics{
		httpRequests: httpRequests,
		httpDuration: httpDuration,
		execTotal:    execTotal,
		execDuration: execDuration,
	}, nil
}

// DefaultMetrics builds instruments on the global meter provider, returning
// nil when they cannot be created.
func DefaultMetrics() *Metrics {
	m, err := NewMetrics(Meter(InstrumentationName))
	if err != nil {
		return nil
	}
	return m
}

// RecordHTTPRequest records a completed REST request. A status of 0 means the
// request never produced a response.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("status", strconv.Itoa(status)),
	))
	m.httpDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
	))
}

// RecordExec records a finished command execution.
func (m *Metrics) RecordExec(ctx context.Context, program string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.execTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("program", program),
		attribute.String("status", strconv.Itoa(status)),
	))
	m.execDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("program", program),
	))
}
