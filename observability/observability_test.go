package observability

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	prev := otel.GetTracerProvider()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return sr
}

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("savvyctl")

	if cfg.ServiceName != "savvyctl" {
		t.Errorf("expected ServiceName 'savvyctl', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("savvyctl")
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.rate), func(t *testing.T) {
			if got := sampler(tc.rate).Description(); got != tc.want {
				t.Errorf("sampler(%v) = %q, want %q", tc.rate, got, tc.want)
			}
		})
	}
}

func TestNewResource(t *testing.T) {
	res := newResource("svc", "1.2.3", "test")
	got := map[string]string{}
	for _, kv := range res.Attributes() {
		got[string(kv.Key)] = kv.Value.Emit()
	}
	if got[AttrServiceName] != "svc" {
		t.Errorf("expected service.name svc, got %q", got[AttrServiceName])
	}
	if got["service.version"] != "1.2.3" {
		t.Errorf("expected service.version 1.2.3, got %q", got["service.version"])
	}
}

func TestOperationRecordsSpan(t *testing.T) {
	sr := installRecorder(t)

	ctx, op := StartOperation(context.Background(), SpanHTTPRequest,
		attribute.String(AttrHTTPMethod, "GET"),
	)
	op.SetAttributes(attribute.Int(AttrHTTPStatus, 201))
	op.End(ctx, nil)

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name() != SpanHTTPRequest {
		t.Errorf("expected span %q, got %q", SpanHTTPRequest, span.Name())
	}

	attrs := map[string]bool{}
	for _, kv := range span.Attributes() {
		attrs[string(kv.Key)] = true
	}
	for _, key := range []string{AttrHTTPMethod, AttrHTTPStatus, AttrDurationMs} {
		if !attrs[key] {
			t.Errorf("expected attribute %q on span", key)
		}
	}
	if span.Status().Code == codes.Error {
		t.Error("expected no error status for a clean operation")
	}
}

func TestOperationRecordsError(t *testing.T) {
	sr := installRecorder(t)

	ctx, op := StartOperation(context.Background(), SpanProcessExec)
	op.End(ctx, fmt.Errorf("spawn failed"))

	span := sr.Ended()[0]
	if span.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", span.Status().Code)
	}
	if span.Status().Description != "spawn failed" {
		t.Errorf("unexpected status description %q", span.Status().Description)
	}
	if len(span.Events()) == 0 {
		t.Error("expected an exception event")
	}
}

func TestSetSpanErrorNoSpan(t *testing.T) {
	SetSpanError(context.Background(), fmt.Errorf("no span error"))
}

func TestNewMetricsNoop(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordHTTPRequest(ctx, "GET", 200, 100*time.Millisecond)
	metrics.RecordExec(ctx, "ls", 0, 50*time.Millisecond)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordHTTPRequest(context.Background(), "GET", 500, time.Second)
	m.RecordExec(context.Background(), "ls", 1, time.Second)
}

func TestMetricsInstrumentNames(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := NewMetrics(mp.Meter(InstrumentationName))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	ctx := context.Background()
	metrics.RecordHTTPRequest(ctx, "POST", 201, 10*time.Millisecond)
	metrics.RecordExec(ctx, "echo", 0, 5*time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	var names []string
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names = append(names, m.Name)
		}
	}
	sort.Strings(names)

	want := []string{
		"savvy.http.duration",
		"savvy.http.requests",
		"savvy.process.duration",
		"savvy.process.execs",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("instrument names mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultMetrics(t *testing.T) {
	if DefaultMetrics() == nil {
		t.Error("expected instruments from the global meter provider")
	}
}

func TestInitTracer(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	cfg := DefaultTracerConfig("test-service")
	tp, err := InitTracer(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("InitTracer() error = %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = tp.Shutdown(ctx)
}

func TestInitMeter(t *testing.T) {
	prev := otel.GetMeterProvider()
	defer otel.SetMeterProvider(prev)

	cfg := DefaultMeterConfig("test-service")
	cfg.Interval = 0
	mp, err := InitMeter(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("InitMeter() error = %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = mp.Shutdown(ctx)
}
