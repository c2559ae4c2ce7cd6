package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/asreval/errors"
	"github.com/kbukum/asreval/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment.
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows plain HTTP to the collector.
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns defaults for a local collector.
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
// globally. The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, errors.ExternalServiceError("otlp metric exporter", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, errors.Internal(err)
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

	logger.Info("meter initialized", logger.Fields(
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

// Metrics holds the instruments recorded by the runner and the evaluator.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	jobsTotal    metric.Int64Counter
	jobDuration  metric.Float64Histogram
	samplesTotal metric.Int64Counter
	sampleWER    metric.Float64Histogram
	sampleCER    metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	jobsTotal, err := meter.Int64Counter("jobs.total",
		metric.WithDescription("Transcription jobs by terminal status"),
	)
	if err != nil {
		return nil, errors.Internal(err).WithDetail("instrument", "jobs.total")
	}

	jobDuration, err := meter.Float64Histogram("job.duration",
		metric.WithDescription("Time from job start to terminal status"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, errors.Internal(err).WithDetail("instrument", "job.duration")
	}

	samplesTotal, err := meter.Int64Counter("samples.total",
		metric.WithDescription("Evaluated samples by outcome"),
	)
	if err != nil {
		return nil, errors.Internal(err).WithDetail("instrument", "samples.total")
	}

	sampleWER, err := meter.Float64Histogram("sample.wer",
		metric.WithDescription("Word error rate per sample"),
		metric.WithUnit("%"),
	)
	if err != nil {
		return nil, errors.Internal(err).WithDetail("instrument", "sample.wer")
	}

	sampleCER, err := meter.Float64Histogram("sample.cer",
		metric.WithDescription("Character error rate per sample"),
		metric.WithUnit("%"),
	)
	if err != nil {
		return nil, errors.Internal(err).WithDetail("instrument", "sample.cer")
	}

	return &Metrics{
		jobsTotal:    jobsTotal,
		jobDuration:  jobDuration,
		samplesTotal: samplesTotal,
		sampleWER:    sampleWER,
		sampleCER:    sampleCER,
	}, nil
}

// RecordJob records a job that reached a terminal status.
func (m *Metrics) RecordJob(ctx context.Context, status string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.jobsTotal.Add(ctx, 1, attrs)
	m.jobDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordSample records the rates of a scored sample.
func (m *Metrics) RecordSample(ctx context.Context, wer, cer float64) {
	if m == nil {
		return
	}
	m.samplesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "scored")))
	m.sampleWER.Record(ctx, wer)
	m.sampleCER.Record(ctx, cer)
}

// RecordSkipped records a sample that could not be scored.
func (m *Metrics) RecordSkipped(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.samplesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", "skipped"),
		attribute.String("reason", reason),
	))
}
