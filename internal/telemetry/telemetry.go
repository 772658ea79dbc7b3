// Package telemetry exports traces and metrics over OTLP gRPC. Exporter
// endpoints and headers come from the standard OTEL_EXPORTER_OTLP_* variables.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const defaultMetricInterval = 30 * time.Second

// Options configures telemetry export.
type Options struct {
	ServiceName string
	Version     string

	// SampleRatio is the fraction of new traces recorded. Incoming sampled
	// parents are always honoured.
	SampleRatio float64

	// MetricInterval between metric exports. Default: 30s
	MetricInterval time.Duration
}

// ShutdownFunc flushes and stops the exporters.
type ShutdownFunc func(context.Context) error

// InitTelemetry installs global trace and meter providers. A provider that
// fails to start is skipped with a warning so the server keeps running.
func InitTelemetry(ctx context.Context, opts Options) (ShutdownFunc, error) {
	res, err := newResource(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var shutdowns []ShutdownFunc

	traceExporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Tracing disabled")
	} else {
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(newSampler(opts.SampleRatio)),
		)
		otel.SetTracerProvider(tp)
		shutdowns = append(shutdowns, tp.Shutdown)
	}

	interval := opts.MetricInterval
	if interval <= 0 {
		interval = defaultMetricInterval
	}

	metricExporter, err := otlpmetricgrpc.New(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Metrics export disabled")
	} else {
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(interval))),
			sdkmetric.WithResource(res),
		)
		otel.SetMeterProvider(mp)
		shutdowns = append(shutdowns, mp.Shutdown)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info().
		Str("service", opts.ServiceName).
		Str("version", opts.Version).
		Float64("sample_ratio", opts.SampleRatio).
		Dur("metric_interval", interval).
		Msg("Telemetry initialized")

	return func(ctx context.Context) error {
		var errs []error
		for _, shutdown := range shutdowns {
			if err := shutdown(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}, nil
}

// newResource describes this service. OTEL_RESOURCE_ATTRIBUTES and
// OTEL_SERVICE_NAME override the values given here.
func newResource(ctx context.Context, opts Options) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(opts.ServiceName),
			semconv.ServiceVersion(opts.Version),
		),
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
	)
}

func newSampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	case ratio <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}
