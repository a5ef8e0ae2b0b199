package observe

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/nguyentantai21042004/meeting-brief/internal/config"
)

const defaultServiceName = "meeting-brief"

// Telemetry owns the meter and tracer providers installed by Setup.
type Telemetry struct {
	Resource *resource.Resource

	meters  *sdkmetric.MeterProvider
	tracers *sdktrace.TracerProvider
}

type setupOptions struct {
	spans      sdktrace.SpanExporter
	registerer prometheus.Registerer
}

type Option func(*setupOptions)

// WithSpanExporter batches finished spans to exp. Without it spans are
// recorded but go nowhere.
func WithSpanExporter(exp sdktrace.SpanExporter) Option {
	return func(o *setupOptions) { o.spans = exp }
}

// WithRegisterer sends Prometheus collectors to reg instead of the default
// registry served on /metrics.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *setupOptions) { o.registerer = reg }
}

// Setup installs global providers for the brief service described by cfg.
func Setup(ctx context.Context, cfg config.ObservabilityConfig, version string, opts ...Option) (*Telemetry, error) {
	var o setupOptions
	for _, opt := range opts {
		opt(&o)
	}

	res, err := serviceResource(ctx, cfg.ServiceName, version)
	if err != nil {
		return nil, err
	}

	var promOpts []promexporter.Option
	if o.registerer != nil {
		promOpts = append(promOpts, promexporter.WithRegisterer(o.registerer))
	}
	reader, err := promexporter.New(promOpts...)
	if err != nil {
		return nil, fmt.Errorf("prometheus exporter: %w", err)
	}

	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if o.spans != nil {
		tpOpts = append(tpOpts, sdktrace.WithBatcher(o.spans))
	}

	t := &Telemetry{
		Resource: res,
		meters:   sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(reader)),
		tracers:  sdktrace.NewTracerProvider(tpOpts...),
	}
	otel.SetMeterProvider(t.meters)
	otel.SetTracerProvider(t.tracers)
	return t, nil
}

// Shutdown flushes pending spans and stops both providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return errors.Join(t.tracers.Shutdown(ctx), t.meters.Shutdown(ctx))
}

// serviceResource names the process for exporters. OTEL_RESOURCE_ATTRIBUTES
// and OTEL_SERVICE_NAME override the configured values.
func serviceResource(ctx context.Context, name, version string) (*resource.Resource, error) {
	if name == "" {
		name = defaultServiceName
	}
	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithProcessRuntimeName(),
		resource.WithProcessRuntimeVersion(),
		resource.WithAttributes(
			semconv.ServiceName(name),
			semconv.ServiceVersion(version),
		),
		resource.WithFromEnv(),
	)
	if err != nil && !errors.Is(err, resource.ErrPartialResource) {
		return nil, fmt.Errorf("build resource: %w", err)
	}
	return res, nil
}
