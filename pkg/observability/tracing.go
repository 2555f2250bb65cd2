package observability

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// TracingOptions configures InitTracing.
type TracingOptions struct {
	Enabled     bool
	ServiceName string
	// Output receives exported spans; defaults to stdout.
	Output io.Writer
}

// InitTracing installs a global tracer provider that writes spans with the
// stdout exporter. When tracing is disabled the global no-op provider is
// left in place. The returned function flushes and stops the provider.
func InitTracing(opts TracingOptions) (func(context.Context) error, error) {
	if !opts.Enabled {
		return func(context.Context) error { return nil }, nil
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(opts.Output))
	if err != nil {
		return nil, errors.Wrap(err, "create stdout trace exporter")
	}

	res := resource.NewSchemaless(attribute.String("service.name", opts.ServiceName))
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return provider.Shutdown, nil
}
