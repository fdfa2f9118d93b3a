package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reconcile/pkg/engine"
)

// Default tracer name for reconciliation cycles.
const defaultTracerName = "reconcile"

// spanName names every cycle span; the sequence number is an attribute.
const spanName = "reconcile.cycle"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "reconcile").
	TracerName string

	// TracerProvider supplies the tracer. Defaults to the global provider.
	TracerProvider trace.TracerProvider

	// Filter determines which cycles to trace.
	// Return true to trace the cycle, false to skip.
	// If nil, all cycles are traced.
	Filter func(c *engine.Cycle) bool

	// AttributeExtractor extracts custom attributes from a finished cycle.
	AttributeExtractor func(c *engine.Cycle) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithCycleFilter sets a filter function for cycles.
func WithCycleFilter(filter func(c *engine.Cycle) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(c *engine.Cycle) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// defaultOTelConfig returns the default OpenTelemetry configuration.
func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// OpenTelemetry creates middleware that traces every update cycle.
//
// The middleware:
//   - Creates a span per cycle carrying its sequence number
//   - Passes the span context down the middleware chain
//   - Records patch and redraw counts once the cycle finishes
//   - Records errors and sets span status
//
// Example:
//
//	e := engine.New(view, send,
//	    engine.WithMiddleware(
//	        middleware.OpenTelemetry(middleware.WithTracerName("my-app")),
//	    ),
//	)
//
// Without WithTracerProvider the tracer comes from the global provider;
// configure it with otel.SetTracerProvider before the first cycle.
func OpenTelemetry(opts ...OTelOption) engine.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	// Resolve tracer
	if config.TracerProvider != nil {
		config.tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		config.tracer = otel.Tracer(config.TracerName)
	}

	return engine.MiddlewareFunc(func(ctx context.Context, c *engine.Cycle, next func(context.Context) error) error {
		// Apply filter if configured
		if config.Filter != nil && !config.Filter(c) {
			return next(ctx)
		}

		spanCtx, span := config.tracer.Start(ctx, spanName,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attribute.Int64("reconcile.seq", int64(c.Seq))),
		)
		defer span.End()

		err := next(spanCtx)

		attrs := []attribute.KeyValue{
			attribute.Int("reconcile.patch_count", c.PatchCount()),
			attribute.Int("reconcile.redraws", c.Redraws),
			attribute.Bool("reconcile.completed", c.Completed),
			attribute.Int64("reconcile.diff_ns", c.DiffDuration.Nanoseconds()),
			attribute.Int64("reconcile.apply_ns", c.ApplyDuration.Nanoseconds()),
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(c)...)
		}
		span.SetAttributes(attrs...)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	})
}
