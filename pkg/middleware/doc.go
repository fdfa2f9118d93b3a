// Package middleware provides observability middleware for update cycles.
//
// This package includes:
//   - Prometheus metrics middleware
//   - OpenTelemetry tracing middleware
//
// Both implement engine.Middleware and are installed with
// engine.WithMiddleware:
//
//	e := engine.New(view, send,
//	    engine.WithMiddleware(
//	        middleware.Prometheus(middleware.WithNamespace("myapp")),
//	        middleware.OpenTelemetry(),
//	    ),
//	)
//
// # Prometheus Metrics
//
// Prometheus counts cycles by status, failed cycles by error code and
// patches by operation, and records diff and apply durations. Metrics are
// registered once per process on the configured registerer.
//
// # OpenTelemetry
//
// OpenTelemetry starts one span per cycle. The span context is passed down
// the chain, so middleware further in can attach child spans. Patch counts
// and the cycle outcome are recorded when the cycle returns.
//
//	middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	    middleware.WithCycleFilter(func(c *engine.Cycle) bool {
//	        return c.Seq%10 == 0 // sample every tenth cycle
//	    }),
//	)
package middleware
