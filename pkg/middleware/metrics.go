package middleware

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/engine"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "reconcile").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for diff and apply durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "reconcile",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for update cycles.
type metrics struct {
	cyclesTotal   *prometheus.CounterVec
	cycleErrors   *prometheus.CounterVec
	patchesTotal  *prometheus.CounterVec
	redrawsTotal  prometheus.Counter
	diffDuration  prometheus.Histogram
	applyDuration prometheus.Histogram
}

// globalMetrics is the singleton metrics instance.
// Created on first call to Prometheus().
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

// initMetrics initializes the Prometheus metrics.
func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		cyclesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cycles_total",
			Help:        "Total number of update cycles by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		cycleErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cycle_errors_total",
			Help:        "Total number of failed update cycles by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		patchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_total",
			Help:        "Total number of patches applied by operation, including nested patches",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		redrawsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "redraws_total",
			Help:        "Total number of subtrees rebuilt from scratch",
			ConstLabels: config.ConstLabels,
		}),

		diffDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "diff_duration_seconds",
			Help:        "Time spent diffing virtual trees in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		applyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "apply_duration_seconds",
			Help:        "Time spent locating and applying patches in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// Prometheus creates middleware that collects Prometheus metrics for update
// cycles.
//
// Metrics collected:
//   - reconcile_cycles_total: Counter of cycles by status
//   - reconcile_cycle_errors_total: Counter of failed cycles by error code
//   - reconcile_patches_total: Counter of patches by operation
//   - reconcile_redraws_total: Counter of Redraw patches
//   - reconcile_diff_duration_seconds: Histogram of diff time
//   - reconcile_apply_duration_seconds: Histogram of apply time
//
// Example:
//
//	e := engine.New(view, send,
//	    engine.WithMiddleware(
//	        middleware.Prometheus(middleware.WithNamespace("myapp")),
//	    ),
//	)
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) engine.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	// Initialize metrics once
	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return engine.MiddlewareFunc(func(ctx context.Context, c *engine.Cycle, next func(context.Context) error) error {
		err := next(ctx)

		if err != nil {
			m.cyclesTotal.WithLabelValues("error").Inc()
			m.cycleErrors.WithLabelValues(errorCode(err)).Inc()
			return err
		}
		m.cyclesTotal.WithLabelValues("success").Inc()

		if !c.Completed {
			return nil
		}
		m.diffDuration.Observe(c.DiffDuration.Seconds())
		m.applyDuration.Observe(c.ApplyDuration.Seconds())
		for _, p := range vdom.Flatten(c.Patches) {
			m.patchesTotal.WithLabelValues(p.Op.String()).Inc()
		}
		m.redrawsTotal.Add(float64(c.Redraws))
		return nil
	})
}

// errorCode returns a label for err. Codes keep the label cardinality
// bounded.
func errorCode(err error) string {
	var e *errors.Error
	switch {
	case stderrors.As(err, &e) && e.Code != "":
		return e.Code
	case stderrors.Is(err, context.Canceled):
		return "canceled"
	case stderrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "internal"
	}
}

// Collector exposes the metrics for use in custom registrations.
type Collector struct {
	CyclesTotal   *prometheus.CounterVec
	CycleErrors   *prometheus.CounterVec
	PatchesTotal  *prometheus.CounterVec
	RedrawsTotal  prometheus.Counter
	DiffDuration  prometheus.Histogram
	ApplyDuration prometheus.Histogram
}

// GetMetrics returns the global metrics collector.
// Returns nil if Prometheus middleware has not been initialized.
func GetMetrics() *Collector {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		return nil
	}
	return &Collector{
		CyclesTotal:   globalMetrics.cyclesTotal,
		CycleErrors:   globalMetrics.cycleErrors,
		PatchesTotal:  globalMetrics.patchesTotal,
		RedrawsTotal:  globalMetrics.redrawsTotal,
		DiffDuration:  globalMetrics.diffDuration,
		ApplyDuration: globalMetrics.applyDuration,
	}
}
