package middleware

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/reconcile/pkg/engine"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// recordingSpan keeps what the middleware writes to a span.
type recordingSpan struct {
	noop.Span
	name   string
	attrs  map[attribute.Key]attribute.Value
	status codes.Code
	err    error
	ended  bool
}

func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue) {
	for _, a := range kv {
		s.attrs[a.Key] = a.Value
	}
}

func (s *recordingSpan) SetStatus(code codes.Code, _ string) { s.status = code }

func (s *recordingSpan) RecordError(err error, _ ...trace.EventOption) { s.err = err }

func (s *recordingSpan) End(...trace.SpanEndOption) { s.ended = true }

type recordingTracer struct {
	noop.Tracer
	spans []*recordingSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &recordingSpan{name: name, attrs: make(map[attribute.Key]attribute.Value)}
	s.SetAttributes(cfg.Attributes()...)
	t.spans = append(t.spans, s)
	return trace.ContextWithSpan(ctx, s), s
}

type recordingProvider struct {
	noop.TracerProvider
	tracer *recordingTracer
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return p.tracer
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{tracer: &recordingTracer{}}
}

func TestOpenTelemetryRecordsCycle(t *testing.T) {
	tp := newRecordingProvider()
	var inner trace.Span
	probe := engine.MiddlewareFunc(func(ctx context.Context, c *engine.Cycle, next func(context.Context) error) error {
		inner = trace.SpanFromContext(ctx)
		return next(ctx)
	})

	mw := OpenTelemetry(
		WithTracerProvider(tp),
		WithAttributeExtractor(func(*engine.Cycle) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	)
	e := newEngine(vdom.Div("a"), mw, probe)
	if _, err := e.Update(context.Background(), vdom.Div("b", "c")); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if len(tp.tracer.spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(tp.tracer.spans))
	}
	s := tp.tracer.spans[0]
	if s.name != "reconcile.cycle" || !s.ended || s.status != codes.Ok {
		t.Errorf("span = %s ended=%v status=%v", s.name, s.ended, s.status)
	}
	if inner != s {
		t.Error("span context should be passed down the chain")
	}
	if got := s.attrs["reconcile.seq"].AsInt64(); got != 1 {
		t.Errorf("reconcile.seq = %d, want 1", got)
	}
	if got := s.attrs["reconcile.patch_count"].AsInt64(); got != 2 {
		t.Errorf("reconcile.patch_count = %d, want 2", got)
	}
	if !s.attrs["reconcile.completed"].AsBool() {
		t.Error("reconcile.completed = false, want true")
	}
	if got := s.attrs["test.attr"].AsString(); got != "ok" {
		t.Errorf("test.attr = %q, want ok", got)
	}
}

func TestOpenTelemetryRecordsError(t *testing.T) {
	tp := newRecordingProvider()
	e := newEngine(vdom.Div("a", "b"), OpenTelemetry(WithTracerProvider(tp)))
	e.Root().RemoveChild(e.Root().Children[1])

	_, err := e.Update(context.Background(), vdom.Div("a", "c"))
	if err == nil {
		t.Fatal("expected the cycle to fail")
	}

	s := tp.tracer.spans[0]
	if s.status != codes.Error || s.err != err {
		t.Errorf("span status = %v, err = %v, want Error with %v", s.status, s.err, err)
	}
	if s.attrs["reconcile.completed"].AsBool() {
		t.Error("reconcile.completed = true for a failed cycle")
	}
}

func TestOpenTelemetryFilter(t *testing.T) {
	tp := newRecordingProvider()
	mw := OpenTelemetry(
		WithTracerProvider(tp),
		WithCycleFilter(func(c *engine.Cycle) bool { return c.Seq%2 == 0 }),
	)
	e := newEngine(vdom.Div("0"), mw)

	for _, text := range []string{"1", "2", "3", "4"} {
		if _, err := e.Update(context.Background(), vdom.Div(text)); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	if len(tp.tracer.spans) != 2 {
		t.Errorf("spans = %d, want 2", len(tp.tracer.spans))
	}
	if got := e.Root().Children[0].Data; got != "4" {
		t.Errorf("text = %q, want 4 (filtered cycles still run)", got)
	}
}

func TestOpenTelemetryGlobalProvider(t *testing.T) {
	// The default global provider is a no-op; cycles pass straight through.
	e := newEngine(vdom.Div("a"), OpenTelemetry(WithTracerName("test")))
	if _, err := e.Update(context.Background(), vdom.Div("b")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := e.Root().Children[0].Data; got != "b" {
		t.Errorf("text = %q, want b", got)
	}
}
