package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/render"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Cycle describes one diff/apply cycle. Middleware receives it before the
// cycle runs; the engine fills in the results as it goes.
type Cycle struct {
	// Seq numbers cycles from 1.
	Seq uint64

	// Old and New are the trees being reconciled.
	Old *vdom.VNode
	New *vdom.VNode

	// Patches is the diff of Old and New.
	Patches []vdom.Patch

	DiffDuration  time.Duration
	ApplyDuration time.Duration

	// Redraws counts Redraw patches, including nested ones.
	Redraws int

	// Completed is set once the patches have been applied. It stays false
	// for failed cycles and for cycles skipped by middleware.
	Completed bool
}

// PatchCount returns the number of patches including nested ones.
func (c *Cycle) PatchCount() int {
	return len(vdom.Flatten(c.Patches))
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMiddleware appends middleware run around every cycle, first to last.
func WithMiddleware(mw ...Middleware) Option {
	return func(e *Engine) {
		e.middleware = append(e.middleware, mw...)
	}
}

// WithRenderer sets the renderer used for the initial render and for
// applying patches.
func WithRenderer(r *render.Renderer) Option {
	return func(e *Engine) {
		e.renderer = r
	}
}

// Engine owns a live tree and the virtual tree it was rendered from, and
// moves both forward one cycle at a time.
type Engine struct {
	mu        sync.Mutex
	rendering bool
	seq       uint64

	root    *dom.Node
	current *vdom.VNode
	events  *dom.EventContext

	renderer   *render.Renderer
	middleware []Middleware
	logger     *slog.Logger
}

// New renders initial and returns an engine owning the result. Messages
// produced by event handlers are passed to send; sync is true when the
// handler stopped propagation and expects the resulting update to run
// before the next event.
func New(initial *vdom.VNode, send func(msg any, sync bool), opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.logger = e.logger.With("component", "engine")
	if e.renderer == nil {
		e.renderer = render.NewRenderer(render.RendererConfig{Logger: e.logger})
	}

	e.events = dom.NewEventRoot(send)
	e.current = initial
	e.root = e.renderer.Render(initial, e.events)
	return e
}

// Root returns the live root node.
func (e *Engine) Root() *dom.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.root
}

// Current returns the virtual tree the live tree was last reconciled to.
func (e *Engine) Current() *vdom.VNode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// begin claims the engine for one cycle.
func (e *Engine) begin(next *vdom.VNode) (*Cycle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.rendering {
		return nil, errors.New(errors.CodeCycleInProgress).
			WithDetail(fmt.Sprintf("cycle %d is still running", e.seq))
	}
	e.rendering = true
	e.seq++
	return &Cycle{Seq: e.seq, Old: e.current, New: next}, nil
}

func (e *Engine) end() {
	e.mu.Lock()
	e.rendering = false
	e.mu.Unlock()
}

// Update reconciles the live tree to next. Cycles never overlap: a call
// made while another cycle is running, from any goroutine or from inside
// the cycle itself, fails with E101. On error the live tree and the current
// tree are left as they were, unless the cycle had already completed before
// a middleware failed it (check Cycle.Completed). A middleware calling next
// a second time gets E103.
func (e *Engine) Update(ctx context.Context, next *vdom.VNode) (*Cycle, error) {
	c, err := e.begin(next)
	if err != nil {
		e.logger.Error("update rejected", "error", err)
		return nil, err
	}
	defer e.end()

	err = Compose(ctx, c, e.middleware, func(ctx context.Context) error {
		return e.run(ctx, c)
	})
	if err != nil {
		e.logger.Error("cycle failed", "seq", c.Seq, "error", err)
		return c, err
	}

	e.logger.Debug("cycle complete",
		"seq", c.Seq,
		"patches", len(c.Patches),
		"redraws", c.Redraws,
		"diff", c.DiffDuration,
		"apply", c.ApplyDuration,
	)
	return c, nil
}

// run diffs and applies one cycle. It runs at most once per cycle.
func (e *Engine) run(ctx context.Context, c *Cycle) error {
	if c.Completed {
		return errors.New(errors.CodeCycleReplayed).
			WithDetail(fmt.Sprintf("cycle %d was already applied", c.Seq))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	c.Patches = vdom.Diff(c.Old, c.New)
	c.DiffDuration = time.Since(start)

	for _, p := range vdom.Flatten(c.Patches) {
		if p.Op == vdom.PatchRedraw {
			c.Redraws++
		}
	}

	start = time.Now()
	root, err := e.renderer.Apply(e.root, c.Old, c.Patches, e.events)
	c.ApplyDuration = time.Since(start)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.root = root
	e.current = c.New
	e.mu.Unlock()
	c.Completed = true
	return nil
}

// Dispatch fires ev at target in the live tree. It fails with E101 when
// called from inside a cycle.
func (e *Engine) Dispatch(target *dom.Node, ev *dom.Event) error {
	e.mu.Lock()
	busy := e.rendering
	e.mu.Unlock()
	if busy {
		return errors.New(errors.CodeCycleInProgress).WithDetail("events cannot be dispatched while a cycle is running")
	}
	dom.Dispatch(target, ev)
	return nil
}
