package render

import (
	"log/slog"

	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// RendererConfig configures the renderer.
type RendererConfig struct {
	// Logger receives debug output for dropped events. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// Visit, if set, is called for every live node the patch locator
	// visits. Subtrees without patches are never visited.
	Visit func(n *dom.Node)
}

// Renderer builds live trees from virtual trees and patches them in place.
// A Renderer holds no per-tree state and may be shared.
type Renderer struct {
	config RendererConfig
	logger *slog.Logger
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		config: config,
		logger: logger.With("component", "render"),
	}
}

var defaultRenderer = NewRenderer(RendererConfig{})

// Render builds a live tree for v using the default renderer.
func Render(v *vdom.VNode, ctx *dom.EventContext) *dom.Node {
	return defaultRenderer.Render(v, ctx)
}

// Apply patches root using the default renderer.
func Apply(root *dom.Node, old *vdom.VNode, patches []vdom.Patch, ctx *dom.EventContext) (*dom.Node, error) {
	return defaultRenderer.Apply(root, old, patches, ctx)
}

// Render builds a detached live tree for v. Listeners deliver messages to
// ctx, which is normally the root of an event context chain.
func (r *Renderer) Render(v *vdom.VNode, ctx *dom.EventContext) *dom.Node {
	switch v.Kind {
	case vdom.KindText:
		return dom.NewText(v.Text)

	case vdom.KindTagged:
		taggers, sub := vdom.Unwrap(v)
		child := dom.NewEventContext(taggerFuncs(taggers), ctx)
		n := r.Render(sub, child)
		n.Events = child
		return n

	case vdom.KindThunk:
		return r.Render(v.Force(), ctx)

	case vdom.KindCustom:
		n := v.Widget.Render(v.State)
		r.applyFacts(n, vdom.DeltaFromFacts(&v.Facts), ctx)
		return n

	default:
		n := dom.NewElementNS(v.Namespace, v.Tag)
		r.applyFacts(n, vdom.DeltaFromFacts(&v.Facts), ctx)
		for _, kid := range v.Kids() {
			n.AppendChild(r.Render(kid, ctx))
		}
		return n
	}
}

func taggerFuncs(taggers []*vdom.Tagger) []func(any) any {
	fns := make([]func(any) any, len(taggers))
	for i, t := range taggers {
		fns[i] = t.Apply
	}
	return fns
}

// applyFacts writes a facts delta to n. ctx is the event context new
// listeners deliver to.
func (r *Renderer) applyFacts(n *dom.Node, d *vdom.FactsDelta, ctx *dom.EventContext) {
	if d == nil {
		return
	}

	for name, c := range d.Styles {
		if c.Removed {
			n.SetStyle(name, "")
			continue
		}
		n.SetStyle(name, c.Value)
	}

	for name, c := range d.Props {
		if c.Removed {
			n.RemoveProp(name)
			continue
		}
		// value and checked are re-emitted on every diff; skip the write
		// when the live node already holds it so a caret is not disturbed.
		if name == "value" || name == "checked" {
			if cur, ok := n.Props[name]; ok && vdom.SameRef(cur, c.Value) {
				continue
			}
		}
		n.SetProp(name, c.Value)
	}

	for name, c := range d.Attrs {
		if c.Removed {
			n.RemoveAttr(name)
			continue
		}
		n.SetAttr(name, c.Value)
	}

	for name, c := range d.AttrsNS {
		if c.Removed {
			n.RemoveAttrNS(name)
			continue
		}
		n.SetAttrNS(c.Value.Namespace, name, c.Value.Value)
	}

	for name, c := range d.Events {
		r.applyEvent(n, name, c, ctx)
	}
}

// applyEvent updates one listener. A listener whose handler kind is
// unchanged keeps its registration and only swaps its handler.
func (r *Renderer) applyEvent(n *dom.Node, name string, c vdom.Change[vdom.Handler], ctx *dom.EventContext) {
	old := n.Listener(name)
	if c.Removed {
		n.RemoveListener(name)
		return
	}
	if old != nil {
		if h, ok := old.Data.(vdom.Handler); ok && h.Kind == c.Value.Kind {
			old.Data = c.Value
			return
		}
		n.RemoveListener(name)
	}
	n.SetListener(name, r.newListener(c.Value, ctx))
}

func (r *Renderer) newListener(h vdom.Handler, ctx *dom.EventContext) *dom.Listener {
	return &dom.Listener{
		Passive: h.Kind.Passive(),
		Data:    h,
		Handle: func(l *dom.Listener, ev *dom.Event) {
			handler, _ := l.Data.(vdom.Handler)
			d, err := handler.Resolve(ev)
			if err != nil {
				r.logger.Debug("event dropped",
					"event", ev.Type,
					"kind", handler.Kind.String(),
					"error", err,
				)
				return
			}
			if d.StopPropagation {
				ev.StopPropagation()
			}
			if d.PreventDefault {
				ev.PreventDefault()
			}
			ctx.Deliver(d.Message, d.StopPropagation)
		},
	}
}
