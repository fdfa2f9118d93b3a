package render

import (
	"fmt"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// target is the live node a patch applies to and the event context in
// effect at that node.
type target struct {
	node *dom.Node
	ctx  *dom.EventContext
}

// applier holds the state of one Apply call.
type applier struct {
	*Renderer
	targets map[*vdom.Patch]target
	moved   map[*vdom.Entry]*dom.Node
}

// Apply mutates root, the live rendering of old, with patches produced by
// vdom.Diff(old, new). Every patch is located before any is applied, so an
// error leaves root untouched. The returned node is the new root; it differs
// from root only when the root itself was redrawn.
func (r *Renderer) Apply(root *dom.Node, old *vdom.VNode, patches []vdom.Patch, ctx *dom.EventContext) (*dom.Node, error) {
	if len(patches) == 0 {
		return root, nil
	}

	a := &applier{
		Renderer: r,
		targets:  make(map[*vdom.Patch]target),
		moved:    make(map[*vdom.Entry]*dom.Node),
	}
	if err := a.locateAll(root, old, patches, ctx); err != nil {
		return root, err
	}
	if err := a.check(patches); err != nil {
		return root, err
	}
	return a.applyAll(root, patches), nil
}

// locateAll finds the targets of patches, which address the pre-order
// positions of v (root = 0).
func (a *applier) locateAll(n *dom.Node, v *vdom.VNode, patches []vdom.Patch, ctx *dom.EventContext) error {
	if len(patches) == 0 {
		return nil
	}
	_, err := a.locate(n, v, patches, 0, 0, v.Descendants(), ctx)
	return err
}

// locate walks the live tree alongside v, which sits at position low and
// spans positions up to high, recording targets for patches[i:]. It only
// descends into children whose range holds the next patch index, and
// returns the position of the first patch it did not consume.
func (a *applier) locate(n *dom.Node, v *vdom.VNode, patches []vdom.Patch, i, low, high int, ctx *dom.EventContext) (int, error) {
	if a.config.Visit != nil {
		a.config.Visit(n)
	}

	p := &patches[i]
	index := p.Index

	for index == low {
		a.targets[p] = target{node: n, ctx: ctx}

		switch p.Op {
		case vdom.PatchThunk:
			if err := a.locateAll(n, v.Force(), p.Sub, ctx); err != nil {
				return i, err
			}
		case vdom.PatchReorder:
			if local := p.Reorder.Local; len(local) > 0 {
				if _, err := a.locate(n, v, local, 0, low, high, ctx); err != nil {
					return i, err
				}
			}
		case vdom.PatchRemove:
			if e := p.Entry; e != nil && e.State == vdom.EntryMove && len(e.Sub) > 0 {
				if _, err := a.locate(n, v, e.Sub, 0, low, high, ctx); err != nil {
					return i, err
				}
			}
		}

		i++
		if i >= len(patches) {
			return i, nil
		}
		p = &patches[i]
		if index = p.Index; index > high {
			return i, nil
		}
	}

	switch v.Kind {
	case vdom.KindTagged:
		_, sub := vdom.Unwrap(v)
		return a.locate(n, sub, patches, i, low+1, high, n.Events)

	case vdom.KindElement, vdom.KindKeyed:
		for j, kid := range v.Kids() {
			low++
			nextLow := low + kid.Descendants()
			if low <= index && index <= nextLow {
				child := n.ChildAt(j)
				if child == nil {
					return i, errors.New(errors.CodeShapeMismatch).
						WithDetail(fmt.Sprintf("<%s> has %d children, patch %s needs child %d",
							n.Tag, len(n.Children), patches[i], j))
				}
				var err error
				if i, err = a.locate(child, kid, patches, i, low, nextLow, ctx); err != nil {
					return i, err
				}
				if i >= len(patches) {
					return i, nil
				}
				if index = patches[i].Index; index > high {
					return i, nil
				}
			}
			low = nextLow
		}
	}
	return i, nil
}

// check reports the first patch, in application order, that was not located.
func (a *applier) check(patches []vdom.Patch) error {
	for i := range patches {
		p := &patches[i]
		if _, ok := a.targets[p]; !ok {
			return errors.New(errors.CodeUnlocatedPatch).WithDetail(fmt.Sprintf("patch %s has no target", p))
		}
		var err error
		switch p.Op {
		case vdom.PatchThunk:
			err = a.check(p.Sub)
		case vdom.PatchReorder:
			err = a.check(p.Reorder.Local)
		case vdom.PatchRemove:
			if p.Entry != nil && p.Entry.State == vdom.EntryMove {
				err = a.check(p.Entry.Sub)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// applyAll applies patches in order and returns the node that now stands
// where root stood.
func (a *applier) applyAll(root *dom.Node, patches []vdom.Patch) *dom.Node {
	for i := range patches {
		t := a.targets[&patches[i]]
		replacement := a.apply(t, &patches[i])
		if t.node == root {
			root = replacement
		}
	}
	return root
}

// apply applies one patch and returns the node that now stands where the
// target stood.
func (a *applier) apply(t target, p *vdom.Patch) *dom.Node {
	n := t.node

	switch p.Op {
	case vdom.PatchRedraw:
		return a.redraw(t, p.Node)

	case vdom.PatchFacts:
		a.applyFacts(n, p.Facts, t.ctx)

	case vdom.PatchText:
		n.Data = p.Text

	case vdom.PatchTagger:
		if n.Events != nil {
			n.Events.Taggers = taggerFuncs(p.Taggers)
		}

	case vdom.PatchRemoveTail:
		for k := 0; k < p.Count; k++ {
			n.RemoveChild(n.ChildAt(p.From))
		}

	case vdom.PatchAppendTail:
		for _, kid := range p.Children {
			n.AppendChild(a.Render(kid, t.ctx))
		}

	case vdom.PatchThunk:
		return a.applyAll(n, p.Sub)

	case vdom.PatchReorder:
		a.reorder(t, p.Reorder)

	case vdom.PatchRemove:
		if parent := n.Parent; parent != nil {
			parent.RemoveChild(n)
		}
		if e := p.Entry; e != nil && e.State == vdom.EntryMove {
			a.moved[e] = a.applyAll(n, e.Sub)
		}

	case vdom.PatchCustom:
		next := p.Custom(n)
		if next != nil && next != n {
			if next.Events == nil {
				next.Events = n.Events
			}
			if parent := n.Parent; parent != nil {
				parent.ReplaceChild(next, n)
			}
			return next
		}
	}
	return n
}

// redraw renders next and puts it in place of t.node.
func (a *applier) redraw(t target, next *vdom.VNode) *dom.Node {
	n := a.Render(next, t.ctx)
	if n.Events == nil {
		n.Events = t.node.Events
	}
	if parent := t.node.Parent; parent != nil {
		parent.ReplaceChild(n, t.node)
	}
	return n
}

// reorder applies a keyed child list change: local diffs and removals
// first, then insertions by ascending position, then appends.
func (a *applier) reorder(t target, ro *vdom.Reorder) {
	n := t.node
	for i := range ro.Local {
		a.apply(a.targets[&ro.Local[i]], &ro.Local[i])
	}
	for _, ins := range ro.Inserts {
		n.InsertBefore(a.entryNode(ins.Entry, t.ctx), n.ChildAt(ins.Position))
	}
	for _, ins := range ro.EndInserts {
		n.AppendChild(a.entryNode(ins.Entry, t.ctx))
	}
}

// entryNode returns the live node for an inserted entry: the detached node
// for a move, a fresh rendering otherwise.
func (a *applier) entryNode(e *vdom.Entry, ctx *dom.EventContext) *dom.Node {
	if e.State == vdom.EntryMove {
		if n := a.moved[e]; n != nil {
			return n
		}
	}
	return a.Render(e.Node, ctx)
}
