package vdom

import (
	"strings"

	"github.com/vango-dev/reconcile/pkg/dom"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindText    VKind = iota // Plain text node
	KindElement              // <div>, <button>, etc. with positional children
	KindKeyed                // Element whose children carry stable keys
	KindCustom               // Self-contained widget with its own diff
	KindTagged               // Message-mapping wrapper around a subtree
	KindThunk                // Memoized subtree
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindElement:
		return "Element"
	case KindKeyed:
		return "Keyed"
	case KindCustom:
		return "Custom"
	case KindTagged:
		return "Tagged"
	case KindThunk:
		return "Thunk"
	default:
		return "Unknown"
	}
}

// VNode is the virtual DOM node. Nodes are treated as immutable once
// constructed; the only field written after construction is a thunk's cache.
type VNode struct {
	Kind      VKind
	Tag       string // Element tag name (e.g., "div")
	Namespace string // Element namespace URI ("" for HTML)
	Facts     Facts  // Attributes, properties, styles and event handlers
	Text      string // For KindText

	Children []*VNode // For KindElement
	Keyed    []Keyed  // For KindKeyed

	Widget *Widget // For KindCustom
	State  any     // For KindCustom

	Tagger *Tagger // For KindTagged
	Inner  *VNode  // For KindTagged

	Args    []any         // For KindThunk
	compute func() *VNode // For KindThunk
	cached  *VNode        // For KindThunk

	descendants int
}

// Keyed is a child of a keyed element.
type Keyed struct {
	Key  string
	Node *VNode
}

// K pairs a key with a node.
func K(key string, node *VNode) Keyed {
	return Keyed{Key: key, Node: node}
}

// Descendants returns the number of nodes inside the subtree, excluding the
// node itself. It equals the number of pre-order positions the subtree
// occupies below this node and is what patch indices are computed from.
func (v *VNode) Descendants() int {
	if v == nil {
		return 0
	}
	return v.descendants
}

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Text: content}
}

// Node creates an element with positional children.
func Node(tag string, facts []Fact, children []*VNode) *VNode {
	return NodeNS("", tag, facts, children)
}

// NodeNS creates an element in the given namespace.
func NodeNS(namespace, tag string, facts []Fact, children []*VNode) *VNode {
	kids := make([]*VNode, 0, len(children))
	count := 0
	for _, c := range children {
		if c == nil {
			continue
		}
		kids = append(kids, c)
		count += 1 + c.descendants
	}
	return &VNode{
		Kind:        KindElement,
		Tag:         safeTag(tag),
		Namespace:   namespace,
		Facts:       Normalize(facts),
		Children:    kids,
		descendants: count,
	}
}

// KeyedNode creates an element whose children are identified by key.
func KeyedNode(tag string, facts []Fact, children []Keyed) *VNode {
	return KeyedNodeNS("", tag, facts, children)
}

// KeyedNodeNS creates a keyed element in the given namespace.
func KeyedNodeNS(namespace, tag string, facts []Fact, children []Keyed) *VNode {
	kids := make([]Keyed, 0, len(children))
	count := 0
	for _, c := range children {
		if c.Node == nil {
			continue
		}
		kids = append(kids, c)
		count += 1 + c.Node.descendants
	}
	return &VNode{
		Kind:        KindKeyed,
		Tag:         safeTag(tag),
		Namespace:   namespace,
		Facts:       Normalize(facts),
		Keyed:       kids,
		descendants: count,
	}
}

// Widget is the render identity of custom nodes. Two custom nodes are only
// diffed against each other when they share the same *Widget.
type Widget struct {
	// Render builds the live node for a state.
	Render func(state any) *dom.Node

	// Diff compares two states and returns a patch, or nil when nothing
	// changed. A nil Diff never patches.
	Diff func(oldState, newState any) CustomPatch
}

// CustomPatch mutates a custom node's live node and returns the node that
// should take its place (usually the same node).
type CustomPatch func(n *dom.Node) *dom.Node

// CustomNode creates a node rendered and diffed by w.
func CustomNode(facts []Fact, state any, w *Widget) *VNode {
	return &VNode{
		Kind:   KindCustom,
		Facts:  Normalize(facts),
		State:  state,
		Widget: w,
	}
}

// Tagger transforms messages produced by events inside a tagged subtree.
// Taggers are compared by pointer, so build them once and reuse them.
type Tagger struct {
	fn func(any) any
}

// NewTagger wraps fn.
func NewTagger(fn func(msg any) any) *Tagger {
	return &Tagger{fn: fn}
}

// Apply maps msg.
func (t *Tagger) Apply(msg any) any {
	return t.fn(msg)
}

// Map wraps inner so that every message bubbling out of it passes through t.
// Nested wrappers share a single pre-order slot.
func Map(t *Tagger, inner *VNode) *VNode {
	_, sub := flattenTaggers(inner)
	return &VNode{
		Kind:        KindTagged,
		Tagger:      t,
		Inner:       inner,
		descendants: 1 + sub.descendants,
	}
}

// Lazy creates a memoized subtree. compute is only called when args differ
// by reference from the previous render's args. compute itself is not part
// of the identity.
func Lazy(args []any, compute func() *VNode) *VNode {
	return &VNode{
		Kind:    KindThunk,
		Args:    args,
		compute: compute,
	}
}

// Lazy1 memoizes fn(a).
func Lazy1[A any](fn func(A) *VNode, a A) *VNode {
	return Lazy([]any{a}, func() *VNode { return fn(a) })
}

// Lazy2 memoizes fn(a, b).
func Lazy2[A, B any](fn func(A, B) *VNode, a A, b B) *VNode {
	return Lazy([]any{a, b}, func() *VNode { return fn(a, b) })
}

// Force returns the thunk's content, computing it on first use. For any
// other kind it returns v.
func (v *VNode) Force() *VNode {
	if v.Kind != KindThunk {
		return v
	}
	if v.cached == nil {
		v.cached = v.compute()
	}
	return v.cached
}

// flattenTaggers collects a chain of nested tagger wrappers, outermost
// first, and returns the first non-tagged descendant.
func flattenTaggers(v *VNode) ([]*Tagger, *VNode) {
	var chain []*Tagger
	for v.Kind == KindTagged {
		chain = append(chain, v.Tagger)
		v = v.Inner
	}
	return chain, v
}

// Unwrap returns the tagger chain of a tagged node and the node it wraps.
func Unwrap(v *VNode) ([]*Tagger, *VNode) {
	return flattenTaggers(v)
}

// dekey returns an unkeyed copy of a keyed element.
func dekey(v *VNode) *VNode {
	kids := make([]*VNode, len(v.Keyed))
	for i, k := range v.Keyed {
		kids[i] = k.Node
	}
	return &VNode{
		Kind:        KindElement,
		Tag:         v.Tag,
		Namespace:   v.Namespace,
		Facts:       v.Facts,
		Children:    kids,
		descendants: v.descendants,
	}
}

// Kids returns the children of an element in order, regardless of whether
// they are keyed.
func (v *VNode) Kids() []*VNode {
	if v.Kind == KindKeyed {
		return dekey(v).Children
	}
	return v.Children
}

// safeTag replaces tags that would execute code when rendered.
func safeTag(tag string) string {
	if strings.EqualFold(tag, "script") {
		return "p"
	}
	return tag
}
