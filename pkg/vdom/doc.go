// Package vdom provides the virtual tree model and the differ.
//
// A VNode describes one node of a UI: text, an element (with positional or
// keyed children), a custom widget, a tagged subtree whose event messages
// are mapped, or a memoized thunk. Nodes are immutable once built and carry
// their descendant count, which addresses patches without re-walking.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1("Title"),
//	    Ul(K("a", Li("first")), K("b", Li("second"))),
//	    Button(OnClick("save"), "Save"),
//	)
//
// Facts (attributes, properties, styles and events) are grouped by
// Normalize when the element is built. Constructors neutralise names and
// values that would execute code on the host.
//
// # Diffing
//
// Diff compares two trees and returns a flat list of Patch values, each
// addressed by the pre-order index of its target in the old tree. The list
// is sorted by index so an applier can locate every patch in one forward
// walk. Keyed children are reconciled with a single scan and a one-element
// lookahead; see Reorder.
package vdom
