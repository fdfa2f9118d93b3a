// Package dom provides the live host tree that reconciliation mutates.
//
// The live tree is a small headless DOM: element and text nodes with
// attributes, namespaced attributes, properties, styles and event listeners.
// It is long-lived and mutated in place by the patch applier in package
// render; nothing in this package knows about virtual trees.
//
// # Events
//
// Dispatch fires an Event at a node and bubbles it to the root. Listeners
// carry owner state in Listener.Data so the owner can retarget a listener
// without removing and re-adding it.
//
// EventContext links form the chain of message transformers between a node
// and the dispatcher:
//
//	root := dom.NewEventRoot(func(msg any, sync bool) { inbox <- msg })
//	child := dom.NewEventContext([]func(any) any{wrap}, root)
//	child.Deliver("clicked", false) // inbox receives wrap("clicked")
//
// # HTML
//
// Parse and HTML convert between live trees and markup using
// golang.org/x/net/html. Serialization is deterministic so that two live
// trees can be compared by their markup.
package dom
