// Package render turns virtual trees into live trees and applies patch
// lists to live trees in place.
//
// # Rendering
//
// Render builds a fresh, detached live tree for a virtual tree. Event
// facts become listeners that decode the host event and deliver the
// message through the event context chain:
//
//	root := dom.NewEventRoot(func(msg any, sync bool) { inbox <- msg })
//	live := render.Render(view, root)
//
// # Applying patches
//
// Apply locates every patch of vdom.Diff(old, new) in the live rendering
// of old, then applies them in list order:
//
//	live, err := render.Apply(live, old, vdom.Diff(old, new), root)
//
// Location walks the live tree and the old virtual tree in lockstep and
// only descends into subtrees whose index range holds a patch. Keyed moves
// detach the original live node and reinsert it, so node identity (and any
// state the host keeps on it) survives reordering.
//
// Apply returns a coded error and leaves the live tree untouched when a
// patch cannot be located (E100) or the live tree is missing a node the
// old tree describes (E102).
package render
