package vdom

import (
	"fmt"
	"sort"
	"strings"
)

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchRedraw     PatchOp = 0x01 // Replace the subtree
	PatchFacts      PatchOp = 0x02 // Update attributes, properties, styles, events
	PatchText       PatchOp = 0x03 // Update text content
	PatchTagger     PatchOp = 0x04 // Swap the tagger chain of a tagged subtree
	PatchRemoveTail PatchOp = 0x05 // Drop trailing unkeyed children
	PatchAppendTail PatchOp = 0x06 // Append unkeyed children
	PatchReorder    PatchOp = 0x07 // Keyed children moves, inserts and removals
	PatchRemove     PatchOp = 0x08 // Keyed child removal (inside a reorder)
	PatchCustom     PatchOp = 0x09 // Widget-defined update
	PatchThunk      PatchOp = 0x0A // Patches for a recomputed thunk
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchRedraw:
		return "Redraw"
	case PatchFacts:
		return "Facts"
	case PatchText:
		return "Text"
	case PatchTagger:
		return "Tagger"
	case PatchRemoveTail:
		return "RemoveTail"
	case PatchAppendTail:
		return "AppendTail"
	case PatchReorder:
		return "Reorder"
	case PatchRemove:
		return "Remove"
	case PatchCustom:
		return "Custom"
	case PatchThunk:
		return "Thunk"
	default:
		return "Unknown"
	}
}

// Patch is a single mutation addressed by the pre-order index of its target
// in the old tree.
type Patch struct {
	Op    PatchOp
	Index int

	Node     *VNode      // For Redraw
	Facts    *FactsDelta // For Facts
	Text     string      // For Text
	Taggers  []*Tagger   // For Tagger
	From     int         // RemoveTail/AppendTail: first affected child position
	Count    int         // RemoveTail: number of children removed
	Children []*VNode    // AppendTail: the new trailing children
	Reorder  *Reorder    // For Reorder
	Entry    *Entry      // For Remove
	Custom   CustomPatch // For Custom
	Sub      []Patch     // For Thunk, relative to the thunk's content
}

// String renders a one-line description of the patch.
func (p Patch) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s@%d", p.Op, p.Index)

	switch p.Op {
	case PatchRedraw:
		fmt.Fprintf(&b, " %s", describe(p.Node))
	case PatchFacts:
		if names := p.Facts.names(); len(names) > 0 {
			fmt.Fprintf(&b, " %s", strings.Join(names, " "))
		}
	case PatchText:
		fmt.Fprintf(&b, " %q", p.Text)
	case PatchTagger:
		fmt.Fprintf(&b, " taggers=%d", len(p.Taggers))
	case PatchRemoveTail:
		fmt.Fprintf(&b, " from=%d count=%d", p.From, p.Count)
	case PatchAppendTail:
		fmt.Fprintf(&b, " from=%d children=%d", p.From, len(p.Children))
	case PatchReorder:
		r := p.Reorder
		fmt.Fprintf(&b, " local=%d inserts=%d end=%d", len(r.Local), len(r.Inserts), len(r.EndInserts))
	case PatchRemove:
		fmt.Fprintf(&b, " key=%q %s", p.Entry.Key, p.Entry.State)
	case PatchThunk:
		fmt.Fprintf(&b, " sub=%d", len(p.Sub))
	}
	return b.String()
}

// describe returns a short label for a node, e.g. "<div>" or "text".
func describe(v *VNode) string {
	if v == nil {
		return "nil"
	}
	switch v.Kind {
	case KindElement, KindKeyed:
		return "<" + v.Tag + ">"
	default:
		return strings.ToLower(v.Kind.String())
	}
}

// names lists the changed facts as sorted "+name" / "-name" tokens.
func (d *FactsDelta) names() []string {
	if d == nil {
		return nil
	}
	var out []string
	add := func(prefix string, name string, removed bool) {
		sign := "+"
		if removed {
			sign = "-"
		}
		out = append(out, sign+prefix+name)
	}
	for name, c := range d.Events {
		add("on:", name, c.Removed)
	}
	for name, c := range d.Styles {
		add("style:", name, c.Removed)
	}
	for name, c := range d.Props {
		add(".", name, c.Removed)
	}
	for name, c := range d.Attrs {
		add("", name, c.Removed)
	}
	for name, c := range d.AttrsNS {
		add("ns:", name, c.Removed)
	}
	sort.Strings(out)
	return out
}

// Flatten returns patches and the patches nested inside them (reorder
// locals, moved entries, thunk contents) in pre-order. Nested thunk patches
// keep their relative indices.
func Flatten(patches []Patch) []Patch {
	var out []Patch
	for _, p := range patches {
		out = append(out, p)
		switch p.Op {
		case PatchReorder:
			out = append(out, Flatten(p.Reorder.Local)...)
		case PatchRemove:
			if p.Entry.State == EntryMove {
				out = append(out, Flatten(p.Entry.Sub)...)
			}
		case PatchThunk:
			out = append(out, Flatten(p.Sub)...)
		}
	}
	return out
}
