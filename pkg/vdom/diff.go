package vdom

// Diff compares two VNode trees and returns the patches needed to transform
// the rendering of prev into a rendering of next. Patch indices are
// pre-order positions in prev (root = 0) and never decrease along the list.
func Diff(prev, next *VNode) []Patch {
	var patches []Patch
	diffHelp(prev, next, &patches, 0)
	return patches
}

func pushPatch(patches *[]Patch, p Patch) {
	*patches = append(*patches, p)
}

func redraw(patches *[]Patch, index int, next *VNode) {
	pushPatch(patches, Patch{Op: PatchRedraw, Index: index, Node: next})
}

// diffHelp compares prev and next, which sit at pre-order position index.
func diffHelp(prev, next *VNode, patches *[]Patch, index int) {
	// Same node - memoized or reused subtree
	if prev == next {
		return
	}

	if prev.Kind != next.Kind {
		switch {
		case prev.Kind == KindElement && next.Kind == KindKeyed:
			next = dekey(next)
		case prev.Kind == KindKeyed && next.Kind == KindElement:
			prev = dekey(prev)
		default:
			redraw(patches, index, next)
			return
		}
	}

	switch next.Kind {
	case KindThunk:
		diffThunk(prev, next, patches, index)
	case KindTagged:
		diffTagged(prev, next, patches, index)
	case KindText:
		if prev.Text != next.Text {
			pushPatch(patches, Patch{Op: PatchText, Index: index, Text: next.Text})
		}
	case KindElement:
		if diffNodes(prev, next, patches, index) {
			diffKids(prev, next, patches, index)
		}
	case KindKeyed:
		if diffNodes(prev, next, patches, index) {
			diffKeyedKids(prev, next, patches, index)
		}
	case KindCustom:
		diffCustom(prev, next, patches, index)
	}
}

// diffThunk reuses the previous content when the arguments are unchanged.
func diffThunk(prev, next *VNode, patches *[]Patch, index int) {
	if sameArgs(prev.Args, next.Args) {
		next.cached = prev.Force()
		return
	}

	var sub []Patch
	diffHelp(prev.Force(), next.Force(), &sub, 0)
	if len(sub) > 0 {
		pushPatch(patches, Patch{Op: PatchThunk, Index: index, Sub: sub})
	}
}

// diffTagged compares tagger chains, then the wrapped nodes one slot below.
func diffTagged(prev, next *VNode, patches *[]Patch, index int) {
	prevTaggers, prevSub := flattenTaggers(prev)
	nextTaggers, nextSub := flattenTaggers(next)

	if len(prevTaggers) != len(nextTaggers) {
		redraw(patches, index, next)
		return
	}
	if !sameTaggers(prevTaggers, nextTaggers) {
		pushPatch(patches, Patch{Op: PatchTagger, Index: index, Taggers: nextTaggers})
	}
	diffHelp(prevSub, nextSub, patches, index+1)
}

// diffNodes redraws elements with a different tag or namespace and diffs the
// facts of matching ones. It returns false if the children need no diff.
func diffNodes(prev, next *VNode, patches *[]Patch, index int) bool {
	if prev.Tag != next.Tag || prev.Namespace != next.Namespace {
		redraw(patches, index, next)
		return false
	}
	if delta := diffFacts(&prev.Facts, &next.Facts); delta != nil {
		pushPatch(patches, Patch{Op: PatchFacts, Index: index, Facts: delta})
	}
	return true
}

func diffCustom(prev, next *VNode, patches *[]Patch, index int) {
	if prev.Widget != next.Widget {
		redraw(patches, index, next)
		return
	}
	if delta := diffFacts(&prev.Facts, &next.Facts); delta != nil {
		pushPatch(patches, Patch{Op: PatchFacts, Index: index, Facts: delta})
	}
	if next.Widget.Diff == nil {
		return
	}
	if p := next.Widget.Diff(prev.State, next.State); p != nil {
		pushPatch(patches, Patch{Op: PatchCustom, Index: index, Custom: p})
	}
}

// diffKids compares unkeyed children by position. Tail changes are emitted
// at the parent index ahead of the pairwise diffs so indices stay ordered.
func diffKids(prev, next *VNode, patches *[]Patch, index int) {
	prevKids := prev.Children
	nextKids := next.Children

	switch {
	case len(prevKids) > len(nextKids):
		pushPatch(patches, Patch{
			Op:    PatchRemoveTail,
			Index: index,
			From:  len(nextKids),
			Count: len(prevKids) - len(nextKids),
		})
	case len(prevKids) < len(nextKids):
		pushPatch(patches, Patch{
			Op:       PatchAppendTail,
			Index:    index,
			From:     len(prevKids),
			Children: nextKids[len(prevKids):],
		})
	}

	n := min(len(prevKids), len(nextKids))
	for i := 0; i < n; i++ {
		index++
		diffHelp(prevKids[i], nextKids[i], patches, index)
		index += prevKids[i].descendants
	}
}
