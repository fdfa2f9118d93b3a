package vdom

// dupSuffix is appended to a key that collides with pending bookkeeping.
// Retrying with the longer key always terminates because every retry looks
// up a key that is strictly longer than any key tried before.
const dupSuffix = "\x00dup"

// EntryState is the bookkeeping state of a keyed child.
type EntryState uint8

const (
	EntryInsert EntryState = iota // New child, rendered fresh
	EntryRemove                   // Old child, dropped
	EntryMove                     // Old child reused at a new position
)

// String returns the string representation of the EntryState.
func (s EntryState) String() string {
	switch s {
	case EntryInsert:
		return "insert"
	case EntryRemove:
		return "remove"
	case EntryMove:
		return "move"
	default:
		return "unknown"
	}
}

// Entry tracks one key through a keyed diff.
type Entry struct {
	State EntryState
	Key   string

	// Node is the new node for inserts and the old node for removals.
	Node *VNode

	// Index is the old pre-order index for removals, the new position for
	// inserts and -1 for inserts past the end. A move keeps the index it
	// was first recorded with.
	Index int

	// Sub holds the in-place diff of a moved child, addressed in the old tree.
	Sub []Patch
}

// Insert places an entry at a position of the new child list.
type Insert struct {
	Position int // -1 for end inserts
	Entry    *Entry
}

// Reorder describes the changes to a keyed child list.
type Reorder struct {
	// Local holds in-place diffs of children that kept their slot and
	// PatchRemove entries for children that left it, in old pre-order.
	Local []Patch

	// Inserts are applied in order after the removals.
	Inserts []Insert

	// EndInserts are appended after everything else.
	EndInserts []Insert
}

// keyedDiff holds the bookkeeping for one keyed child list.
type keyedDiff struct {
	local   []Patch
	changes map[string]*Entry
	inserts []Insert
	end     []Insert
}

// diffKeyedKids reconciles keyed children with a single forward scan and a
// one-element lookahead on each side. Runs of changes longer than the
// lookahead end the scan and are handled as tail removals and insertions.
func diffKeyedKids(prev, next *VNode, patches *[]Patch, rootIndex int) {
	kd := &keyedDiff{changes: make(map[string]*Entry)}

	prevKids := prev.Keyed
	nextKids := next.Keyed
	i, j := 0, 0
	index := rootIndex

scan:
	for i < len(prevKids) && j < len(nextKids) {
		x, y := prevKids[i], nextKids[j]

		// Keys match - diff in place
		if x.Key == y.Key {
			index++
			diffHelp(x.Node, y.Node, &kd.local, index)
			index += x.Node.descendants
			i++
			j++
			continue
		}

		var xNext, yNext *Keyed
		if i+1 < len(prevKids) {
			xNext = &prevKids[i+1]
		}
		if j+1 < len(nextKids) {
			yNext = &nextKids[j+1]
		}
		oldMatch := xNext != nil && y.Key == xNext.Key
		newMatch := yNext != nil && x.Key == yNext.Key

		switch {
		// Swap: x and y traded places
		case oldMatch && newMatch:
			index++
			diffHelp(x.Node, yNext.Node, &kd.local, index)
			kd.insert(y.Key, y.Node, j)
			index += x.Node.descendants

			index++
			kd.remove(xNext.Key, xNext.Node, index)
			index += xNext.Node.descendants

			i += 2
			j += 2

		// Insert y
		case newMatch:
			index++
			kd.insert(y.Key, y.Node, j)
			diffHelp(x.Node, yNext.Node, &kd.local, index)
			index += x.Node.descendants

			i++
			j += 2

		// Remove x
		case oldMatch:
			index++
			kd.remove(x.Key, x.Node, index)
			index += x.Node.descendants

			index++
			diffHelp(xNext.Node, y.Node, &kd.local, index)
			index += xNext.Node.descendants

			i += 2
			j++

		// Remove x, insert y
		case xNext != nil && yNext != nil && xNext.Key == yNext.Key:
			index++
			kd.remove(x.Key, x.Node, index)
			kd.insert(y.Key, y.Node, j)
			index += x.Node.descendants

			index++
			diffHelp(xNext.Node, yNext.Node, &kd.local, index)
			index += xNext.Node.descendants

			i += 2
			j += 2

		default:
			break scan
		}
	}

	for ; i < len(prevKids); i++ {
		x := prevKids[i]
		index++
		kd.remove(x.Key, x.Node, index)
		index += x.Node.descendants
	}
	for ; j < len(nextKids); j++ {
		y := nextKids[j]
		kd.insert(y.Key, y.Node, -1)
	}

	if len(kd.local) > 0 || len(kd.inserts) > 0 || len(kd.end) > 0 {
		pushPatch(patches, Patch{
			Op:    PatchReorder,
			Index: rootIndex,
			Reorder: &Reorder{
				Local:      kd.local,
				Inserts:    kd.inserts,
				EndInserts: kd.end,
			},
		})
	}
}

// insert records node as arriving at position (-1 for the end). A key that
// was removed earlier becomes a move and is diffed against its old node.
func (kd *keyedDiff) insert(key string, node *VNode, position int) {
	for {
		entry := kd.changes[key]

		// Never seen this key before
		if entry == nil {
			entry = &Entry{State: EntryInsert, Key: key, Node: node, Index: position}
			kd.changes[key] = entry
			kd.push(Insert{Position: position, Entry: entry})
			return
		}

		// Removed earlier - a match
		if entry.State == EntryRemove {
			entry.State = EntryMove
			diffHelp(entry.Node, node, &entry.Sub, entry.Index)
			kd.push(Insert{Position: position, Entry: entry})
			return
		}

		// Already inserted or moved - a duplicate
		key += dupSuffix
	}
}

// remove records node, at old index, as leaving its position. A key that
// was inserted earlier becomes a move and is diffed against the new node.
func (kd *keyedDiff) remove(key string, node *VNode, index int) {
	for {
		entry := kd.changes[key]

		// Never seen this key before
		if entry == nil {
			entry = &Entry{State: EntryRemove, Key: key, Node: node, Index: index}
			kd.changes[key] = entry
			pushPatch(&kd.local, Patch{Op: PatchRemove, Index: index, Entry: entry})
			return
		}

		// Inserted earlier - a match
		if entry.State == EntryInsert {
			entry.State = EntryMove
			diffHelp(node, entry.Node, &entry.Sub, index)
			pushPatch(&kd.local, Patch{Op: PatchRemove, Index: index, Entry: entry})
			return
		}

		// Already removed or moved - a duplicate
		key += dupSuffix
	}
}

func (kd *keyedDiff) push(ins Insert) {
	if ins.Position < 0 {
		kd.end = append(kd.end, ins)
		return
	}
	kd.inserts = append(kd.inserts, ins)
}
