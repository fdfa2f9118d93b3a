package protocol

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/reconcile/pkg/vdom"
)

// ErrUnknownOp is returned when an encoded record has an op byte outside
// the vdom.PatchOp range.
var ErrUnknownOp = errors.New("protocol: unknown patch op")

// Record is the serialisable projection of a vdom.Patch. Nodes, handlers
// and taggers cannot cross a process boundary, so a record keeps only
// their labels and counts.
type Record struct {
	Op    vdom.PatchOp
	Index int

	// Text is the new text for Text, the node label for Redraw and the
	// entry state for Remove.
	Text string

	// Keys holds fact tokens for Facts, child labels for AppendTail,
	// inserted keys for Reorder and the removed key for Remove.
	Keys []string

	From  int // RemoveTail, AppendTail
	Count int // RemoveTail, AppendTail, Tagger

	// Positions are the insert positions of a Reorder, -1 for end inserts,
	// parallel to Keys.
	Positions []int

	// Sub holds thunk patches, reorder locals or a moved entry's patches.
	Sub []Record
}

// Records projects patches onto their serialisable form.
func Records(patches []vdom.Patch) []Record {
	if len(patches) == 0 {
		return nil
	}
	out := make([]Record, len(patches))
	for i := range patches {
		out[i] = record(&patches[i])
	}
	return out
}

func record(p *vdom.Patch) Record {
	r := Record{Op: p.Op, Index: p.Index}
	switch p.Op {
	case vdom.PatchRedraw:
		r.Text = NodeLabel(p.Node)
	case vdom.PatchFacts:
		r.Keys = FactTokens(p.Facts)
	case vdom.PatchText:
		r.Text = p.Text
	case vdom.PatchTagger:
		r.Count = len(p.Taggers)
	case vdom.PatchRemoveTail:
		r.From, r.Count = p.From, p.Count
	case vdom.PatchAppendTail:
		r.From, r.Count = p.From, len(p.Children)
		for _, c := range p.Children {
			r.Keys = append(r.Keys, NodeLabel(c))
		}
	case vdom.PatchReorder:
		for _, ins := range p.Reorder.Inserts {
			r.Keys = append(r.Keys, ins.Entry.Key)
			r.Positions = append(r.Positions, ins.Position)
		}
		for _, ins := range p.Reorder.EndInserts {
			r.Keys = append(r.Keys, ins.Entry.Key)
			r.Positions = append(r.Positions, -1)
		}
		r.Sub = Records(p.Reorder.Local)
	case vdom.PatchRemove:
		r.Text = p.Entry.State.String()
		r.Keys = []string{p.Entry.Key}
		if p.Entry.State == vdom.EntryMove {
			r.Sub = Records(p.Entry.Sub)
		}
	case vdom.PatchThunk:
		r.Sub = Records(p.Sub)
	}
	return r
}

// NodeLabel returns a short label for a node: "<tag>" for elements, the
// quoted text for text nodes and the lower-case kind otherwise.
func NodeLabel(v *vdom.VNode) string {
	if v == nil {
		return "nil"
	}
	switch v.Kind {
	case vdom.KindElement, vdom.KindKeyed:
		return "<" + v.Tag + ">"
	case vdom.KindText:
		return strconv.Quote(v.Text)
	default:
		return strings.ToLower(v.Kind.String())
	}
}

// FactTokens lists a facts delta as sorted tokens. Additions read
// "+name=value" and removals "-name". Styles, properties, namespaced
// attributes and events are prefixed with "style:", ".", "ns:" and "on:".
// Handlers carry no value.
func FactTokens(d *vdom.FactsDelta) []string {
	if d.Empty() {
		return nil
	}
	var out []string
	add := func(prefix, name string, removed bool, value string) {
		if removed {
			out = append(out, "-"+prefix+name)
			return
		}
		tok := "+" + prefix + name
		if value != "" {
			tok += "=" + value
		}
		out = append(out, tok)
	}
	for name, c := range d.Attrs {
		add("", name, c.Removed, c.Value)
	}
	for name, c := range d.AttrsNS {
		add("ns:", name, c.Removed, c.Value.Value)
	}
	for name, c := range d.Styles {
		add("style:", name, c.Removed, c.Value)
	}
	for name, c := range d.Props {
		v := ""
		if c.Value != nil {
			v = fmt.Sprint(c.Value)
		}
		add(".", name, c.Removed, v)
	}
	for name, c := range d.Events {
		add("on:", name, c.Removed, "")
	}
	sort.Strings(out)
	return out
}

// EncodePatches encodes a patch list as
// [count] then [op index payload] per patch.
func EncodePatches(patches []vdom.Patch) []byte {
	e := NewEncoderWithCap(UvarintLen(uint64(len(patches))) + 16*len(patches))
	EncodeRecords(e, Records(patches))
	return e.Bytes()
}

// EncodeRecords appends a record list to e.
func EncodeRecords(e *Encoder, records []Record) {
	e.WriteUvarint(uint64(len(records)))
	for i := range records {
		encodeRecord(e, &records[i])
	}
}

func encodeRecord(e *Encoder, r *Record) {
	e.WriteByte(byte(r.Op))
	e.WriteUvarint(uint64(r.Index))

	switch r.Op {
	case vdom.PatchRedraw, vdom.PatchText:
		e.WriteString(r.Text)
	case vdom.PatchFacts:
		e.WriteStrings(r.Keys)
	case vdom.PatchTagger:
		e.WriteUvarint(uint64(r.Count))
	case vdom.PatchRemoveTail:
		e.WriteUvarint(uint64(r.From))
		e.WriteUvarint(uint64(r.Count))
	case vdom.PatchAppendTail:
		e.WriteUvarint(uint64(r.From))
		e.WriteStrings(r.Keys)
	case vdom.PatchReorder:
		e.WriteUvarint(uint64(len(r.Keys)))
		for i, key := range r.Keys {
			e.WriteString(key)
			e.WriteInt(r.Positions[i])
		}
		EncodeRecords(e, r.Sub)
	case vdom.PatchRemove:
		e.WriteString(r.Text)
		e.WriteString(r.Keys[0])
		EncodeRecords(e, r.Sub)
	case vdom.PatchThunk:
		EncodeRecords(e, r.Sub)
	}
}

// DecodePatches decodes bytes written by EncodePatches. Trailing bytes are
// an error.
func DecodePatches(data []byte) ([]Record, error) {
	d := NewDecoder(data)
	records, err := DecodeRecords(d)
	if err != nil {
		return nil, err
	}
	if !d.EOF() {
		return nil, fmt.Errorf("protocol: %d trailing bytes after patch list", d.Remaining())
	}
	return records, nil
}

// DecodeRecords reads one record list from d, nesting at most
// MaxPatchDepth levels.
func DecodeRecords(d *Decoder) ([]Record, error) {
	return decodeRecords(d, newDepthContext(MaxPatchDepth))
}

func decodeRecords(d *Decoder, dc *depthContext) ([]Record, error) {
	if err := dc.enter(); err != nil {
		return nil, err
	}
	defer dc.leave()

	count, err := d.ReadCollectionCount()
	if err != nil || count == 0 {
		return nil, err
	}
	out := make([]Record, count)
	for i := range out {
		if err := decodeRecord(d, dc, &out[i]); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return out, nil
}

func decodeRecord(d *Decoder, dc *depthContext, r *Record) error {
	op, err := d.ReadByte()
	if err != nil {
		return err
	}
	r.Op = vdom.PatchOp(op)
	if r.Op < vdom.PatchRedraw || r.Op > vdom.PatchThunk {
		return fmt.Errorf("%w 0x%02x", ErrUnknownOp, op)
	}
	if r.Index, err = readCount(d); err != nil {
		return err
	}

	switch r.Op {
	case vdom.PatchRedraw, vdom.PatchText:
		r.Text, err = d.ReadString()
	case vdom.PatchFacts:
		r.Keys, err = d.ReadStrings()
	case vdom.PatchTagger:
		r.Count, err = readCount(d)
	case vdom.PatchRemoveTail:
		if r.From, err = readCount(d); err != nil {
			return err
		}
		r.Count, err = readCount(d)
	case vdom.PatchAppendTail:
		if r.From, err = readCount(d); err != nil {
			return err
		}
		if r.Keys, err = d.ReadStrings(); err != nil {
			return err
		}
		r.Count = len(r.Keys)
	case vdom.PatchReorder:
		n, err := d.ReadCollectionCount()
		if err != nil {
			return err
		}
		if n > 0 {
			r.Keys = make([]string, n)
			r.Positions = make([]int, n)
		}
		for i := 0; i < n; i++ {
			if r.Keys[i], err = d.ReadString(); err != nil {
				return err
			}
			if r.Positions[i], err = d.ReadInt(); err != nil {
				return err
			}
		}
		r.Sub, err = decodeRecords(d, dc)
		return err
	case vdom.PatchRemove:
		if r.Text, err = d.ReadString(); err != nil {
			return err
		}
		key, err := d.ReadString()
		if err != nil {
			return err
		}
		r.Keys = []string{key}
		r.Sub, err = decodeRecords(d, dc)
		return err
	case vdom.PatchThunk:
		r.Sub, err = decodeRecords(d, dc)
	}
	return err
}

// readCount reads an unsigned varint that must fit in an int32.
func readCount(d *Decoder) (int, error) {
	v, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if v > 1<<31-1 {
		return 0, ErrIntOverflow
	}
	return int(v), nil
}
