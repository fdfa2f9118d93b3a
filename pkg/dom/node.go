package dom

// NodeType is the live node type discriminator.
type NodeType uint8

const (
	ElementNode NodeType = iota // <div>, <button>, etc.
	TextNode                    // Plain text node
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	default:
		return "Unknown"
	}
}

// NSAttr is a namespaced attribute value.
type NSAttr struct {
	Namespace string
	Value     string
}

// Node is a live host node. It is mutated in place by the patch applier and
// is owned by a single writer at a time.
type Node struct {
	Type      NodeType
	Tag       string // Element tag name
	Namespace string // Element namespace ("" for HTML)
	Data      string // Text content for TextNode

	Attrs   map[string]string
	AttrsNS map[string]NSAttr
	Props   map[string]any
	Styles  map[string]string

	Parent   *Node
	Children []*Node

	// Events is the event context attached to this node when it was produced
	// underneath a tagger. Nil for nodes outside any tagger.
	Events *EventContext

	listeners map[string]*Listener
}

// NewElement creates a detached element node.
func NewElement(tag string) *Node {
	return &Node{Type: ElementNode, Tag: tag}
}

// NewElementNS creates a detached element node in the given namespace.
func NewElementNS(namespace, tag string) *Node {
	return &Node{Type: ElementNode, Tag: tag, Namespace: namespace}
}

// NewText creates a detached text node.
func NewText(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

// IsText returns true for text nodes.
func (n *Node) IsText() bool {
	return n != nil && n.Type == TextNode
}

// ChildAt returns the i-th child or nil when i is out of range.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// IndexOf returns the position of child in n.Children, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// AppendChild attaches child as the last child of n, detaching it first if
// it already has a parent.
func (n *Node) AppendChild(child *Node) {
	child.detach()
	child.Parent = n
	n.Children = append(n.Children, child)
}

// InsertBefore inserts child before ref. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) {
	if ref == nil {
		n.AppendChild(child)
		return
	}
	child.detach()
	at := n.IndexOf(ref)
	if at < 0 {
		n.AppendChild(child)
		return
	}
	n.Children = append(n.Children, nil)
	copy(n.Children[at+1:], n.Children[at:])
	n.Children[at] = child
	child.Parent = n
}

// RemoveChild detaches child from n. It is a no-op when child is not a child of n.
func (n *Node) RemoveChild(child *Node) {
	if child == nil || child.Parent != n {
		return
	}
	child.detach()
}

// RemoveLastChild detaches and returns the last child, or nil.
func (n *Node) RemoveLastChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	last := n.Children[len(n.Children)-1]
	last.detach()
	return last
}

// ReplaceChild swaps old for replacement at the same position.
func (n *Node) ReplaceChild(replacement, old *Node) {
	at := n.IndexOf(old)
	if at < 0 {
		return
	}
	replacement.detach()
	n.Children[at] = replacement
	replacement.Parent = n
	old.Parent = nil
}

func (n *Node) detach() {
	p := n.Parent
	if p == nil {
		return
	}
	if at := p.IndexOf(n); at >= 0 {
		p.Children = append(p.Children[:at], p.Children[at+1:]...)
	}
	n.Parent = nil
}

// SetAttr sets a plain attribute.
func (n *Node) SetAttr(name, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[name] = value
}

// RemoveAttr removes a plain attribute.
func (n *Node) RemoveAttr(name string) {
	delete(n.Attrs, name)
}

// Attr returns a plain attribute value.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// SetAttrNS sets a namespaced attribute.
func (n *Node) SetAttrNS(namespace, name, value string) {
	if n.AttrsNS == nil {
		n.AttrsNS = make(map[string]NSAttr)
	}
	n.AttrsNS[name] = NSAttr{Namespace: namespace, Value: value}
}

// RemoveAttrNS removes a namespaced attribute.
func (n *Node) RemoveAttrNS(name string) {
	delete(n.AttrsNS, name)
}

// SetProp sets a host property.
func (n *Node) SetProp(name string, value any) {
	if n.Props == nil {
		n.Props = make(map[string]any)
	}
	n.Props[name] = value
}

// RemoveProp unsets a host property.
func (n *Node) RemoveProp(name string) {
	delete(n.Props, name)
}

// SetStyle sets a style declaration. An empty value clears it.
func (n *Node) SetStyle(name, value string) {
	if value == "" {
		delete(n.Styles, name)
		return
	}
	if n.Styles == nil {
		n.Styles = make(map[string]string)
	}
	n.Styles[name] = value
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n, including n.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) bool {
		total++
		return true
	})
	return total
}
