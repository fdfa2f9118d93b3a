package render

import (
	"sort"

	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Virtualize builds a virtual tree describing n, so that an existing live
// tree (for example parsed markup) can serve as the old tree of a diff.
// Attributes, including style, become attribute facts; parsed styles and
// properties set on n become style and property facts. Listeners are not
// carried over.
func Virtualize(n *dom.Node) *vdom.VNode {
	if n.IsText() {
		return vdom.Text(n.Data)
	}

	facts := make([]vdom.Fact, 0, len(n.Attrs)+len(n.AttrsNS)+len(n.Styles)+len(n.Props))
	for _, name := range sortedKeys(n.Attrs) {
		facts = append(facts, vdom.Attribute(name, n.Attrs[name]))
	}
	for _, name := range sortedKeys(n.AttrsNS) {
		a := n.AttrsNS[name]
		facts = append(facts, vdom.AttributeNS(a.Namespace, name, a.Value))
	}
	for _, name := range sortedKeys(n.Styles) {
		facts = append(facts, vdom.Style(name, n.Styles[name]))
	}
	for _, name := range sortedKeys(n.Props) {
		facts = append(facts, vdom.Property(name, n.Props[name]))
	}

	kids := make([]*vdom.VNode, len(n.Children))
	for i, c := range n.Children {
		kids[i] = Virtualize(c)
	}
	return vdom.NodeNS(n.Namespace, n.Tag, facts, kids)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
