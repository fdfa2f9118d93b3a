package dom

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Well-known namespaces.
const (
	NamespaceHTML  = "http://www.w3.org/1999/xhtml"
	NamespaceSVG   = "http://www.w3.org/2000/svg"
	NamespaceMath  = "http://www.w3.org/1998/Math/MathML"
	NamespaceXLink = "http://www.w3.org/1999/xlink"
	NamespaceXML   = "http://www.w3.org/XML/1998/namespace"
)

// elementPrefixes maps element namespace URIs to x/net/html foreign namespaces.
var elementPrefixes = map[string]string{
	NamespaceSVG:  "svg",
	NamespaceMath: "math",
}

// attrPrefixes maps attribute namespace URIs to serialization prefixes.
var attrPrefixes = map[string]string{
	NamespaceXLink: "xlink",
	NamespaceXML:   "xml",
}

// reflectedProps maps host property names to the attribute they reflect.
var reflectedProps = map[string]string{
	"className": "class",
	"htmlFor":   "for",
	"tabIndex":  "tabindex",
}

// HTML serializes the subtree rooted at n. Attribute order is deterministic:
// attributes are sorted by name, styles are folded into a single style
// attribute and string/bool/number properties are reflected as attributes
// unless an attribute of the same name already exists.
func (n *Node) HTML() string {
	var b strings.Builder
	if err := n.WriteHTML(&b); err != nil {
		return ""
	}
	return b.String()
}

// WriteHTML streams the serialized subtree to w.
func (n *Node) WriteHTML(w io.Writer) error {
	return html.Render(w, toHTML(n))
}

func toHTML(n *Node) *html.Node {
	if n.Type == TextNode {
		return &html.Node{Type: html.TextNode, Data: n.Data}
	}

	hn := &html.Node{
		Type:      html.ElementNode,
		Data:      n.Tag,
		DataAtom:  atom.Lookup([]byte(n.Tag)),
		Namespace: elementPrefixes[n.Namespace],
		Attr:      collectAttrs(n),
	}
	for _, c := range n.Children {
		hn.AppendChild(toHTML(c))
	}
	return hn
}

func collectAttrs(n *Node) []html.Attribute {
	attrs := make(map[string]html.Attribute, len(n.Attrs)+len(n.AttrsNS)+len(n.Props)+1)

	for name, value := range n.Attrs {
		attrs[name] = html.Attribute{Key: name, Val: value}
	}
	for name, a := range n.AttrsNS {
		prefix := attrPrefixes[a.Namespace]
		key := name
		if prefix != "" {
			key = prefix + ":" + name
		}
		attrs[key] = html.Attribute{Namespace: prefix, Key: name, Val: a.Value}
	}
	for name, value := range n.Props {
		key := name
		if reflected, ok := reflectedProps[name]; ok {
			key = reflected
		}
		if _, exists := attrs[key]; exists {
			continue
		}
		if s, ok := propString(value); ok {
			attrs[key] = html.Attribute{Key: key, Val: s}
		}
	}
	if style := styleString(n.Styles); style != "" {
		attrs["style"] = html.Attribute{Key: "style", Val: style}
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]html.Attribute, 0, len(keys))
	for _, k := range keys {
		out = append(out, attrs[k])
	}
	return out
}

// propString converts a property value to its reflected attribute value.
// false and unsupported values are not reflected.
func propString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return "", val
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	default:
		return "", false
	}
}

func styleString(styles map[string]string) string {
	if len(styles) == 0 {
		return ""
	}
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(styles[name])
	}
	return b.String()
}

// Parse builds a live tree from an HTML fragment with exactly one root
// node. Comments are dropped, and so are whitespace-only text nodes that sit
// between elements.
func Parse(r io.Reader) (*Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}

	var roots []*Node
	for _, hn := range nodes {
		if n := fromHTML(hn); n != nil {
			roots = append(roots, n)
		}
	}
	if len(roots) != 1 {
		return nil, fmt.Errorf("dom: parse: expected exactly one root node, found %d", len(roots))
	}
	return roots[0], nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

func fromHTML(hn *html.Node) *Node {
	switch hn.Type {
	case html.TextNode:
		if strings.TrimSpace(hn.Data) == "" {
			return nil
		}
		return NewText(hn.Data)

	case html.ElementNode:
		n := NewElement(hn.Data)
		for uri, prefix := range elementPrefixes {
			if hn.Namespace == prefix {
				n.Namespace = uri
			}
		}
		for _, a := range hn.Attr {
			if a.Namespace != "" {
				n.SetAttrNS(prefixURI(a.Namespace), a.Key, a.Val)
				continue
			}
			n.SetAttr(a.Key, a.Val)
		}
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTML(c); child != nil {
				n.AppendChild(child)
			}
		}
		return n

	default:
		return nil
	}
}

func prefixURI(prefix string) string {
	for uri, p := range attrPrefixes {
		if p == prefix {
			return uri
		}
	}
	return prefix
}
