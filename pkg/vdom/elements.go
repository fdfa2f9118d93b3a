package vdom

import (
	"strconv"

	"github.com/vango-dev/reconcile/pkg/dom"
)

// El creates an element with the given tag. Arguments can be: nil, Fact,
// []Fact, *VNode, []*VNode, Keyed, []Keyed or string (a text child). Any
// Keyed argument turns the element into a keyed element; unkeyed children
// are then keyed by their position.
func El(tag string, args ...any) *VNode {
	return ElNS("", tag, args...)
}

// ElNS is El for a namespaced element.
func ElNS(namespace, tag string, args ...any) *VNode {
	var facts []Fact
	var children []Keyed
	keyed := false

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional facts and children)
			continue
		case Fact:
			facts = append(facts, v)
		case []Fact:
			facts = append(facts, v...)
		case *VNode:
			if v != nil {
				children = append(children, Keyed{Node: v})
			}
		case []*VNode:
			for _, child := range v {
				if child != nil {
					children = append(children, Keyed{Node: child})
				}
			}
		case Keyed:
			keyed = true
			children = append(children, v)
		case []Keyed:
			keyed = true
			children = append(children, v...)
		case string:
			// Shorthand for text node
			children = append(children, Keyed{Node: Text(v)})
		}
	}

	if keyed {
		for i := range children {
			if children[i].Key == "" {
				children[i].Key = "#" + strconv.Itoa(i)
			}
		}
		return KeyedNodeNS(namespace, tag, facts, children)
	}

	kids := make([]*VNode, len(children))
	for i, c := range children {
		kids[i] = c.Node
	}
	return NodeNS(namespace, tag, facts, kids)
}

// Document structure

func Div(args ...any) *VNode     { return El("div", args...) }
func Span(args ...any) *VNode    { return El("span", args...) }
func P(args ...any) *VNode       { return El("p", args...) }
func Section(args ...any) *VNode { return El("section", args...) }
func Header(args ...any) *VNode  { return El("header", args...) }
func Footer(args ...any) *VNode  { return El("footer", args...) }
func Main(args ...any) *VNode    { return El("main", args...) }
func Nav(args ...any) *VNode     { return El("nav", args...) }
func H1(args ...any) *VNode      { return El("h1", args...) }
func H2(args ...any) *VNode      { return El("h2", args...) }
func H3(args ...any) *VNode      { return El("h3", args...) }

// Lists and tables

func Ul(args ...any) *VNode    { return El("ul", args...) }
func Ol(args ...any) *VNode    { return El("ol", args...) }
func Li(args ...any) *VNode    { return El("li", args...) }
func Table(args ...any) *VNode { return El("table", args...) }
func Tbody(args ...any) *VNode { return El("tbody", args...) }
func Tr(args ...any) *VNode    { return El("tr", args...) }
func Td(args ...any) *VNode    { return El("td", args...) }

// Inline

func A(args ...any) *VNode      { return El("a", args...) }
func B(args ...any) *VNode      { return El("b", args...) }
func Em(args ...any) *VNode     { return El("em", args...) }
func Strong(args ...any) *VNode { return El("strong", args...) }
func Code(args ...any) *VNode   { return El("code", args...) }
func Img(args ...any) *VNode    { return El("img", args...) }
func Br() *VNode                { return El("br") }

// Forms

func Form(args ...any) *VNode     { return El("form", args...) }
func Button(args ...any) *VNode   { return El("button", args...) }
func Input(args ...any) *VNode    { return El("input", args...) }
func Label(args ...any) *VNode    { return El("label", args...) }
func Textarea(args ...any) *VNode { return El("textarea", args...) }
func Select(args ...any) *VNode   { return El("select", args...) }
func Option(args ...any) *VNode   { return El("option", args...) }

// SVG

func Svg(args ...any) *VNode    { return ElNS(dom.NamespaceSVG, "svg", args...) }
func Circle(args ...any) *VNode { return ElNS(dom.NamespaceSVG, "circle", args...) }
func Path(args ...any) *VNode   { return ElNS(dom.NamespaceSVG, "path", args...) }
func Use(args ...any) *VNode    { return ElNS(dom.NamespaceSVG, "use", args...) }
