package vdom

import (
	"strings"

	"github.com/vango-dev/reconcile/pkg/dom"
)

// FactKind is the category of a declared fact.
type FactKind uint8

const (
	FactEvent  FactKind = iota // Event listener
	FactStyle                  // Style declaration
	FactProp                   // Host property
	FactAttr                   // Plain attribute
	FactAttrNS                 // Namespaced attribute
)

// String returns the string representation of the FactKind.
func (k FactKind) String() string {
	switch k {
	case FactEvent:
		return "Event"
	case FactStyle:
		return "Style"
	case FactProp:
		return "Property"
	case FactAttr:
		return "Attribute"
	case FactAttrNS:
		return "AttributeNS"
	default:
		return "Unknown"
	}
}

// Fact is a single declared attribute, property, style or event of a node.
type Fact struct {
	Kind      FactKind
	Name      string
	Namespace string  // For FactAttrNS
	Value     any     // string for styles and attributes, anything for properties
	Handler   Handler // For FactEvent
}

// Event declares an event listener.
func Event(name string, h Handler) Fact {
	return Fact{Kind: FactEvent, Name: name, Handler: h}
}

// Style declares a style.
func Style(name, value string) Fact {
	return Fact{Kind: FactStyle, Name: name, Value: value}
}

// Property declares a host property.
func Property(name string, value any) Fact {
	name = safePropName(name)
	if s, ok := value.(string); ok && isURLName(name) {
		value = safeURL(s)
	}
	return Fact{Kind: FactProp, Name: name, Value: value}
}

// Attribute declares a plain attribute.
func Attribute(name, value string) Fact {
	name = safeAttrName(name)
	if isURLName(name) {
		value = safeURL(value)
	}
	return Fact{Kind: FactAttr, Name: name, Value: value}
}

// AttributeNS declares a namespaced attribute.
func AttributeNS(namespace, name, value string) Fact {
	name = safeAttrName(name)
	if isURLName(name) {
		value = safeURL(value)
	}
	return Fact{Kind: FactAttrNS, Name: name, Namespace: namespace, Value: value}
}

// MapFact maps the messages produced by an event fact through t. Other
// facts are returned unchanged.
func MapFact(t *Tagger, f Fact) Fact {
	if f.Kind != FactEvent {
		return f
	}
	f.Handler = Handler{Kind: f.Handler.Kind, Decoder: mapDecoded(t, f.Handler.Decoder)}
	return f
}

// Facts holds a node's facts grouped by category.
type Facts struct {
	Events  map[string]Handler
	Styles  map[string]string
	Props   map[string]any
	Attrs   map[string]string
	AttrsNS map[string]dom.NSAttr
}

// Empty returns true if no facts are declared.
func (f *Facts) Empty() bool {
	return len(f.Events) == 0 && len(f.Styles) == 0 && len(f.Props) == 0 &&
		len(f.Attrs) == 0 && len(f.AttrsNS) == 0
}

// Normalize groups facts by category. Later facts override earlier ones with
// the same category and name, except class names, which accumulate.
func Normalize(facts []Fact) Facts {
	var out Facts
	for _, f := range facts {
		switch f.Kind {
		case FactEvent:
			if out.Events == nil {
				out.Events = make(map[string]Handler)
			}
			out.Events[f.Name] = f.Handler

		case FactStyle:
			if out.Styles == nil {
				out.Styles = make(map[string]string)
			}
			out.Styles[f.Name] = stringValue(f.Value)

		case FactProp:
			if out.Props == nil {
				out.Props = make(map[string]any)
			}
			if isClassProp(f.Name) {
				out.Props[f.Name] = joinClass(out.Props[f.Name], f.Value)
				continue
			}
			out.Props[f.Name] = f.Value

		case FactAttr:
			if out.Attrs == nil {
				out.Attrs = make(map[string]string)
			}
			value := stringValue(f.Value)
			if f.Name == "class" {
				if prev, ok := out.Attrs["class"]; ok && prev != "" {
					value = prev + " " + value
				}
			}
			out.Attrs[f.Name] = value

		case FactAttrNS:
			if out.AttrsNS == nil {
				out.AttrsNS = make(map[string]dom.NSAttr)
			}
			out.AttrsNS[f.Name] = dom.NSAttr{Namespace: f.Namespace, Value: stringValue(f.Value)}
		}
	}
	return out
}

func isClassProp(name string) bool {
	return name == "className" || name == "class"
}

func joinClass(prev, next any) any {
	p, ok := prev.(string)
	if !ok || p == "" {
		return next
	}
	n, ok := next.(string)
	if !ok {
		return next
	}
	return p + " " + n
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// Change is one entry of a facts delta. Removed entries clear the fact on
// the live node; Value then holds whatever the live side needs to clear it
// (the namespace of a namespaced attribute, otherwise the zero value).
type Change[T any] struct {
	Value   T
	Removed bool
}

// FactsDelta is the per-category difference between two Facts.
type FactsDelta struct {
	Events  map[string]Change[Handler]
	Styles  map[string]Change[string]
	Props   map[string]Change[any]
	Attrs   map[string]Change[string]
	AttrsNS map[string]Change[dom.NSAttr]
}

// Empty returns true if the delta changes nothing.
func (d *FactsDelta) Empty() bool {
	return d == nil || (len(d.Events) == 0 && len(d.Styles) == 0 && len(d.Props) == 0 &&
		len(d.Attrs) == 0 && len(d.AttrsNS) == 0)
}

// DeltaFromFacts builds the delta that applies every fact of f to a fresh
// node.
func DeltaFromFacts(f *Facts) *FactsDelta {
	return diffFacts(&Facts{}, f)
}

// diffFacts compares facts category by category. It returns nil when
// nothing changed.
func diffFacts(x, y *Facts) *FactsDelta {
	d := &FactsDelta{
		Events: diffCategory(x.Events, y.Events, equalHandlers, nil),
		Styles: diffCategory(x.Styles, y.Styles, func(a, b string) bool { return a == b }, nil),
		Props:  diffCategory(x.Props, y.Props, SameRef, alwaysSetProp),
		Attrs:  diffCategory(x.Attrs, y.Attrs, func(a, b string) bool { return a == b }, nil),
		AttrsNS: diffCategory(x.AttrsNS, y.AttrsNS, func(a, b dom.NSAttr) bool { return a == b },
			nil),
	}
	// Namespaced removals keep the namespace so the live side can address them.
	for name, c := range d.AttrsNS {
		if c.Removed {
			d.AttrsNS[name] = Change[dom.NSAttr]{Value: x.AttrsNS[name], Removed: true}
		}
	}
	if d.Empty() {
		return nil
	}
	return d
}

// alwaysSetProp reports properties whose live value may drift from the
// declared one through user input, so they are re-emitted even when equal.
func alwaysSetProp(name string) bool {
	return name == "value" || name == "checked"
}

func diffCategory[T any](x, y map[string]T, equal func(a, b T) bool, force func(string) bool) map[string]Change[T] {
	var out map[string]Change[T]
	put := func(key string, c Change[T]) {
		if out == nil {
			out = make(map[string]Change[T])
		}
		out[key] = c
	}

	for key, xv := range x {
		yv, ok := y[key]
		if !ok {
			put(key, Change[T]{Removed: true})
			continue
		}
		if equal(xv, yv) && (force == nil || !force(key)) {
			continue
		}
		put(key, Change[T]{Value: yv})
	}
	for key, yv := range y {
		if _, ok := x[key]; !ok {
			put(key, Change[T]{Value: yv})
		}
	}
	return out
}

// Sanitization. Names and values that would let declared facts execute code
// on the host are neutralised at construction time.

// safeAttrName renames event-handler attributes and formAction.
func safeAttrName(name string) string {
	if isEventHandler(name) || strings.EqualFold(name, "formAction") {
		return "data-" + name
	}
	return name
}

// safePropName renames properties that inject markup or override form targets.
func safePropName(name string) string {
	if name == "innerHTML" || name == "outerHTML" || name == "formAction" {
		return "data-" + name
	}
	return name
}

// isEventHandler returns true if the key is an event handler (starts with "on").
// SECURITY: Case-insensitive to catch onclick, ONCLICK, onClick, OnLoad, etc.
func isEventHandler(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

func isURLName(name string) bool {
	switch strings.ToLower(name) {
	case "href", "src", "action", "formaction", "xlink:href":
		return true
	}
	return false
}

// safeURL blanks javascript: URIs, ignoring embedded whitespace.
func safeURL(value string) string {
	compact := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' {
			return -1
		}
		return r
	}, value)
	if len(compact) >= len("javascript:") && strings.EqualFold(compact[:len("javascript:")], "javascript:") {
		return ""
	}
	return value
}
