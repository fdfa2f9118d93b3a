package vdom

import (
	"testing"

	"github.com/vango-dev/reconcile/pkg/dom"
)

func TestNormalizeLastWriteWins(t *testing.T) {
	f := Normalize([]Fact{
		ID("first"),
		Style("color", "red"),
		ID("second"),
		Style("color", "blue"),
		Property("title", "a"),
		Property("title", "b"),
	})

	if got := f.Attrs["id"]; got != "second" {
		t.Errorf("Attrs[id] = %q, want second", got)
	}
	if got := f.Styles["color"]; got != "blue" {
		t.Errorf("Styles[color] = %q, want blue", got)
	}
	if got := f.Props["title"]; got != "b" {
		t.Errorf("Props[title] = %v, want b", got)
	}
}

func TestNormalizeClassAccumulates(t *testing.T) {
	f := Normalize([]Fact{
		Class("card"),
		Class("active", "wide"),
		ClassName("a"),
		ClassName("b"),
	})

	if got := f.Attrs["class"]; got != "card active wide" {
		t.Errorf("Attrs[class] = %q, want %q", got, "card active wide")
	}
	if got := f.Props["className"]; got != "a b" {
		t.Errorf("Props[className] = %v, want %q", got, "a b")
	}
}

func TestNormalizeCategories(t *testing.T) {
	f := Normalize([]Fact{
		OnClick("go"),
		XLinkHref("#icon"),
		Attribute("id", "x"),
	})

	if _, ok := f.Events["click"]; !ok {
		t.Error("click handler missing")
	}
	if a := f.AttrsNS["href"]; a.Namespace != dom.NamespaceXLink || a.Value != "#icon" {
		t.Errorf("AttrsNS[href] = %+v", a)
	}
	if !(&Facts{}).Empty() {
		t.Error("zero Facts should be empty")
	}
	if f.Empty() {
		t.Error("Empty() = true, want false")
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name      string
		fact      Fact
		wantName  string
		wantValue any
	}{
		{"onclick attribute", Attribute("onclick", "alert(1)"), "data-onclick", "alert(1)"},
		{"mixed case handler", Attribute("OnLoad", "x"), "data-OnLoad", "x"},
		{"formAction attribute", Attribute("formAction", "/x"), "data-formAction", "/x"},
		{"javascript href", Href("javascript:alert(1)"), "href", ""},
		{"spaced javascript src", Src(" Java\tScript:alert(1)"), "src", ""},
		{"safe href", Href("/home"), "href", "/home"},
		{"innerHTML property", Property("innerHTML", "<b>"), "data-innerHTML", "<b>"},
		{"outerHTML property", Property("outerHTML", "<i>"), "data-outerHTML", "<i>"},
		{"javascript href property", Property("href", "javascript:x"), "href", ""},
		{"xlink javascript", XLinkHref("javascript:x"), "href", ""},
		{"bare on is not a handler", Attribute("on", "x"), "on", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.fact.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", tt.fact.Name, tt.wantName)
			}
			if tt.fact.Value != tt.wantValue {
				t.Errorf("Value = %v, want %v", tt.fact.Value, tt.wantValue)
			}
		})
	}
}

func TestScriptTagIsReplaced(t *testing.T) {
	if got := El("script", "alert(1)").Tag; got != "p" {
		t.Errorf("Tag = %q, want p", got)
	}
	if got := El("SCRIPT").Tag; got != "p" {
		t.Errorf("Tag = %q, want p", got)
	}
}

func TestDiffFactsDelta(t *testing.T) {
	prev := Normalize([]Fact{
		ID("x"),
		XLinkHref("#a"),
		Style("color", "red"),
		OnClick("a"),
		Value("typed"),
	})
	next := Normalize([]Fact{
		Style("color", "red"),
		OnClick("a"),
		Value("typed"),
	})

	d := diffFacts(&prev, &next)
	if d == nil {
		t.Fatal("diffFacts = nil, want a delta")
	}
	if c, ok := d.Attrs["id"]; !ok || !c.Removed {
		t.Errorf("Attrs[id] = %+v, want removal", c)
	}
	if c := d.AttrsNS["href"]; !c.Removed || c.Value.Namespace != dom.NamespaceXLink {
		t.Errorf("AttrsNS[href] = %+v, want removal keeping the namespace", c)
	}
	if len(d.Styles) != 0 {
		t.Errorf("Styles = %v, want no change", d.Styles)
	}
	if len(d.Events) != 0 {
		t.Errorf("Events = %v, want no change for equal decoders", d.Events)
	}
	if c, ok := d.Props["value"]; !ok || c.Value != "typed" {
		t.Errorf("Props[value] = %+v, want it re-emitted", c)
	}
}

func TestDiffFactsEmpty(t *testing.T) {
	a := Normalize([]Fact{ID("x"), Style("width", "1px")})
	b := Normalize([]Fact{ID("x"), Style("width", "1px")})
	if d := diffFacts(&a, &b); d != nil {
		t.Errorf("diffFacts = %+v, want nil", d)
	}
	if !(*FactsDelta)(nil).Empty() {
		t.Error("nil delta should be empty")
	}
}

func TestDiffFactsEvents(t *testing.T) {
	prev := Normalize([]Fact{OnClick("a"), OnFocus("f")})
	next := Normalize([]Fact{OnClick("b"), OnBlur("x")})

	d := diffFacts(&prev, &next)
	if c, ok := d.Events["click"]; !ok || c.Removed {
		t.Errorf("Events[click] = %+v, want a new handler", c)
	}
	if c, ok := d.Events["focus"]; !ok || !c.Removed {
		t.Errorf("Events[focus] = %+v, want removal", c)
	}
	if _, ok := d.Events["blur"]; !ok {
		t.Error("Events[blur] missing")
	}
}

func TestDeltaFromFacts(t *testing.T) {
	f := Normalize([]Fact{ID("x"), Style("color", "red")})
	d := DeltaFromFacts(&f)
	if d.Attrs["id"].Value != "x" || d.Styles["color"].Value != "red" {
		t.Errorf("DeltaFromFacts = %+v", d)
	}
}
