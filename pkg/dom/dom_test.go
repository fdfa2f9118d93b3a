package dom

import "testing"

func TestInsertBefore(t *testing.T) {
	parent := NewElement("ul")
	a, b, c := NewText("a"), NewText("b"), NewText("c")
	parent.AppendChild(a)
	parent.AppendChild(c)
	parent.InsertBefore(b, c)

	if got := parent.HTML(); got != "<ul>abc</ul>" {
		t.Errorf("HTML = %q, want %q", got, "<ul>abc</ul>")
	}
	if b.Parent != parent {
		t.Error("inserted child should point at parent")
	}

	// Re-inserting an attached node moves it.
	parent.InsertBefore(c, a)
	if got := parent.HTML(); got != "<ul>cab</ul>" {
		t.Errorf("HTML = %q, want %q", got, "<ul>cab</ul>")
	}
	if len(parent.Children) != 3 {
		t.Errorf("len(Children) = %d, want 3", len(parent.Children))
	}
}

func TestInsertBeforeNilAppends(t *testing.T) {
	parent := NewElement("div")
	parent.InsertBefore(NewText("x"), nil)
	if got := parent.HTML(); got != "<div>x</div>" {
		t.Errorf("HTML = %q", got)
	}
}

func TestReplaceAndRemove(t *testing.T) {
	parent := NewElement("div")
	old := NewElement("span")
	parent.AppendChild(old)
	parent.AppendChild(NewText("tail"))

	repl := NewElement("b")
	parent.ReplaceChild(repl, old)
	if old.Parent != nil {
		t.Error("replaced node should be detached")
	}
	if got := parent.HTML(); got != "<div><b></b>tail</div>" {
		t.Errorf("HTML = %q", got)
	}

	parent.RemoveChild(repl)
	if got := parent.HTML(); got != "<div>tail</div>" {
		t.Errorf("HTML = %q", got)
	}

	if last := parent.RemoveLastChild(); last == nil || last.Data != "tail" {
		t.Errorf("RemoveLastChild = %v", last)
	}
	if parent.RemoveLastChild() != nil {
		t.Error("RemoveLastChild on empty parent should return nil")
	}
}

func TestHTMLAttributeOrder(t *testing.T) {
	n := NewElement("input")
	n.SetAttr("type", "text")
	n.SetAttr("id", "name")
	n.SetProp("value", "hello")
	n.SetProp("disabled", false)
	n.SetProp("className", "field")
	n.SetStyle("width", "10px")
	n.SetStyle("color", "red")

	want := `<input class="field" id="name" style="color: red; width: 10px" type="text" value="hello"/>`
	if got := n.HTML(); got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
}

func TestHTMLEscapesText(t *testing.T) {
	n := NewElement("p")
	n.AppendChild(NewText("<b>&"))
	if got := n.HTML(); got != "<p>&lt;b&gt;&amp;</p>" {
		t.Errorf("HTML = %q", got)
	}
}

func TestParseRoundTrip(t *testing.T) {
	src := `<div class="card"><h1>Title</h1>
	  <p>Body <b>bold</b></p>
	</div>`

	n, err := ParseString(src)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	want := `<div class="card"><h1>Title</h1><p>Body <b>bold</b></p></div>`
	if got := n.HTML(); got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
	if n.Count() != 7 {
		t.Errorf("Count = %d, want 7", n.Count())
	}
}

func TestParseRejectsMultipleRoots(t *testing.T) {
	if _, err := ParseString("<p>a</p><p>b</p>"); err == nil {
		t.Error("expected error for two roots")
	}
}

func TestParseNamespacedAttrs(t *testing.T) {
	n, err := ParseString(`<svg><use xlink:href="#icon"></use></svg>`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if n.Namespace != NamespaceSVG {
		t.Errorf("Namespace = %q, want svg namespace", n.Namespace)
	}
	use := n.ChildAt(0)
	if use == nil {
		t.Fatal("missing <use>")
	}
	if a, ok := use.AttrsNS["href"]; !ok || a.Namespace != NamespaceXLink || a.Value != "#icon" {
		t.Errorf("AttrsNS[href] = %+v", a)
	}
}

func TestDispatchBubbles(t *testing.T) {
	outer := NewElement("div")
	inner := NewElement("button")
	outer.AppendChild(inner)

	var order []string
	record := func(name string) *Listener {
		return &Listener{Handle: func(l *Listener, ev *Event) {
			order = append(order, name)
		}}
	}
	outer.SetListener("click", record("outer"))
	inner.SetListener("click", record("inner"))

	Dispatch(inner, NewEvent("click", nil))
	if len(order) != 2 || order[0] != "inner" || order[1] != "outer" {
		t.Errorf("order = %v, want [inner outer]", order)
	}
}

func TestDispatchStopPropagation(t *testing.T) {
	outer := NewElement("div")
	inner := NewElement("button")
	outer.AppendChild(inner)

	outerCalled := false
	outer.SetListener("click", &Listener{Handle: func(*Listener, *Event) { outerCalled = true }})
	inner.SetListener("click", &Listener{Handle: func(_ *Listener, ev *Event) { ev.StopPropagation() }})

	ev := NewEvent("click", nil)
	Dispatch(inner, ev)
	if outerCalled {
		t.Error("outer listener should not run after StopPropagation")
	}
	if !ev.Stopped() {
		t.Error("Stopped() = false, want true")
	}
}

func TestPassiveListenerCannotPreventDefault(t *testing.T) {
	n := NewElement("a")
	n.SetListener("click", &Listener{Passive: true, Handle: func(_ *Listener, ev *Event) { ev.PreventDefault() }})

	ev := NewEvent("click", nil)
	Dispatch(n, ev)
	if ev.DefaultPrevented() {
		t.Error("passive listener should not prevent default")
	}

	n.SetListener("click", &Listener{Handle: func(_ *Listener, ev *Event) { ev.PreventDefault() }})
	ev = NewEvent("click", nil)
	Dispatch(n, ev)
	if !ev.DefaultPrevented() {
		t.Error("active listener should prevent default")
	}
}

func TestEventLookup(t *testing.T) {
	input := NewElement("input")
	input.SetProp("value", "typed")

	ev := NewEvent("input", map[string]any{"key": "Enter", "nested": map[string]any{"x": 3}})
	ev.Target = input

	if v, ok := ev.Lookup("key"); !ok || v != "Enter" {
		t.Errorf("Lookup(key) = %v, %v", v, ok)
	}
	if v, ok := ev.Lookup("nested", "x"); !ok || v != 3 {
		t.Errorf("Lookup(nested.x) = %v, %v", v, ok)
	}
	if v, ok := ev.Lookup("target", "value"); !ok || v != "typed" {
		t.Errorf("Lookup(target.value) = %v, %v", v, ok)
	}
	if _, ok := ev.Lookup("missing"); ok {
		t.Error("Lookup(missing) should fail")
	}
}

func TestEventContextDeliver(t *testing.T) {
	var got any
	var gotSync bool
	root := NewEventRoot(func(msg any, sync bool) {
		got = msg
		gotSync = sync
	})

	outer := NewEventContext([]func(any) any{
		func(m any) any { return "outer(" + m.(string) + ")" },
	}, root)
	inner := NewEventContext([]func(any) any{
		func(m any) any { return "a(" + m.(string) + ")" },
		func(m any) any { return "b(" + m.(string) + ")" },
	}, outer)

	inner.Deliver("msg", true)

	// Chain taggers run innermost first, then the parent link.
	if got != "outer(a(b(msg)))" {
		t.Errorf("delivered %v, want outer(a(b(msg)))", got)
	}
	if !gotSync {
		t.Error("sync flag should be forwarded")
	}
}
