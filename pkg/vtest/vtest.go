package vtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/render"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// RenderToString renders a virtual tree and returns its HTML.
//
// Example:
//
//	html := vtest.RenderToString(view(model))
//	if !strings.Contains(html, "expected text") {
//	    t.Error("missing expected text")
//	}
func RenderToString(node *vdom.VNode) string {
	return render.Render(node, nil).HTML()
}

// Snapshot returns the HTML of n followed by one "tag:types" line for
// every node with listeners, so two live trees compare equal only when
// both their markup and their listeners match.
func Snapshot(n *dom.Node) string {
	var b strings.Builder
	b.WriteString(n.HTML())
	n.Walk(func(c *dom.Node) bool {
		if types := c.ListenerTypes(); len(types) > 0 {
			fmt.Fprintf(&b, "\n%s:%s", c.Tag, strings.Join(types, ","))
		}
		return true
	})
	return b.String()
}

// Summary returns the one-line form of every patch.
func Summary(patches []vdom.Patch) []string {
	out := make([]string, len(patches))
	for i, p := range patches {
		out[i] = p.String()
	}
	return out
}

// PatchAndCompare renders prev, applies Diff(prev, next) to it and fails
// tb unless the result matches a fresh render of next. It returns the
// patched live tree.
//
// Example:
//
//	vtest.PatchAndCompare(t, view(before), view(after))
func PatchAndCompare(tb testing.TB, prev, next *vdom.VNode) *dom.Node {
	tb.Helper()
	live := render.Render(prev, nil)
	patches := vdom.Diff(prev, next)

	got, err := render.Apply(live, prev, patches, nil)
	if err != nil {
		tb.Fatalf("Apply(%v): %v", Summary(patches), err)
	}
	want := Snapshot(render.Render(next, nil))
	if diff := cmp.Diff(want, Snapshot(got)); diff != "" {
		tb.Fatalf("patched tree mismatch\npatches: %v\n(-want +got):\n%s", Summary(patches), diff)
	}
	return got
}

// ExpectPatches asserts the one-line form of Diff(prev, next).
//
// Example:
//
//	vtest.ExpectPatches(t, vdom.P("a"), vdom.P("b"), `Text@1 "b"`)
func ExpectPatches(tb testing.TB, prev, next *vdom.VNode, want ...string) {
	tb.Helper()
	got := Summary(vdom.Diff(prev, next))
	if len(want) == 0 {
		want = []string{}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		tb.Errorf("Diff mismatch (-want +got):\n%s", diff)
	}
}

// ExpectContains asserts that rendered output contains expected substring.
//
// Example:
//
//	vtest.ExpectContains(t, view(model), "Welcome Admin")
func ExpectContains(tb testing.TB, node *vdom.VNode, expected string) {
	tb.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		tb.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(tb testing.TB, node *vdom.VNode, unexpected string) {
	tb.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		tb.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
//
// Example:
//
//	vtest.ExpectAttribute(t, view(model), "class", "btn-primary")
func ExpectAttribute(tb testing.TB, node *vdom.VNode, attr, value string) {
	tb.Helper()
	html := RenderToString(node)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		tb.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
