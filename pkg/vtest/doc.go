// Package vtest provides testing helpers for code that builds virtual
// trees.
//
// # Round Trips
//
// PatchAndCompare checks the core reconciliation property on any pair of
// trees: rendering the old tree and applying the diff gives the same live
// tree as rendering the new one.
//
//	func TestTodoToggle(t *testing.T) {
//	    before := view(Model{Done: false})
//	    after := view(Model{Done: true})
//	    vtest.PatchAndCompare(t, before, after)
//	}
//
// ExpectPatches pins the exact patch list when the shape matters:
//
//	vtest.ExpectPatches(t, vdom.P("a"), vdom.P("b"), `Text@1 "b"`)
//
// # Render Assertions
//
// Assert on rendered HTML output:
//
//	vtest.ExpectContains(t, view(model), "Welcome Admin")
//	vtest.ExpectNotContains(t, view(model), "Login")
package vtest
