// Package engine runs reconciliation cycles against a live tree.
//
// An Engine owns the live root and the virtual tree it currently reflects.
// Each Update diffs the current tree against the next one and applies the
// patches in place:
//
//	e := engine.New(view(model), func(msg any, sync bool) { inbox <- msg })
//	...
//	if _, err := e.Update(ctx, view(model)); err != nil {
//	    // E100/E102: the live tree was changed behind the engine's back
//	}
//
// Cycles are single-writer. The engine tracks whether a cycle is running
// and rejects a second Update, including one made re-entrantly from a
// widget or from middleware, with E101.
//
// Middleware wraps every cycle and sees the Cycle record before and after
// it runs; package middleware provides Prometheus and OpenTelemetry
// implementations.
package engine
