package engine

import "context"

// Middleware wraps update cycles.
type Middleware interface {
	// Handle observes the cycle and optionally calls next. Return an error
	// to stop the chain and fail the cycle. Return nil without calling next
	// to skip the cycle; the live tree is then left untouched.
	Handle(ctx context.Context, c *Cycle, next func(context.Context) error) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(ctx context.Context, c *Cycle, next func(context.Context) error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ctx context.Context, c *Cycle, next func(context.Context) error) error {
	return f(ctx, c, next)
}

// Compose runs mw around run. Middleware is executed in order (first to
// last), with run at the end.
func Compose(ctx context.Context, c *Cycle, mw []Middleware, run func(context.Context) error) error {
	if len(mw) == 0 {
		return run(ctx)
	}

	// Build chain from end to start
	chain := run
	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func(ctx context.Context) error {
			return m.Handle(ctx, c, next)
		}
	}

	return chain(ctx)
}

// Chain creates a middleware that combines multiple middleware in order.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(ctx context.Context, c *Cycle, next func(context.Context) error) error {
		return Compose(ctx, c, middleware, next)
	})
}

// Only runs mw for cycles matching condition and passes the others through.
func Only(condition func(c *Cycle) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(ctx context.Context, c *Cycle, next func(context.Context) error) error {
		if !condition(c) {
			return next(ctx)
		}
		return mw.Handle(ctx, c, next)
	})
}
