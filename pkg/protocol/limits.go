package protocol

import "errors"

// MaxPatchDepth limits how deeply sub-patch lists may nest in an encoded
// patch list. Thunks, reorders and moved keyed children each add a level.
const MaxPatchDepth = 128

// ErrMaxDepthExceeded is returned when nested sub-patch lists exceed the
// depth limit.
var ErrMaxDepthExceeded = errors.New("protocol: maximum nesting depth exceeded")

// depthContext tracks recursion depth while decoding.
type depthContext struct {
	current int
	max     int
}

func newDepthContext(max int) *depthContext {
	return &depthContext{max: max}
}

// enter increments the depth, or fails without changing it when the limit
// is reached.
func (dc *depthContext) enter() error {
	if dc.current >= dc.max {
		return ErrMaxDepthExceeded
	}
	dc.current++
	return nil
}

func (dc *depthContext) leave() {
	dc.current--
}
