package dom

import "sort"

// Event is a raw host event travelling through the live tree.
type Event struct {
	Type          string
	Target        *Node
	CurrentTarget *Node

	// Detail carries the event payload (e.g. "key", "button", nested
	// "target" values). Decoders read it through Lookup.
	Detail map[string]any

	stopped          bool
	defaultPrevented bool
	passive          bool
}

// NewEvent creates an event of the given type with an optional payload.
func NewEvent(typ string, detail map[string]any) *Event {
	return &Event{Type: typ, Detail: detail}
}

// StopPropagation prevents the event from bubbling past the current node.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// PreventDefault marks the default action as cancelled. It has no effect
// while a passive listener is running.
func (e *Event) PreventDefault() {
	if e.passive {
		return
	}
	e.defaultPrevented = true
}

// Stopped reports whether StopPropagation was called.
func (e *Event) Stopped() bool { return e.stopped }

// DefaultPrevented reports whether PreventDefault took effect.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Lookup resolves a field path in the event payload. When the payload does
// not carry a "target" object, paths starting with "target" are resolved
// against the target node's properties and then its attributes.
func (e *Event) Lookup(path ...string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	if path[0] == "type" && len(path) == 1 {
		return e.Type, true
	}
	if _, ok := e.Detail["target"]; !ok && path[0] == "target" && len(path) == 2 && e.Target != nil {
		if v, ok := e.Target.Props[path[1]]; ok {
			return v, true
		}
		if v, ok := e.Target.Attrs[path[1]]; ok {
			return v, true
		}
		return nil, false
	}

	var cur any = e.Detail
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Listener is an event callback attached to a live node.
type Listener struct {
	// Passive listeners cannot prevent the default action.
	Passive bool

	// Data is owner state read by Handle on every invocation. Owners swap it
	// in place to retarget a listener without re-registering it.
	Data any

	// Handle is invoked with the listener itself and the event.
	Handle func(l *Listener, ev *Event)
}

// SetListener registers l for events of the given type, replacing any
// previous listener for that type.
func (n *Node) SetListener(typ string, l *Listener) {
	if n.listeners == nil {
		n.listeners = make(map[string]*Listener)
	}
	n.listeners[typ] = l
}

// Listener returns the listener registered for typ, or nil.
func (n *Node) Listener(typ string) *Listener {
	return n.listeners[typ]
}

// RemoveListener unregisters the listener for typ.
func (n *Node) RemoveListener(typ string) {
	delete(n.listeners, typ)
}

// ListenerTypes returns the registered event types in sorted order.
func (n *Node) ListenerTypes() []string {
	types := make([]string, 0, len(n.listeners))
	for typ := range n.listeners {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}

// Dispatch fires ev at target and bubbles it towards the root until a
// listener stops propagation.
func Dispatch(target *Node, ev *Event) {
	ev.Target = target
	for n := target; n != nil; n = n.Parent {
		if l := n.listeners[ev.Type]; l != nil && l.Handle != nil {
			ev.CurrentTarget = n
			ev.passive = l.Passive
			l.Handle(l, ev)
			ev.passive = false
		}
		if ev.stopped {
			return
		}
	}
}

// EventContext is a link in the chain of message transformers between a
// live node and the dispatcher. The root of every chain carries the send
// function; intermediate links carry the taggers of one tagger chain.
type EventContext struct {
	// Taggers are ordered outermost first and applied innermost first.
	Taggers []func(any) any
	Parent  *EventContext

	send func(msg any, sync bool)
}

// NewEventRoot creates the root of an event context chain.
func NewEventRoot(send func(msg any, sync bool)) *EventContext {
	return &EventContext{send: send}
}

// NewEventContext creates a child context applying taggers before handing
// messages to parent.
func NewEventContext(taggers []func(any) any, parent *EventContext) *EventContext {
	return &EventContext{Taggers: taggers, Parent: parent}
}

// Deliver maps msg through every tagger up the chain and hands the result to
// the root send function. sync reports whether the event asked to stop
// propagation, which callers treat as a request for a synchronous update.
func (c *EventContext) Deliver(msg any, sync bool) {
	cur := c
	for cur != nil && cur.send == nil {
		for i := len(cur.Taggers) - 1; i >= 0; i-- {
			msg = cur.Taggers[i](msg)
		}
		cur = cur.Parent
	}
	if cur != nil {
		cur.send(msg, sync)
	}
}
