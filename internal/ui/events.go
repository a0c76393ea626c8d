// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ui

import "slices"

// Handler receives dispatched events.
type Handler func(*Event)

// Event is dispatched to a target node and bubbles up through its ancestors.
type Event struct {
	Type string
	// Detail carries caller data with the event, e.g. a form value.
	Detail any

	target           *Node
	currentTarget    *Node
	stopped          bool
	defaultPrevented bool
}

// NewEvent returns an event of the given type.
func NewEvent(typ string, detail any) *Event {
	return &Event{Type: typ, Detail: detail}
}

// Target is the node the event was dispatched to.
func (e *Event) Target() *Node { return e.target }

// CurrentTarget is the node whose listener is running.
func (e *Event) CurrentTarget() *Node { return e.currentTarget }

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

func (e *Event) PreventDefault()        { e.defaultPrevented = true }
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

type listener struct {
	fn Handler
}

// AddEventListener registers fn for events of type typ and returns a func
// removing this registration. Registering the same func twice calls it twice.
func (n *Node) AddEventListener(typ string, fn Handler) (remove func()) {
	if fn == nil {
		return func() {}
	}
	l := &listener{fn: fn}
	if n.events == nil {
		n.events = make(map[string][]*listener)
	}
	n.events[typ] = append(n.events[typ], l)
	return func() {
		n.events[typ] = slices.DeleteFunc(n.events[typ], func(x *listener) bool { return x == l })
		if len(n.events[typ]) == 0 {
			delete(n.events, typ)
		}
	}
}

// RemoveEventListener drops every listener registered for typ.
func (n *Node) RemoveEventListener(typ string) {
	delete(n.events, typ)
}

// HasListeners reports whether any listener is registered for typ.
func (n *Node) HasListeners(typ string) bool {
	return len(n.events[typ]) > 0
}

// Dispatch delivers ev to n's listeners in registration order, then to each
// ancestor's, until a listener stops propagation. It reports whether the
// default action was left alone.
func (n *Node) Dispatch(ev *Event) bool {
	if ev == nil {
		return true
	}
	ev.target = n
	for cur := n; cur != nil && !ev.stopped; cur = cur.parent {
		ev.currentTarget = cur
		for _, l := range slices.Clone(cur.events[ev.Type]) {
			l.fn(ev)
		}
	}
	ev.currentTarget = nil
	return !ev.defaultPrevented
}
