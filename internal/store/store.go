// Package store provides an observable state container: a map of values that
// is replaced (never mutated) on every update and a list of listeners that are
// called synchronously after each update.
package store

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"
)

// State is a snapshot of the store. Snapshots handed out by the store are
// never modified afterwards, so holding on to an old one is safe; callers
// must not modify them either.
type State map[string]any

// Listener receives the merged state after every SetState.
type Listener func(State)

type subscription struct {
	fn     Listener
	active atomic.Bool
}

// Store is safe for use from multiple goroutines. Listeners run on the
// goroutine that called SetState, with no lock held, so a listener may call
// SetState, Subscribe or an unsubscribe func.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners []*subscription
}

// New returns a store holding a private shallow copy of initial.
func New(initial State) *Store {
	st := maps.Clone(initial)
	if st == nil {
		st = State{}
	}
	return &Store{state: st}
}

// GetState returns the current snapshot.
func (s *Store) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Select returns a single key of the current snapshot.
func (s *Store) Select(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.state[key]
	return v, ok
}

// SetState replaces the state with a shallow merge of partial over the
// current state, then calls the listeners subscribed at that moment, in
// subscription order, each with the same new snapshot. A listener removed
// while the pass is running is not called after its removal.
//
// A listener that calls SetState runs a full nested pass before the outer
// pass continues; one that does so unconditionally recurses forever.
func (s *Store) SetState(partial State) {
	s.mu.Lock()
	next := make(State, len(s.state)+len(partial))
	maps.Copy(next, s.state)
	maps.Copy(next, partial)
	s.state = next
	subs := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, sub := range subs {
		if sub.active.Load() {
			sub.fn(next)
		}
	}
}

// Subscribe appends fn and returns a func that removes this registration.
// Subscribing the same func twice creates two independent registrations.
// The returned func may be called any number of times.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	sub := &subscription{fn: fn}
	sub.active.Store(true)

	s.mu.Lock()
	s.listeners = append(s.listeners, sub)
	s.mu.Unlock()

	return func() {
		if !sub.active.CompareAndSwap(true, false) {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners = slices.DeleteFunc(s.listeners, func(x *subscription) bool { return x == sub })
	}
}

// Len reports the number of registered listeners.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}
