package store

import (
	"sync"
	"sync/atomic"
)

// AfterFunc observes an action's result. When the registry was created with
// WithResultOverride(true), a non-nil return value replaces the result for
// later callbacks and the caller; otherwise the return value is ignored.
type AfterFunc func(result any) any

// ErrorFunc observes an action's error. It cannot suppress or replace it.
type ErrorFunc func(err error)

// ActionHook is called when an action is dispatched, before it runs.
type ActionHook func(call *ActionContext)

// ActionContext describes one action call. It is passed to every ActionHook
// and discarded once the call settles.
type ActionContext struct {
	// Store is the store the action belongs to.
	Store *Store

	// Name is the action's name.
	Name string

	// Args are the arguments the action was called with.
	Args []any

	mu      sync.Mutex
	after   []AfterFunc
	onError []ErrorFunc
}

// StoreID returns the id of the store the action belongs to.
func (c *ActionContext) StoreID() string {
	return c.Store.id
}

// After registers fn to run when the call succeeds.
func (c *ActionContext) After(fn AfterFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.after = append(c.after, fn)
}

// OnError registers fn to run when the call fails.
func (c *ActionContext) OnError(fn ErrorFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = append(c.onError, fn)
}

// succeed runs the After callbacks in registration order and returns the
// value the caller receives.
func (c *ActionContext) succeed(result any) any {
	c.mu.Lock()
	after := make([]AfterFunc, len(c.after))
	copy(after, c.after)
	c.mu.Unlock()

	override := c.Store.registry.resultOverride
	for _, fn := range after {
		if out := fn(result); override && out != nil {
			result = out
		}
	}
	return result
}

// fail runs the OnError callbacks in registration order.
func (c *ActionContext) fail(err error) {
	c.mu.Lock()
	onError := make([]ErrorFunc, len(c.onError))
	copy(onError, c.onError)
	c.mu.Unlock()

	for _, fn := range onError {
		fn(err)
	}
}

type hookSubscription struct {
	fn     ActionHook
	active atomic.Bool
}

// hookList is a store's ordered list of action hooks.
type hookList struct {
	mu   sync.Mutex
	subs []*hookSubscription
}

func (l *hookList) add(fn ActionHook) func() {
	sub := &hookSubscription{fn: fn}
	sub.active.Store(true)

	l.mu.Lock()
	l.subs = append(l.subs, sub)
	l.mu.Unlock()

	return func() {
		if !sub.active.Swap(false) {
			return
		}
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, existing := range l.subs {
			if existing == sub {
				l.subs = append(l.subs[:i], l.subs[i+1:]...)
				return
			}
		}
	}
}

func (l *hookList) snapshot() []*hookSubscription {
	l.mu.Lock()
	defer l.mu.Unlock()
	subs := make([]*hookSubscription, len(l.subs))
	copy(subs, l.subs)
	return subs
}

func (l *hookList) clear() {
	l.mu.Lock()
	subs := l.subs
	l.subs = nil
	l.mu.Unlock()

	for _, sub := range subs {
		sub.active.Store(false)
	}
}

func (l *hookList) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

// OnAction registers hook to run for every subsequent action call on s and
// returns a function that removes it. Removing a hook does not affect calls
// that already dispatched to it.
func (s *Store) OnAction(hook ActionHook) (unsubscribe func()) {
	return s.hooks.add(hook)
}

// ClearActionHooks removes every action hook registered on s.
func (s *Store) ClearActionHooks() {
	s.hooks.clear()
}
