package store

import (
	"sort"
	"sync/atomic"

	"github.com/vango-dev/vstore/internal/errors"
	"github.com/vango-dev/vstore/pkg/reactive"
)

// Store is a constructed store instance: one per (registry, id).
type Store struct {
	id       string
	registry *Registry
	def      *definition

	state   *State
	getters map[string]*reactive.Memo[any]
	actions map[string]BoundAction

	hooks hookList
	subs  subscriptions

	disposed atomic.Bool
}

func newStore(r *Registry, d *definition) *Store {
	s := &Store{
		id:       d.id,
		registry: r,
		def:      d,
		getters:  make(map[string]*reactive.Memo[any], len(d.getters)),
		actions:  make(map[string]BoundAction, len(d.actions)),
	}

	s.state = newState(d.freshState(), func(m Mutation) {
		m.StoreID = s.id
		s.subs.dispatch(m, s.state)
	})

	for name, g := range d.getters {
		g := g
		s.getters[name] = reactive.NewMemo(func() any {
			return g(s)
		})
	}

	for name, fn := range d.actions {
		s.actions[name] = s.bind(name, fn)
	}

	return s
}

// ID returns the store's id.
func (s *Store) ID() string {
	return s.id
}

// Registry returns the registry that constructed the store.
func (s *Store) Registry() *Registry {
	return s.registry
}

// State returns the store's live state.
func (s *Store) State() *State {
	return s.state
}

// SetState replaces the whole state content with a copy of next. The state
// handle and its root Record keep their identity.
func (s *Store) SetState(next Record) {
	s.state.replace(deepCopyRecord(next))
}

// Patch merges partial into the live state. See Merge.
func (s *Store) Patch(partial Record) {
	s.state.merge(partial)
}

// PatchFunc calls fn with the live state. Writes made by fn are reported to
// subscribers as one mutation.
func (s *Store) PatchFunc(fn func(st *State)) {
	s.state.group(fn)
}

// Reset rebuilds the state from the definition's factory, in place.
func (s *Store) Reset() {
	s.state.replace(s.def.freshState())
}

// Getter returns the current value of the named getter.
func (s *Store) Getter(name string) (any, error) {
	m, ok := s.getters[name]
	if !ok {
		return nil, errors.New("S005").WithDetailf("store %q has no getter %q", s.id, name)
	}
	return m.Get(), nil
}

// GetterAs returns the named getter's value asserted to T. A value of a
// different type yields the zero T and false.
func GetterAs[T any](s *Store, name string) (T, bool) {
	var zero T
	v, err := s.Getter(name)
	if err != nil {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Getters returns the names of the store's getters, sorted.
func (s *Store) Getters() []string {
	return sortedKeys(s.getters)
}

// Actions returns the names of the store's actions, sorted.
func (s *Store) Actions() []string {
	return sortedKeys(s.actions)
}

// Action returns the named action bound to s. The returned function can be
// called standalone or stored anywhere; it always runs against s. An unknown
// name yields a function that fails with ErrUnknownAction.
func (s *Store) Action(name string) BoundAction {
	if a, ok := s.actions[name]; ok {
		return a
	}
	return func(...any) (any, error) {
		return nil, errors.New("S003").WithDetailf("store %q has no action %q", s.id, name)
	}
}

// Call invokes the named action.
func (s *Store) Call(name string, args ...any) (any, error) {
	return s.Action(name)(args...)
}

// Subscribe registers fn to observe state mutations and returns a function
// that removes it.
func (s *Store) Subscribe(fn SubscribeFunc) (unsubscribe func()) {
	return s.subs.add(fn)
}

// Disposed reports whether Dispose was called.
func (s *Store) Disposed() bool {
	return s.disposed.Load()
}

// Dispose removes every action hook and subscription and drops the store
// from its registry. The next accessor call for the registry constructs a new
// instance. Holders of s may keep using its state.
func (s *Store) Dispose() {
	if s.disposed.Swap(true) {
		return
	}

	s.hooks.clear()
	s.subs.clear()
	for _, m := range s.getters {
		m.Dispose()
	}
	s.registry.remove(s)

	s.registry.logger.Debug("store disposed", "store", s.id, "registry", s.registry.id)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
