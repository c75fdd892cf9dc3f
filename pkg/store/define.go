package store

import (
	"github.com/vango-dev/vstore/internal/errors"
)

// Getter derives a value from a store. Getters may read state and other
// getters through s.
type Getter func(s *Store) any

// Action mutates a store. s is always the store the action belongs to. An
// action that completes later returns a *Future as its result.
type Action func(s *Store, args ...any) (any, error)

// Definition describes a store.
type Definition struct {
	// ID identifies the store within a registry.
	ID string

	// State builds the initial state. It is called once per constructed
	// instance and on Reset.
	State func() Record

	Getters map[string]Getter
	Actions map[string]Action
}

// definition is the frozen form of a Definition.
type definition struct {
	id      string
	state   func() Record
	getters map[string]Getter
	actions map[string]Action
}

func (d *definition) public() Definition {
	return Definition{
		ID:      d.id,
		State:   d.state,
		Getters: copyMap(d.getters),
		Actions: copyMap(d.actions),
	}
}

// freshState calls the factory and detaches the result from anything the
// factory may share between calls.
func (d *definition) freshState() Record {
	if d.state == nil {
		return Record{}
	}
	r := d.state()
	if r == nil {
		return Record{}
	}
	return deepCopyRecord(r)
}

// Accessor returns the store instance for a registry. With no argument it
// uses the active registry.
type Accessor func(r ...*Registry) (*Store, error)

// Must is like calling the accessor but panics on error.
func (a Accessor) Must(r ...*Registry) *Store {
	s, err := a(r...)
	if err != nil {
		panic(err)
	}
	return s
}

// Define freezes def and returns its accessor. The accessor constructs the
// store on first access per registry and returns the cached instance after
// that. Define panics if def.ID is empty.
func Define(def Definition) Accessor {
	if def.ID == "" {
		panic("store: Define requires a non-empty ID")
	}

	d := &definition{
		id:      def.ID,
		state:   def.State,
		getters: copyMap(def.Getters),
		actions: copyMap(def.Actions),
	}

	return func(rs ...*Registry) (*Store, error) {
		r := resolve(rs)
		if r == nil {
			return nil, errors.New("S001").
				WithDetailf("store %q was accessed with no registry", d.id).
				WithSuggestion("Pass a registry to the accessor or call store.SetActive(store.NewRegistry())")
		}
		return r.instance(d)
	}
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
