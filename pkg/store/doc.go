// Package store is an in-process state-container runtime.
//
// A store is a named bundle of state, derived getters and actions. Stores are
// declared once with Define and materialized lazily, exactly once per
// Registry, the isolation boundary for one host application:
//
//	var useCounter = store.Define(store.Definition{
//	    ID:    "counter",
//	    State: func() store.Record { return store.Record{"n": 0} },
//	    Getters: map[string]store.Getter{
//	        "double": func(s *store.Store) any { return s.State().Int("n") * 2 },
//	    },
//	    Actions: map[string]store.Action{
//	        "inc": func(s *store.Store, args ...any) (any, error) {
//	            s.State().Set("n", s.State().Int("n")+1)
//	            return nil, nil
//	        },
//	    },
//	})
//
//	store.SetActive(store.NewRegistry())
//	counter := useCounter.Must()
//	counter.Call("inc")
//	double, _ := counter.Getter("double") // 2
//
// # Action context
//
// Actions are closures over their store: a BoundAction obtained with
// Store.Action can be stored anywhere and called standalone, and the action
// always runs against the store that produced it. While an action runs
// synchronously its registry is the active registry, so accessors called
// without arguments inside it resolve sibling stores in the same registry.
//
// # State
//
// State is a tree of Records (map[string]any). Reads through *State register
// reactive dependencies, so getters recompute after any write. Patch merges a
// partial Record structurally; PatchFunc hands the live state to a function.
//
// # Action hooks
//
// OnAction subscribers observe every action call. Each receives an
// ActionContext on which it can register After and OnError callbacks; these
// run when the call settles, synchronously or, for actions returning a
// *Future, when the future settles. Hooks observe: errors always reach the
// caller unchanged.
//
// # Active registry
//
// The active registry is the only process-wide state in this package. Code
// that changes it across application boundaries must restore the previous
// value, or use WithActive which does so.
package store
