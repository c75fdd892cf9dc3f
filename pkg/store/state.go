package store

import (
	"sync"

	"github.com/vango-dev/vstore/internal/goid"
	"github.com/vango-dev/vstore/pkg/reactive"
)

// State is the live state of one store. The handle and its root Record keep
// their identity for the life of the store; every update, including Reset
// and SetState, mutates the same root in place.
//
// Reads register a dependency on the state's version, so any getter that
// read state is invalidated synchronously by the next write.
type State struct {
	mu   sync.RWMutex
	root Record

	version *reactive.Signal[uint64]

	// grouped counts running patches per goroutine. Direct writes made by the
	// goroutine running a patch are reported once, as part of the patch;
	// writes from other goroutines are still reported on their own.
	grouped map[uint64]int

	emit func(Mutation)
}

func newState(initial Record, emit func(Mutation)) *State {
	return &State{
		root:    initial,
		version: reactive.NewSignal[uint64](0),
		grouped: make(map[uint64]int),
		emit:    emit,
	}
}

// Version returns a counter that increases on every write.
func (st *State) Version() uint64 {
	return st.version.Get()
}

// Get returns the value at path. An empty path returns the root. Records and
// slices are returned as copies; write through Set, SetIn or a patch.
func (st *State) Get(path ...string) (any, bool) {
	st.version.Get()

	st.mu.RLock()
	defer st.mu.RUnlock()
	v, ok := lookup(st.root, path)
	return deepCopyValue(v), ok
}

// Bool returns the bool at path, or false.
func (st *State) Bool(path ...string) bool {
	v, _ := st.Get(path...)
	b, _ := v.(bool)
	return b
}

// String returns the string at path, or "".
func (st *State) String(path ...string) string {
	v, _ := st.Get(path...)
	s, _ := v.(string)
	return s
}

// Int returns the number at path as an int, or 0. Floating point values, as
// produced by JSON decoding, are truncated.
func (st *State) Int(path ...string) int {
	v, _ := st.Get(path...)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case int32:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	default:
		return 0
	}
}

// Float returns the number at path as a float64, or 0.
func (st *State) Float(path ...string) float64 {
	v, _ := st.Get(path...)
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// Record returns a copy of the Record at path, or nil.
func (st *State) Record(path ...string) Record {
	v, _ := st.Get(path...)
	r, _ := v.(Record)
	return r
}

// Snapshot returns a deep copy of the whole state.
func (st *State) Snapshot() Record {
	st.version.Get()

	st.mu.RLock()
	defer st.mu.RUnlock()
	return deepCopyRecord(st.root)
}

// Raw returns the live root Record without registering a dependency.
// Writes made to it directly are not observed; use Set or a patch.
func (st *State) Raw() Record {
	return st.root
}

// Set assigns a top-level key.
func (st *State) Set(key string, value any) {
	st.SetIn([]string{key}, value)
}

// SetIn assigns the value at path, creating intermediate Records as needed.
// An intermediate value that is not a Record is replaced.
func (st *State) SetIn(path []string, value any) {
	if len(path) == 0 {
		return
	}

	st.mu.Lock()
	node := st.root
	for _, key := range path[:len(path)-1] {
		next, ok := node[key].(Record)
		if !ok {
			next = Record{}
			node[key] = next
		}
		node = next
	}
	node[path[len(path)-1]] = value
	st.mu.Unlock()

	st.changed(Mutation{Type: MutationDirect, Path: path})
}

// Delete removes the value at path. Missing paths are a no-op.
func (st *State) Delete(path ...string) {
	if len(path) == 0 {
		return
	}

	st.mu.Lock()
	parent, ok := lookup(st.root, path[:len(path)-1])
	rec, isRecord := parent.(Record)
	if !ok || !isRecord {
		st.mu.Unlock()
		return
	}
	if _, exists := rec[path[len(path)-1]]; !exists {
		st.mu.Unlock()
		return
	}
	delete(rec, path[len(path)-1])
	st.mu.Unlock()

	st.changed(Mutation{Type: MutationDirect, Path: path})
}

// merge applies a partial Record structurally.
func (st *State) merge(partial Record) {
	st.mu.Lock()
	Merge(st.root, partial)
	st.mu.Unlock()

	st.changed(Mutation{Type: MutationPatchObject, Payload: deepCopyRecord(partial)})
}

// replace swaps the content of the root for next, keeping the root's identity.
func (st *State) replace(next Record) {
	st.mu.Lock()
	for k := range st.root {
		delete(st.root, k)
	}
	for k, v := range next {
		st.root[k] = v
	}
	st.mu.Unlock()

	st.changed(Mutation{Type: MutationPatchFunction})
}

// group runs fn as one patch. Writes inside fn still invalidate getters
// immediately but are reported to subscribers once, after fn returns.
func (st *State) group(fn func(*State)) {
	gid := goid.ID()

	st.mu.Lock()
	st.grouped[gid]++
	st.mu.Unlock()

	defer func() {
		st.mu.Lock()
		if st.grouped[gid]--; st.grouped[gid] == 0 {
			delete(st.grouped, gid)
		}
		st.mu.Unlock()
		st.changed(Mutation{Type: MutationPatchFunction})
	}()

	fn(st)
}

// changed bumps the version and reports m unless a patch is grouping writes.
// m.Type distinguishes the patch's own report from the writes it groups.
func (st *State) changed(m Mutation) {
	st.version.Update(func(v uint64) uint64 { return v + 1 })

	st.mu.RLock()
	grouped := st.grouped[goid.ID()] > 0
	st.mu.RUnlock()

	if grouped && m.Type == MutationDirect {
		return
	}
	if st.emit != nil {
		st.emit(m)
	}
}

func lookup(root Record, path []string) (any, bool) {
	var cur any = root
	for _, key := range path {
		rec, ok := cur.(Record)
		if !ok {
			return nil, false
		}
		cur, ok = rec[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
