package reactive

import (
	"sync"
	"sync/atomic"

	"github.com/vango-dev/vstore/internal/goid"
)

// Memo is a lazily recomputed derivation. It is invalidated synchronously
// when any source read during its last computation changes, and recomputes on
// the next Get. Memos can themselves be read by other memos.
type Memo[T any] struct {
	base    source
	compute func() T

	valueMu sync.RWMutex
	value   T
	valid   atomic.Bool

	sourcesMu sync.Mutex
	sources   []*source

	// computeMu serializes recomputation across goroutines; computing holds
	// the id of the goroutine running compute, so a memo reading itself gets
	// its stale value instead of deadlocking.
	computeMu sync.Mutex
	computing atomic.Uint64
}

// NewMemo creates a memo. compute does not run until the first Get.
func NewMemo[T any](compute func() T) *Memo[T] {
	return &Memo[T]{
		base:    source{id: nextID()},
		compute: compute,
	}
}

// Get returns the memo's value, recomputing it if a source changed, and
// subscribes the current listener.
func (m *Memo[T]) Get() T {
	m.base.track()
	return m.Peek()
}

// Peek returns the value without subscribing. It still recomputes when
// invalid.
func (m *Memo[T]) Peek() T {
	if !m.valid.Load() {
		m.recompute()
	}
	m.valueMu.RLock()
	defer m.valueMu.RUnlock()
	return m.value
}

// Valid reports whether the cached value is current.
func (m *Memo[T]) Valid() bool {
	return m.valid.Load()
}

// MarkDirty invalidates the memo and propagates to its subscribers.
func (m *Memo[T]) MarkDirty() {
	if m.valid.CompareAndSwap(true, false) {
		m.base.notify()
	}
}

// ID returns the memo's unique id.
func (m *Memo[T]) ID() uint64 {
	return m.base.id
}

func (m *Memo[T]) addSource(s *source) {
	m.sourcesMu.Lock()
	defer m.sourcesMu.Unlock()
	for _, existing := range m.sources {
		if existing == s {
			return
		}
	}
	m.sources = append(m.sources, s)
}

// Dispose unsubscribes the memo from every source. A disposed memo still
// recomputes on read but will resubscribe.
func (m *Memo[T]) Dispose() {
	m.sourcesMu.Lock()
	for _, s := range m.sources {
		s.unsubscribe(m)
	}
	m.sources = nil
	m.sourcesMu.Unlock()
	m.valid.Store(false)
}

func (m *Memo[T]) recompute() {
	gid := goid.ID()
	if m.computing.Load() == gid {
		// Circular read: serve the stale value.
		return
	}

	m.computeMu.Lock()
	defer m.computeMu.Unlock()
	if m.valid.Load() {
		return
	}
	m.computing.Store(gid)
	defer m.computing.Store(0)

	m.sourcesMu.Lock()
	for _, s := range m.sources {
		s.unsubscribe(m)
	}
	m.sources = m.sources[:0]
	m.sourcesMu.Unlock()

	// Mark valid before computing so a source changing mid-computation
	// invalidates this result instead of being lost.
	m.valid.Store(true)

	var next T
	Tracked(m, func() {
		next = m.compute()
	})

	m.valueMu.Lock()
	m.value = next
	m.valueMu.Unlock()
}

var _ dependent = (*Memo[int])(nil)
