package reactive

import "sync/atomic"

// Listener is anything that can be notified when a dependency changes.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	MarkDirty()

	// ID returns a unique identifier used for deduplication.
	ID() uint64
}

var idCounter uint64

// nextID returns a process-unique, monotonically increasing id.
func nextID() uint64 {
	return atomic.AddUint64(&idCounter, 1)
}
