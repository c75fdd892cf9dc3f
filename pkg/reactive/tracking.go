package reactive

import (
	"sync"

	"github.com/vango-dev/vstore/internal/goid"
)

// trackingContext holds the reactive state for one goroutine.
type trackingContext struct {
	// listener collects dependencies; nil means reads are untracked.
	listener Listener
}

var trackingContexts sync.Map // map[uint64]*trackingContext

func currentContext() *trackingContext {
	gid := goid.ID()
	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}
	ctx := &trackingContext{}
	actual, _ := trackingContexts.LoadOrStore(gid, ctx)
	return actual.(*trackingContext)
}

func currentListener() Listener {
	return currentContext().listener
}

// setListener installs l and returns the previous listener.
func setListener(l Listener) Listener {
	ctx := currentContext()
	old := ctx.listener
	ctx.listener = l
	if l == nil && old == nil {
		trackingContexts.Delete(goid.ID())
	}
	return old
}

// Untracked runs fn without recording reads as dependencies of the
// surrounding computation.
func Untracked(fn func()) {
	old := setListener(nil)
	defer setListener(old)
	fn()
}

// Tracked runs fn with l collecting every signal and memo read.
func Tracked(l Listener, fn func()) {
	old := setListener(l)
	defer setListener(old)
	fn()
}
