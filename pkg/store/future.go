package store

import (
	"context"
	"sync"

	"github.com/vango-dev/vstore/internal/errors"
)

// Future is a pending result. An action that completes later returns a
// *Future as its result value; the runtime then settles the action's hooks
// when the future settles.
//
// A future settles exactly once, with a value or an error. The error is kept
// by identity: Await returns exactly the error the future was rejected with.
type Future struct {
	done chan struct{}
	once sync.Once

	value any
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// NewPending returns an unsettled future and the functions that settle it.
// Only the first call to either function has an effect.
func NewPending() (f *Future, resolve func(any), reject func(error)) {
	f = newFuture()
	return f, func(v any) { f.settle(v, nil) }, func(err error) { f.settle(nil, err) }
}

// Resolve returns a future already settled with v.
func Resolve(v any) *Future {
	f := newFuture()
	f.settle(v, nil)
	return f
}

// Reject returns a future already settled with err.
func Reject(err error) *Future {
	f := newFuture()
	f.settle(nil, err)
	return f
}

// Go runs fn on a new goroutine and returns a future for its result. A panic
// in fn rejects the future with ErrFuturePanic.
func Go(fn func() (any, error)) *Future {
	f := newFuture()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.settle(nil, errors.New("S004").WithDetailf("%v", r))
			}
		}()
		f.settle(fn())
	}()
	return f
}

func (f *Future) settle(v any, err error) {
	f.once.Do(func() {
		f.value, f.err = v, err
		close(f.done)
	})
}

// Done returns a channel closed when the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether the future has settled.
func (f *Future) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await blocks until the future settles or ctx is done. Cancelling ctx stops
// the wait, not the work behind the future.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Then returns a future settled with fn's result once f settles. If fn
// returns a *Future with no error, the returned future follows it.
func (f *Future) Then(fn func(v any, err error) (any, error)) *Future {
	next := newFuture()
	go func() {
		<-f.done
		v, err := fn(f.value, f.err)
		if inner, ok := v.(*Future); ok && err == nil {
			<-inner.done
			v, err = inner.value, inner.err
		}
		next.settle(v, err)
	}()
	return next
}
