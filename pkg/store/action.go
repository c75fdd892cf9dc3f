package store

import (
	"github.com/vango-dev/vstore/pkg/reactive"
)

// BoundAction is an action closed over its store.
type BoundAction func(args ...any) (any, error)

// bind closes fn over s. Whatever value the caller holds the function in,
// the action runs against s.
func (s *Store) bind(name string, fn Action) BoundAction {
	return func(args ...any) (any, error) {
		return s.invoke(name, fn, args)
	}
}

// invoke runs one action call through the hook chain:
//
//  1. dispatch: active hooks, in registration order, receive the call
//  2. execute: fn runs with s's registry active
//  3. settle: After or OnError callbacks run in registration order, either
//     now or, when fn returned a *Future, once that future settles
//
// The caller receives fn's error unchanged. For futures it receives a new
// future that settles after the callbacks have run.
func (s *Store) invoke(name string, fn Action, args []any) (any, error) {
	call := &ActionContext{Store: s, Name: name, Args: args}

	reactive.Untracked(func() {
		for _, sub := range s.hooks.snapshot() {
			if sub.active.Load() {
				sub.fn(call)
			}
		}
	})

	var (
		result any
		err    error
	)
	WithActive(s.registry, func() {
		result, err = fn(s, args...)
	})

	if err != nil {
		call.fail(err)
		return result, err
	}

	if pending, ok := result.(*Future); ok {
		return pending.Then(func(v any, err error) (any, error) {
			if err != nil {
				call.fail(err)
				return nil, err
			}
			return call.succeed(v), nil
		}), nil
	}

	return call.succeed(result), nil
}
