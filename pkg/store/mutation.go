package store

import (
	"sync"

	"github.com/vango-dev/vstore/pkg/reactive"
)

// MutationType tells how a store's state was changed.
type MutationType uint8

const (
	// MutationDirect is a single Set, SetIn or Delete outside any patch.
	MutationDirect MutationType = iota + 1

	// MutationPatchObject is a Patch with a partial Record.
	MutationPatchObject

	// MutationPatchFunction is a PatchFunc, SetState or Reset.
	MutationPatchFunction
)

// String returns a human-readable name for the mutation type.
func (t MutationType) String() string {
	switch t {
	case MutationDirect:
		return "direct"
	case MutationPatchObject:
		return "patch object"
	case MutationPatchFunction:
		return "patch function"
	default:
		return "unknown"
	}
}

// Mutation describes one state change reported to Subscribe callbacks.
type Mutation struct {
	Type    MutationType
	StoreID string

	// Path is set for direct mutations.
	Path []string

	// Payload is a copy of the partial Record for patch-object mutations.
	Payload Record
}

// SubscribeFunc observes state mutations. It runs after the mutation is
// applied, outside any dependency tracking.
type SubscribeFunc func(m Mutation, state *State)

type mutationSubscription struct {
	id uint64
	fn SubscribeFunc
}

// subscriptions is an ordered list of mutation observers.
type subscriptions struct {
	mu     sync.Mutex
	nextID uint64
	subs   []*mutationSubscription
}

func (l *subscriptions) add(fn SubscribeFunc) func() {
	l.mu.Lock()
	l.nextID++
	sub := &mutationSubscription{id: l.nextID, fn: fn}
	l.subs = append(l.subs, sub)
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			for i, existing := range l.subs {
				if existing == sub {
					l.subs = append(l.subs[:i], l.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (l *subscriptions) clear() {
	l.mu.Lock()
	l.subs = nil
	l.mu.Unlock()
}

func (l *subscriptions) dispatch(m Mutation, st *State) {
	l.mu.Lock()
	subs := make([]*mutationSubscription, len(l.subs))
	copy(subs, l.subs)
	l.mu.Unlock()

	if len(subs) == 0 {
		return
	}
	reactive.Untracked(func() {
		for _, sub := range subs {
			sub.fn(m, st)
		}
	})
}
