// Package reactive is the small reactivity engine the store runtime is built on.
//
// It provides two primitives:
//
//   - Signal[T]: a value container. Reading it with Get inside a tracked
//     computation subscribes that computation; Set notifies subscribers.
//   - Memo[T]: a lazily computed value derived from signals and other memos.
//     A memo is invalidated synchronously when a source changes and recomputes
//     on the next read.
//
// Dependency tracking is per goroutine: each goroutine carries the listener
// currently collecting dependencies, so concurrent computations never see each
// other's reads.
//
//	count := reactive.NewSignal(1)
//	double := reactive.NewMemo(func() int { return count.Get() * 2 })
//	double.Get() // 2
//	count.Set(5)
//	double.Get() // 10
package reactive
