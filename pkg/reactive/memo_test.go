package reactive

import (
	"sync"
	"testing"
)

func TestMemoBasic(t *testing.T) {
	computations := 0
	count := NewSignal(5)

	doubled := NewMemo(func() int {
		computations++
		return count.Get() * 2
	})

	if doubled.Get() != 10 {
		t.Errorf("expected 10, got %d", doubled.Get())
	}
	if doubled.Get() != 10 {
		t.Errorf("expected 10, got %d", doubled.Get())
	}
	if computations != 1 {
		t.Errorf("expected 1 computation (cached), got %d", computations)
	}
}

func TestMemoRecomputesAfterSourceChange(t *testing.T) {
	computations := 0
	count := NewSignal(5)
	doubled := NewMemo(func() int {
		computations++
		return count.Get() * 2
	})

	_ = doubled.Get()
	count.Set(10)

	if doubled.Valid() {
		t.Error("memo should be invalid after source change")
	}
	if doubled.Get() != 20 {
		t.Errorf("expected 20, got %d", doubled.Get())
	}
	if computations != 2 {
		t.Errorf("expected 2 computations, got %d", computations)
	}
}

func TestMemoChain(t *testing.T) {
	flag := NewSignal(true)
	negated := NewMemo(func() bool { return !flag.Get() })
	again := NewMemo(func() bool { return negated.Get() })

	if again.Get() {
		t.Fatal("expected false")
	}
	flag.Set(false)
	if !again.Get() {
		t.Error("expected chained memo to follow source")
	}
}

func TestMemoNotifiesDownstreamListener(t *testing.T) {
	count := NewSignal(1)
	m := NewMemo(func() int { return count.Get() + 1 })
	l := newTestListener()

	Tracked(l, func() { _ = m.Get() })
	count.Set(2)

	if l.count() != 1 {
		t.Errorf("expected listener notified once, got %d", l.count())
	}
}

func TestMemoPeekDoesNotSubscribe(t *testing.T) {
	count := NewSignal(1)
	m := NewMemo(func() int { return count.Get() })
	l := newTestListener()

	Tracked(l, func() { _ = m.Peek() })
	count.Set(2)

	if l.count() != 0 {
		t.Errorf("expected no notification after Peek, got %d", l.count())
	}
	if m.Peek() != 2 {
		t.Errorf("expected 2, got %d", m.Peek())
	}
}

func TestMemoDynamicDependencies(t *testing.T) {
	useA := NewSignal(true)
	a := NewSignal("a")
	b := NewSignal("b")
	computations := 0

	m := NewMemo(func() string {
		computations++
		if useA.Get() {
			return a.Get()
		}
		return b.Get()
	})

	_ = m.Get()
	b.Set("b2")
	if !m.Valid() {
		t.Error("memo should not depend on b yet")
	}

	useA.Set(false)
	if m.Get() != "b2" {
		t.Errorf("expected b2, got %s", m.Get())
	}
	a.Set("a2")
	if !m.Valid() {
		t.Error("memo should have dropped its dependency on a")
	}
	if computations != 2 {
		t.Errorf("expected 2 computations, got %d", computations)
	}
}

func TestMemoSelfReadDoesNotRecurse(t *testing.T) {
	var m *Memo[int]
	m = NewMemo(func() int {
		return m.Peek() + 1
	})

	if got := m.Get(); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
}

func TestMemoDispose(t *testing.T) {
	count := NewSignal(1)
	m := NewMemo(func() int { return count.Get() })
	_ = m.Get()

	m.Dispose()
	if n := count.base.subscriberCount(); n != 0 {
		t.Errorf("expected 0 subscribers after dispose, got %d", n)
	}
	if m.Get() != 1 {
		t.Errorf("expected 1, got %d", m.Get())
	}
}

func TestMemoConcurrentReaders(t *testing.T) {
	count := NewSignal(21)
	m := NewMemo(func() int { return count.Get() * 2 })

	var wg sync.WaitGroup
	results := make([]int, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = m.Get()
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if got != 42 {
			t.Errorf("reader %d saw %d, want 42", i, got)
		}
	}
}
