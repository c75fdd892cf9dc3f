package goid

import "testing"

func TestID(t *testing.T) {
	main := ID()
	if main == 0 {
		t.Fatal("expected a non-zero goroutine id")
	}
	if ID() != main {
		t.Error("id must be stable within a goroutine")
	}

	other := make(chan uint64)
	go func() { other <- ID() }()
	if got := <-other; got == main || got == 0 {
		t.Errorf("other goroutine id = %d, main = %d", got, main)
	}
}
