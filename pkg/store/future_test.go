package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFutureResolveReject(t *testing.T) {
	ctx := context.Background()

	v, err := Resolve(1).Await(ctx)
	if v != 1 || err != nil {
		t.Errorf("Resolve: %v, %v", v, err)
	}

	boom := errors.New("boom")
	v, err = Reject(boom).Await(ctx)
	if v != nil || err != boom {
		t.Errorf("Reject: %v, %v", v, err)
	}
}

func TestFutureGo(t *testing.T) {
	f := Go(func() (any, error) {
		time.Sleep(5 * time.Millisecond)
		return "done", nil
	})

	<-f.Done()
	if !f.Settled() {
		t.Fatal("expected settled")
	}
	if v, _ := f.Await(context.Background()); v != "done" {
		t.Errorf("got %v", v)
	}
}

func TestFutureGoRecoversPanic(t *testing.T) {
	_, err := Go(func() (any, error) { panic("kaput") }).Await(context.Background())
	if !errors.Is(err, ErrFuturePanic) {
		t.Fatalf("expected ErrFuturePanic, got %v", err)
	}
}

func TestFutureAwaitHonorsContext(t *testing.T) {
	f, _, _ := NewPending()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Await(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if f.Settled() {
		t.Error("cancelling the wait must not settle the future")
	}
}

func TestFutureSettlesOnce(t *testing.T) {
	f, resolve, reject := NewPending()
	resolve(1)
	resolve(2)
	reject(errors.New("late"))

	v, err := f.Await(context.Background())
	if v != 1 || err != nil {
		t.Errorf("got %v, %v; want first settlement", v, err)
	}
}

func TestFutureThen(t *testing.T) {
	ctx := context.Background()

	doubled := Resolve(2).Then(func(v any, err error) (any, error) {
		return v.(int) * 2, err
	})
	if v, _ := doubled.Await(ctx); v != 4 {
		t.Errorf("got %v, want 4", v)
	}

	boom := errors.New("boom")
	passed := Reject(boom).Then(func(v any, err error) (any, error) {
		return nil, err
	})
	if _, err := passed.Await(ctx); err != boom {
		t.Errorf("got %v, want %v", err, boom)
	}

	flattened := Resolve(1).Then(func(any, error) (any, error) {
		return Resolve("inner"), nil
	})
	if v, _ := flattened.Await(ctx); v != "inner" {
		t.Errorf("got %v, want inner", v)
	}
}
