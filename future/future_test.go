package future

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestResolved(t *testing.T) {
	f := Resolved(42)
	if !f.Settled() {
		t.Fatal("expected settled future")
	}
	v, err := f.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if v != 42 {
		t.Errorf("value = %d, want 42", v)
	}
	if f.Err() != nil {
		t.Errorf("Err = %v, want nil", f.Err())
	}
}

func TestRejected_SameInstance(t *testing.T) {
	cause := errors.New("boom")
	f := Rejected[struct{}](cause)

	for i := 0; i < 3; i++ {
		_, err := f.Wait(context.Background())
		if err != cause {
			t.Fatalf("attempt %d: err = %v, want identical cause", i, err)
		}
	}
	if f.Err() != cause {
		t.Errorf("Err = %v, want cause", f.Err())
	}
}

func TestSettleOnce(t *testing.T) {
	f := New[string]()
	f.Resolve("first")
	f.Resolve("second")
	f.Reject(errors.New("late"))

	v, err := f.Wait(context.Background())
	if err != nil || v != "first" {
		t.Errorf("got (%q, %v), want (\"first\", nil)", v, err)
	}
}

func TestWait_Pending(t *testing.T) {
	f := New[int]()
	if f.Settled() {
		t.Fatal("new future should be pending")
	}
	if f.Err() != nil {
		t.Fatal("pending future should have no error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := f.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait err = %v, want deadline exceeded", err)
	}

	go f.Resolve(7)
	v, err := f.Wait(context.Background())
	if err != nil || v != 7 {
		t.Errorf("got (%d, %v), want (7, nil)", v, err)
	}
}
