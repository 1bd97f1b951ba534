package avatar

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoopDrainRunsInOrder(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	wakes := 0
	l.SetWake(func() { wakes++ })

	var got []int
	for i := 0; i < 3; i++ {
		i := i
		if !l.Post(func() { got = append(got, i) }) {
			t.Fatalf("post %d rejected", i)
		}
	}
	if n := l.Drain(); n != 3 {
		t.Fatalf("Drain ran %d tasks, want 3", n)
	}
	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Fatalf("tasks ran out of order: %v", got)
	}
	if wakes != 3 {
		t.Fatalf("wakes = %d, want 3", wakes)
	}
	if n := l.Drain(); n != 0 {
		t.Fatalf("second Drain ran %d tasks", n)
	}
}

func TestLoopNextFromGoroutine(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	done := false
	go l.Post(func() { done = true })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.Next(ctx); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !done {
		t.Fatal("posted task did not run")
	}
}

func TestLoopNextHonoursContext(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Next err = %v, want context.Canceled", err)
	}
}

func TestLoopClosed(t *testing.T) {
	l := NewLoop()
	l.Close()
	l.Close()

	if l.Post(func() {}) {
		t.Fatal("post accepted after close")
	}
	if err := l.Next(context.Background()); !errors.Is(err, ErrLoopClosed) {
		t.Fatalf("Next err = %v, want ErrLoopClosed", err)
	}
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run on closed loop: %v", err)
	}
}
