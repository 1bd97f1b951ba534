package avatar

import (
	"context"
	"errors"
	"sync"
)

// Loop serialises editor work onto one goroutine. Background goroutines hand
// results back with Post; the owning goroutine runs them with Drain, Next or
// Run.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once

	mu   sync.Mutex
	wake func()
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

// SetWake registers a callback fired after every Post, e.g. a window
// invalidation so the host's frame loop calls Drain.
func (l *Loop) SetWake(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.wake = fn
}

// Post queues fn. It reports false when the loop is closed.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case <-l.done:
		return false
	case l.tasks <- fn:
	}

	l.mu.Lock()
	wake := l.wake
	l.mu.Unlock()
	if wake != nil {
		wake()
	}
	return true
}

// Drain runs every queued task without blocking and returns how many ran.
func (l *Loop) Drain() int {
	n := 0
	for {
		select {
		case fn := <-l.tasks:
			fn()
			n++
		default:
			return n
		}
	}
}

// Next blocks until one task is available and runs it.
func (l *Loop) Next(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopClosed
	case fn := <-l.tasks:
		fn()
		return nil
	}
}

// Run executes tasks until ctx is cancelled or the loop is closed.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := l.Next(ctx); err != nil {
			if errors.Is(err, ErrLoopClosed) {
				return nil
			}
			return err
		}
	}
}

// Close stops accepting tasks. Queued tasks are discarded.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
}
