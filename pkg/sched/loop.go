// Package sched provides the single-threaded event loop and the deferred
// one-shot scheduler used by selection controllers. All controller state
// transitions run as thunks on one Loop; asynchronous completions re-enter
// the loop through Post or through a scheduled callback.
package sched

import "sync"

// Loop is a FIFO queue of thunks drained by a single goroutine. Each thunk
// runs to completion before the next one starts; a thunk posted while
// another is running executes strictly after it and after everything posted
// before it.
type Loop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	stopped bool
}

// NewLoop creates an idle loop. Call Run to drain it continuously, or
// RunUntilIdle to drain the backlog on the caller's goroutine.
func NewLoop() *Loop {
	l := &Loop{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Post enqueues fn. Posting to a stopped loop is a silent no-op.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	l.cond.Signal()
}

// Run drains the queue until Stop is called, blocking when idle.
func (l *Loop) Run() {
	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.stopped {
			l.cond.Wait()
		}
		if l.stopped && len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()

		fn()
	}
}

// RunUntilIdle drains the queue on the calling goroutine and returns once
// it is empty. Thunks posted while draining are drained too.
func (l *Loop) RunUntilIdle() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()

		fn()
	}
}

// Stop ends Run after the backlog drains. Further posts are dropped.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.stopped = true
	l.mu.Unlock()
	l.cond.Broadcast()
}
