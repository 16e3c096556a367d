package sched

import (
	"sync"
	"time"
)

// Handle refers to one scheduled callback.
type Handle interface {
	// Cancel guarantees the callback never runs if it has not fired yet.
	// Cancelling after the fact is a no-op.
	Cancel()
}

// Scheduler schedules a one-shot deferred callback. A zero delay means
// "after the current loop turn and everything already queued", the next
// turn of the event loop. Callbacks must re-validate any state they depend
// on at fire time: a superseded-but-uncancelled callback still fires.
type Scheduler interface {
	Schedule(fn func(), delay time.Duration) Handle
}

// LoopScheduler runs scheduled callbacks on a Loop.
type LoopScheduler struct {
	loop *Loop
}

// NewLoopScheduler wraps loop in a Scheduler.
func NewLoopScheduler(loop *Loop) *LoopScheduler {
	return &LoopScheduler{loop: loop}
}

type loopHandle struct {
	mu        sync.Mutex
	timer     *time.Timer
	cancelled bool
}

func (h *loopHandle) Cancel() {
	h.mu.Lock()
	h.cancelled = true
	if h.timer != nil {
		h.timer.Stop()
	}
	h.mu.Unlock()
}

// Schedule posts fn onto the loop after delay. The cancelled flag is
// checked on the loop at run time, so Cancel wins any race with the timer.
func (s *LoopScheduler) Schedule(fn func(), delay time.Duration) Handle {
	h := &loopHandle{}
	run := func() {
		h.mu.Lock()
		cancelled := h.cancelled
		h.mu.Unlock()
		if cancelled {
			return
		}
		fn()
	}
	if delay <= 0 {
		s.loop.Post(run)
		return h
	}
	h.mu.Lock()
	h.timer = time.AfterFunc(delay, func() {
		s.loop.Post(run)
	})
	h.mu.Unlock()
	return h
}
