// File: loop/timer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Deadline watcher backed by the intrusive timer heap.

package loop

import (
	"time"

	"github.com/momentics/hioload-ev/api"
	"github.com/momentics/hioload-ev/clock"
)

// TimerCallback is invoked on the loop goroutine when the timer's
// deadline passes.
type TimerCallback func(t *Timer)

// Timer fires once after its timeout and, when a repeat interval is
// configured, again after every repeat thereafter until stopped.
// The heapIndex field belongs to the timer heap: the heap rewrites it
// on every structural mutation and nothing else may touch it.
type Timer struct {
	loop    *Loop
	timeout time.Duration
	repeat  time.Duration

	deadline  clock.Timestamp
	heapIndex int
	active    bool
	cb        TimerCallback
}

// NewTimer returns an inactive timer. A zero repeat makes it one-shot.
func NewTimer(l *Loop, timeout, repeat time.Duration, cb TimerCallback) *Timer {
	return &Timer{loop: l, timeout: timeout, repeat: repeat, heapIndex: -1, cb: cb}
}

// Start arms the timer at loop.Now() + timeout. No-op when active.
func (t *Timer) Start() {
	if t.active {
		return
	}
	t.deadline = t.loop.cachedNow + clock.Timestamp(t.timeout.Nanoseconds())
	t.loop.timers.insert(t)
	t.active = true
}

// Stop disarms the timer. Safe to call from the timer's own callback;
// no-op when inactive.
func (t *Timer) Stop() {
	if !t.active {
		return
	}
	t.loop.timers.remove(t)
	t.active = false
}

// Again restarts the timer using the repeat interval as the timeout.
// Fails with api.ErrNotRepeating when no repeat was configured.
func (t *Timer) Again() error {
	if t.repeat <= 0 {
		return api.ErrNotRepeating
	}
	if t.active {
		t.loop.timers.remove(t)
	}
	t.deadline = t.loop.cachedNow + clock.Timestamp(t.repeat.Nanoseconds())
	t.loop.timers.insert(t)
	t.active = true
	return nil
}

// Remaining returns the time left until the deadline, or zero when the
// timer is inactive or already due.
func (t *Timer) Remaining() time.Duration {
	if !t.active || t.deadline <= t.loop.cachedNow {
		return 0
	}
	return clock.Duration(uint64(t.deadline - t.loop.cachedNow))
}

// Active reports whether the timer is armed.
func (t *Timer) Active() bool { return t.active }

// Repeat returns the configured repeat interval.
func (t *Timer) Repeat() time.Duration { return t.repeat }
