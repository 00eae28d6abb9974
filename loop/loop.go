// File: loop/loop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The Loop aggregate root and its iteration algorithm.

package loop

import (
	"time"

	"github.com/eapache/queue"
	"go.uber.org/atomic"

	"github.com/momentics/hioload-ev/api"
	"github.com/momentics/hioload-ev/backend"
	"github.com/momentics/hioload-ev/clock"
)

// RunMode selects how Loop.Run iterates.
type RunMode int

const (
	// RunUntilDone iterates until no io watcher and no armed timer
	// remains.
	RunUntilDone RunMode = iota
	// RunOnce performs exactly one iteration, blocking as needed.
	RunOnce
	// RunNoWait performs exactly one iteration with a non-blocking
	// poll.
	RunNoWait
)

// String returns the mode name.
func (m RunMode) String() string {
	switch m {
	case RunUntilDone:
		return "until-done"
	case RunOnce:
		return "once"
	case RunNoWait:
		return "no-wait"
	}
	return "unknown"
}

// Loop multiplexes descriptor readiness, timers and phase hooks into
// one polling cycle. It owns its backend and staging buffer; it does
// NOT own watcher storage. A watcher must outlive its Stop call, and
// every method of a Loop and its watchers must be called from one
// goroutine only.
type Loop struct {
	backend api.Backend
	kind    backend.Kind

	events []api.Event // staging buffer, reused across iterations

	// Descriptor-to-watcher association. Non-owning: entries are
	// resolved at dispatch time and dropped on IO.Stop.
	ios map[int]*IO

	timers   timerHeap
	prepares []*Prepare
	checks   []*Check

	// Scratch snapshots so phase callbacks can start/stop watchers
	// mid-phase without invalidating the traversal.
	prepareScratch []*Prepare
	checkScratch   []*Check

	deferred *queue.Queue // funcs posted via Defer, run next iteration

	cachedNow clock.Timestamp
	iteration uint64
	running   *atomic.Bool
}

// New constructs a Loop with a freshly created backend.
func New(opts ...Option) (*Loop, error) {
	cfg := config{
		kind:       backend.Best(),
		maxEvents:  defaultMaxEvents,
		watcherCap: defaultWatcherCapacity,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	b := cfg.custom
	if b == nil {
		var err error
		b, err = backend.New(cfg.kind)
		if err != nil {
			return nil, err
		}
	}

	l := &Loop{
		backend:   b,
		kind:      cfg.kind,
		events:    make([]api.Event, cfg.maxEvents),
		ios:       make(map[int]*IO, cfg.watcherCap),
		deferred:  queue.New(),
		cachedNow: clock.Now(),
		running:   atomic.NewBool(false),
	}
	log.WithField("component", "loop").Debugf("created event loop, backend=%s", cfg.kind)
	return l, nil
}

// Close releases the backend's OS resources. The caller must have
// stopped any watchers it owns; the Loop does not reach into external
// watcher storage.
func (l *Loop) Close() error {
	return l.backend.Close()
}

// Now returns the cached timestamp. O(1), no syscall.
func (l *Loop) Now() clock.Timestamp { return l.cachedNow }

// UpdateTime forces a fresh monotonic clock read into the cache.
func (l *Loop) UpdateTime() { l.cachedNow = clock.Now() }

// Iteration returns the number of iterations performed so far.
func (l *Loop) Iteration() uint64 { return l.iteration }

// Kind returns the backend family the loop was constructed with.
func (l *Loop) Kind() backend.Kind { return l.kind }

// Defer posts fn to run at the start of the next iteration. Useful for
// callbacks that want work to happen after the current dispatch phase.
func (l *Loop) Defer(fn func()) { l.deferred.Add(fn) }

// Run drives the loop in the given mode. It returns
// api.ErrAlreadyRunning when called reentrantly (including from a
// watcher callback) and propagates unrecoverable backend errors; in
// every case the loop is left non-running and restartable.
func (l *Loop) Run(mode RunMode) error {
	if !l.running.CompareAndSwap(false, true) {
		return api.ErrAlreadyRunning
	}
	defer l.running.Store(false)

	for {
		again, err := l.iterate(mode)
		if err != nil {
			return err
		}
		if mode != RunUntilDone || !again {
			return nil
		}
	}
}

// iterate performs one full cycle and reports whether any io watcher
// or armed timer remains.
func (l *Loop) iterate(mode RunMode) (bool, error) {
	l.iteration++
	l.UpdateTime()

	l.runDeferred()
	l.drainTimers()
	l.runPrepares()

	timeout := l.pollTimeout(mode)

	if len(l.ios) == 0 {
		if timeout > 0 {
			// Some polling primitives need at least one registered
			// descriptor to block; sleep out the interval manually.
			time.Sleep(clock.Duration(uint64(timeout)))
			l.UpdateTime()
			l.runChecks()
			l.drainTimers()
			return l.timers.len() > 0, nil
		}
		if timeout < 0 {
			// No descriptors and no armed timer: nothing to wait for.
			l.runChecks()
			return false, nil
		}
	}

	n, err := l.backend.Wait(l.events, timeout)
	if err != nil {
		return false, err
	}

	l.UpdateTime()
	l.runChecks()
	l.dispatch(n)

	return len(l.ios) > 0 || l.timers.len() > 0, nil
}

// pollTimeout computes the backend wait budget in nanoseconds:
// 0 for a non-blocking poll, api.WaitForever with no armed timer,
// otherwise the saturating distance to the next deadline.
func (l *Loop) pollTimeout(mode RunMode) int64 {
	if mode == RunNoWait {
		return 0
	}
	next := l.timers.peek()
	if next == nil {
		return api.WaitForever
	}
	if next.deadline <= l.cachedNow {
		return 0
	}
	return int64(next.deadline - l.cachedNow)
}

// drainTimers fires every timer whose deadline has passed, re-checking
// the heap minimum after each pop so that same-instant timers all fire
// within one iteration and a callback cancelling a different timer is
// honored.
func (l *Loop) drainTimers() {
	for {
		t := l.timers.peek()
		if t == nil || t.deadline > l.cachedNow {
			return
		}
		l.timers.removeMin()

		if t.repeat > 0 {
			// A repeating timer stays active across its callback so it
			// can stop itself; it re-enters the heap afterwards unless
			// the callback stopped it or rearmed it explicitly.
			t.cb(t)
			if t.active && t.heapIndex < 0 {
				t.deadline = l.cachedNow + clock.Timestamp(t.repeat.Nanoseconds())
				l.timers.insert(t)
			}
		} else {
			t.active = false
			t.cb(t)
		}
	}
}

func (l *Loop) runDeferred() {
	// Tasks posted while draining run on the next iteration.
	n := l.deferred.Length()
	for i := 0; i < n; i++ {
		l.deferred.Remove().(func())()
	}
}

func (l *Loop) runPrepares() {
	l.prepareScratch = append(l.prepareScratch[:0], l.prepares...)
	for _, p := range l.prepareScratch {
		if p.active {
			p.cb()
		}
	}
}

func (l *Loop) runChecks() {
	l.checkScratch = append(l.checkScratch[:0], l.checks...)
	for _, c := range l.checkScratch {
		if c.active {
			c.cb()
		}
	}
}

// dispatch resolves staged readiness events to their io watchers.
// Events for descriptors with no current registration are dropped on
// purpose: the watcher was removed between poll and dispatch, which is
// expected churn, not an error.
func (l *Loop) dispatch(n int) {
	for i := 0; i < n; i++ {
		ev := l.events[i]
		w, ok := l.ios[ev.Fd]
		if !ok || !w.active {
			log.WithField("fd", ev.Fd).Debug("dropping event for unregistered descriptor")
			continue
		}
		if ev.Events == 0 {
			continue
		}
		w.cb(w, ev.Events)
	}
}
