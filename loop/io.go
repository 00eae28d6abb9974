// File: loop/io.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Descriptor readiness watcher.

package loop

import (
	"errors"

	"github.com/momentics/hioload-ev/api"
)

// IOCallback is invoked on the loop goroutine with the readiness bits
// reported for the watched descriptor.
type IOCallback func(w *IO, events api.EventMask)

// IO watches one file descriptor for readiness. The caller owns the
// watcher's storage and must keep it alive while it is registered.
type IO struct {
	loop     *Loop
	fd       int
	interest api.EventMask
	cb       IOCallback
	active   bool
}

// NewIO returns an inactive io watcher for fd with the given interest.
func NewIO(l *Loop, fd int, interest api.EventMask, cb IOCallback) *IO {
	return &IO{loop: l, fd: fd, interest: interest, cb: cb}
}

// Start registers interest with the backend and records the
// descriptor association in the loop. No-op when already active.
func (w *IO) Start() error {
	if w.active {
		return nil
	}
	if other, ok := w.loop.ios[w.fd]; ok && other != w {
		return api.ErrAlreadyExists
	}
	if err := w.loop.backend.Add(w.fd, w.interest); err != nil {
		return err
	}
	w.loop.ios[w.fd] = w
	w.active = true
	return nil
}

// Stop deregisters the watcher. The loop association is dropped before
// the backend subscription so no staged event can resolve to a
// half-removed watcher. No-op when already inactive.
func (w *IO) Stop() error {
	if !w.active {
		return nil
	}
	delete(w.loop.ios, w.fd)
	w.active = false
	if err := w.loop.backend.Remove(w.fd); err != nil && !errors.Is(err, api.ErrNotFound) {
		return err
	}
	return nil
}

// Modify changes the watched interest set. Only legal while active.
func (w *IO) Modify(interest api.EventMask) error {
	if !w.active {
		return api.ErrNotActive
	}
	if err := w.loop.backend.Modify(w.fd, interest); err != nil {
		return err
	}
	w.interest = interest
	return nil
}

// Fd returns the watched descriptor.
func (w *IO) Fd() int { return w.fd }

// Interest returns the currently subscribed interest set.
func (w *IO) Interest() api.EventMask { return w.interest }

// Active reports whether the watcher is registered.
func (w *IO) Active() bool { return w.active }
