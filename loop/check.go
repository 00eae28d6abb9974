// File: loop/check.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Check-phase hook watcher: runs right after the loop wakes up.

package loop

// Check runs its callback each iteration after the poll phase, in
// registration order. The counterpart of Prepare.
type Check struct {
	loop   *Loop
	cb     HookCallback
	active bool
}

// NewCheck returns an inactive check watcher.
func NewCheck(l *Loop, cb HookCallback) *Check {
	return &Check{loop: l, cb: cb}
}

// Start registers the watcher. No-op when already active.
func (c *Check) Start() {
	if c.active {
		return
	}
	c.loop.checks = append(c.loop.checks, c)
	c.active = true
}

// Stop deregisters the watcher. No-op when already inactive.
func (c *Check) Stop() {
	if !c.active {
		return
	}
	for i, v := range c.loop.checks {
		if v == c {
			c.loop.checks = append(c.loop.checks[:i], c.loop.checks[i+1:]...)
			break
		}
	}
	c.active = false
}

// Active reports whether the watcher is registered.
func (c *Check) Active() bool { return c.active }
