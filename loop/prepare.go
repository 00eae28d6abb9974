// File: loop/prepare.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Prepare-phase hook watcher: runs right before the loop blocks.

package loop

// HookCallback is a phase hook invoked on the loop goroutine.
type HookCallback func()

// Prepare runs its callback each iteration before the poll phase, in
// registration order. Intended for bookkeeping and instrumentation;
// the registry is a plain list and removal is a scan by identity.
type Prepare struct {
	loop   *Loop
	cb     HookCallback
	active bool
}

// NewPrepare returns an inactive prepare watcher.
func NewPrepare(l *Loop, cb HookCallback) *Prepare {
	return &Prepare{loop: l, cb: cb}
}

// Start registers the watcher. No-op when already active.
func (p *Prepare) Start() {
	if p.active {
		return
	}
	p.loop.prepares = append(p.loop.prepares, p)
	p.active = true
}

// Stop deregisters the watcher. No-op when already inactive.
func (p *Prepare) Stop() {
	if !p.active {
		return
	}
	for i, v := range p.loop.prepares {
		if v == p {
			p.loop.prepares = append(p.loop.prepares[:i], p.loop.prepares[i+1:]...)
			break
		}
	}
	p.active = false
}

// Active reports whether the watcher is registered.
func (p *Prepare) Active() bool { return p.active }
