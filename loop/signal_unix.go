//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

// File: loop/signal_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Signal watcher bridging asynchronous OS signal delivery into the
// synchronous poll cycle via the self-pipe trick: os/signal delivers
// to a forwarder that writes one byte per signal into a non-blocking
// pipe, and the pipe's read end is watched as an ordinary io watcher.

package loop

import (
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-ev/api"
)

// SignalCallback is invoked on the loop goroutine once per delivered
// signal occurrence.
type SignalCallback func(s *Signal, sig os.Signal)

// Signal watches for one OS signal. While active its self-pipe read
// end counts as a live io registration, so a signal-only loop keeps
// running in RunUntilDone mode.
type Signal struct {
	loop   *Loop
	sig    os.Signal
	cb     SignalCallback
	active bool

	rfd, wfd int
	io       *IO
	ch       chan os.Signal
	done     chan struct{}
}

// NewSignal returns an inactive signal watcher for sig.
func NewSignal(l *Loop, sig os.Signal, cb SignalCallback) *Signal {
	return &Signal{loop: l, sig: sig, cb: cb, rfd: -1, wfd: -1}
}

// Start allocates the self-pipe, registers its read end with the loop
// and subscribes to the signal. No-op when already active. On failure
// every acquired resource is released before the error returns.
func (s *Signal) Start() error {
	if s.active {
		return nil
	}

	var p [2]int
	if err := unix.Pipe(p[:]); err != nil {
		return fmt.Errorf("signal pipe: %w", err)
	}
	for _, fd := range p {
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(p[0])
			unix.Close(p[1])
			return fmt.Errorf("signal pipe nonblock: %w", err)
		}
		unix.CloseOnExec(fd)
	}
	s.rfd, s.wfd = p[0], p[1]

	s.io = NewIO(s.loop, s.rfd, api.EventRead, s.drain)
	if err := s.io.Start(); err != nil {
		unix.Close(s.rfd)
		unix.Close(s.wfd)
		s.rfd, s.wfd = -1, -1
		return err
	}

	s.ch = make(chan os.Signal, 1)
	s.done = make(chan struct{})
	signal.Notify(s.ch, s.sig)
	go forwardSignals(s.ch, s.done, s.wfd)

	s.active = true
	return nil
}

// Stop unsubscribes from the signal, terminates the forwarder, stops
// the internal io watcher and closes both pipe ends. No-op when
// already inactive.
func (s *Signal) Stop() error {
	if !s.active {
		return nil
	}
	signal.Stop(s.ch)
	close(s.done)
	err := s.io.Stop()
	unix.Close(s.rfd)
	unix.Close(s.wfd)
	s.rfd, s.wfd = -1, -1
	s.active = false
	return err
}

// Active reports whether the watcher is registered.
func (s *Signal) Active() bool { return s.active }

// drain empties the self-pipe and invokes the callback once per byte,
// i.e. once per forwarded signal occurrence.
func (s *Signal) drain(w *IO, _ api.EventMask) {
	var buf [64]byte
	for {
		n, err := unix.Read(w.Fd(), buf[:])
		if n <= 0 {
			return
		}
		for i := 0; i < n; i++ {
			s.cb(s, s.sig)
		}
		if err != nil || n < len(buf) {
			return
		}
	}
}

// forwardSignals writes one byte per delivered signal. A failed write
// (pipe full) is fine: a wakeup is already pending.
func forwardSignals(ch <-chan os.Signal, done <-chan struct{}, wfd int) {
	buf := []byte{0}
	for {
		select {
		case <-done:
			return
		case <-ch:
			_, _ = unix.Write(wfd, buf)
		}
	}
}
