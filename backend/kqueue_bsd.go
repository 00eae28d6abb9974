//go:build darwin || dragonfly || freebsd || netbsd || openbsd

// File: backend/kqueue_bsd.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// BSD/Darwin kqueue(2) backend. kqueue registers one kevent per
// filter, so read and write interest on the same fd are separate
// kernel subscriptions and a read+write-ready descriptor may surface
// as two staged events within one Wait call.

package backend

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-ev/api"
)

type kqueueBackend struct {
	kq       int
	interest map[int]api.EventMask
	scratch  []unix.Kevent_t
}

func newKqueueBackend() (api.Backend, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, fmt.Errorf("kqueue create: %w", err)
	}
	return &kqueueBackend{
		kq:       kq,
		interest: make(map[int]api.EventMask),
	}, nil
}

func (b *kqueueBackend) changes(fd int, interest api.EventMask, flags int) []unix.Kevent_t {
	var evs []unix.Kevent_t
	if interest&api.EventRead != 0 {
		var ev unix.Kevent_t
		unix.SetKevent(&ev, fd, unix.EVFILT_READ, flags)
		evs = append(evs, ev)
	}
	if interest&api.EventWrite != 0 {
		var ev unix.Kevent_t
		unix.SetKevent(&ev, fd, unix.EVFILT_WRITE, flags)
		evs = append(evs, ev)
	}
	return evs
}

func (b *kqueueBackend) Add(fd int, interest api.EventMask) error {
	if _, ok := b.interest[fd]; ok {
		return api.ErrAlreadyExists
	}
	evs := b.changes(fd, interest, unix.EV_ADD|unix.EV_ENABLE)
	if _, err := unix.Kevent(b.kq, evs, nil, nil); err != nil {
		return fmt.Errorf("kevent add: %w", err)
	}
	b.interest[fd] = interest
	return nil
}

func (b *kqueueBackend) Modify(fd int, interest api.EventMask) error {
	had, ok := b.interest[fd]
	if !ok {
		return api.ErrNotFound
	}

	var evs []unix.Kevent_t
	evs = append(evs, b.changes(fd, interest&^had, unix.EV_ADD|unix.EV_ENABLE)...)
	evs = append(evs, b.changes(fd, had&^interest, unix.EV_DELETE)...)
	if len(evs) > 0 {
		if _, err := unix.Kevent(b.kq, evs, nil, nil); err != nil {
			return fmt.Errorf("kevent mod: %w", err)
		}
	}
	b.interest[fd] = interest
	return nil
}

func (b *kqueueBackend) Remove(fd int) error {
	had, ok := b.interest[fd]
	if !ok {
		return api.ErrNotFound
	}
	delete(b.interest, fd)

	evs := b.changes(fd, had, unix.EV_DELETE)
	if _, err := unix.Kevent(b.kq, evs, nil, nil); err != nil {
		// Closing the fd already removed its filters.
		if errors.Is(err, unix.ENOENT) || errors.Is(err, unix.EBADF) {
			return nil
		}
		return fmt.Errorf("kevent del: %w", err)
	}
	return nil
}

func (b *kqueueBackend) Wait(events []api.Event, timeoutNs int64) (int, error) {
	if len(b.scratch) < len(events) {
		b.scratch = make([]unix.Kevent_t, len(events))
	}

	var ts *unix.Timespec
	if timeoutNs >= 0 {
		t := unix.NsecToTimespec(timeoutNs)
		ts = &t
	}

	n, err := unix.Kevent(b.kq, nil, b.scratch[:len(events)], ts)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return 0, nil
		}
		return 0, fmt.Errorf("kevent wait: %w", err)
	}

	for i := 0; i < n; i++ {
		kev := &b.scratch[i]
		var mask api.EventMask
		switch kev.Filter {
		case unix.EVFILT_READ:
			mask |= api.EventRead
		case unix.EVFILT_WRITE:
			mask |= api.EventWrite
		}
		if kev.Flags&unix.EV_ERROR != 0 {
			mask |= api.EventError
		}
		if kev.Flags&unix.EV_EOF != 0 {
			mask |= api.EventHangup
		}
		events[i] = api.Event{Fd: int(kev.Ident), Events: mask}
	}
	return n, nil
}

func (b *kqueueBackend) Close() error {
	return unix.Close(b.kq)
}
