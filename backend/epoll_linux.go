//go:build linux

// File: backend/epoll_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux epoll(7) backend. Duplicate registration and unknown-fd errors
// are delegated to the kernel's native EEXIST/ENOENT rejection.

package backend

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-ev/api"
)

type epollBackend struct {
	epfd    int
	scratch []unix.EpollEvent
}

func newEpollBackend() (api.Backend, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	return &epollBackend{epfd: epfd}, nil
}

func toEpollEvents(interest api.EventMask) uint32 {
	var ev uint32
	if interest&api.EventRead != 0 {
		ev |= unix.EPOLLIN
	}
	if interest&api.EventWrite != 0 {
		ev |= unix.EPOLLOUT
	}
	return ev
}

func fromEpollEvents(ev uint32) api.EventMask {
	var mask api.EventMask
	if ev&(unix.EPOLLIN|unix.EPOLLPRI) != 0 {
		mask |= api.EventRead
	}
	if ev&unix.EPOLLOUT != 0 {
		mask |= api.EventWrite
	}
	if ev&unix.EPOLLERR != 0 {
		mask |= api.EventError
	}
	if ev&(unix.EPOLLHUP|unix.EPOLLRDHUP) != 0 {
		mask |= api.EventHangup
	}
	return mask
}

func (b *epollBackend) Add(fd int, interest api.EventMask) error {
	ev := unix.EpollEvent{Events: toEpollEvents(interest), Fd: int32(fd)}
	if err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		if errors.Is(err, unix.EEXIST) {
			return api.ErrAlreadyExists
		}
		return fmt.Errorf("epoll ctl add: %w", err)
	}
	return nil
}

func (b *epollBackend) Modify(fd int, interest api.EventMask) error {
	ev := unix.EpollEvent{Events: toEpollEvents(interest), Fd: int32(fd)}
	if err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_MOD, fd, &ev); err != nil {
		if errors.Is(err, unix.ENOENT) {
			return api.ErrNotFound
		}
		return fmt.Errorf("epoll ctl mod: %w", err)
	}
	return nil
}

func (b *epollBackend) Remove(fd int) error {
	if err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		if errors.Is(err, unix.ENOENT) {
			return api.ErrNotFound
		}
		// Caller may have closed the fd first; the kernel dropped the
		// subscription with it.
		if errors.Is(err, unix.EBADF) {
			return nil
		}
		return fmt.Errorf("epoll ctl del: %w", err)
	}
	return nil
}

func (b *epollBackend) Wait(events []api.Event, timeoutNs int64) (int, error) {
	if len(b.scratch) < len(events) {
		b.scratch = make([]unix.EpollEvent, len(events))
	}

	// epoll_wait takes milliseconds; round up so timer-driven waits
	// never return early and spin.
	msec := -1
	if timeoutNs >= 0 {
		msec = int((timeoutNs + 1e6 - 1) / 1e6)
	}

	n, err := unix.EpollWait(b.epfd, b.scratch[:len(events)], msec)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return 0, nil
		}
		return 0, fmt.Errorf("epoll wait: %w", err)
	}

	for i := 0; i < n; i++ {
		events[i] = api.Event{
			Fd:     int(b.scratch[i].Fd),
			Events: fromEpollEvents(b.scratch[i].Events),
		}
	}
	return n, nil
}

func (b *epollBackend) Close() error {
	return unix.Close(b.epfd)
}
