//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

// File: backend/poll_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Portable poll(2) backend. Unlike the kernel-queue families, poll has
// no registration state of its own, so duplicate and unknown-fd
// detection is enforced here explicitly.

package backend

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-ev/api"
)

type pollBackend struct {
	fds   []unix.PollFd
	index map[int]int // fd -> slot in fds
}

func newPollBackend() api.Backend {
	return &pollBackend{index: make(map[int]int)}
}

func toPollEvents(interest api.EventMask) int16 {
	var ev int16
	if interest&api.EventRead != 0 {
		ev |= unix.POLLIN
	}
	if interest&api.EventWrite != 0 {
		ev |= unix.POLLOUT
	}
	return ev
}

func fromPollEvents(ev int16) api.EventMask {
	var mask api.EventMask
	if ev&(unix.POLLIN|unix.POLLPRI) != 0 {
		mask |= api.EventRead
	}
	if ev&unix.POLLOUT != 0 {
		mask |= api.EventWrite
	}
	if ev&(unix.POLLERR|unix.POLLNVAL) != 0 {
		mask |= api.EventError
	}
	if ev&unix.POLLHUP != 0 {
		mask |= api.EventHangup
	}
	return mask
}

func (b *pollBackend) Add(fd int, interest api.EventMask) error {
	if _, ok := b.index[fd]; ok {
		return api.ErrAlreadyExists
	}
	b.fds = append(b.fds, unix.PollFd{Fd: int32(fd), Events: toPollEvents(interest)})
	b.index[fd] = len(b.fds) - 1
	return nil
}

func (b *pollBackend) Modify(fd int, interest api.EventMask) error {
	slot, ok := b.index[fd]
	if !ok {
		return api.ErrNotFound
	}
	b.fds[slot].Events = toPollEvents(interest)
	return nil
}

func (b *pollBackend) Remove(fd int) error {
	slot, ok := b.index[fd]
	if !ok {
		return api.ErrNotFound
	}
	last := len(b.fds) - 1
	if slot != last {
		b.fds[slot] = b.fds[last]
		b.index[int(b.fds[slot].Fd)] = slot
	}
	b.fds = b.fds[:last]
	delete(b.index, fd)
	return nil
}

func (b *pollBackend) Wait(events []api.Event, timeoutNs int64) (int, error) {
	msec := -1
	if timeoutNs >= 0 {
		msec = int((timeoutNs + 1e6 - 1) / 1e6)
	}

	n, err := unix.Poll(b.fds, msec)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return 0, nil
		}
		return 0, fmt.Errorf("poll wait: %w", err)
	}
	if n <= 0 {
		return 0, nil
	}

	staged := 0
	for i := range b.fds {
		if staged == len(events) {
			break
		}
		revents := b.fds[i].Revents
		if revents == 0 {
			continue
		}
		b.fds[i].Revents = 0
		events[staged] = api.Event{Fd: int(b.fds[i].Fd), Events: fromPollEvents(revents)}
		staged++
	}
	return staged, nil
}

func (b *pollBackend) Close() error {
	b.fds = nil
	b.index = nil
	return nil
}
