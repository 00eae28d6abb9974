//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

// File: backend/select_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Universal select(2) fallback. Hard capacity ceiling of FD_SETSIZE
// descriptors; registrations beyond it fail with api.ErrFdTooLarge
// instead of corrupting the fd sets.

package backend

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-ev/api"
)

const selectCapacity = 1024 // FD_SETSIZE

type selectBackend struct {
	order    []int // registration order, keeps Wait staging stable
	interest map[int]api.EventMask
}

func newSelectBackend() api.Backend {
	return &selectBackend{interest: make(map[int]api.EventMask)}
}

func (b *selectBackend) Add(fd int, interest api.EventMask) error {
	if fd < 0 || fd >= selectCapacity {
		return api.ErrFdTooLarge
	}
	if _, ok := b.interest[fd]; ok {
		return api.ErrAlreadyExists
	}
	b.interest[fd] = interest
	b.order = append(b.order, fd)
	return nil
}

func (b *selectBackend) Modify(fd int, interest api.EventMask) error {
	if _, ok := b.interest[fd]; !ok {
		return api.ErrNotFound
	}
	b.interest[fd] = interest
	return nil
}

func (b *selectBackend) Remove(fd int) error {
	if _, ok := b.interest[fd]; !ok {
		return api.ErrNotFound
	}
	delete(b.interest, fd)
	for i, v := range b.order {
		if v == fd {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return nil
}

func (b *selectBackend) Wait(events []api.Event, timeoutNs int64) (int, error) {
	var rs, ws, es unix.FdSet
	nfds := 0
	for _, fd := range b.order {
		interest := b.interest[fd]
		if interest&api.EventRead != 0 {
			rs.Set(fd)
		}
		if interest&api.EventWrite != 0 {
			ws.Set(fd)
		}
		// Exceptional conditions are always watched.
		es.Set(fd)
		if fd >= nfds {
			nfds = fd + 1
		}
	}

	var tv *unix.Timeval
	if timeoutNs >= 0 {
		t := unix.NsecToTimeval(timeoutNs)
		tv = &t
	}

	n, err := unix.Select(nfds, &rs, &ws, &es, tv)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return 0, nil
		}
		return 0, fmt.Errorf("select wait: %w", err)
	}
	if n <= 0 {
		return 0, nil
	}

	staged := 0
	for _, fd := range b.order {
		if staged == len(events) {
			break
		}
		var mask api.EventMask
		if rs.IsSet(fd) {
			mask |= api.EventRead
		}
		if ws.IsSet(fd) {
			mask |= api.EventWrite
		}
		if es.IsSet(fd) {
			mask |= api.EventError
		}
		if mask == 0 {
			continue
		}
		events[staged] = api.Event{Fd: fd, Events: mask}
		staged++
	}
	return staged, nil
}

func (b *selectBackend) Close() error {
	b.order = nil
	b.interest = nil
	return nil
}
