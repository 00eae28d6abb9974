// File: fake/fakebackend.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Scripted api.Backend implementation for loop tests: no kernel queue,
// events are staged by the test itself.

package fake

import "github.com/momentics/hioload-ev/api"

// Backend is a fake implementation of api.Backend. Tests preload
// Scripted events and inspect the recorded calls afterwards.
type Backend struct {
	// Registered mirrors the tracked interest per descriptor.
	Registered map[int]api.EventMask

	// Scripted events are handed out by the next Wait call and then
	// cleared.
	Scripted []api.Event

	// WaitErr, when set, is returned by every Wait call.
	WaitErr error

	// Recorded state.
	Waits       int
	LastTimeout int64
	Closed      bool
}

// NewBackend creates an empty fake backend.
func NewBackend() *Backend {
	return &Backend{Registered: make(map[int]api.EventMask)}
}

// Add tracks fd, enforcing the duplicate-registration contract.
func (b *Backend) Add(fd int, interest api.EventMask) error {
	if _, ok := b.Registered[fd]; ok {
		return api.ErrAlreadyExists
	}
	b.Registered[fd] = interest
	return nil
}

// Modify updates tracked interest.
func (b *Backend) Modify(fd int, interest api.EventMask) error {
	if _, ok := b.Registered[fd]; !ok {
		return api.ErrNotFound
	}
	b.Registered[fd] = interest
	return nil
}

// Remove drops fd from tracking.
func (b *Backend) Remove(fd int) error {
	if _, ok := b.Registered[fd]; !ok {
		return api.ErrNotFound
	}
	delete(b.Registered, fd)
	return nil
}

// Wait returns the scripted events without blocking.
func (b *Backend) Wait(events []api.Event, timeoutNs int64) (int, error) {
	b.Waits++
	b.LastTimeout = timeoutNs
	if b.WaitErr != nil {
		return 0, b.WaitErr
	}
	n := copy(events, b.Scripted)
	b.Scripted = nil
	return n, nil
}

// Close marks the backend closed.
func (b *Backend) Close() error {
	b.Closed = true
	return nil
}
