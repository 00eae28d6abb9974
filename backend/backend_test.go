//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

// File: backend/backend_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Contract tests run against every backend family available on the
// host platform.

package backend

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-ev/api"
)

func availableKinds() []Kind {
	kinds := []Kind{KindPoll, KindSelect}
	return append(kinds, Best())
}

func testPipe(t *testing.T) (rfd, wfd int) {
	t.Helper()
	var p [2]int
	if err := unix.Pipe(p[:]); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() {
		unix.Close(p[0])
		unix.Close(p[1])
	})
	return p[0], p[1]
}

func TestUnsupportedKind(t *testing.T) {
	// The Linux-only family cannot exist on BSD and vice versa.
	wrong := KindKqueue
	if Best() == KindKqueue {
		wrong = KindEpoll
	}
	if _, err := New(wrong); !errors.Is(err, api.ErrUnsupportedBackend) {
		t.Fatalf("New(%v) = %v, want ErrUnsupportedBackend", wrong, err)
	}
}

func TestRegistrationContract(t *testing.T) {
	for _, kind := range availableKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			b, err := New(kind)
			if err != nil {
				t.Fatalf("New(%v) error: %v", kind, err)
			}
			defer b.Close()

			rfd, _ := testPipe(t)

			if err := b.Modify(rfd, api.EventRead); !errors.Is(err, api.ErrNotFound) {
				t.Fatalf("Modify(untracked) = %v, want ErrNotFound", err)
			}
			if err := b.Remove(rfd); !errors.Is(err, api.ErrNotFound) {
				t.Fatalf("Remove(untracked) = %v, want ErrNotFound", err)
			}

			if err := b.Add(rfd, api.EventRead); err != nil {
				t.Fatalf("Add() error: %v", err)
			}
			if err := b.Add(rfd, api.EventRead); !errors.Is(err, api.ErrAlreadyExists) {
				t.Fatalf("duplicate Add() = %v, want ErrAlreadyExists", err)
			}
			if err := b.Modify(rfd, api.EventRead|api.EventWrite); err != nil {
				t.Fatalf("Modify() error: %v", err)
			}
			if err := b.Remove(rfd); err != nil {
				t.Fatalf("Remove() error: %v", err)
			}
			if err := b.Remove(rfd); !errors.Is(err, api.ErrNotFound) {
				t.Fatalf("second Remove() = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestWaitReadiness(t *testing.T) {
	for _, kind := range availableKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			b, err := New(kind)
			if err != nil {
				t.Fatalf("New(%v) error: %v", kind, err)
			}
			defer b.Close()

			rfd, wfd := testPipe(t)
			if err := b.Add(rfd, api.EventRead); err != nil {
				t.Fatalf("Add() error: %v", err)
			}

			events := make([]api.Event, 8)

			// Nothing readable yet: a zero timeout polls and returns
			// immediately with no events.
			n, err := b.Wait(events, 0)
			if err != nil {
				t.Fatalf("Wait() error: %v", err)
			}
			if n != 0 {
				t.Fatalf("Wait() staged %d events on an idle pipe", n)
			}

			if _, err := unix.Write(wfd, []byte("x")); err != nil {
				t.Fatalf("write: %v", err)
			}
			n, err = b.Wait(events, int64(time.Second))
			if err != nil {
				t.Fatalf("Wait() error: %v", err)
			}
			if n != 1 {
				t.Fatalf("Wait() staged %d events, want 1", n)
			}
			if events[0].Fd != rfd {
				t.Fatalf("event fd = %d, want %d", events[0].Fd, rfd)
			}
			if !events[0].Events.Readable() {
				t.Fatalf("event mask %v lacks the read bit", events[0].Events)
			}
		})
	}
}

func TestWaitTimeoutDuration(t *testing.T) {
	for _, kind := range availableKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			b, err := New(kind)
			if err != nil {
				t.Fatalf("New(%v) error: %v", kind, err)
			}
			defer b.Close()

			rfd, _ := testPipe(t)
			if err := b.Add(rfd, api.EventRead); err != nil {
				t.Fatalf("Add() error: %v", err)
			}

			events := make([]api.Event, 4)
			start := time.Now()
			n, err := b.Wait(events, int64(50*time.Millisecond))
			elapsed := time.Since(start)
			if err != nil {
				t.Fatalf("Wait() error: %v", err)
			}
			if n != 0 {
				t.Fatalf("Wait() staged %d events, want pure timeout", n)
			}
			if elapsed < 40*time.Millisecond {
				t.Fatalf("Wait() returned after %v, before the timeout", elapsed)
			}
		})
	}
}

func TestSelectCapacityCeiling(t *testing.T) {
	b := newSelectBackend()
	defer b.Close()

	if err := b.Add(selectCapacity, api.EventRead); !errors.Is(err, api.ErrFdTooLarge) {
		t.Fatalf("Add(fd=%d) = %v, want ErrFdTooLarge", selectCapacity, err)
	}
	if err := b.Add(-1, api.EventRead); !errors.Is(err, api.ErrFdTooLarge) {
		t.Fatalf("Add(fd=-1) = %v, want ErrFdTooLarge", err)
	}
}

func TestKindString(t *testing.T) {
	names := map[Kind]string{
		KindEpoll:  "epoll",
		KindKqueue: "kqueue",
		KindPoll:   "poll",
		KindSelect: "select",
	}
	for kind, want := range names {
		if got := kind.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
