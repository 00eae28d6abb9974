// File: api/backend.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Abstract contract for readiness-multiplexing backends (epoll, kqueue,
// poll, select). One Backend instance is owned by exactly one Loop for
// the Loop's whole lifetime.

package api

// WaitForever is the timeout value that makes Backend.Wait block until
// at least one event arrives.
const WaitForever int64 = -1

// Backend is the capability interface over an OS readiness primitive.
// Implementations are single-threaded: all methods are called from the
// loop thread only.
type Backend interface {
	// Add begins monitoring fd for the given interest. Returns
	// ErrAlreadyExists if fd is already tracked and ErrFdTooLarge if
	// the descriptor exceeds a backend capacity ceiling.
	Add(fd int, interest EventMask) error

	// Modify changes the interest of an already-tracked fd. Returns
	// ErrNotFound if fd is untracked.
	Modify(fd int, interest EventMask) error

	// Remove stops monitoring fd. Returns ErrNotFound if fd is
	// untracked. Best effort when the caller already closed the
	// descriptor: a stale-fd error from the OS is not reported.
	Remove(fd int) error

	// Wait blocks up to timeoutNs nanoseconds (WaitForever blocks
	// unboundedly, 0 polls without blocking) and stages up to
	// len(events) readiness records. Returns the number staged; 0 on a
	// pure timeout. A benign interruption (EINTR) is reported as 0,
	// nil. Only unrecoverable OS errors are returned.
	Wait(events []Event, timeoutNs int64) (int, error)

	// Close releases the backend's OS resources.
	Close() error
}
