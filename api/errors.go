// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Common error variables used across the library.

package api

import "fmt"

var (
	// ErrUnsupportedBackend is returned when an explicitly requested
	// backend kind is not available on this OS.
	ErrUnsupportedBackend = fmt.Errorf("backend kind not supported on this platform")

	// ErrFdTooLarge is returned by capacity-limited backends (select)
	// for descriptors beyond their hard ceiling.
	ErrFdTooLarge = fmt.Errorf("file descriptor exceeds backend capacity")

	// ErrAlreadyRunning is returned by Loop.Run on reentrant use.
	ErrAlreadyRunning = fmt.Errorf("loop is already running")

	// ErrNotActive is returned by operations that require a started
	// watcher, such as IO.Modify.
	ErrNotActive = fmt.Errorf("watcher is not active")

	// ErrNotRepeating is returned by Timer.Again when no repeat
	// interval was configured.
	ErrNotRepeating = fmt.Errorf("timer has no repeat interval")

	// ErrAlreadyExists is returned when a descriptor is registered
	// twice with one backend.
	ErrAlreadyExists = fmt.Errorf("descriptor already registered")

	// ErrNotFound is returned for operations on untracked descriptors.
	ErrNotFound = fmt.Errorf("descriptor not registered")
)
