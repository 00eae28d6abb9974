// File: loop/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Functional options for Loop construction.

package loop

import (
	"github.com/momentics/hioload-ev/api"
	"github.com/momentics/hioload-ev/backend"
)

const (
	defaultMaxEvents       = 64
	defaultWatcherCapacity = 32
)

type config struct {
	kind       backend.Kind
	custom     api.Backend
	maxEvents  int
	watcherCap int
}

// Option customizes Loop construction.
type Option func(*config)

// WithBackend overrides platform-best backend selection with an
// explicit kind. Construction fails with api.ErrUnsupportedBackend if
// the kind is unavailable on this OS.
func WithBackend(kind backend.Kind) Option {
	return func(c *config) { c.kind = kind }
}

// WithCustomBackend injects a caller-constructed backend, bypassing
// kind selection. The loop takes ownership and closes it in Close.
// Intended for tests and for embedding exotic primitives.
func WithCustomBackend(b api.Backend) Option {
	return func(c *config) { c.custom = b }
}

// WithMaxEvents sets the capacity of the readiness staging buffer.
func WithMaxEvents(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxEvents = n
		}
	}
}

// WithWatcherCapacity sets the preallocation hint for the
// descriptor-to-watcher map.
func WithWatcherCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.watcherCap = n
		}
	}
}
