// File: backend/kind.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Backend family enumeration and construction entry points.

package backend

import "github.com/momentics/hioload-ev/api"

// Kind identifies one of the four backend families.
type Kind int

const (
	// KindEpoll is the Linux epoll(7) family.
	KindEpoll Kind = iota
	// KindKqueue is the BSD/Darwin kqueue(2) family.
	KindKqueue
	// KindPoll is the portable poll(2) fallback.
	KindPoll
	// KindSelect is the universal select(2) fallback with a hard
	// 1024-descriptor ceiling.
	KindSelect
)

// String returns the family name.
func (k Kind) String() string {
	switch k {
	case KindEpoll:
		return "epoll"
	case KindKqueue:
		return "kqueue"
	case KindPoll:
		return "poll"
	case KindSelect:
		return "select"
	}
	return "unknown"
}

// Best returns the highest-performing backend kind supported by the
// current OS family.
func Best() Kind { return bestKind }

// New constructs a backend of the given kind. It returns
// api.ErrUnsupportedBackend when the kind is not available on this OS.
func New(kind Kind) (api.Backend, error) { return newBackend(kind) }
