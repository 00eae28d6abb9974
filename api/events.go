// File: api/events.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Readiness event model shared by all polling backends.

package api

// EventMask is a bit-set describing readiness conditions on a
// descriptor. Read and Write express caller interest as well as
// reported readiness; Error and Hangup are report-only and are always
// delivered regardless of the subscribed interest.
type EventMask uint32

const (
	EventRead   EventMask = 0x1
	EventWrite  EventMask = 0x2
	EventError  EventMask = 0x4
	EventHangup EventMask = 0x8
)

// Readable reports whether the mask carries the read bit.
func (m EventMask) Readable() bool { return m&EventRead != 0 }

// Writable reports whether the mask carries the write bit.
func (m EventMask) Writable() bool { return m&EventWrite != 0 }

// String renders the mask as a pipe-separated list of set bits.
func (m EventMask) String() (str string) {
	name := func(bit EventMask, name string) {
		if m&bit == 0 {
			return
		}
		if str != "" {
			str += "|"
		}
		str += name
	}

	name(EventRead, "EventRead")
	name(EventWrite, "EventWrite")
	name(EventError, "EventError")
	name(EventHangup, "EventHangup")

	if str == "" {
		str = "EventNone"
	}
	return
}

// Event is one staged readiness notification produced by Backend.Wait.
type Event struct {
	Fd     int       // file descriptor the notification refers to
	Events EventMask // readiness bits reported by the OS primitive
}
