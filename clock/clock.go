// File: clock/clock.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Monotonic time source and nanosecond unit conversions.

package clock

import "time"

// Monotonic zero value, captured at package load time. All Timestamps
// are distances from this instant; the absolute epoch is meaningless.
var programStart = time.Now()

// Timestamp is an unsigned count of nanoseconds since an arbitrary
// monotonic epoch. It never moves backwards within a process, except
// for the wraparound case that Diff handles.
type Timestamp uint64

// Now returns the current monotonic timestamp.
func Now() Timestamp {
	return Timestamp(time.Since(programStart).Nanoseconds())
}

// Seconds converts whole seconds to nanoseconds.
func Seconds(n uint64) uint64 { return n * 1e9 }

// Milliseconds converts whole milliseconds to nanoseconds.
func Milliseconds(n uint64) uint64 { return n * 1e6 }

// Microseconds converts whole microseconds to nanoseconds.
func Microseconds(n uint64) uint64 { return n * 1e3 }

// Diff returns later - earlier in nanoseconds, treating the timestamp
// space as a ring: if later < earlier the clock wrapped, and the
// distance around the ring is returned instead of a wrapped negative.
func Diff(later, earlier Timestamp) uint64 {
	if later >= earlier {
		return uint64(later - earlier)
	}
	return (^uint64(0) - uint64(earlier)) + uint64(later) + 1
}

// Duration converts a timestamp distance to a time.Duration.
func Duration(ns uint64) time.Duration {
	return time.Duration(ns) * time.Nanosecond
}
