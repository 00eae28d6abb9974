// File: clock/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package clock provides the monotonic time source used by the event
// loop: nanosecond timestamps from an arbitrary epoch, unit helpers,
// and a wraparound-safe difference.
package clock
