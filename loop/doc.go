// File: loop/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package loop implements the single-threaded event loop: the Loop
// aggregate that owns a polling backend, an intrusive timer min-heap
// and the watcher registries, plus the io, timer, prepare, check and
// signal watcher kinds.
//
// A Loop and all of its watchers belong to exactly one goroutine.
// There is no internal locking because there is no internal
// concurrency; for multiple loops, run independent Loop instances on
// independent goroutines with no shared watchers.
package loop
