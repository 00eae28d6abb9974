// File: api/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package api defines the shared contracts of the hioload-ev library:
// the readiness event model, the polling backend interface implemented
// by every platform family, and the common error variables.
package api
