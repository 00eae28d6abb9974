// File: backend/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package backend provides the concrete api.Backend implementations:
// epoll (Linux), kqueue (BSD/Darwin), poll (portable) and select
// (universal fallback), plus platform-best selection.
package backend
