//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

// File: backend/factory_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stub factory for unsupported platforms.

package backend

import "github.com/momentics/hioload-ev/api"

var bestKind = KindSelect

func newBackend(Kind) (api.Backend, error) {
	return nil, api.ErrUnsupportedBackend
}
