//go:build linux

// File: backend/factory_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux backend factory: epoll is the platform-best family; poll and
// select are available as explicit fallbacks.

package backend

import "github.com/momentics/hioload-ev/api"

var bestKind = KindEpoll

func newBackend(kind Kind) (api.Backend, error) {
	switch kind {
	case KindEpoll:
		return newEpollBackend()
	case KindPoll:
		return newPollBackend(), nil
	case KindSelect:
		return newSelectBackend(), nil
	default:
		return nil, api.ErrUnsupportedBackend
	}
}
