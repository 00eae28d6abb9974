//go:build darwin || dragonfly || freebsd || netbsd || openbsd

// File: backend/factory_bsd.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// BSD/Darwin backend factory: kqueue is the platform-best family; poll
// and select are available as explicit fallbacks.

package backend

import "github.com/momentics/hioload-ev/api"

var bestKind = KindKqueue

func newBackend(kind Kind) (api.Backend, error) {
	switch kind {
	case KindKqueue:
		return newKqueueBackend()
	case KindPoll:
		return newPollBackend(), nil
	case KindSelect:
		return newSelectBackend(), nil
	default:
		return nil, api.ErrUnsupportedBackend
	}
}
