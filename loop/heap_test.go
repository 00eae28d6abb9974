// File: loop/heap_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package loop

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ev/clock"
)

func heapTimer(deadline uint64) *Timer {
	return &Timer{deadline: clock.Timestamp(deadline), heapIndex: -1}
}

// requireIndexIntegrity checks that every live element's recorded
// index matches its actual slot.
func requireIndexIntegrity(t *testing.T, h *timerHeap) {
	t.Helper()
	for i, item := range h.items {
		require.Equal(t, i, item.heapIndex)
	}
}

func TestHeapInsertPeek(t *testing.T) {
	var h timerHeap
	h.insert(heapTimer(100))
	h.insert(heapTimer(50))
	h.insert(heapTimer(200))

	require.Equal(t, 3, h.len())
	require.Equal(t, clock.Timestamp(50), h.peek().deadline)
	requireIndexIntegrity(t, &h)
}

func TestHeapRemoveMinOrder(t *testing.T) {
	// Three timers at 50/100/200ms inserted as (100, 50, 200).
	var h timerHeap
	h.insert(heapTimer(100e6))
	h.insert(heapTimer(50e6))
	h.insert(heapTimer(200e6))

	require.Equal(t, clock.Timestamp(50e6), h.peek().deadline)
	require.Equal(t, clock.Timestamp(50e6), h.removeMin().deadline)
	require.Equal(t, clock.Timestamp(100e6), h.removeMin().deadline)
	require.Equal(t, clock.Timestamp(200e6), h.removeMin().deadline)
	require.Nil(t, h.removeMin())
}

func TestHeapRemoveArbitrary(t *testing.T) {
	var h timerHeap
	timers := make([]*Timer, 0, 9)
	for _, d := range []uint64{9, 3, 7, 1, 8, 2, 6, 4, 5} {
		tm := heapTimer(d)
		timers = append(timers, tm)
		h.insert(tm)
	}

	// Remove an interior element and verify it is gone and order holds.
	victim := timers[2] // deadline 7
	require.True(t, h.remove(victim))
	require.Equal(t, -1, victim.heapIndex)
	requireIndexIntegrity(t, &h)

	var got []uint64
	for h.len() > 0 {
		got = append(got, uint64(h.removeMin().deadline))
	}
	require.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 8, 9}, got)
}

func TestHeapRemoveStaleIndex(t *testing.T) {
	var h timerHeap
	tm := heapTimer(10)
	h.insert(tm)
	require.True(t, h.remove(tm))
	// Second removal sees a stale index and must refuse.
	require.False(t, h.remove(tm))
	require.Equal(t, 0, h.len())
}

func TestHeapUpdateResift(t *testing.T) {
	var h timerHeap
	a, b, c := heapTimer(10), heapTimer(20), heapTimer(30)
	h.insert(a)
	h.insert(b)
	h.insert(c)

	// Push the minimum past everything else.
	a.deadline = 99
	h.update(a)
	require.Equal(t, clock.Timestamp(20), h.peek().deadline)
	requireIndexIntegrity(t, &h)

	// Pull the maximum in front.
	c.deadline = 1
	h.update(c)
	require.Equal(t, clock.Timestamp(1), h.peek().deadline)
	requireIndexIntegrity(t, &h)
}

func TestHeapRandomizedIntegrity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var h timerHeap
	live := make(map[*Timer]struct{})

	for step := 0; step < 2000; step++ {
		switch op := rng.Intn(4); {
		case op == 0 || h.len() == 0:
			tm := heapTimer(uint64(rng.Intn(1000)))
			h.insert(tm)
			live[tm] = struct{}{}
		case op == 1:
			min := h.removeMin()
			delete(live, min)
		case op == 2:
			for tm := range live {
				require.True(t, h.remove(tm))
				delete(live, tm)
				break
			}
		default:
			for tm := range live {
				tm.deadline = clock.Timestamp(rng.Intn(1000))
				h.update(tm)
				break
			}
		}
		requireIndexIntegrity(t, &h)
	}

	// Drain: non-decreasing deadlines all the way down.
	prev := clock.Timestamp(0)
	for h.len() > 0 {
		min := h.removeMin()
		require.GreaterOrEqual(t, uint64(min.deadline), uint64(prev))
		prev = min.deadline
	}
}
