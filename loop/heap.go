// File: loop/heap.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Intrusive indexed binary min-heap over timer deadlines. The heap is
// the sole writer of Timer.heapIndex: every structural mutation
// rewrites the indices of the elements it moves, so arbitrary removal
// and reheapify stay O(log n) with no linear scan. Equal deadlines are
// not ordered further; ties resolve by structural position.

package loop

type timerHeap struct {
	items []*Timer
}

func (h *timerHeap) len() int { return len(h.items) }

// peek returns the minimum-deadline timer without removing it.
func (h *timerHeap) peek() *Timer {
	if len(h.items) == 0 {
		return nil
	}
	return h.items[0]
}

// insert appends t and sifts it up to its position.
func (h *timerHeap) insert(t *Timer) {
	h.items = append(h.items, t)
	t.heapIndex = len(h.items) - 1
	h.siftUp(t.heapIndex)
}

// removeMin pops and returns the minimum-deadline timer, or nil.
func (h *timerHeap) removeMin() *Timer {
	if len(h.items) == 0 {
		return nil
	}
	min := h.items[0]
	h.removeAt(0)
	return min
}

// remove takes t out of the heap wherever it sits. Returns false when
// t's recorded index is stale, i.e. t is not actually in the heap.
func (h *timerHeap) remove(t *Timer) bool {
	i := t.heapIndex
	if i < 0 || i >= len(h.items) || h.items[i] != t {
		return false
	}
	h.removeAt(i)
	return true
}

// update re-sifts t after an external deadline mutation.
func (h *timerHeap) update(t *Timer) {
	i := t.heapIndex
	if i < 0 || i >= len(h.items) || h.items[i] != t {
		return
	}
	h.siftDown(h.siftUp(i))
}

func (h *timerHeap) removeAt(i int) {
	t := h.items[i]
	last := len(h.items) - 1
	if i != last {
		h.items[i] = h.items[last]
		h.items[i].heapIndex = i
	}
	h.items[last] = nil
	h.items = h.items[:last]
	t.heapIndex = -1

	// The element swapped into the vacated slot may need to move in
	// either direction.
	if i < len(h.items) {
		h.siftDown(h.siftUp(i))
	}
}

func (h *timerHeap) siftUp(i int) int {
	item := h.items[i]
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[parent].deadline <= item.deadline {
			break
		}
		h.items[i] = h.items[parent]
		h.items[i].heapIndex = i
		i = parent
	}
	h.items[i] = item
	item.heapIndex = i
	return i
}

func (h *timerHeap) siftDown(i int) int {
	item := h.items[i]
	n := len(h.items)
	for {
		child := 2*i + 1
		if child >= n {
			break
		}
		if r := child + 1; r < n && h.items[r].deadline < h.items[child].deadline {
			child = r
		}
		if item.deadline <= h.items[child].deadline {
			break
		}
		h.items[i] = h.items[child]
		h.items[i].heapIndex = i
		i = child
	}
	h.items[i] = item
	item.heapIndex = i
	return i
}
