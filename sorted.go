package main

import "container/heap"

// Sorted collects items under a caller supplied total order and drains
// them in that order. It backs the ranked searches: push every match,
// read the total, then pop just one page instead of sorting the whole
// candidate set.
type Sorted[T any] struct {
	inner innerHeap[T]
}

// NewSorted returns an empty queue ordered by less.
func NewSorted[T any](less func(a, b T) bool) *Sorted[T] {
	return &Sorted[T]{inner: innerHeap[T]{less: less}}
}

// Push inserts an item in amortized O(log n).
func (s *Sorted[T]) Push(item T) {
	heap.Push(&s.inner, item)
}

// Pop removes and returns the smallest item under the comparator.
// It must not be called on an empty queue.
func (s *Sorted[T]) Pop() T {
	return heap.Pop(&s.inner).(T)
}

// Len reports the number of items still queued. Callers read it before
// paginating to report the total match count.
func (s *Sorted[T]) Len() int {
	return s.inner.Len()
}

// Drain pops every remaining item in comparator order.
func (s *Sorted[T]) Drain() []T {
	out := make([]T, 0, s.Len())
	for s.Len() > 0 {
		out = append(out, s.Pop())
	}
	return out
}

type innerHeap[T any] struct {
	items []T
	less  func(a, b T) bool
}

func (h *innerHeap[T]) Len() int { return len(h.items) }

func (h *innerHeap[T]) Less(i, j int) bool { return h.less(h.items[i], h.items[j]) }

func (h *innerHeap[T]) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *innerHeap[T]) Push(x any) { h.items = append(h.items, x.(T)) }

func (h *innerHeap[T]) Pop() any {
	last := len(h.items) - 1
	item := h.items[last]
	h.items = h.items[:last]
	return item
}
