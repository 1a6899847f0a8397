// Package pq implements a generic priority queue on top of container/heap,
// deduplicating entries by value: an element equal to one already waiting
// is not pushed again. A vertex relaxed to a better distance is queued
// again under its new distance (Dijkstra's classic decrease-key case);
// graph/closure.go's dijkstraFrom skips the stale entries as they pop.
package pq

import "container/heap"

// CompareFunc orders two elements of type T: CompareFunc(a, b) reports
// whether a has strictly higher priority than b (pops first).
type CompareFunc[T any] func(T, T) bool

// ordering adapts a []T slice plus a CompareFunc into heap.Interface.
type ordering[T any] struct {
	items []T
	cmp   CompareFunc[T]
}

func (o ordering[T]) Len() int { return len(o.items) }

func (o ordering[T]) Swap(i, j int) {
	o.items[i], o.items[j] = o.items[j], o.items[i]
}

func (o *ordering[T]) Push(x any) {
	o.items = append(o.items, x.(T))
}

func (o *ordering[T]) Pop() any {
	items := o.items
	n := len(items)
	top := items[n-1]
	o.items = items[0 : n-1]
	return top
}

func (o ordering[T]) Less(i, j int) bool {
	return o.cmp(o.items[i], o.items[j])
}

var _ heap.Interface = (*ordering[int])(nil)

// PriorityQueue is a deduplicating min-priority queue over T, ordered by a
// caller-supplied CompareFunc.
type PriorityQueue[T any] struct {
	order ordering[T]
	// queued tracks membership by value rather than index, so Add can skip
	// re-inserting an element that is already waiting to be popped. T must
	// be comparable for this to work; every caller in this module queues
	// a small value type (dijkstraItem) rather than an interface.
	queued map[any]struct{}
}

// Empty creates an empty priority queue ordered by cmp.
func Empty[T any](cmp CompareFunc[T]) PriorityQueue[T] {
	return PriorityQueue[T]{
		order:  ordering[T]{nil, cmp},
		queued: make(map[any]struct{}),
	}
}

// IsEmpty reports whether the queue has no pending elements.
func (p *PriorityQueue[T]) IsEmpty() bool {
	return len(p.order.items) == 0
}

// GetNext pops the highest-priority element.
func (p *PriorityQueue[T]) GetNext() T {
	top := heap.Pop(&p.order).(T)
	delete(p.queued, top)
	return top
}

// Add enqueues x unless it is already waiting in the queue.
func (p *PriorityQueue[T]) Add(x T) {
	if _, found := p.queued[x]; found {
		return
	}

	p.queued[x] = struct{}{}
	heap.Push(&p.order, x)
}

// Rebuild re-establishes the heap invariant after items were mutated
// in place (e.g. a decrease-key update applied outside Add).
func (p *PriorityQueue[T]) Rebuild() {
	heap.Init(&p.order)
}
