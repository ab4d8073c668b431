// Author: momentics <momentics@gmail.com>
//
// BoundedObjectPool generalizes the teacher's SyncPool[T] (an unbounded
// sync.Pool wrapper) with an explicit capacity cap, using the same
// channel-as-bounded-store idiom as baseBufferPool.Get/Put: a buffered
// channel holds ready-to-reuse instances; a full channel means drop.

package pool

import "github.com/nimbusnet/gameclient/api"

// BoundedObjectPool is a capacity-capped generic object pool used for
// message objects, event-args objects, and per-read operation records.
type BoundedObjectPool[T any] struct {
	newFn func() T
	free  chan T
}

// NewBoundedObjectPool builds a pool with the given capacity and factory.
func NewBoundedObjectPool[T any](capacity int, newFn func() T) *BoundedObjectPool[T] {
	return &BoundedObjectPool[T]{
		newFn: newFn,
		free:  make(chan T, capacity),
	}
}

// Acquire returns a recycled instance if one is available, else a freshly
// constructed one.
func (p *BoundedObjectPool[T]) Acquire() T {
	select {
	case obj := <-p.free:
		return obj
	default:
		return p.newFn()
	}
}

// Release pushes obj back for reuse if under capacity, else drops it.
func (p *BoundedObjectPool[T]) Release(obj T) {
	select {
	case p.free <- obj:
	default:
	}
}

var _ api.ObjectPool[any] = (*BoundedObjectPool[any])(nil)
