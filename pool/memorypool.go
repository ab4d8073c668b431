// File: pool/memorypool.go
// Author: momentics <momentics@gmail.com>
//
// Size-classed byte buffer pool. Not safe for concurrent Acquire from more
// than one goroutine by design: the bi-channel connection constructs one
// MemoryPool per receive loop so that Acquire never contends (spec §5).
// Release is safe from any goroutine since it only ever touches the
// channel-backed free list of the class the buffer remembers as its own.

package pool

import "github.com/nimbusnet/gameclient/api"

// MemoryPool recycles raw byte buffers across five fixed size classes.
type MemoryPool struct {
	classes [5]chan []byte
	sizes   [5]int
}

// NewMemoryPool builds a MemoryPool from the given per-class configuration.
func NewMemoryPool(cfg MemoryPoolConfig) *MemoryPool {
	p := &MemoryPool{}
	for i, c := range cfg.classes() {
		p.sizes[i] = c.Size
		p.classes[i] = make(chan []byte, c.Capacity)
	}
	return p
}

// Acquire returns a buffer of the smallest size class whose size is at
// least minSize, creating a fresh one if that class's pool is empty. If
// minSize exceeds the largest class, an unpooled buffer is allocated.
func (p *MemoryPool) Acquire(minSize int) api.Buffer {
	for i, size := range p.sizes {
		if minSize > size {
			continue
		}
		class := api.SizeClass(i)
		select {
		case raw := <-p.classes[i]:
			return newBuffer(raw, minSize, class, p)
		default:
			return newBuffer(make([]byte, size), minSize, class, p)
		}
	}
	return newBuffer(make([]byte, minSize), minSize, api.ClassUnpooled, nil)
}

// Release decrements b's reference count, returning the backing slice to
// its origin class's pool on the last release. Equivalent to calling
// b.Release() directly; provided so MemoryPool satisfies api.BufferPool.
func (p *MemoryPool) Release(b api.Buffer) {
	b.Release()
}

// recycle is called by buffer.Release on the last reference. It finds the
// class the buffer was drawn from — never by re-deriving it from the
// buffer's current length, since the window may have been shrunk — and
// drops the buffer if that class's pool is already full.
func (p *MemoryPool) recycle(class api.SizeClass, backing []byte) {
	idx := int(class)
	if idx < 0 || idx >= len(p.classes) {
		return
	}
	select {
	case p.classes[idx] <- backing:
	default:
		// pool full: drop, GC reclaims
	}
}

// Depth reports how many free buffers are currently queued for a class,
// for tests asserting invariant 1 (pool depth never exceeds its cap).
func (p *MemoryPool) Depth(class api.SizeClass) int {
	idx := int(class)
	if idx < 0 || idx >= len(p.classes) {
		return 0
	}
	return len(p.classes[idx])
}

var _ api.BufferPool = (*MemoryPool)(nil)
