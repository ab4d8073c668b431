// File: pool/buffer.go
// Author: momentics <momentics@gmail.com>
//
// Concrete reference-counted api.Buffer, carrying a back-pointer to its
// owning MemoryPool so that the last Release enqueues the backing slice
// onto the correct size class regardless of which goroutine calls it.

package pool

import (
	"sync/atomic"

	"github.com/nimbusnet/gameclient/api"
)

type buffer struct {
	backing  []byte // full class-sized allocation
	window   []byte // backing[off:off+length], the current (offset,length) view
	class    api.SizeClass
	owner    *MemoryPool
	refcount int32
}

func newBuffer(backing []byte, length int, class api.SizeClass, owner *MemoryPool) *buffer {
	return &buffer{
		backing:  backing,
		window:   backing[:length],
		class:    class,
		owner:    owner,
		refcount: 1,
	}
}

func (b *buffer) Bytes() []byte        { return b.window }
func (b *buffer) Len() int             { return len(b.window) }
func (b *buffer) Class() api.SizeClass { return b.class }

// Resize narrows the window to n bytes of the same backing array. Used
// after a partial socket read fills less than the acquired capacity.
func (b *buffer) Resize(n int) error {
	if n < 0 || n > cap(b.backing) {
		return api.ErrInvalidArgument
	}
	b.window = b.backing[:n]
	return nil
}

func (b *buffer) Retain() api.Buffer {
	atomic.AddInt32(&b.refcount, 1)
	return b
}

func (b *buffer) Release() {
	n := atomic.AddInt32(&b.refcount, -1)
	switch {
	case n > 0:
		return
	case n == 0:
		if b.class != api.ClassUnpooled && b.owner != nil {
			b.owner.recycle(b.class, b.backing)
		}
	default:
		// Double release: refcount went negative. Restore to zero so a
		// third call doesn't recycle twice, then report per build mode.
		atomic.StoreInt32(&b.refcount, 0)
		reportDoubleRelease()
	}
}

func reportDoubleRelease() {
	if debugBuild {
		panic(api.ErrDoubleRelease)
	}
}
