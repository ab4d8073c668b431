package pool

import (
	"testing"

	"github.com/nimbusnet/gameclient/api"
)

func TestAcquireSmallestFittingClass(t *testing.T) {
	p := NewMemoryPool(DefaultMemoryPoolConfig())
	buf := p.Acquire(10)
	defer buf.Release()
	if buf.Class() != api.ClassExtraSmall {
		t.Fatalf("class = %v, want extra-small", buf.Class())
	}
	if buf.Len() != 10 {
		t.Fatalf("len = %d, want 10", buf.Len())
	}
}

func TestAcquireExceedsLargestClassIsUnpooled(t *testing.T) {
	p := NewMemoryPool(DefaultMemoryPoolConfig())
	buf := p.Acquire(1 << 20)
	defer buf.Release()
	if buf.Class() != api.ClassUnpooled {
		t.Fatalf("class = %v, want unpooled", buf.Class())
	}
}

// TestPoolBalance covers invariant 1: after a sequence of acquire/release
// at quiescence, pool depth never exceeds its configured cap.
func TestPoolBalance(t *testing.T) {
	cfg := DefaultMemoryPoolConfig()
	cfg.ExtraSmall.Capacity = 2
	p := NewMemoryPool(cfg)

	var bufs []api.Buffer
	for i := 0; i < 5; i++ {
		bufs = append(bufs, p.Acquire(8))
	}
	for _, b := range bufs {
		b.Release()
	}
	if depth := p.Depth(api.ClassExtraSmall); depth > 2 {
		t.Fatalf("pool depth = %d, want <= 2", depth)
	}
}

func TestReleaseReusesBuffer(t *testing.T) {
	p := NewMemoryPool(DefaultMemoryPoolConfig())
	first := p.Acquire(8)
	first.Bytes()[0] = 0xAB
	first.Release()

	second := p.Acquire(8)
	defer second.Release()
	if second.Class() != api.ClassExtraSmall || second.Bytes()[0] != 0xAB {
		t.Fatalf("expected reused extra-small class buffer")
	}
}

// TestDoubleReleaseIsNonFatalInReleaseBuilds covers invariant 2's release
// half: without the debug build tag a double release must not corrupt
// pool bookkeeping or panic.
func TestDoubleReleaseIsNonFatalInReleaseBuilds(t *testing.T) {
	p := NewMemoryPool(DefaultMemoryPoolConfig())
	buf := p.Acquire(8)
	buf.Release()
	buf.Release() // second release: should not panic outside -tags debug
}
