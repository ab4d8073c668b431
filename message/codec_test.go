package message

import (
	"testing"

	"github.com/nimbusnet/gameclient/pool"
)

func newTestPool() *pool.MemoryPool {
	return pool.NewMemoryPool(pool.DefaultMemoryPoolConfig())
}

func TestApplicationMessageRoundTrip(t *testing.T) {
	p := newTestPool()
	out := New(42, false, []byte("hello"), p)
	defer out.Release()

	framed := out.ToBuffer()
	in, err := FromBuffer(framed)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	defer in.Release()

	if in.Tag() != 42 {
		t.Fatalf("tag = %d, want 42", in.Tag())
	}
	if in.IsCommand() || in.IsPing() || in.IsAck() {
		t.Fatalf("unexpected flags on plain message")
	}
	if string(in.Payload()) != "hello" {
		t.Fatalf("payload = %q, want %q", in.Payload(), "hello")
	}
}

func TestPingAckFraming(t *testing.T) {
	p := newTestPool()
	ping := NewPing(7, p)
	defer ping.Release()

	in, err := FromBuffer(ping.ToBuffer())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	defer in.Release()

	if !in.IsPing() || in.IsAck() {
		t.Fatalf("expected ping flag only")
	}
	if in.PingCode() != 7 {
		t.Fatalf("ping code = %d, want 7", in.PingCode())
	}
	if len(in.Payload()) != 0 {
		t.Fatalf("expected empty payload, got %d bytes", len(in.Payload()))
	}
}

func TestConfigureCommand(t *testing.T) {
	p := newTestPool()
	cfg := NewConfigure(7, p)
	defer cfg.Release()

	in, err := FromBuffer(cfg.ToBuffer())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	defer in.Release()

	if !in.IsCommand() || in.Tag() != TagConfigure {
		t.Fatalf("expected Configure command, got tag=%d command=%v", in.Tag(), in.IsCommand())
	}
	r := in.Reader()
	id, err := r.ReadUint16()
	if err != nil {
		t.Fatalf("read id: %v", err)
	}
	if id != 7 {
		t.Fatalf("client id = %d, want 7", id)
	}
}

func TestFrameTooShort(t *testing.T) {
	p := newTestPool()
	buf := p.Acquire(1)
	defer buf.Release()
	if _, err := FromBuffer(buf); err != ErrFrameTooShort {
		t.Fatalf("expected ErrFrameTooShort, got %v", err)
	}
}
