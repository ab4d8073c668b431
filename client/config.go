// File: client/config.go
// Author: momentics <momentics@gmail.com>

package client

import (
	"time"

	"github.com/nimbusnet/gameclient/pool"
)

// PoolConfig mirrors the object-cache configuration table from the wire
// protocol's external interface: one cap or size per pooled resource kind.
type PoolConfig struct {
	MaxWriters, MaxReaders         int
	MaxMessages, MaxMessageBuffers int
	MaxSocketAsyncEventArgs        int
	MaxActionDispatcherTasks       int
	MaxAutoRecyclingArrays         int

	ExtraSmallBlockSize, MaxExtraSmallBlocks int
	SmallBlockSize, MaxSmallBlocks           int
	MediumBlockSize, MaxMediumBlocks         int
	LargeBlockSize, MaxLargeBlocks           int
	ExtraLargeBlockSize, MaxExtraLargeBlocks int

	MaxMessageReceivedEventArgs int
}

// DefaultPoolConfig returns the recommended defaults: writers/readers
// 2/2, messages/buffers 4/4, op records 32, size classes 16/64/256/1024/4096
// bytes at 2 each, event-args cap 4.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxWriters:               2,
		MaxReaders:               2,
		MaxMessages:              4,
		MaxMessageBuffers:        4,
		MaxSocketAsyncEventArgs:  32,
		MaxActionDispatcherTasks: 64,
		MaxAutoRecyclingArrays:   4,

		ExtraSmallBlockSize: 16, MaxExtraSmallBlocks: 2,
		SmallBlockSize: 64, MaxSmallBlocks: 2,
		MediumBlockSize: 256, MaxMediumBlocks: 2,
		LargeBlockSize: 1024, MaxLargeBlocks: 2,
		ExtraLargeBlockSize: 4096, MaxExtraLargeBlocks: 2,

		MaxMessageReceivedEventArgs: 4,
	}
}

func (c PoolConfig) memoryPoolConfig() pool.MemoryPoolConfig {
	return pool.MemoryPoolConfig{
		ExtraSmall: pool.SizeClassConfig{Size: c.ExtraSmallBlockSize, Capacity: c.MaxExtraSmallBlocks},
		Small:      pool.SizeClassConfig{Size: c.SmallBlockSize, Capacity: c.MaxSmallBlocks},
		Medium:     pool.SizeClassConfig{Size: c.MediumBlockSize, Capacity: c.MaxMediumBlocks},
		Large:      pool.SizeClassConfig{Size: c.LargeBlockSize, Capacity: c.MaxLargeBlocks},
		ExtraLarge: pool.SizeClassConfig{Size: c.ExtraLargeBlockSize, Capacity: c.MaxExtraLargeBlocks},
	}
}

// Config holds the facade-level settings layered on top of PoolConfig.
type Config struct {
	// HandshakeTimeout bounds how long Connect waits on the setup signal
	// before forcing a disconnect.
	HandshakeTimeout time.Duration

	// RTTSampleWindow is the rolling window size (rounded up to a power
	// of two) over which SmoothedRTT/Variance are computed.
	RTTSampleWindow int

	// RTTInFlightCapacity bounds the RTT tracker's outbound-ping slot map:
	// how many sent-but-unacked pings it can track at once. This is its
	// own knob, not max_socket_async_event_args — that cap belongs to the
	// transport's per-read operation-record pool (transport.Config), an
	// unrelated quantity that happened to share a default value.
	RTTInFlightCapacity int

	Pool PoolConfig
}

// DefaultConfig returns sensible defaults matching the teacher's
// per-package DefaultConfig convention.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout:    10 * time.Second,
		RTTSampleWindow:     8,
		RTTInFlightCapacity: 32,
		Pool:                DefaultPoolConfig(),
	}
}
