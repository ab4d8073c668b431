// File: transport/config.go
// Author: momentics <momentics@gmail.com>

package transport

import (
	"time"

	"github.com/nimbusnet/gameclient/message"
	"github.com/nimbusnet/gameclient/pool"
)

// HelloProducer builds the first message sent on the reliable channel once
// both sockets are dialed. Implementations typically return an application
// message carrying client-specific hello payload; the Configure command
// that completes the handshake is sent by the peer, not by this side.
type HelloProducer func(sendPool *pool.MemoryPool) *message.Message

// Config configures a bi-channel Connection. A single Addr dials both
// channels unless ReliableAddr/UnreliableAddr override it individually.
type Config struct {
	Addr           string
	ReliableAddr   string
	UnreliableAddr string

	// NoDelay disables Nagle's algorithm on the reliable channel.
	NoDelay bool

	// HandshakeTimeout is carried in the config but read by nothing: the
	// Connection does not enforce a handshake deadline, and the client
	// facade's wait is bounded by client.Config.HandshakeTimeout instead.
	HandshakeTimeout time.Duration

	// ReadBufferSize sizes each pooled buffer handed to a single
	// unreliable-channel datagram read (1500 when zero or negative).
	// Reliable reads ignore it and size each buffer to the frame's length
	// prefix.
	ReadBufferSize int

	// SendBufferBytes/RecvBufferBytes set the OS socket buffer sizes via
	// platform-specific tuning; zero leaves the OS default untouched.
	SendBufferBytes int
	RecvBufferBytes int

	PoolConfig pool.MemoryPoolConfig

	// MessagePoolCapacity bounds the receive loops' pooled *message.Message
	// objects (max_messages, spec §6): each inbound frame acquires one and
	// returns it on Release instead of allocating fresh.
	MessagePoolCapacity int

	// MaxSocketAsyncEventArgs bounds the per-read operation-record pool
	// (spec §6): each receive-loop iteration acquires one to carry its
	// transient read bookkeeping. Unrelated to the RTT tracker's in-flight
	// ping capacity, which is client.Config.RTTInFlightCapacity.
	MaxSocketAsyncEventArgs int
}

// DefaultConfig returns sensible defaults grounded on the teacher's
// DefaultConfig-per-package convention.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout:        10 * time.Second,
		ReadBufferSize:          4096,
		SendBufferBytes:         64 * 1024,
		RecvBufferBytes:         64 * 1024,
		PoolConfig:              pool.DefaultMemoryPoolConfig(),
		MessagePoolCapacity:     4,
		MaxSocketAsyncEventArgs: 32,
	}
}

func (c Config) reliableAddr() string {
	if c.ReliableAddr != "" {
		return c.ReliableAddr
	}
	return c.Addr
}

func (c Config) unreliableAddr() string {
	if c.UnreliableAddr != "" {
		return c.UnreliableAddr
	}
	return c.Addr
}
