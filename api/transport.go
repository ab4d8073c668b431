// File: api/transport.go
// Author: momentics <momentics@gmail.com>
//
// Defines the socket abstraction the bi-channel connection drives. Any
// *net.TCPConn or *net.UDPConn satisfies it directly; the tests drive it
// over real loopback TCP and UDP sockets.

package api

import (
	"net"
	"time"
)

// NetConn abstracts one channel's underlying socket (reliable stream or
// unreliable datagram).
type NetConn interface {
	// Read reads into a preallocated buffer.
	Read(p []byte) (n int, err error)

	// Write writes buffer contents into the connection.
	Write(p []byte) (n int, err error)

	// Close shuts down the connection.
	Close() error

	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error

	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}
