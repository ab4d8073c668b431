// File: transport/unreliable.go
// Author: momentics <momentics@gmail.com>

package transport

import (
	"errors"
	"net"

	"github.com/nimbusnet/gameclient/api"
)

// recvUnreliableLoop reads one message per datagram. Unlike the reliable
// loop, a decode or transient read error here never tears the connection
// down: UDP loss and reordering are expected, and only the reliable
// channel's health determines session lifetime. The loop itself exits only
// once the socket is closed by Disconnect/teardown.
func (c *Connection) recvUnreliableLoop() {
	defer c.wg.Done()

	conn := c.channelConn(api.Unreliable)
	if conn == nil {
		return
	}

	readSize := c.cfg.ReadBufferSize
	if readSize <= 0 {
		readSize = 1500
	}

	for {
		op := c.readOps.Acquire()

		op.buf = c.unreliablePool.Acquire(readSize)
		op.n, op.err = conn.Read(op.buf.Bytes())
		if op.err != nil {
			op.buf.Release()
			err := op.err
			op.Reset()
			c.readOps.Release(op)
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}
		if err := op.buf.Resize(op.n); err != nil {
			op.buf.Release()
			op.Reset()
			c.readOps.Release(op)
			continue
		}

		msg, err := c.msgPool.FromBuffer(op.buf)
		op.buf.Release()
		op.Reset()
		c.readOps.Release(op)
		if err != nil {
			continue
		}
		c.deliver(msg, api.Unreliable)
	}
}
