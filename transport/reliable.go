// File: transport/reliable.go
// Author: momentics <momentics@gmail.com>

package transport

import (
	"encoding/binary"
	"errors"
	"io"
	"log"
	"net"

	"github.com/nimbusnet/gameclient/api"
)

const maxReliableFrame = 1 << 20 // 1 MiB guards against a corrupt length prefix

// recvReliableLoop reads length-prefixed frames off the reliable channel
// until a read fails (including the socket closing) or a length prefix is
// out of range; a frame body that fails to decode is skipped and the loop
// goes on. Any I/O error is terminal for the whole connection:
// per-invariant, reliable-channel failures always end the session.
func (c *Connection) recvReliableLoop() {
	defer c.wg.Done()

	conn := c.channelConn(api.Reliable)
	if conn == nil {
		return
	}

	var lenPrefix [4]byte
	for {
		op := c.readOps.Acquire()

		if _, err := io.ReadFull(conn, lenPrefix[:]); err != nil {
			op.Reset()
			c.readOps.Release(op)
			c.endReliableLoop(err)
			return
		}
		n := binary.BigEndian.Uint32(lenPrefix[:])
		if n == 0 || n > maxReliableFrame {
			op.Reset()
			c.readOps.Release(op)
			c.endReliableLoop(api.NewError(api.ErrCodeInternal, "reliable frame length out of range"))
			return
		}

		op.buf = c.reliablePool.Acquire(int(n))
		op.n, op.err = io.ReadFull(conn, op.buf.Bytes())
		if op.err != nil {
			op.buf.Release()
			err := op.err
			op.Reset()
			c.readOps.Release(op)
			c.endReliableLoop(err)
			return
		}

		msg, err := c.msgPool.FromBuffer(op.buf)
		op.buf.Release()
		op.Reset()
		c.readOps.Release(op)
		if err != nil {
			// Malformed frame body: log-and-continue, not a disconnect.
			log.Printf("transport: dropping malformed reliable frame: %v", err)
			continue
		}
		c.deliver(msg, api.Reliable)
	}
}

func (c *Connection) endReliableLoop(err error) {
	if errors.Is(err, net.ErrClosed) || errors.Is(err, io.EOF) {
		c.triggerDisconnect(false, nil, nil)
		return
	}
	c.triggerDisconnect(false, err, nil)
}
