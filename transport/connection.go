// File: transport/connection.go
// Author: momentics <momentics@gmail.com>
//
// Connection is the bi-channel client transport: a reliable TCP stream
// carrying length-prefixed frames and an unreliable UDP socket carrying one
// message per datagram. It owns no protocol semantics beyond framing and
// the connect/disconnect lifecycle; the facade interprets message content.

package transport

import (
	"encoding/binary"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/nimbusnet/gameclient/api"
	"github.com/nimbusnet/gameclient/message"
	"github.com/nimbusnet/gameclient/pool"
)

// ReceivedFunc is invoked once per decoded inbound message. The callback
// does not own msg past the call; it must not retain msg.Payload() bytes.
type ReceivedFunc func(msg *message.Message, mode api.SendMode)

// DisconnectedFunc is invoked exactly once per Connection lifetime, on
// whichever path (local or peer-initiated) tears the connection down first.
type DisconnectedFunc func(locallyInitiated bool, socketErr error, exception error)

// Connection is safe for concurrent use. Send may be called from any
// goroutine; the receive loops run internally once Connect succeeds.
type Connection struct {
	cfg   Config
	hello HelloProducer

	mu           sync.Mutex
	state        State
	reliable     api.NetConn
	unreliable   api.NetConn
	reliableRA   net.Addr
	unreliableRA net.Addr

	reliablePool   *pool.MemoryPool
	unreliablePool *pool.MemoryPool
	sendPool       *pool.MemoryPool

	msgPool *message.Pool
	readOps *pool.BoundedObjectPool[*readOp]

	onReceived     ReceivedFunc
	onDisconnected DisconnectedFunc

	interruptedCount atomic.Int64
	disconnectOnce   sync.Once
	wg               sync.WaitGroup
}

// New builds a Connection in the Disconnected state. hello is called once,
// after both sockets are dialed, to build the first reliable-channel
// message.
func New(cfg Config, hello HelloProducer) *Connection {
	return &Connection{
		cfg:            cfg,
		hello:          hello,
		state:          Disconnected,
		reliablePool:   pool.NewMemoryPool(cfg.PoolConfig),
		unreliablePool: pool.NewMemoryPool(cfg.PoolConfig),
		sendPool:       pool.NewMemoryPool(cfg.PoolConfig),
		msgPool:        message.NewPool(cfg.MessagePoolCapacity),
		readOps:        pool.NewBoundedObjectPool(cfg.MaxSocketAsyncEventArgs, func() *readOp { return &readOp{} }),
	}
}

// SetCallbacks registers the receive and disconnect callbacks. Must be
// called before Connect; the receive callback is looked up on every
// delivered message and the disconnect callback once at teardown.
func (c *Connection) SetCallbacks(onReceived ReceivedFunc, onDisconnected DisconnectedFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onReceived = onReceived
	c.onDisconnected = onDisconnected
}

// State reports the connection's current lifecycle state.
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Connection) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// InterruptedCount reports how many times a reliable write failed and was
// retried, whether or not the retry then succeeded.
func (c *Connection) InterruptedCount() int64 {
	return c.interruptedCount.Load()
}

// Endpoint reports the resolved remote address for "tcp" or "udp"; ok is
// false before Connect succeeds or for an unrecognized name.
func (c *Connection) Endpoint(name string) (addr net.Addr, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch name {
	case "tcp":
		return c.reliableRA, c.reliableRA != nil
	case "udp":
		return c.unreliableRA, c.unreliableRA != nil
	default:
		return nil, false
	}
}

// Connect dials both channels, tunes their socket buffers, sends the hello
// message on the reliable channel, and starts both receive loops. It does
// not wait for the peer's Configure reply; the facade drives that wait and
// calls MarkConnected once it arrives.
func (c *Connection) Connect() error {
	c.setState(Connecting)

	rconn, err := net.Dial("tcp", c.cfg.reliableAddr())
	if err != nil {
		c.setState(Disconnected)
		return api.NewError(api.ErrCodeConnectFailed, "reliable dial failed").
			WithContext("addr", c.cfg.reliableAddr()).WithContext("cause", err.Error())
	}
	if tcp, ok := rconn.(*net.TCPConn); ok {
		_ = tcp.SetNoDelay(c.cfg.NoDelay)
		_ = tuneSocketBuffers(tcp, c.cfg.SendBufferBytes, c.cfg.RecvBufferBytes)
	}

	uconn, err := net.Dial("udp", c.cfg.unreliableAddr())
	if err != nil {
		rconn.Close()
		c.setState(Disconnected)
		return api.NewError(api.ErrCodeConnectFailed, "unreliable dial failed").
			WithContext("addr", c.cfg.unreliableAddr()).WithContext("cause", err.Error())
	}
	if udp, ok := uconn.(*net.UDPConn); ok {
		_ = tuneSocketBuffers(udp, c.cfg.SendBufferBytes, c.cfg.RecvBufferBytes)
	}

	c.mu.Lock()
	c.reliable = rconn
	c.unreliable = uconn
	c.reliableRA = rconn.RemoteAddr()
	c.unreliableRA = uconn.RemoteAddr()
	c.mu.Unlock()

	if c.hello != nil {
		hello := c.hello(c.sendPool)
		sent := c.Send(hello, api.Reliable)
		hello.Release()
		if !sent {
			c.triggerDisconnect(false, fmt.Errorf("transport: failed to send hello"), nil)
			return api.NewError(api.ErrCodeConnectFailed, "failed to send hello")
		}
	}

	c.wg.Add(2)
	go c.recvReliableLoop()
	go c.recvUnreliableLoop()
	return nil
}

// MarkConnected transitions Connecting to Connected once the facade
// recognizes the peer's Configure command.
func (c *Connection) MarkConnected() {
	c.setState(Connected)
}

func (c *Connection) channelConn(mode api.SendMode) api.NetConn {
	c.mu.Lock()
	defer c.mu.Unlock()
	if mode == api.Reliable {
		return c.reliable
	}
	return c.unreliable
}

// Send writes msg on the given channel. The caller retains ownership of msg
// and must Release it; Connection does not hold a reference after return.
func (c *Connection) Send(msg *message.Message, mode api.SendMode) bool {
	conn := c.channelConn(mode)
	if conn == nil {
		return false
	}
	data := msg.ToBuffer().Bytes()

	if mode == api.Unreliable {
		_, err := conn.Write(data)
		return err == nil
	}

	if writeReliableFrame(conn, data) {
		return true
	}

	// One transient retry before declaring the reliable channel down,
	// matching the Interrupted state's "momentary outage" purpose.
	c.setState(Interrupted)
	c.interruptedCount.Add(1)
	if retryConn := c.channelConn(mode); retryConn != nil && writeReliableFrame(retryConn, data) {
		c.setState(Connected)
		return true
	}
	c.triggerDisconnect(false, fmt.Errorf("transport: reliable write failed"), nil)
	return false
}

func writeReliableFrame(conn api.NetConn, data []byte) bool {
	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(data)))
	if _, err := conn.Write(lenPrefix[:]); err != nil {
		return false
	}
	if _, err := conn.Write(data); err != nil {
		return false
	}
	return true
}

// Disconnect tears the connection down and waits for both receive loops to
// exit. It is idempotent: only the first call (whether user-initiated here
// or peer-initiated via a receive loop error) performs the teardown; later
// calls return false.
func (c *Connection) Disconnect() bool {
	fired := false
	c.disconnectOnce.Do(func() { fired = true })
	if fired {
		// teardown runs outside the Once: closing the sockets makes the
		// reliable loop call triggerDisconnect, which must find the Once
		// already complete rather than block on it while teardown waits
		// on that loop's wg.Done.
		c.teardown(true, nil, nil)
	}
	return fired
}

// triggerDisconnect is called from inside a receive loop goroutine on a
// terminal channel error. It must not block on c.wg directly (that would
// deadlock against its own pending wg.Done), so teardown runs on a new
// goroutine once disconnectOnce claims the transition.
func (c *Connection) triggerDisconnect(locallyInitiated bool, socketErr, exception error) {
	c.disconnectOnce.Do(func() {
		go c.teardown(locallyInitiated, socketErr, exception)
	})
}

func (c *Connection) teardown(locallyInitiated bool, socketErr, exception error) {
	c.setState(Disconnecting)

	c.mu.Lock()
	r, u := c.reliable, c.unreliable
	c.mu.Unlock()

	if r != nil {
		r.Close()
	}
	if u != nil {
		u.Close()
	}
	c.wg.Wait()

	c.setState(Disconnected)

	c.mu.Lock()
	cb := c.onDisconnected
	c.mu.Unlock()
	if cb != nil {
		cb(locallyInitiated, socketErr, exception)
	}
}

// deliver hands msg to the registered receive callback, which owns msg
// from this point and is responsible for releasing it on every path
// (immediately for synchronously-handled messages, or later for ones
// handed off to a deferred dispatcher). The recover here is a safety net
// for an unexpected panic escaping the callback itself, not the normal
// path: without it, a panicking callback would leak msg's buffer forever.
func (c *Connection) deliver(msg *message.Message, mode api.SendMode) {
	c.mu.Lock()
	cb := c.onReceived
	c.mu.Unlock()
	if cb == nil {
		msg.Release()
		return
	}
	defer func() {
		if recover() != nil {
			msg.Release()
		}
	}()
	cb(msg, mode)
}
