// File: client/client.go
// Author: momentics <momentics@gmail.com>
//
// Client owns one bi-channel transport.Connection at a time, the
// server-assigned client id, the one-shot handshake setup signal, and the
// RTT helper. It is the package's core lifecycle type; event registration
// and dispatch live in facade.go.

package client

import (
	"net"
	"sync"
	"time"

	"github.com/nimbusnet/gameclient/api"
	"github.com/nimbusnet/gameclient/message"
	"github.com/nimbusnet/gameclient/pool"
	"github.com/nimbusnet/gameclient/rtt"
	"github.com/nimbusnet/gameclient/transport"
)

// Client is safe for concurrent use. Only one connection is owned at a
// time; Connect while already connected disposes the previous one first.
type Client struct {
	cfg Config

	mu        sync.Mutex
	conn      *transport.Connection
	id        uint16
	setupCh   chan struct{}
	setupOnce sync.Once

	sendPool *pool.MemoryPool
	rtt      *rtt.Tracker

	dispatcher *actionDispatcher
	eventPool  *pool.BoundedObjectPool[*api.MessageReceivedEvent]

	msgHandlers        []MessageReceivedHandler
	disconnectHandlers []DisconnectedHandler
}

// New builds a Client with no connection attached.
func New(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		sendPool:   pool.NewMemoryPool(cfg.Pool.memoryPoolConfig()),
		rtt:        rtt.New(cfg.RTTInFlightCapacity, cfg.RTTSampleWindow),
		dispatcher: newActionDispatcher(cfg.Pool.MaxActionDispatcherTasks),
		eventPool: pool.NewBoundedObjectPool(cfg.Pool.MaxMessageReceivedEventArgs, func() *api.MessageReceivedEvent {
			return &api.MessageReceivedEvent{}
		}),
		setupCh: make(chan struct{}),
	}
}

// SendPool exposes the pool used to frame outbound messages, so callers
// can build messages with message.New/NewPing/etc without owning their own
// pool instance.
func (c *Client) SendPool() *pool.MemoryPool {
	return c.sendPool
}

// RTT exposes the round-trip-time helper for callers that want to inspect
// SmoothedRTT/Variance/SampleCount directly.
func (c *Client) RTT() *rtt.Tracker {
	return c.rtt
}

// ID returns the server-assigned client id. Valid only once
// ConnectionState reports Connected.
func (c *Client) ID() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// ConnectionState reports the underlying connection's lifecycle state, or
// Disconnected if no connection has ever been attached.
func (c *Client) ConnectionState() transport.State {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return transport.Disconnected
	}
	return conn.State()
}

// GetRemoteEndpoint reports the resolved remote address for "tcp" or
// "udp"; ok is false before a successful Connect or for an unknown name.
func (c *Client) GetRemoteEndpoint(name string) (net.Addr, bool) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return nil, false
	}
	return conn.Endpoint(name)
}

// Connect replaces any existing connection, resets the setup signal,
// installs the internal receive/disconnect callbacks, triggers the
// connection's connect, and blocks the caller up to HandshakeTimeout
// waiting for the peer's Configure command. On timeout it forces a
// disconnect and returns api.ErrHandshakeTimeout.
func (c *Client) Connect(conn *transport.Connection) error {
	c.mu.Lock()
	prev := c.conn
	c.setupCh = make(chan struct{})
	c.setupOnce = sync.Once{}
	c.conn = conn
	c.id = 0
	c.mu.Unlock()

	if prev != nil {
		prev.Disconnect()
	}

	conn.SetCallbacks(c.handleReceived, c.handleDisconnected)
	if err := conn.Connect(); err != nil {
		return err
	}

	timeout := c.cfg.HandshakeTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c.mu.Lock()
	setupCh := c.setupCh
	c.mu.Unlock()

	select {
	case <-setupCh:
		return nil
	case <-time.After(timeout):
		conn.Disconnect()
		return api.ErrHandshakeTimeout
	}
}

// ConnectInBackground spawns a single short-lived worker to run the
// blocking Connect and report its outcome via callback. It introduces no
// implicit worker pool.
func (c *Client) ConnectInBackground(conn *transport.Connection, callback func(error)) {
	go func() {
		err := c.Connect(conn)
		if callback != nil {
			callback(err)
		}
	}()
}

// Send records outbound ping bookkeeping (if msg is a ping) and hands msg
// to the connection on the requested channel. Returns false on transport
// failure; no event is raised for send failures.
func (c *Client) Send(msg *message.Message, mode api.SendMode) bool {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return false
	}
	if msg.IsPing() {
		c.rtt.RecordOutbound(msg.PingCode(), time.Now())
	}
	return conn.Send(msg, mode)
}

// Disconnect tears the current connection down. Idempotent: the second and
// subsequent calls in a session return false.
func (c *Client) Disconnect() bool {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return false
	}
	return conn.Disconnect()
}

// Close disconnects (if connected) and stops the action dispatcher. Call
// once the Client itself is no longer needed.
func (c *Client) Close() {
	c.Disconnect()
	c.dispatcher.Close()
}
