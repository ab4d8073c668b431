// File: client/facade.go
// Author: momentics <momentics@gmail.com>
//
// Event registration and the internal receive/disconnect callbacks wired
// into transport.Connection: ping-ack RTT bookkeeping, Configure-command
// handshake completion, and user event fan-out (message-received,
// disconnected), matching the teacher's handler-slice-under-a-lock pattern
// (client.WebSocketClient.handlers / RegisterHandler) generalized from one
// lifecycle interface to two typed event callbacks.

package client

import (
	"time"

	"github.com/nimbusnet/gameclient/api"
	"github.com/nimbusnet/gameclient/message"
)

// MessageReceivedHandler is invoked for each application message. ev's
// lifetime ends when the handler returns; it must not retain ev.Message
// past the call.
type MessageReceivedHandler func(ev *api.MessageReceivedEvent)

// DisconnectedHandler is invoked exactly once per session.
type DisconnectedHandler func(ev *api.DisconnectedEvent)

// OnMessageReceived registers h to be called for every inbound message
// that is neither a command nor an ack (pings included). A message that
// arrives while the dispatcher queue is full is dropped without reaching h.
func (c *Client) OnMessageReceived(h MessageReceivedHandler) {
	c.mu.Lock()
	c.msgHandlers = append(c.msgHandlers, h)
	c.mu.Unlock()
}

// OnDisconnected registers h to be called once when the session ends,
// whether locally or peer initiated.
func (c *Client) OnDisconnected(h DisconnectedHandler) {
	c.mu.Lock()
	c.disconnectHandlers = append(c.disconnectHandlers, h)
	c.mu.Unlock()
}

// handleReceived is the transport-level receive callback. It owns msg: it
// must release it on every path, synchronously or via the deferred
// dispatcher.
func (c *Client) handleReceived(msg *message.Message, mode api.SendMode) {
	switch {
	case msg.IsAck():
		// Stale or spoofed acks are non-fatal no-ops; the error is
		// intentionally discarded (S4).
		_ = c.rtt.RecordInbound(msg.PingCode(), time.Now())
		msg.Release()
	case msg.IsCommand() && msg.Tag() == message.TagConfigure:
		c.handleConfigure(msg)
	case msg.IsCommand():
		// Other commands are transport-internal and never reach user
		// handlers.
		msg.Release()
	default:
		c.dispatchMessageReceived(msg, mode)
	}
}

func (c *Client) handleConfigure(msg *message.Message) {
	id, err := msg.Reader().ReadUint16()
	msg.Release()
	if err != nil {
		// Malformed Configure payload: nothing to raise; the handshake
		// simply never completes and the caller's timeout fires.
		return
	}

	c.mu.Lock()
	c.id = id
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		conn.MarkConnected()
	}
	c.setupOnce.Do(func() { close(c.setupCh) })
}

func (c *Client) dispatchMessageReceived(msg *message.Message, mode api.SendMode) {
	ev := c.eventPool.Acquire()
	ev.Message = msg
	ev.SendMode = mode
	queued := c.dispatcher.Dispatch(func() {
		c.fireMessageReceived(ev)
		msg.Release()
		ev.Reset()
		c.eventPool.Release(ev)
	})
	if !queued {
		// Dispatcher at max_action_dispatcher_tasks capacity: drop the
		// event rather than leak the buffer.
		msg.Release()
		ev.Reset()
		c.eventPool.Release(ev)
	}
}

func (c *Client) fireMessageReceived(ev *api.MessageReceivedEvent) {
	c.mu.Lock()
	handlers := append([]MessageReceivedHandler(nil), c.msgHandlers...)
	c.mu.Unlock()
	for _, h := range handlers {
		invokeMessageHandler(h, ev)
	}
}

func invokeMessageHandler(h MessageReceivedHandler, ev *api.MessageReceivedEvent) {
	defer func() { recover() }()
	h(ev)
}

func (c *Client) handleDisconnected(locallyInitiated bool, socketErr, exception error) {
	ev := &api.DisconnectedEvent{
		LocallyInitiated: locallyInitiated,
		SocketError:      socketErr,
		Exception:        exception,
	}
	c.mu.Lock()
	handlers := append([]DisconnectedHandler(nil), c.disconnectHandlers...)
	c.mu.Unlock()
	for _, h := range handlers {
		invokeDisconnectedHandler(h, ev)
	}
}

func invokeDisconnectedHandler(h DisconnectedHandler, ev *api.DisconnectedEvent) {
	defer func() { recover() }()
	h(ev)
}
