// File: message/message.go
// Author: momentics <momentics@gmail.com>
//
// Message is a typed view over a pooled buffer: tag, ping-or-ack flags,
// optional ping code, command flag, and a payload cursor. A message owns
// exactly one strong reference to its buffer; Release releases it.

package message

import (
	"github.com/nimbusnet/gameclient/api"
)

// Message is a logical unit of payload exchanged over either channel.
type Message struct {
	tag        uint16
	isCommand  bool
	isPing     bool
	isAck      bool
	pingCode   uint16
	buf        api.Buffer
	payloadOff int
	pool       *Pool
}

// New builds an outbound application message. For ping/ack messages use
// NewPing/NewAck instead so the ping code is framed correctly. The returned
// Message is freshly allocated; callers on a hot receive/dispatch path
// should go through a Pool instead (see pool.go).
func New(tag uint16, isCommand bool, payload []byte, bufPool api.BufferPool) *Message {
	m := &Message{}
	fillMessage(m, tag, isCommand, false, false, 0, payload, bufPool)
	return m
}

// NewPing builds an outbound ping message carrying pingCode; the caller
// records pingCode with the rtt.Tracker before sending.
func NewPing(pingCode uint16, bufPool api.BufferPool) *Message {
	m := &Message{}
	fillMessage(m, TagPing, false, true, false, pingCode, nil, bufPool)
	return m
}

// NewAck builds an outbound ack message echoing pingCode back to the peer
// that sent the corresponding ping.
func NewAck(pingCode uint16, bufPool api.BufferPool) *Message {
	m := &Message{}
	fillMessage(m, TagAck, false, false, true, pingCode, nil, bufPool)
	return m
}

// NewConfigure builds the handshake Configure command carrying the
// server-assigned client id.
func NewConfigure(clientID uint16, bufPool api.BufferPool) *Message {
	payload := []byte{byte(clientID >> 8), byte(clientID)}
	m := &Message{}
	fillMessage(m, TagConfigure, true, false, false, 0, payload, bufPool)
	return m
}

// fillMessage frames (tag, payload, ...) into a freshly acquired buffer and
// populates m's fields in place, so both the package-level constructors and
// Pool's pooled ones share one framing path.
func fillMessage(m *Message, tag uint16, isCommand, isPing, isAck bool, pingCode uint16, payload []byte, bufPool api.BufferPool) {
	frameLen := HeaderLen + len(payload)
	if isPing || isAck {
		frameLen += PingCodeLen
	}
	buf := bufPool.Acquire(frameLen)
	encodeInto(buf.Bytes()[:frameLen], tag, isCommand, isPing, isAck, pingCode, payload)

	off := HeaderLen
	if isPing || isAck {
		off += PingCodeLen
	}
	m.tag = tag
	m.isCommand = isCommand
	m.isPing = isPing
	m.isAck = isAck
	m.pingCode = pingCode
	m.buf = buf
	m.payloadOff = off
}

// FromBuffer parses a received frame, taking shared ownership of buf (its
// reference count is retained, not copied). The caller's own reference to
// buf must still be released exactly once by the receive loop. The
// returned Message is freshly allocated; the receive loops on the hot path
// use Pool.FromBuffer instead so repeated inbound traffic doesn't allocate
// a Message per frame.
func FromBuffer(buf api.Buffer) (*Message, error) {
	m := &Message{}
	if err := fillFromBuffer(m, buf); err != nil {
		return nil, err
	}
	return m, nil
}

func fillFromBuffer(m *Message, buf api.Buffer) error {
	tag, isCommand, pingCode, payloadOff, err := decodeHeader(buf.Bytes())
	if err != nil {
		return err
	}
	m.tag = tag & TagMask
	m.isCommand = isCommand
	m.isPing = isPingOrAck(tag) && tag == TagPing
	m.isAck = isPingOrAck(tag) && tag == TagAck
	m.pingCode = pingCode
	m.buf = buf.Retain()
	m.payloadOff = payloadOff
	return nil
}

func (m *Message) Tag() uint16      { return m.tag }
func (m *Message) IsCommand() bool  { return m.isCommand }
func (m *Message) IsPing() bool     { return m.isPing }
func (m *Message) IsAck() bool      { return m.isAck }
func (m *Message) PingCode() uint16 { return m.pingCode }

// Payload returns the view of the message body inside its backing buffer.
func (m *Message) Payload() []byte {
	return m.buf.Bytes()[m.payloadOff:]
}

// Reader returns a fresh cursor over the payload region.
func (m *Message) Reader() *Reader {
	return NewReader(m.Payload())
}

// ToBuffer returns the message's own backing buffer, already framed for
// transport. The connection does not retain it after handing it to the OS.
func (m *Message) ToBuffer() api.Buffer {
	return m.buf
}

// Release releases the message's single strong reference to its buffer and,
// if m came from a Pool, returns m itself for reuse.
func (m *Message) Release() {
	if m.buf != nil {
		m.buf.Release()
		m.buf = nil
	}
	if p := m.pool; p != nil {
		m.pool = nil
		m.Reset()
		p.release(m)
	}
}

// Reset clears the message for reuse from a Pool.
func (m *Message) Reset() {
	*m = Message{}
}
