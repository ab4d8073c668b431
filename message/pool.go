// File: message/pool.go
// Author: momentics <momentics@gmail.com>
//
// Pool recycles *Message instances, the generic object pool (spec §4.2)
// applied to the one type that sits squarely on the receive hot path: a
// Message is constructed and released once per inbound frame. Grounded on
// pool.BoundedObjectPool[T], the same capacity-capped channel-backed store
// used for event-args and per-read operation records elsewhere in this
// module.

package message

import (
	"github.com/nimbusnet/gameclient/api"
	"github.com/nimbusnet/gameclient/pool"
)

// Pool keeps at most max_messages (spec §6) idle Message objects for reuse;
// the number of live Messages is not bounded. Acquire never blocks: when no
// idle instance is stored it falls back to a fresh allocation, and a
// Release past capacity drops the instance, exactly like the size-classed
// buffer pool it sits alongside.
type Pool struct {
	objs *pool.BoundedObjectPool[*Message]
}

// NewPool builds a message object pool holding up to capacity recycled
// instances.
func NewPool(capacity int) *Pool {
	return &Pool{objs: pool.NewBoundedObjectPool(capacity, func() *Message { return &Message{} })}
}

// FromBuffer parses a received frame into a pooled Message, taking shared
// ownership of buf exactly as the package-level FromBuffer does. The
// returned Message returns itself to p on Release instead of being left
// for the garbage collector.
func (p *Pool) FromBuffer(buf api.Buffer) (*Message, error) {
	m := p.objs.Acquire()
	if err := fillFromBuffer(m, buf); err != nil {
		// m was never fully populated; drop it rather than pool a message
		// in an indeterminate state.
		return nil, err
	}
	m.pool = p
	return m, nil
}

// New, NewPing, NewAck, and NewConfigure mirror the package-level
// constructors of the same name, drawing the Message instance from p.
func (p *Pool) New(tag uint16, isCommand bool, payload []byte, bufPool api.BufferPool) *Message {
	return p.build(tag, isCommand, false, false, 0, payload, bufPool)
}

func (p *Pool) NewPing(pingCode uint16, bufPool api.BufferPool) *Message {
	return p.build(TagPing, false, true, false, pingCode, nil, bufPool)
}

func (p *Pool) NewAck(pingCode uint16, bufPool api.BufferPool) *Message {
	return p.build(TagAck, false, false, true, pingCode, nil, bufPool)
}

func (p *Pool) NewConfigure(clientID uint16, bufPool api.BufferPool) *Message {
	payload := []byte{byte(clientID >> 8), byte(clientID)}
	return p.build(TagConfigure, true, false, false, 0, payload, bufPool)
}

func (p *Pool) build(tag uint16, isCommand, isPing, isAck bool, pingCode uint16, payload []byte, bufPool api.BufferPool) *Message {
	m := p.objs.Acquire()
	fillMessage(m, tag, isCommand, isPing, isAck, pingCode, payload, bufPool)
	m.pool = p
	return m
}

func (p *Pool) release(m *Message) {
	p.objs.Release(m)
}
