// File: message/reader.go
// Author: momentics <momentics@gmail.com>
//
// Reader is a cursor over a message's payload region. Message.Reader
// allocates a fresh one per call; no pool of Readers exists.

package message

import (
	"encoding/binary"
	"errors"
)

var ErrShortRead = errors.New("message: short read")

// Reader walks a payload byte slice sequentially.
type Reader struct {
	data []byte
	pos  int
}

// NewReader wraps data for sequential reading from offset zero.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Reset rebinds the reader to data so the same Reader can be reused.
func (r *Reader) Reset(data []byte) {
	r.data = data
	r.pos = 0
}

func (r *Reader) Remaining() int { return len(r.data) - r.pos }

func (r *Reader) ReadUint16() (uint16, error) {
	if r.Remaining() < 2 {
		return 0, ErrShortRead
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	if r.Remaining() < 4 {
		return 0, ErrShortRead
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadBytes returns the next n bytes without copying.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, ErrShortRead
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

// Rest returns everything from the current position to the end.
func (r *Reader) Rest() []byte {
	return r.data[r.pos:]
}
