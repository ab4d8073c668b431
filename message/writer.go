// File: message/writer.go
// Author: momentics <momentics@gmail.com>
//
// Writer is a cursor for building a message payload before framing it into
// a pooled buffer via New. Writers themselves are not pooled.

package message

import "encoding/binary"

// Writer accumulates payload bytes for an outbound message.
type Writer struct {
	buf []byte
}

// NewWriter returns a writer with the given initial capacity hint.
func NewWriter(capacityHint int) *Writer {
	return &Writer{buf: make([]byte, 0, capacityHint)}
}

// Reset clears the writer so the same Writer can be reused.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
}

func (w *Writer) WriteUint16(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) WriteUint32(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) WriteBytes(p []byte) {
	w.buf = append(w.buf, p...)
}

// Bytes returns the accumulated payload.
func (w *Writer) Bytes() []byte { return w.buf }
