// File: message/codec.go
// Author: momentics <momentics@gmail.com>
//
// Bit-exact header encode/decode, generalized from the teacher's
// core/protocol frame codec (FIN/opcode/mask-bit packing over
// encoding/binary.BigEndian) to this protocol's tag+command+ping/ack
// header.

package message

import (
	"encoding/binary"
	"errors"
)

var (
	// ErrFrameTooShort is returned when a received buffer is too small to
	// contain even the fixed header.
	ErrFrameTooShort = errors.New("message: frame too short")
)

// encodeInto writes the header, optional ping code, and payload into dst,
// which must be exactly the frame length fillMessage computed.
func encodeInto(dst []byte, tag uint16, isCommand, isPing, isAck bool, pingCode uint16, payload []byte) {
	header := tag & TagMask
	if isCommand {
		header |= CommandBit
	}
	binary.BigEndian.PutUint16(dst[0:2], header)
	off := HeaderLen
	if isPing || isAck {
		binary.BigEndian.PutUint16(dst[off:off+PingCodeLen], pingCode)
		off += PingCodeLen
	}
	copy(dst[off:], payload)
}

// decodeHeader parses raw's fixed header and optional ping code, returning
// the tag (command bit cleared), the command flag, the ping code (zero if
// absent), and the byte offset where the payload begins.
func decodeHeader(raw []byte) (tag uint16, isCommand bool, pingCode uint16, payloadOff int, err error) {
	if len(raw) < HeaderLen {
		return 0, false, 0, 0, ErrFrameTooShort
	}
	header := binary.BigEndian.Uint16(raw[0:2])
	isCommand = header&CommandBit != 0
	tag = header & TagMask
	payloadOff = HeaderLen
	if isPingOrAck(tag) {
		if len(raw) < HeaderLen+PingCodeLen {
			return 0, false, 0, 0, ErrFrameTooShort
		}
		pingCode = binary.BigEndian.Uint16(raw[HeaderLen : HeaderLen+PingCodeLen])
		payloadOff += PingCodeLen
	}
	return tag, isCommand, pingCode, payloadOff, nil
}
