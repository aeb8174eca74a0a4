package ws

import (
	"encoding/binary"
	"fmt"
)

// OpCode represents operation code.
type OpCode byte

// Operation codes defined by RFC 6455.
// See https://tools.ietf.org/html/rfc6455#section-5.2
const (
	OpContinuation OpCode = 0x0
	OpText         OpCode = 0x1
	OpBinary       OpCode = 0x2
	OpClose        OpCode = 0x8
	OpPing         OpCode = 0x9
	OpPong         OpCode = 0xa
)

// ParseOpCode converts the low 4 bits of the first header byte into an
// OpCode. It returns ErrProtocolOpCodeReserved for any value that is not
// defined by the protocol.
func ParseOpCode(b byte) (OpCode, error) {
	c := OpCode(b & 0x0f)
	switch c {
	case OpContinuation, OpText, OpBinary, OpClose, OpPing, OpPong:
		return c, nil
	}
	return 0, ErrProtocolOpCodeReserved
}

// IsControl checks whether the c is control operation code.
// See https://tools.ietf.org/html/rfc6455#section-5.5
func (c OpCode) IsControl() bool {
	// RFC6455: Control frames are identified by opcodes where
	// the most significant bit of the opcode is 1.
	return c&0x8 != 0
}

// IsData checks whether the c is data operation code.
// See https://tools.ietf.org/html/rfc6455#section-5.6
func (c OpCode) IsData() bool {
	return c&0x8 == 0
}

// IsReserved checks whether the c is reserved operation code.
// See https://tools.ietf.org/html/rfc6455#section-5.2
func (c OpCode) IsReserved() bool {
	// RFC6455:
	// %x3-7 are reserved for further non-control frames
	// %xB-F are reserved for further control frames
	return (0x3 <= c && c <= 0x7) || (0xb <= c && c <= 0xf)
}

func (c OpCode) String() string {
	switch c {
	case OpContinuation:
		return "continuation"
	case OpText:
		return "text"
	case OpBinary:
		return "binary"
	case OpClose:
		return "close"
	case OpPing:
		return "ping"
	case OpPong:
		return "pong"
	}
	return fmt.Sprintf("opcode(0x%x)", byte(c))
}

// StatusCode represents the encoded reason for closure of websocket
// connection.
// See https://tools.ietf.org/html/rfc6455#section-7.4
type StatusCode uint16

// Status codes defined by RFC 6455.
// See https://tools.ietf.org/html/rfc6455#section-7.4.1
const (
	StatusNormalClosure           StatusCode = 1000
	StatusGoingAway               StatusCode = 1001
	StatusProtocolError           StatusCode = 1002
	StatusUnsupportedData         StatusCode = 1003
	StatusNoMeaningYet            StatusCode = 1004
	StatusNoStatusRcvd            StatusCode = 1005
	StatusAbnormalClosure         StatusCode = 1006
	StatusInvalidFramePayloadData StatusCode = 1007
	StatusPolicyViolation         StatusCode = 1008
	StatusMessageTooBig           StatusCode = 1009
	StatusMandatoryExt            StatusCode = 1010
	StatusInternalServerError     StatusCode = 1011
	StatusTLSHandshake            StatusCode = 1015
)

// Empty reports whether the code is empty.
// Empty code has no meaning neither app level codes nor other.
// A close frame built from an empty code carries no payload.
func (s StatusCode) Empty() bool {
	return s == 0
}

// Header represents websocket frame header.
// See https://tools.ietf.org/html/rfc6455#section-5.2
type Header struct {
	Fin    bool
	Rsv    byte
	OpCode OpCode
	Length int64
	Masked bool
	Mask   [4]byte
}

// Rsv1 reports whether the header has first rsv bit set.
func (h Header) Rsv1() bool { return h.Rsv&bit5 != 0 }

// Rsv2 reports whether the header has second rsv bit set.
func (h Header) Rsv2() bool { return h.Rsv&bit6 != 0 }

// Rsv3 reports whether the header has third rsv bit set.
func (h Header) Rsv3() bool { return h.Rsv&bit7 != 0 }

// Frame represents websocket frame.
// See https://tools.ietf.org/html/rfc6455#section-5.2
type Frame struct {
	Header  Header
	Payload []byte
}

// IsClose reports whether f is a close frame.
func (f Frame) IsClose() bool { return f.Header.OpCode == OpClose }

// IsMasked reports whether f was (or is to be) masked on the wire.
func (f Frame) IsMasked() bool { return f.Header.Masked }

// NewFrame creates frame with given operation code,
// flag of completeness and payload bytes.
func NewFrame(op OpCode, fin bool, p []byte) Frame {
	return Frame{
		Header: Header{
			Fin:    fin,
			OpCode: op,
			Length: int64(len(p)),
		},
		Payload: p,
	}
}

// NewTextFrame creates text frame with s as payload.
// Note that the s is copied in the returned frame payload.
func NewTextFrame(s string) Frame {
	p := make([]byte, len(s))
	copy(p, s)
	return NewFrame(OpText, true, p)
}

// NewBinaryFrame creates binary frame with p as payload.
// Note that p is left as is in the returned frame without copying.
func NewBinaryFrame(p []byte) Frame {
	return NewFrame(OpBinary, true, p)
}

// NewPingFrame creates ping frame with p as payload.
// Note that p is left as is in the returned frame without copying.
func NewPingFrame(p []byte) Frame {
	return NewFrame(OpPing, true, p)
}

// NewPongFrame creates pong frame with p as payload.
// Note that p is left as is in the returned frame.
func NewPongFrame(p []byte) Frame {
	return NewFrame(OpPong, true, p)
}

// NewCloseFrame creates close frame with given closure code.
// If code is empty the frame has no payload, otherwise the payload is the
// code in network byte order.
func NewCloseFrame(code StatusCode) Frame {
	var p []byte
	if !code.Empty() {
		p = make([]byte, 2)
		binary.BigEndian.PutUint16(p, uint16(code))
	}
	return NewFrame(OpClose, true, p)
}

// ParseCloseFrameData returns the status code carried by a close frame
// payload. If there is no status code in the payload the empty status code
// is returned.
func ParseCloseFrameData(payload []byte) StatusCode {
	if len(payload) < 2 {
		// We return empty StatusCode here instead of 1005, so that caller
		// could tell an explicit 1005 apart from no code at all.
		return 0
	}
	return StatusCode(binary.BigEndian.Uint16(payload))
}

// Rsv creates rsv byte representation.
func Rsv(r1, r2, r3 bool) (rsv byte) {
	if r1 {
		rsv |= bit5
	}
	if r2 {
		rsv |= bit6
	}
	if r3 {
		rsv |= bit7
	}
	return rsv
}
