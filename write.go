package ws

import (
	"encoding/binary"
	"io"
)

// Header size length bounds in bytes.
const (
	MaxHeaderSize = 14
	MinHeaderSize = 2
)

const (
	bit0 = 0x80
	bit1 = 0x40
	bit2 = 0x20
	bit3 = 0x10
	bit4 = 0x08
	bit5 = 0x04
	bit6 = 0x02
	bit7 = 0x01

	len7  = int64(125)
	len16 = int64(^(uint16(0)))
	len64 = int64(^(uint64(0)) >> 1)
)

// HeaderSize returns number of bytes that are needed to encode given header.
// It returns -1 if header is malformed.
func HeaderSize(h Header) (n int) {
	switch {
	case h.Length < 0:
		return -1
	case h.Length <= len7:
		n = 2
	case h.Length <= len16:
		n = 4
	default:
		n = 10
	}
	if h.Masked {
		n += len(h.Mask)
	}
	return n
}

// PutHeader encodes h into the beginning of p and returns the number of
// bytes written. The length is always encoded in the smallest of the three
// tiers able to hold it. It panics if p is shorter than HeaderSize(h).
func PutHeader(p []byte, h Header) int {
	if h.Length < 0 {
		panic(ErrHeaderLengthUnexpected)
	}
	p[0] = 0
	if h.Fin {
		p[0] |= bit0
	}
	p[0] |= (h.Rsv & 0x7) << 4
	p[0] |= byte(h.OpCode) & 0x0f

	n := 2
	switch {
	case h.Length <= len7:
		p[1] = byte(h.Length)
	case h.Length <= len16:
		p[1] = 126
		binary.BigEndian.PutUint16(p[2:], uint16(h.Length))
		n += 2
	default:
		p[1] = 127
		binary.BigEndian.PutUint64(p[2:], uint64(h.Length))
		n += 8
	}

	if h.Masked {
		p[1] |= bit0
		n += copy(p[n:], h.Mask[:])
	}

	return n
}

// WriteHeader writes header binary representation into w.
func WriteHeader(w io.Writer, h Header) error {
	if h.Length < 0 {
		return ErrHeaderLengthUnexpected
	}
	var bts [MaxHeaderSize]byte
	n := PutHeader(bts[:], h)
	_, err := w.Write(bts[:n])
	return err
}

// WriteFrame writes frame binary representation into w.
//
// The header length is taken from len(f.Payload). Payload bytes are written
// as is: if f.Header.Masked is set, the payload must already be masked.
func WriteFrame(w io.Writer, f Frame) error {
	f.Header.Length = int64(len(f.Payload))
	err := WriteHeader(w, f.Header)
	if err != nil {
		return err
	}
	_, err = w.Write(f.Payload)
	return err
}

// PutFrame encodes f into p like WriteFrame does and returns the number of
// bytes written. It panics if p is shorter than FrameSize(f).
func PutFrame(p []byte, f Frame) int {
	f.Header.Length = int64(len(f.Payload))
	n := PutHeader(p, f.Header)
	n += copy(p[n:], f.Payload)
	return n
}

// FrameSize returns number of bytes that are needed to encode given frame.
func FrameSize(f Frame) int {
	f.Header.Length = int64(len(f.Payload))
	return HeaderSize(f.Header) + len(f.Payload)
}

// CompileFrame returns byte representation of given frame.
// In terms of memory consumption it is useful to precompile static frames
// which are often used.
func CompileFrame(f Frame) []byte {
	bts := make([]byte, FrameSize(f))
	PutFrame(bts, f)
	return bts
}
