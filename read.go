package ws

import (
	"bytes"
	"encoding/binary"
	"io"
)

// PlatformSizeLimit is the max int value for current platform.
const PlatformSizeLimit = int64(^(uint(0)) >> 1)

// ReadHeader reads a frame header from r.
//
// Any of the three length encodings is accepted, even when a shorter one
// would have been enough.
func ReadHeader(r io.Reader) (h Header, err error) {
	// Make slice with 2 bytes len for header, but with 12 byte capacity.
	// Extended length and mask are read into the same backing array.
	var b [MaxHeaderSize - 2]byte
	bts := b[:2]

	// Prepare to hold first 2 bytes to choose size of next read.
	_, err = io.ReadFull(r, bts)
	if err != nil {
		return
	}

	h.Fin = bts[0]&bit0 != 0
	h.Rsv = (bts[0] & 0x70) >> 4
	h.OpCode, err = ParseOpCode(bts[0])
	if err != nil {
		return
	}

	var extra int

	h.Masked = bts[1]&bit0 != 0
	if h.Masked {
		extra += 4
	}

	length := bts[1] & 0x7f
	switch {
	case length < 126:
		h.Length = int64(length)

	case length == 126:
		extra += 2

	case length == 127:
		extra += 8
	}

	if extra == 0 {
		return
	}

	bts = b[:extra]
	_, err = io.ReadFull(r, bts)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return
	}

	switch {
	case length == 126:
		h.Length = int64(binary.BigEndian.Uint16(bts[:2]))
		bts = bts[2:]

	case length == 127:
		if bts[0]&0x80 != 0 {
			err = ErrHeaderLengthMSB
			return
		}
		h.Length = int64(binary.BigEndian.Uint64(bts[:8]))
		bts = bts[8:]
	}

	if h.Length > PlatformSizeLimit {
		err = ErrHeaderLengthTooBig
		return
	}

	if h.Masked {
		copy(h.Mask[:], bts)
	}

	return
}

// ReadFrame reads a frame from r.
// Payloads up to payloadChunkSize are read into a slice of the declared
// length. Longer payloads are read chunk by chunk, so memory grows with the
// bytes actually received rather than with the length the peer declared.
//
// If the frame is masked, its payload is unmasked in place. The header keeps
// Masked and Mask as they were read so the caller could check them.
func ReadFrame(r io.Reader) (f Frame, err error) {
	f.Header, err = ReadHeader(r)
	if err != nil {
		return
	}

	f.Payload, err = readPayload(r, f.Header.Length)
	if err != nil {
		return
	}

	if f.Header.Masked {
		Cipher(f.Payload, f.Header.Mask, 0)
	}

	return
}

// payloadChunkSize is the largest payload allocated at once by ReadFrame.
const payloadChunkSize = 64 << 10

func readPayload(r io.Reader, n int64) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if n <= payloadChunkSize {
		p := make([]byte, int(n))
		if _, err := io.ReadFull(r, p); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		return p, nil
	}
	var buf bytes.Buffer
	buf.Grow(payloadChunkSize)
	m, err := io.CopyN(&buf, r, n)
	if m < n {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf.Bytes(), nil
}
