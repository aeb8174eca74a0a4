package ws

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

var remain = [4]int{0, 3, 2, 1}

// Cipher applies XOR cipher to the payload using mask.
// Offset is used to cipher chunked data (e.g. in io.Reader implementations).
//
// To convert masked data into unmasked data, or vice versa, the following
// algorithm is applied.  The same algorithm applies regardless of the
// direction of the translation, e.g., the same steps are applied to
// mask the data as to unmask the data.
func Cipher(payload []byte, mask [4]byte, offset int) {
	n := len(payload)
	if n < 8 {
		for i := 0; i < n; i++ {
			payload[i] ^= mask[(offset+i)%4]
		}
		return
	}

	// Calculate position in mask due to previously processed bytes number.
	mpos := offset % 4
	// Count number of bytes will processed one by one from the beginning of payload.
	ln := remain[mpos]
	// Count number of bytes will processed one by one from the end of payload.
	// This is done to process payload by 8 bytes in each iteration of main loop.
	rn := (n - ln) % 8

	for i := 0; i < ln; i++ {
		payload[i] ^= mask[(mpos+i)%4]
	}
	for i := n - rn; i < n; i++ {
		payload[i] ^= mask[(mpos+i)%4]
	}

	// After ln bytes the mask position is back at zero, so the middle part
	// is xored with the mask repeated twice.
	m := uint64(binary.LittleEndian.Uint32(mask[:]))
	m2 := m<<32 | m
	for i := ln; i < n-rn; i += 8 {
		v := binary.LittleEndian.Uint64(payload[i:])
		binary.LittleEndian.PutUint64(payload[i:], v^m2)
	}
}

// NewMask creates new random mask.
func NewMask() (ret [4]byte) {
	if _, err := rand.Read(ret[:]); err != nil {
		panic(fmt.Sprintf("rand read error: %s", err))
	}
	return
}

// MaskBytes masks raw bytes as a single unit: it xors every byte of data
// with a fresh random mask and returns the mask followed by the masked data.
// The data is modified in place; the returned slice shares its backing
// array when data has enough capacity for four more bytes.
//
// MaskBytes is not used on the wire: Conn masks only frame payloads, through
// the Header mask fields and Cipher.
func MaskBytes(data []byte) []byte {
	return maskBytesWith(data, NewMask())
}

func maskBytesWith(data []byte, mask [4]byte) []byte {
	Cipher(data, mask, 0)
	n := len(data)
	data = append(data, mask[:]...)
	copy(data[4:], data[:n])
	copy(data[:4], mask[:])
	return data
}
