package ws

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"hash"
	"sync"
)

const (
	// RFC6455: The value of this header field MUST be a nonce consisting of a
	// randomly selected 16-byte value that has been base64-encoded (see
	// Section 4 of [RFC4648]).  The nonce MUST be selected randomly for each
	// connection.
	nonceKeySize = 16
	nonceSize    = 24 // base64.StdEncoding.EncodedLen(nonceKeySize)

	// RFC6455: The value of this header field is constructed by concatenating
	// /key/, defined above in step 4 in Section 4.2.2, with the string
	// "258EAFA5- E914-47DA-95CA-C5AB0DC85B11", taking the SHA-1 hash of this
	// concatenated value to obtain a 20-byte value and base64- encoding (see
	// Section 4 of [RFC4648]) this 20-byte hash.
	acceptSize = 28 // base64.StdEncoding.EncodedLen(sha1.Size)
)

// WebSocketMagic is the GUID appended to the handshake key before hashing.
const WebSocketMagic = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

var sha1Pool sync.Pool

func acquireSha1() hash.Hash {
	if h := sha1Pool.Get(); h != nil {
		return h.(hash.Hash)
	}
	return sha1.New()
}

func releaseSha1(h hash.Hash) {
	h.Reset()
	sha1Pool.Put(h)
}

// newNonce returns random base64-encoded nonce.
func newNonce() string {
	var bts [nonceKeySize]byte
	if _, err := rand.Read(bts[:]); err != nil {
		panic(fmt.Sprintf("rand read error: %s", err))
	}
	return base64.StdEncoding.EncodeToString(bts[:])
}

// AcceptValue returns the Sec-WebSocket-Accept value for the given
// Sec-WebSocket-Key value.
func AcceptValue(key string) string {
	sha := acquireSha1()
	defer releaseSha1(sha)

	sha.Write([]byte(key))
	sha.Write([]byte(WebSocketMagic))

	var sb [sha1.Size]byte
	sum := sha.Sum(sb[:0])

	return base64.StdEncoding.EncodeToString(sum)
}

// checkAcceptFromNonce reports whether given accept value is valid for given
// nonce. Comparison is case sensitive.
func checkAcceptFromNonce(accept, nonce string) bool {
	if len(accept) != acceptSize {
		return false
	}
	return accept == AcceptValue(nonce)
}
