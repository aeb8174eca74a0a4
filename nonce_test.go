package ws

import (
	"encoding/base64"
	"testing"
)

func TestAcceptValue(t *testing.T) {
	// RFC6455 1.3 reference vector.
	const (
		key    = "dGhlIHNhbXBsZSBub25jZQ=="
		accept = "s3pPLMBiTxaQ9kYGzzhZRbK+xOo="
	)
	if act := AcceptValue(key); act != accept {
		t.Errorf("AcceptValue(%q) = %q; want %q", key, act, accept)
	}
	if !checkAcceptFromNonce(accept, key) {
		t.Errorf("checkAcceptFromNonce(%q, %q) = false", accept, key)
	}
	for _, bad := range []string{
		"",
		"S3PPLMBITXAQ9KYGZZHZRBK+XOO=",
		"s3pPLMBiTxaQ9kYGzzhZRbK+xOo",
		"s3pPLMBiTxaQ9kYGzzhZRbK+xOo==",
	} {
		if checkAcceptFromNonce(bad, key) {
			t.Errorf("checkAcceptFromNonce(%q, %q) = true", bad, key)
		}
	}
}

func TestNewNonce(t *testing.T) {
	a, b := newNonce(), newNonce()
	if len(a) != nonceSize {
		t.Errorf("len(newNonce()) = %d; want %d", len(a), nonceSize)
	}
	if a == b {
		t.Errorf("newNonce() returned the same value twice: %q", a)
	}
	bts, err := base64.StdEncoding.DecodeString(a)
	if err != nil {
		t.Fatalf("newNonce() is not base64: %v", err)
	}
	if len(bts) != nonceKeySize {
		t.Errorf("decoded nonce has %d bytes; want %d", len(bts), nonceKeySize)
	}
}

func BenchmarkAcceptValue(b *testing.B) {
	nonce := newNonce()
	for i := 0; i < b.N; i++ {
		_ = AcceptValue(nonce)
	}
}
