package wstest

import (
	"io"
	"testing"
)

func TestStream(t *testing.T) {
	s := NewSlowStream([]byte("hello"), 2)

	p := make([]byte, 5)
	n, err := s.Read(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("Read() = %d; want 2", n)
	}
	if _, err := s.Write([]byte("abc")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if act, exp := string(s.Written()), "abc"; act != exp {
		t.Errorf("Written() = %q; want %q", act, exp)
	}

	s.Close()
	if !s.Closed() {
		t.Errorf("Closed() = false after Close()")
	}
	if _, err := s.Read(p); err != io.ErrClosedPipe {
		t.Errorf("Read() after Close() error = %v; want %v", err, io.ErrClosedPipe)
	}
	if _, err := s.Write(p); err != io.ErrClosedPipe {
		t.Errorf("Write() after Close() error = %v; want %v", err, io.ErrClosedPipe)
	}
}
