// Package wstest contains in-memory transports for tests.
package wstest

import (
	"bytes"
	"io"
)

// Stream is an io.ReadWriteCloser whose reads are served from a prepared
// source and whose writes are collected for inspection.
type Stream struct {
	r      io.Reader
	w      bytes.Buffer
	closed bool
}

// NewStream returns Stream that reads data.
func NewStream(data []byte) *Stream {
	return &Stream{r: bytes.NewReader(data)}
}

// NewSlowStream returns Stream that reads data by at most n bytes per Read
// call, simulating a peer that sends data in small pieces.
func NewSlowStream(data []byte, n int) *Stream {
	return &Stream{r: &ChunkedReader{R: bytes.NewReader(data), N: n}}
}

// Read implements io.Reader. It returns io.ErrClosedPipe after Close.
func (s *Stream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, io.ErrClosedPipe
	}
	return s.r.Read(p)
}

// Write implements io.Writer. It returns io.ErrClosedPipe after Close.
func (s *Stream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, io.ErrClosedPipe
	}
	return s.w.Write(p)
}

// Close marks the stream closed.
func (s *Stream) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *Stream) Closed() bool {
	return s.closed
}

// Written returns bytes written so far.
func (s *Stream) Written() []byte {
	return s.w.Bytes()
}

// ChunkedReader reads from R by at most N bytes at once.
type ChunkedReader struct {
	R io.Reader
	N int
}

// Read implements io.Reader.
func (c *ChunkedReader) Read(p []byte) (int, error) {
	if len(p) > c.N {
		p = p[:c.N]
	}
	return c.R.Read(p)
}
