package ws

import (
	"bufio"
	"io"
	"net/http"
	"strings"

	"github.com/gobwas/httphead"
)

const (
	textUpgrade = "HTTP/1.1 101 Switching Protocols\r\nUpgrade: websocket\r\nConnection: Upgrade\r\n"
	crlf        = "\r\n"
	colonSpace  = ": "
)

// Lower-cased names of headers used during handshake.
const (
	headerSecKey    = "sec-websocket-key"
	headerSecAccept = "sec-websocket-accept"
)

// Canonical names of headers written during handshake.
const (
	headerHostCanonical       = "Host"
	headerSecKeyCanonical     = "Sec-WebSocket-Key"
	headerSecAcceptCanonical  = "Sec-WebSocket-Accept"
	headerSecVersionCanonical = "Sec-WebSocket-Version"
)

// HandshakeHeader is the interface that writes both upgrade request or
// response headers into a given io.Writer.
type HandshakeHeader interface {
	io.WriterTo
}

// HandshakeHeaderString is an adapter to allow the use of headers represented
// by ordinary string as HandshakeHeader.
type HandshakeHeaderString string

// WriteTo implements HandshakeHeader (and io.WriterTo) interface.
func (s HandshakeHeaderString) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, string(s))
	return int64(n), err
}

// HandshakeHeaderHTTP is an adapter to allow the use of http.Header as
// HandshakeHeader.
type HandshakeHeaderHTTP http.Header

// WriteTo implements HandshakeHeader (and io.WriterTo) interface.
func (h HandshakeHeaderHTTP) WriteTo(w io.Writer) (int64, error) {
	wr := writer{w: w}
	err := http.Header(h).Write(&wr)
	return wr.n, err
}

type writer struct {
	n int64
	w io.Writer
}

func (w *writer) WriteString(s string) (int, error) {
	n, err := io.WriteString(w.w, s)
	w.n += int64(n)
	return n, err
}

func (w *writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.n += int64(n)
	return n, err
}

// readLine reads one line from br without the trailing line break.
// Lines longer than the buffer of br are glued together.
func readLine(br *bufio.Reader) ([]byte, error) {
	var line []byte
	for {
		bts, err := br.ReadSlice('\n')
		if err == bufio.ErrBufferFull {
			// Copy bytes because next read will discard them.
			line = append(line, bts...)
			continue
		}
		if err == io.EOF {
			// The peer has gone before the blank line was sent.
			return nil, io.ErrUnexpectedEOF
		}
		if err != nil {
			return nil, err
		}
		if line == nil {
			line = bts
		} else {
			line = append(line, bts...)
		}
		line = line[:len(line)-1]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
		return line, nil
	}
}

// readHeaders reads header lines from br until the blank line and collects
// them into a map keyed by lower-cased header name. Lines without a colon,
// such as the request or status line, are skipped. Later duplicates win.
//
// If onHeader is not nil, it is called for every parsed header; a non-nil
// error returned from it stops the reading.
func readHeaders(br *bufio.Reader, onHeader func(key, value string) error) (map[string]string, error) {
	headers := make(map[string]string)
	for {
		line, err := readLine(br)
		if err != nil {
			return nil, err
		}
		// Blank line, no more lines to read.
		if len(line) == 0 {
			return headers, nil
		}
		k, v, ok := httphead.ParseHeaderLine(line)
		if !ok {
			continue
		}
		key := strings.ToLower(string(k))
		value := string(v)
		headers[key] = value

		if onHeader != nil {
			if err := onHeader(key, value); err != nil {
				return nil, err
			}
		}
	}
}

func httpWriteHeader(bw *bufio.Writer, key, value string) {
	bw.WriteString(key)
	bw.WriteString(colonSpace)
	bw.WriteString(value)
	bw.WriteString(crlf)
}

func httpWriteUpgrade(bw *bufio.Writer, accept string, h HandshakeHeader) {
	bw.WriteString(textUpgrade)
	httpWriteHeader(bw, headerSecAcceptCanonical, accept)
	if h != nil {
		h.WriteTo(bw)
	}
	bw.WriteString(crlf)
}

func httpWriteUpgradeRequest(bw *bufio.Writer, host, uri, nonce string, h HandshakeHeader) {
	bw.WriteString("GET ")
	bw.WriteString(uri)
	bw.WriteString(" HTTP/1.1\r\n")

	httpWriteHeader(bw, headerHostCanonical, host)
	bw.WriteString("Upgrade: websocket\r\nConnection: Upgrade\r\n")
	httpWriteHeader(bw, headerSecKeyCanonical, nonce)
	httpWriteHeader(bw, headerSecVersionCanonical, "13")
	if h != nil {
		h.WriteTo(bw)
	}
	bw.WriteString(crlf)
}
