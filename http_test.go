package ws

import (
	"bufio"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/streamws/ws/internal/wstest"
)

func TestReadHeaders(t *testing.T) {
	for _, test := range []struct {
		name string
		in   string
		exp  map[string]string
		err  error
	}{
		{
			name: "request",
			in: "GET /chat HTTP/1.1\r\n" +
				"Host: server.example.com\r\n" +
				"Upgrade: websocket\r\n" +
				"Sec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ==\r\n" +
				"\r\n",
			exp: map[string]string{
				"host":              "server.example.com",
				"upgrade":           "websocket",
				"sec-websocket-key": "dGhlIHNhbXBsZSBub25jZQ==",
			},
		},
		{
			name: "trim and lower",
			in:   "  X-Foo  :   bar baz  \r\nSEC-WEBSOCKET-ACCEPT:abc\r\n\r\n",
			exp: map[string]string{
				"x-foo":                "bar baz",
				"sec-websocket-accept": "abc",
			},
		},
		{
			name: "first colon",
			in:   "Origin: http://example.com:80\r\n\r\n",
			exp: map[string]string{
				"origin": "http://example.com:80",
			},
		},
		{
			name: "duplicates",
			in:   "X-Foo: a\r\nx-foo: b\r\n\r\n",
			exp: map[string]string{
				"x-foo": "b",
			},
		},
		{
			name: "no colon",
			in:   "HTTP/1.1 101 Switching Protocols\r\ngarbage\r\nX-Foo: a\r\n\r\n",
			exp: map[string]string{
				"x-foo": "a",
			},
		},
		{
			name: "empty",
			in:   "\r\n",
			exp:  map[string]string{},
		},
		{
			name: "unterminated",
			in:   "X-Foo: a\r\n",
			err:  io.ErrUnexpectedEOF,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			br := bufio.NewReaderSize(wstest.NewSlowStream([]byte(test.in), 3), 16)
			act, err := readHeaders(br, nil)
			if err != test.err {
				t.Fatalf("readHeaders() error = %v; want %v", err, test.err)
			}
			if test.err != nil {
				return
			}
			if !reflect.DeepEqual(act, test.exp) {
				t.Errorf("readHeaders() = %v; want %v", act, test.exp)
			}
		})
	}
}

func TestReadHeadersLongLine(t *testing.T) {
	value := strings.Repeat("x", 100)
	br := bufio.NewReaderSize(strings.NewReader("X-Long: "+value+"\r\n\r\n"), 16)
	act, err := readHeaders(br, nil)
	if err != nil {
		t.Fatal(err)
	}
	if act["x-long"] != value {
		t.Errorf("readHeaders() x-long = %q; want %q", act["x-long"], value)
	}
}

func TestReadHeadersOnHeader(t *testing.T) {
	errStop := errors.New("stop")

	var seen []string
	br := bufio.NewReader(strings.NewReader("A: 1\r\nB: 2\r\nC: 3\r\n\r\n"))
	_, err := readHeaders(br, func(key, value string) error {
		seen = append(seen, key+"="+value)
		if key == "b" {
			return errStop
		}
		return nil
	})
	if err != errStop {
		t.Errorf("readHeaders() error = %v; want %v", err, errStop)
	}
	if exp := []string{"a=1", "b=2"}; !reflect.DeepEqual(seen, exp) {
		t.Errorf("OnHeader seen %v; want %v", seen, exp)
	}
}

func TestHandshakeHeaderHTTP(t *testing.T) {
	var sb strings.Builder
	n, err := HandshakeHeaderHTTP(http.Header{
		"X-Foo": []string{"bar"},
	}).WriteTo(&sb)
	if err != nil {
		t.Fatal(err)
	}
	if exp := "X-Foo: bar\r\n"; sb.String() != exp {
		t.Errorf("WriteTo() wrote %q; want %q", sb.String(), exp)
	}
	if n != int64(sb.Len()) {
		t.Errorf("WriteTo() = %d; want %d", n, sb.Len())
	}
}

func TestHandshakeHeaderString(t *testing.T) {
	var sb strings.Builder
	h := HandshakeHeaderString("X-Foo: bar\r\nX-Baz: qux\r\n")
	n, err := h.WriteTo(&sb)
	if err != nil {
		t.Fatal(err)
	}
	if sb.String() != string(h) {
		t.Errorf("WriteTo() wrote %q; want %q", sb.String(), h)
	}
	if n != int64(len(h)) {
		t.Errorf("WriteTo() = %d; want %d", n, len(h))
	}
}
