package ws

import (
	"context"
	"io"

	"github.com/containerd/log"
	"github.com/gobwas/pool/pbufio"
	"github.com/pkg/errors"
)

// Constants used by Dialer.
const (
	DefaultClientReadBufferSize  = 4096
	DefaultClientWriteBufferSize = 4096

	DefaultClientHost = "server.example.com"
	DefaultClientURI  = "/"
)

// DefaultDialer is dialer that holds no options and is used by Connect
// function.
var DefaultDialer Dialer

// Connect is like DefaultDialer.Connect(context.Background(), rw).
func Connect(rw io.ReadWriter) (*Conn, error) {
	return DefaultDialer.Connect(context.Background(), rw)
}

// Dialer contains options for establishing websocket connection over an
// already connected byte stream.
// Zero value of Dialer is ready to use.
type Dialer struct {
	// Host is written into the Host header of the request. If it is empty,
	// DefaultClientHost is used.
	Host string

	// URI is written into the request line. If it is empty,
	// DefaultClientURI is used.
	URI string

	// ReadBufferSize is the size of the buffer used to read the response and
	// every frame after it. If it is zero, DefaultClientReadBufferSize is
	// used.
	ReadBufferSize int

	// WriteBufferSize is the size of the buffer used to write the request.
	// If it is zero, DefaultClientWriteBufferSize is used.
	WriteBufferSize int

	// Header is an optional HandshakeHeader instance that could be used to
	// write additional headers to the handshake request.
	Header HandshakeHeader

	// OnHeader is a callback that will be called for every header of the
	// response, with lower-cased key. Returned non-nil error aborts the
	// handshake.
	OnHeader func(key, value string) error

	// Logger is used for debug messages of the connection. If it is nil,
	// log.L is used.
	Logger *log.Entry
}

// Connect sends the upgrade request into rw and reads the response.
// Only header lines of the response are looked at; the status line is not
// validated. The response must contain Sec-WebSocket-Accept header matching
// the key sent in the request.
//
// If ctx could be canceled and rw has a SetDeadline method, cancellation
// interrupts i/o and ctx.Err() is returned.
//
// On error the state of rw is undefined and it should not be used anymore.
func (d Dialer) Connect(ctx context.Context, rw io.ReadWriter) (c *Conn, err error) {
	br := pbufio.GetReader(rw,
		nonZero(d.ReadBufferSize, DefaultClientReadBufferSize),
	)
	defer func() {
		if err != nil {
			pbufio.PutReader(br)
			c = nil
		}
	}()

	stop := watchContext(ctx, rw)
	defer func() { err = stop(err) }()

	bw := pbufio.GetWriter(rw,
		nonZero(d.WriteBufferSize, DefaultClientWriteBufferSize),
	)
	defer pbufio.PutWriter(bw)

	nonce := newNonce()
	httpWriteUpgradeRequest(bw,
		nonEmpty(d.Host, DefaultClientHost),
		nonEmpty(d.URI, DefaultClientURI),
		nonce, d.Header,
	)
	if err = bw.Flush(); err != nil {
		return nil, errors.Wrap(err, "ws: write upgrade request")
	}

	headers, err := readHeaders(br, d.OnHeader)
	if err != nil {
		return nil, errors.Wrap(err, "ws: read upgrade response")
	}
	accept, ok := headers[headerSecAccept]
	if !ok {
		return nil, ErrHandshakeMissingSecAccept
	}
	if !checkAcceptFromNonce(accept, nonce) {
		return nil, ErrHandshakeBadSecAccept
	}

	c = newConn(rw, br, StateClientSide, d.Logger)
	c.logger.Debug("upgrade response accepted")

	return c, nil
}
