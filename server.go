package ws

import (
	"context"
	"io"

	"github.com/containerd/log"
	"github.com/gobwas/pool/pbufio"
	"github.com/pkg/errors"
)

// Constants used by Upgrader.
const (
	DefaultServerReadBufferSize  = 4096
	DefaultServerWriteBufferSize = 512
)

// Errors used by both client and server when preparing WebSocket handshake.
var (
	ErrHandshakeMissingSecKey    = ProtocolError("missing Sec-WebSocket-Key header")
	ErrHandshakeMissingSecAccept = ProtocolError("missing Sec-WebSocket-Accept header")
	ErrHandshakeBadSecAccept     = ProtocolError("invalid Sec-WebSocket-Accept value")
)

// DefaultUpgrader is an Upgrader that holds no options and is used by Accept
// function.
var DefaultUpgrader Upgrader

// Accept is like DefaultUpgrader.Accept(context.Background(), rw).
func Accept(rw io.ReadWriter) (*Conn, error) {
	return DefaultUpgrader.Accept(context.Background(), rw)
}

// Upgrader contains options for upgrading raw byte stream to the websocket
// connection on the server side.
// Zero value of Upgrader is ready to use.
type Upgrader struct {
	// ReadBufferSize is the size of the buffer used to read the request and
	// every frame after it. If it is zero, DefaultServerReadBufferSize is
	// used.
	ReadBufferSize int

	// Header is an optional HandshakeHeader instance that could be used to
	// write additional headers to the handshake response.
	Header HandshakeHeader

	// OnHeader is a callback that will be called for every header of the
	// request, with lower-cased key. Returned non-nil error aborts the
	// handshake; no response is written in that case.
	OnHeader func(key, value string) error

	// Logger is used for debug messages of the connection. If it is nil,
	// log.L is used.
	Logger *log.Entry
}

// Accept reads the upgrade request from rw and replies with the upgrade
// response. Only header lines are looked at; the request line is ignored.
// The request must contain the Sec-WebSocket-Key header.
//
// If ctx could be canceled and rw has a SetDeadline method, cancellation
// interrupts i/o and ctx.Err() is returned.
//
// On error the state of rw is undefined and it should not be used anymore.
func (u Upgrader) Accept(ctx context.Context, rw io.ReadWriter) (c *Conn, err error) {
	br := pbufio.GetReader(rw,
		nonZero(u.ReadBufferSize, DefaultServerReadBufferSize),
	)
	defer func() {
		if err != nil {
			pbufio.PutReader(br)
			c = nil
		}
	}()

	stop := watchContext(ctx, rw)
	defer func() { err = stop(err) }()

	headers, err := readHeaders(br, u.OnHeader)
	if err != nil {
		return nil, errors.Wrap(err, "ws: read upgrade request")
	}
	key, ok := headers[headerSecKey]
	if !ok {
		return nil, ErrHandshakeMissingSecKey
	}

	bw := pbufio.GetWriter(rw,
		DefaultServerWriteBufferSize,
	)
	defer pbufio.PutWriter(bw)

	httpWriteUpgrade(bw, AcceptValue(key), u.Header)
	if err = bw.Flush(); err != nil {
		return nil, errors.Wrap(err, "ws: write upgrade response")
	}

	c = newConn(rw, br, StateServerSide, u.Logger)
	c.logger.Debug("upgrade request accepted")

	return c, nil
}
