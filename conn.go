package ws

import (
	"bufio"
	"io"
	"net"

	"github.com/containerd/log"
	"github.com/gobwas/pool/pbufio"
	"github.com/gobwas/pool/pbytes"
	"github.com/pkg/errors"
)

// ErrClosed is returned when the connection is known to be closed: the peer
// has closed the transport at a frame boundary, or Close was already called.
var ErrClosed = errors.New("ws: connection closed")

// Conn represents an established websocket connection.
//
// Conn owns the underlying transport exclusively. Send and Receive use
// disjoint halves of it, so one goroutine may send while another receives,
// but neither Send nor Receive may be called concurrently with itself.
type Conn struct {
	rw     io.ReadWriter
	br     *bufio.Reader
	state  State
	logger *log.Entry
	closed bool
}

func newConn(rw io.ReadWriter, br *bufio.Reader, s State, logger *log.Entry) *Conn {
	if logger == nil {
		logger = log.L
	}
	return &Conn{
		rw:     rw,
		br:     br,
		state:  s,
		logger: logger.WithField("side", s.String()),
	}
}

// State returns the side of the connection, either StateServerSide or
// StateClientSide.
func (c *Conn) State() State {
	return c.state
}

// Send writes f to the transport.
//
// On the client side f is always masked with a fresh random mask, replacing
// whatever mask f already has. On the server side f is written as is.
func (c *Conn) Send(f Frame) error {
	if c.closed {
		return ErrClosed
	}
	if c.state.Is(StateClientSide) {
		f.Header.Masked = true
		f.Header.Mask = NewMask()
	}

	p := pbytes.GetLen(FrameSize(f))
	defer pbytes.Put(p)

	n := PutFrame(p, f)
	if c.state.Is(StateClientSide) {
		Cipher(p[n-len(f.Payload):n], f.Header.Mask, 0)
	}

	if _, err := c.rw.Write(p[:n]); err != nil {
		return errors.Wrapf(err, "ws: write %s frame", f.Header.OpCode)
	}
	return nil
}

// Receive reads next frame from the transport and checks that its masking
// matches the side of the connection. Masked payload is returned unmasked.
//
// It returns ErrClosed if the transport reports end of stream before the
// first byte of the frame.
func (c *Conn) Receive() (Frame, error) {
	if c.closed {
		return Frame{}, ErrClosed
	}
	f, err := ReadFrame(c.br)
	if err != nil {
		if isClosedError(err) {
			return f, ErrClosed
		}
		if _, ok := err.(ProtocolError); ok {
			return f, err
		}
		return f, errors.Wrap(err, "ws: read frame")
	}
	if err := CheckHeader(f.Header, c.state); err != nil {
		return f, err
	}
	return f, nil
}

// Close runs the closing handshake: it sends a close frame with no status
// code and then reads frames until the peer answers with its own close frame
// or closes the transport. Frames received in between are discarded.
//
// Close consumes the connection: the transport is closed if it implements
// io.Closer, and every method called afterwards returns ErrClosed.
func (c *Conn) Close() (err error) {
	if c.closed {
		return ErrClosed
	}
	defer func() {
		if e := c.release(); err == nil {
			err = e
		}
	}()

	if err = c.Send(NewCloseFrame(0)); err != nil {
		return err
	}
	for {
		f, err := c.Receive()
		switch {
		case err == nil && f.IsClose():
			c.logger.WithField("code", ParseCloseFrameData(f.Payload)).Debug("close frame received")
			return nil

		case err == nil:
			c.logger.WithField("opcode", f.Header.OpCode.String()).Debug("discarding frame while closing")

		case errors.Is(err, ErrClosed):
			c.logger.Debug("transport closed by peer while closing")
			return nil

		default:
			return err
		}
	}
}

func (c *Conn) release() error {
	c.closed = true
	if c.br != nil {
		pbufio.PutReader(c.br)
		c.br = nil
	}
	if cl, ok := c.rw.(io.Closer); ok {
		if err := cl.Close(); err != nil && !isClosedError(err) {
			return errors.Wrap(err, "ws: close transport")
		}
	}
	return nil
}

func isClosedError(err error) bool {
	return err == io.EOF ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe)
}
