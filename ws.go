/*
Package ws implements the framing and the upgrade handshake of the WebSocket
protocol as specified in RFC 6455, on top of an already connected byte
stream.

The package does not dial or listen. The caller brings any io.ReadWriter
(usually net.Conn, possibly wrapped in TLS) and upgrades it from either side:

  ln, err := net.Listen("tcp", ":8080")
  if err != nil {
	  // handle error
  }

  conn, err := ln.Accept()
  if err != nil {
	  // handle error
  }

  c, err := ws.Accept(conn)
  if err != nil {
	  // handle error
  }

Or, on the client side:

  c, err := ws.Connect(conn)

After the upgrade, frames are exchanged one by one. The connection applies
the masking rules of the protocol: frames sent by a client are always masked,
frames received by a server must be masked and frames received by a client
must not:

  f, err := c.Receive()
  if err != nil {
	  // handle err
  }

  if err := c.Send(ws.NewTextFrame("hello, world!")); err != nil {
	  // handle err
  }

Fragmented messages are not glued together and control frames are not
answered automatically; that is left to the caller. Close runs the closing
handshake and releases the connection:

  if err := c.Close(); err != nil {
	  // handle err
  }

The frame codec is usable without Conn as well:

  f, err := ws.ReadFrame(r)
  if err != nil {
	  // handle err
  }

  if err := ws.WriteFrame(w, ws.NewBinaryFrame(p)); err != nil {
	  // handle err
  }
*/
package ws
