package ws

// State represents state of websocket endpoint.
// It is used to apply role dependent rules of the protocol, such as which
// side of the connection masks its frames.
type State uint8

const (
	// StateServerSide means that endpoint (caller) is a server.
	StateServerSide State = 0x1 << iota
	// StateClientSide means that endpoint (caller) is a client.
	StateClientSide
)

// Is checks whether the s has v enabled.
func (s State) Is(v State) bool {
	return uint8(s)&uint8(v) != 0
}

func (s State) String() string {
	switch {
	case s.Is(StateServerSide):
		return "server"
	case s.Is(StateClientSide):
		return "client"
	}
	return "unknown"
}

// ProtocolError describes error during checking/parsing websocket frames or
// headers.
type ProtocolError string

// Error implements error interface.
func (p ProtocolError) Error() string { return string(p) }

// Errors used by the protocol checkers.
var (
	ErrProtocolOpCodeReserved = ProtocolError("use of reserved op code")
	ErrProtocolMaskRequired   = ProtocolError("client frames must be masked")
	ErrProtocolMaskUnexpected = ProtocolError("server frames must not be masked")
)

// Errors used by frame reader and writer.
var (
	ErrHeaderLengthMSB        = ProtocolError("header error: the most significant bit must be 0")
	ErrHeaderLengthUnexpected = ProtocolError("header error: unexpected payload length bits")
	ErrHeaderLengthTooBig     = ProtocolError("header error: payload length does not fit platform int")
)

// CheckHeader checks h to contain valid header data for given state s.
//
// [RFC6455]: The server MUST close the connection upon receiving a frame that
// is not masked. A server MUST NOT mask any frames that it sends to the
// client. A client MUST close a connection if it detects a masked frame.
func CheckHeader(h Header, s State) error {
	switch {
	case h.OpCode.IsReserved():
		return ErrProtocolOpCodeReserved
	case s.Is(StateServerSide) && !h.Masked:
		return ErrProtocolMaskRequired
	case s.Is(StateClientSide) && h.Masked:
		return ErrProtocolMaskUnexpected
	}
	return nil
}
