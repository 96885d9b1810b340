package zmq

import "errors"

var (
	ErrUnsupportedSocketType = errors.New("zmq: unsupported socket type")
	ErrUnsupportedOption     = errors.New("zmq: unsupported socket option")
	ErrSocketClosed          = errors.New("zmq: socket closed")
)

// Engine creates transport sockets. One engine backs one context.
type Engine interface {
	NewSocket(t SocketType) (Socket, error)
	Close() error
}

// Socket is one transport socket owned by an engine.
//
// Recv returns the next frame and whether more frames of the same
// multipart message follow it.
type Socket interface {
	SetOption(opt Option, value any) error
	Bind(endpoint string) error
	Connect(endpoint string) error
	Send(b []byte, flags Flag) error
	Recv(flags Flag) ([]byte, bool, error)
	Close() error
}
