package managed

import (
	"sync/atomic"

	"github.com/danmuck/zmqkit/internal/observability"
	"github.com/danmuck/zmqkit/internal/protocol/frame"
	"github.com/danmuck/zmqkit/internal/protocol/message"
	"github.com/danmuck/zmqkit/internal/zmq"
)

// Socket is a socket registered with a Context. After Close or Destroy every
// call returns zmq.ErrSocketClosed.
type Socket struct {
	id     string
	name   string
	typ    zmq.SocketType
	raw    zmq.Socket
	ctx    *Context
	closed atomic.Bool
}

var (
	_ message.FrameSender   = (*Socket)(nil)
	_ message.FrameReceiver = (*Socket)(nil)
)

// ID is a bookkeeping identifier for logs. It is not the ZMQ identity.
func (s *Socket) ID() string {
	return s.id
}

func (s *Socket) Type() zmq.SocketType {
	return s.typ
}

func (s *Socket) Closed() bool {
	return s.closed.Load()
}

func (s *Socket) Bind(endpoint string) error {
	if s.closed.Load() {
		return zmq.ErrSocketClosed
	}
	return s.raw.Bind(endpoint)
}

func (s *Socket) Connect(endpoint string) error {
	if s.closed.Load() {
		return zmq.ErrSocketClosed
	}
	return s.raw.Connect(endpoint)
}

func (s *Socket) SetOption(opt zmq.Option, value any) error {
	if s.closed.Load() {
		return zmq.ErrSocketClosed
	}
	return s.raw.SetOption(opt, value)
}

// SendFrame sends the frame contents. Pass zmq.SndMore for non-final parts.
func (s *Socket) SendFrame(f *frame.Frame, flags zmq.Flag) error {
	if s.closed.Load() {
		return zmq.ErrSocketClosed
	}
	if err := s.raw.Send(f.Data(), flags); err != nil {
		return err
	}
	observability.RecordFrameSent(s.name)
	return nil
}

func (s *Socket) SendBytes(b []byte, flags zmq.Flag) error {
	return s.SendFrame(frame.Wrap(b), flags)
}

func (s *Socket) SendString(str string, flags zmq.Flag) error {
	return s.SendFrame(frame.FromString(str), flags)
}

// SendMessage sends every frame of m as one multipart message.
func (s *Socket) SendMessage(m *message.Message) error {
	return m.Send(s)
}

// RecvFrame blocks for the next frame. More on the result reports whether
// further parts of the same message follow.
func (s *Socket) RecvFrame() (*frame.Frame, error) {
	if s.closed.Load() {
		return nil, zmq.ErrSocketClosed
	}
	b, more, err := s.raw.Recv(0)
	if err != nil {
		return nil, err
	}
	observability.RecordFrameReceived(s.name)
	return frame.Received(b, more), nil
}

func (s *Socket) RecvBytes() ([]byte, error) {
	f, err := s.RecvFrame()
	if err != nil {
		return nil, err
	}
	return f.Data(), nil
}

func (s *Socket) RecvString() (string, error) {
	f, err := s.RecvFrame()
	if err != nil {
		return "", err
	}
	return f.StringAt(0, f.Len())
}

// RecvMessage blocks until every part of the next message has arrived.
func (s *Socket) RecvMessage() (*message.Message, error) {
	return message.Receive(s)
}

// Close destroys the socket through its owning Context.
func (s *Socket) Close() {
	s.ctx.Destroy(s)
}
