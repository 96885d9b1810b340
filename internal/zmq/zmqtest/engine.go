// Package zmqtest provides an in-memory engine for tests.
//
// Sockets record every option, send, and close. Bound and connected sockets
// sharing an endpoint exchange frames through a buffered in-memory queue,
// preserving the more flag of each frame.
package zmqtest

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/danmuck/zmqkit/internal/zmq"
)

var (
	ErrNoPeer     = errors.New("zmqtest: endpoint has no peer")
	ErrRecvClosed = errors.New("zmqtest: receive on closed socket")
)

// Sent is one recorded send call.
type Sent struct {
	Data  []byte
	Flags zmq.Flag
}

type wireFrame struct {
	data []byte
	more bool
}

// Engine is a zmq.Engine whose sockets live in memory.
type Engine struct {
	mu        sync.Mutex
	sockets   []*Socket
	endpoints map[string]chan wireFrame
	closed    bool

	// NewSocketErr, when set, is returned by NewSocket.
	NewSocketErr error
	// CloseErr, when set, is returned by every socket Close.
	CloseErr error

	created atomic.Int64
}

func NewEngine() *Engine {
	return &Engine{endpoints: make(map[string]chan wireFrame)}
}

func (e *Engine) NewSocket(t zmq.SocketType) (zmq.Socket, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.NewSocketErr != nil {
		return nil, e.NewSocketErr
	}
	if _, err := zmq.ParseSocketType(t.String()); err != nil {
		return nil, fmt.Errorf("%w: %d", zmq.ErrUnsupportedSocketType, int(t))
	}
	s := &Socket{
		engine:  e,
		Type:    t,
		Options: make(map[zmq.Option]any),
	}
	e.sockets = append(e.sockets, s)
	e.created.Add(1)
	return s, nil
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

// Closed reports whether Close was called.
func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// Created returns the number of sockets handed out.
func (e *Engine) Created() int {
	return int(e.created.Load())
}

// Sockets returns every socket created so far.
func (e *Engine) Sockets() []*Socket {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Socket, len(e.sockets))
	copy(out, e.sockets)
	return out
}

func (e *Engine) queue(endpoint string) chan wireFrame {
	e.mu.Lock()
	defer e.mu.Unlock()
	q, ok := e.endpoints[endpoint]
	if !ok {
		q = make(chan wireFrame, 1024)
		e.endpoints[endpoint] = q
	}
	return q
}

// Socket is a recording zmq.Socket.
type Socket struct {
	engine *Engine
	Type   zmq.SocketType

	mu         sync.Mutex
	Options    map[zmq.Option]any
	Sends      []Sent
	closeCalls int
	in         chan wireFrame
	out        chan wireFrame
}

func (s *Socket) SetOption(opt zmq.Option, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Options[opt] = value
	return nil
}

// Option returns the last value set for opt.
func (s *Socket) Option(opt zmq.Option) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.Options[opt]
	return v, ok
}

func (s *Socket) Bind(endpoint string) error {
	q := s.engine.queue(endpoint)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.in = q
	return nil
}

func (s *Socket) Connect(endpoint string) error {
	q := s.engine.queue(endpoint)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out = q
	return nil
}

func (s *Socket) Send(b []byte, flags zmq.Flag) error {
	s.mu.Lock()
	if s.closeCalls > 0 {
		s.mu.Unlock()
		return zmq.ErrSocketClosed
	}
	data := append([]byte(nil), b...)
	s.Sends = append(s.Sends, Sent{Data: data, Flags: flags})
	out := s.out
	s.mu.Unlock()
	if out == nil {
		return nil
	}
	out <- wireFrame{data: data, more: flags&zmq.SndMore != 0}
	return nil
}

func (s *Socket) Recv(flags zmq.Flag) ([]byte, bool, error) {
	s.mu.Lock()
	in := s.in
	closed := s.closeCalls > 0
	s.mu.Unlock()
	if closed {
		return nil, false, ErrRecvClosed
	}
	if in == nil {
		return nil, false, ErrNoPeer
	}
	if flags&zmq.DontWait != 0 {
		select {
		case f := <-in:
			return f.data, f.more, nil
		default:
			return nil, false, ErrNoPeer
		}
	}
	f := <-in
	return f.data, f.more, nil
}

func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeCalls++
	return s.engine.CloseErr
}

// CloseCalls returns how many times Close was invoked.
func (s *Socket) CloseCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeCalls
}

// Linger returns the LINGER value set on the socket, if any.
func (s *Socket) Linger() (int, bool) {
	v, ok := s.Option(zmq.OptLinger)
	if !ok {
		return 0, false
	}
	n, ok := v.(int)
	return n, ok
}

// SentFrames returns a copy of the recorded sends.
func (s *Socket) SentFrames() []Sent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Sent, len(s.Sends))
	copy(out, s.Sends)
	return out
}
