// Package gozmq implements the zmq engine boundary on top of the pure Go
// ZMTP implementation in github.com/go-zeromq/zmq4.
//
// zmq4 moves whole multipart messages, so frames sent with SndMore are held
// until the final frame and flushed together; received messages are handed
// back one frame at a time with the more flag set on all but the last.
package gozmq

import (
	"context"
	"fmt"
	"sync"

	"github.com/danmuck/zmqkit/internal/zmq"
	zmq4 "github.com/go-zeromq/zmq4"
)

// Engine owns the root context shared by every zmq4 socket it creates.
type Engine struct {
	ctx       context.Context
	cancel    context.CancelFunc
	ioThreads int
}

// New returns an engine. zmq4 schedules socket I/O on goroutines, so
// ioThreads is recorded for reporting only.
func New(ioThreads int) *Engine {
	if ioThreads <= 0 {
		ioThreads = zmq.DefaultIOThreads
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{ctx: ctx, cancel: cancel, ioThreads: ioThreads}
}

func (e *Engine) IOThreads() int {
	return e.ioThreads
}

func (e *Engine) NewSocket(t zmq.SocketType) (zmq.Socket, error) {
	if err := e.ctx.Err(); err != nil {
		return nil, fmt.Errorf("gozmq: engine closed: %w", err)
	}
	var sck zmq4.Socket
	switch t {
	case zmq.Pair:
		sck = zmq4.NewPair(e.ctx)
	case zmq.Pub:
		sck = zmq4.NewPub(e.ctx)
	case zmq.Sub:
		sck = zmq4.NewSub(e.ctx)
	case zmq.Req:
		sck = zmq4.NewReq(e.ctx)
	case zmq.Rep:
		sck = zmq4.NewRep(e.ctx)
	case zmq.Dealer:
		sck = zmq4.NewDealer(e.ctx)
	case zmq.Router:
		sck = zmq4.NewRouter(e.ctx)
	case zmq.Pull:
		sck = zmq4.NewPull(e.ctx)
	case zmq.Push:
		sck = zmq4.NewPush(e.ctx)
	case zmq.XPub:
		sck = zmq4.NewXPub(e.ctx)
	case zmq.XSub:
		sck = zmq4.NewXSub(e.ctx)
	default:
		return nil, fmt.Errorf("%w: %d", zmq.ErrUnsupportedSocketType, int(t))
	}
	return &socket{sck: sck, typ: t}, nil
}

// Close cancels the root context, which tears down any socket still open.
func (e *Engine) Close() error {
	e.cancel()
	return nil
}

type socket struct {
	sck zmq4.Socket
	typ zmq.SocketType

	mu      sync.Mutex
	pending [][]byte
	inbox   [][]byte
	linger  int
	closed  bool
}

func (s *socket) SetOption(opt zmq.Option, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return zmq.ErrSocketClosed
	}
	switch opt {
	case zmq.OptLinger:
		n, ok := value.(int)
		if !ok {
			return fmt.Errorf("%w: linger expects int, got %T", zmq.ErrUnsupportedOption, value)
		}
		// zmq4 drops pending data on close, which is linger 0 behavior.
		s.linger = n
		return nil
	case zmq.OptSndHWM, zmq.OptRcvHWM:
		return s.sck.SetOption(zmq4.OptionHWM, value)
	case zmq.OptSubscribe:
		return s.sck.SetOption(zmq4.OptionSubscribe, topic(value))
	case zmq.OptUnsubscribe:
		return s.sck.SetOption(zmq4.OptionUnsubscribe, topic(value))
	default:
		return fmt.Errorf("%w: %d", zmq.ErrUnsupportedOption, int(opt))
	}
}

func topic(value any) string {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func (s *socket) Bind(endpoint string) error {
	return s.sck.Listen(endpoint)
}

func (s *socket) Connect(endpoint string) error {
	return s.sck.Dial(endpoint)
}

func (s *socket) Send(b []byte, flags zmq.Flag) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return zmq.ErrSocketClosed
	}
	s.pending = append(s.pending, append([]byte(nil), b...))
	if flags&zmq.SndMore != 0 {
		s.mu.Unlock()
		return nil
	}
	frames := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(frames) == 1 {
		return s.sck.Send(zmq4.NewMsg(frames[0]))
	}
	return s.sck.SendMulti(zmq4.NewMsgFrom(frames...))
}

// Recv ignores DontWait; zmq4 receives are always blocking.
func (s *socket) Recv(flags zmq.Flag) ([]byte, bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, false, zmq.ErrSocketClosed
	}
	if len(s.inbox) > 0 {
		b, more := s.next()
		s.mu.Unlock()
		return b, more, nil
	}
	s.mu.Unlock()

	msg, err := s.sck.Recv()
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(msg.Frames) == 0 {
		return []byte{}, false, nil
	}
	s.inbox = append(s.inbox, msg.Frames...)
	b, more := s.next()
	return b, more, nil
}

func (s *socket) next() ([]byte, bool) {
	b := s.inbox[0]
	s.inbox[0] = nil
	s.inbox = s.inbox[1:]
	return b, len(s.inbox) > 0
}

func (s *socket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return zmq.ErrSocketClosed
	}
	s.closed = true
	s.pending = nil
	s.inbox = nil
	s.mu.Unlock()
	return s.sck.Close()
}
