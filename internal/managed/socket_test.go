package managed

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/danmuck/zmqkit/internal/protocol/frame"
	"github.com/danmuck/zmqkit/internal/protocol/message"
	"github.com/danmuck/zmqkit/internal/testutil/testlog"
	"github.com/danmuck/zmqkit/internal/zmq"
	"github.com/danmuck/zmqkit/internal/zmq/gozmq"
	"github.com/danmuck/zmqkit/internal/zmq/zmqtest"
)

func TestSocketMessageOverMemoryEngine(t *testing.T) {
	testlog.Start(t)
	c := New(zmqtest.NewEngine())
	defer c.Close()

	pull, err := c.CreateSocket(zmq.Pull)
	if err != nil {
		t.Fatalf("create pull: %v", err)
	}
	push, err := c.CreateSocket(zmq.Push)
	if err != nil {
		t.Fatalf("create push: %v", err)
	}
	if err := pull.Bind("inproc://pipeline"); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := push.Connect("inproc://pipeline"); err != nil {
		t.Fatalf("connect: %v", err)
	}

	header := frame.New(8)
	if err := header.Write().Uint32(0, 7).Int32(4, -1).Err(); err != nil {
		t.Fatalf("encode header: %v", err)
	}
	if err := push.SendMessage(message.New(header, frame.FromString("body"))); err != nil {
		t.Fatalf("send message: %v", err)
	}
	if err := push.SendBytes([]byte{1, 2}, 0); err != nil {
		t.Fatalf("send bytes: %v", err)
	}

	m, err := pull.RecvMessage()
	if err != nil {
		t.Fatalf("recv message: %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("unexpected parts: %d", m.Len())
	}
	head, _ := m.Pop()
	if id, _ := head.Uint32(0); id != 7 {
		t.Fatalf("unexpected header id: %d", id)
	}
	if !head.More() {
		t.Fatalf("header should carry more")
	}
	b, err := pull.RecvBytes()
	if err != nil || !slices.Equal(b, []byte{1, 2}) {
		t.Fatalf("recv bytes=%v err=%v", b, err)
	}
}

func TestSocketUseAfterDestroy(t *testing.T) {
	testlog.Start(t)
	c := New(zmqtest.NewEngine())
	s, err := c.CreateSocket(zmq.Req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	s.Close()

	checks := map[string]error{
		"bind":    s.Bind("inproc://x"),
		"connect": s.Connect("inproc://x"),
		"option":  s.SetOption(zmq.OptSndHWM, 10),
		"send":    s.SendString("x", 0),
	}
	for name, err := range checks {
		if !errors.Is(err, zmq.ErrSocketClosed) {
			t.Fatalf("%s: expected ErrSocketClosed, got %v", name, err)
		}
	}
	if _, err := s.RecvFrame(); !errors.Is(err, zmq.ErrSocketClosed) {
		t.Fatalf("recv: expected ErrSocketClosed, got %v", err)
	}
	if _, err := s.RecvMessage(); !errors.Is(err, zmq.ErrSocketClosed) {
		t.Fatalf("recv message: expected ErrSocketClosed, got %v", err)
	}
}

func TestPushPullHelloOverTCP(t *testing.T) {
	testlog.Start(t)
	c := New(gozmq.New(zmq.DefaultIOThreads))
	defer c.Close()
	bind, connect := freeEndpoint(t)

	pull, err := c.CreateSocket(zmq.Pull)
	if err != nil {
		t.Fatalf("create pull: %v", err)
	}
	push, err := c.CreateSocket(zmq.Push)
	if err != nil {
		t.Fatalf("create push: %v", err)
	}
	if err := pull.Bind(bind); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := push.Connect(connect); err != nil {
		t.Fatalf("connect: %v", err)
	}

	if err := push.SendMessage(message.NewString("hello")); err != nil {
		t.Fatalf("send: %v", err)
	}

	type result struct {
		m   *message.Message
		err error
	}
	done := make(chan result, 1)
	go func() {
		m, err := pull.RecvMessage()
		done <- result{m: m, err: err}
	}()
	select {
	case r := <-done:
		if r.err != nil {
			t.Fatalf("recv: %v", r.err)
		}
		f, ok := r.m.Pop()
		if !ok || r.m.Len() != 0 {
			t.Fatalf("expected single-frame message")
		}
		if s, _ := f.StringAt(0, f.Len()); s != "hello" {
			t.Fatalf("unexpected payload: %q", s)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for hello")
	}

	c.Destroy(push)
	c.Destroy(pull)
	if c.Len() != 0 {
		t.Fatalf("sockets still owned: %d", c.Len())
	}
}
