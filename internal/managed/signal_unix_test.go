//go:build unix

package managed

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/danmuck/zmqkit/internal/testutil/testlog"
	"github.com/danmuck/zmqkit/internal/zmq"
	"github.com/danmuck/zmqkit/internal/zmq/zmqtest"
)

func TestSignalClosesContextAndReraises(t *testing.T) {
	testlog.Start(t)
	raised := make(chan os.Signal, 1)
	prev := reraise
	reraise = func(sig os.Signal) { raised <- sig }
	t.Cleanup(func() { reraise = prev })

	engine := zmqtest.NewEngine()
	c := New(engine)
	if _, err := c.CreateSocket(zmq.Push); err != nil {
		t.Fatalf("create: %v", err)
	}
	stop := InstallSignalHandler(c, syscall.SIGUSR1)
	defer stop()

	if err := syscall.Kill(os.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatalf("kill: %v", err)
	}
	select {
	case sig := <-raised:
		if sig != syscall.SIGUSR1 {
			t.Fatalf("unexpected reraised signal: %v", sig)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("signal handler did not run")
	}
	if !c.Closed() || !engine.Closed() {
		t.Fatalf("context not closed by signal")
	}
	if engine.Sockets()[0].CloseCalls() != 1 {
		t.Fatalf("socket not closed by signal")
	}
}

func TestSignalHandlerStopLeavesContextOpen(t *testing.T) {
	testlog.Start(t)
	c := New(zmqtest.NewEngine())
	stop := InstallSignalHandler(c, syscall.SIGUSR2)
	stop()
	stop()
	if c.Closed() {
		t.Fatalf("stop must not close the context")
	}
}
