package managed

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danmuck/zmqkit/internal/config"
	"github.com/danmuck/zmqkit/internal/zmq"
)

// resetInstance swaps the engine factory and forgets the process-wide
// Instance for the duration of the test.
func resetInstance(t *testing.T, factory func(int) zmq.Engine) {
	t.Helper()
	prevFactory := newEngine
	reset := func() {
		if instance != nil {
			instance.Close()
		}
		instanceOnce = sync.Once{}
		instance = nil
		settingsMu.Lock()
		settings = config.DefaultContextConfig()
		settings.HandleSignals = false
		initialized = false
		settingsMu.Unlock()
	}
	reset()
	newEngine = factory
	t.Cleanup(func() {
		reset()
		newEngine = prevFactory
	})
}

type countingFactory struct {
	calls   atomic.Int64
	threads atomic.Int64
	engine  zmq.Engine
}

func (f *countingFactory) build(ioThreads int) zmq.Engine {
	f.calls.Add(1)
	f.threads.Store(int64(ioThreads))
	return f.engine
}

func freeEndpoint(t *testing.T) (bind, connect string) {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	_ = l.Close()
	return fmt.Sprintf("tcp://*:%d", port), fmt.Sprintf("tcp://127.0.0.1:%d", port)
}
