package main

import (
	"bytes"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/zmqkit/internal/config"
	"github.com/danmuck/zmqkit/internal/managed"
	"github.com/danmuck/zmqkit/internal/testutil/testlog"
	"github.com/danmuck/zmqkit/internal/zmq"
	"github.com/danmuck/zmqkit/internal/zmq/gozmq"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// useContext points the subcommands at a private context for one test.
func useContext(t *testing.T) *managed.Context {
	t.Helper()
	zctx := managed.New(gozmq.New(zmq.DefaultIOThreads))
	prev := openContext
	openContext = func(config.ContextConfig) (*managed.Context, error) {
		return zctx, nil
	}
	t.Cleanup(func() {
		openContext = prev
		zctx.Close()
	})
	return zctx
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	_ = l.Close()
	return port
}

func TestExampleConfigLoads(t *testing.T) {
	testlog.Start(t)
	cfg, err := config.LoadZguideConfig("ex.config.toml")
	if err != nil {
		t.Fatalf("load example: %v", err)
	}
	if cfg.Name != "zguide.local" || cfg.Requests != 5 {
		t.Fatalf("unexpected example config: %+v", cfg)
	}
	if cfg.Admin.Addr != "127.0.0.1:7011" {
		t.Fatalf("unexpected admin addr: %q", cfg.Admin.Addr)
	}
}

func TestConfigCommandPrintsDefaults(t *testing.T) {
	testlog.Start(t)
	out, err := runCmd(t, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, want := range []string{"io_threads", "tcp://*:5555", "handle_signals"} {
		if !strings.Contains(out, want) {
			t.Fatalf("config output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigCommandReflectsLoadedFile(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "zguide.yaml")
	if err := os.WriteFile(path, []byte("push:\n  type: PUSH\n  endpoint: tcp://10.0.0.1:9000\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := runCmd(t, "--config", path, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(out, "tcp://10.0.0.1:9000") {
		t.Fatalf("loaded override missing:\n%s", out)
	}

	dest := filepath.Join(t.TempDir(), "out.toml")
	if _, err := runCmd(t, "--config", path, "config", "-o", dest); err != nil {
		t.Fatalf("config -o: %v", err)
	}
	cfg, err := config.LoadZguideConfig(dest)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg.Push.Endpoint != "tcp://10.0.0.1:9000" {
		t.Fatalf("written config lost override: %+v", cfg.Push)
	}
	if _, err := runCmd(t, "config", "-o", dest); err == nil {
		t.Fatalf("expected refusal to overwrite without --force")
	}
}

func TestInvalidConfigFails(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[context]\nio_threads = -1\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := runCmd(t, "--config", path, "config"); err == nil {
		t.Fatalf("expected invalid config error")
	}
}

func TestHelloWorldRoundTrip(t *testing.T) {
	testlog.Start(t)
	zctx := useContext(t)
	port := freePort(t)

	serverDone := make(chan error, 1)
	var serverOut bytes.Buffer
	go func() {
		root := newRootCmd()
		root.SetOut(&serverOut)
		root.SetArgs([]string{"hwserver", "--endpoint", fmt.Sprintf("tcp://*:%d", port)})
		serverDone <- root.Execute()
	}()
	time.Sleep(100 * time.Millisecond)

	out, err := runCmd(t, "hwclient", "--endpoint", fmt.Sprintf("tcp://127.0.0.1:%d", port), "--requests", "2")
	if err != nil {
		t.Fatalf("hwclient: %v", err)
	}
	if strings.Count(out, "[ World ]") != 2 {
		t.Fatalf("unexpected client output:\n%s", out)
	}

	// Shutdown closes the REP socket under the blocked receive; the server
	// treats that as a clean stop.
	zctx.Close()
	select {
	case err := <-serverDone:
		if err != nil {
			t.Fatalf("hwserver: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("hwserver did not finish")
	}
	if strings.Count(serverOut.String(), "Received Hello") != 2 {
		t.Fatalf("unexpected server output:\n%s", serverOut.String())
	}
	if !zctx.Closed() || zctx.Len() != 0 {
		t.Fatalf("context not shut down: closed=%v sockets=%d", zctx.Closed(), zctx.Len())
	}
}

func TestPushPullPrintsMultipart(t *testing.T) {
	testlog.Start(t)
	useContext(t)
	port := freePort(t)

	pullDone := make(chan error, 1)
	var pullOut bytes.Buffer
	go func() {
		root := newRootCmd()
		root.SetOut(&pullOut)
		root.SetArgs([]string{"pull", "--endpoint", fmt.Sprintf("tcp://*:%d", port), "--count", "1"})
		pullDone <- root.Execute()
	}()
	time.Sleep(100 * time.Millisecond)

	if _, err := runCmd(t, "push", "--endpoint", fmt.Sprintf("tcp://127.0.0.1:%d", port), "key", "value"); err != nil {
		t.Fatalf("push: %v", err)
	}
	select {
	case err := <-pullDone:
		if err != nil {
			t.Fatalf("pull: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("pull did not finish")
	}
	if got := strings.TrimSpace(pullOut.String()); got != "key | value" {
		t.Fatalf("unexpected pull output: %q", got)
	}
}
