package managed

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// reraise delivers sig to this process again once our handler is gone, so
// the default action still ends the process.
var reraise = func(sig os.Signal) {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return
	}
	_ = p.Signal(sig)
}

// InstallSignalHandler closes c on the first of signals (SIGINT and SIGTERM
// when none are given). The returned stop func removes the handler without
// closing c.
func InstallSignalHandler(c *Context, signals ...os.Signal) (stop func()) {
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, signals...)

	done := make(chan struct{})
	var once sync.Once
	stop = func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
	}

	go func() {
		select {
		case sig := <-ch:
			c.logger.Info().Str("signal", sig.String()).Msg("signal received, closing managed sockets")
			c.Close()
			stop()
			reraise(sig)
		case <-done:
		}
	}()
	return stop
}
