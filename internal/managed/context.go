package managed

import (
	"errors"
	"sync"

	"github.com/danmuck/zmqkit/internal/config"
	"github.com/danmuck/zmqkit/internal/observability"
	"github.com/danmuck/zmqkit/internal/zmq"
	"github.com/danmuck/zmqkit/internal/zmq/gozmq"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrContextClosed      = errors.New("managed: context closed")
	ErrAlreadyInitialized = errors.New("managed: instance already initialized")
)

// Context owns one engine and the sockets created from it.
type Context struct {
	engine zmq.Engine
	logger zerolog.Logger
	linger int

	mu      sync.Mutex
	sockets map[*Socket]struct{}
	closed  bool
}

type Option func(*Context)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

// WithLinger sets the LINGER value applied when a socket is destroyed.
// Zero discards pending outbound messages on close. A positive value is an
// opt-in bounded wait; negative values (infinite linger) are treated as zero
// so destroy never blocks indefinitely.
func WithLinger(ms int) Option {
	return func(c *Context) {
		if ms < 0 {
			ms = 0
		}
		c.linger = ms
	}
}

// New builds a standalone Context around engine. Most callers want Instance.
func New(engine zmq.Engine, opts ...Option) *Context {
	c := &Context{
		engine:  engine,
		logger:  log.Logger.With().Str("component", "managed").Logger(),
		sockets: make(map[*Socket]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	instanceOnce sync.Once
	instance     *Context

	settingsMu  sync.Mutex
	settings    = config.DefaultContextConfig()
	initialized bool

	newEngine = func(ioThreads int) zmq.Engine {
		return gozmq.New(ioThreads)
	}
)

// Configure replaces the settings used to build the process-wide Instance.
// It fails once Instance has been called.
func Configure(cfg config.ContextConfig) error {
	if err := config.ValidateContextConfig(cfg); err != nil {
		return err
	}
	settingsMu.Lock()
	defer settingsMu.Unlock()
	if initialized {
		return ErrAlreadyInitialized
	}
	settings = cfg
	return nil
}

// Instance returns the process-wide Context, building it on first use.
// Concurrent first calls observe a single construction.
func Instance() *Context {
	instanceOnce.Do(func() {
		settingsMu.Lock()
		cfg := settings
		initialized = true
		settingsMu.Unlock()

		instance = New(newEngine(cfg.IOThreads), WithLinger(cfg.Linger))
		instance.logger.Debug().
			Int("io_threads", cfg.IOThreads).
			Int("linger", cfg.Linger).
			Bool("handle_signals", cfg.HandleSignals).
			Msg("managed context created")
		if cfg.HandleSignals {
			InstallSignalHandler(instance)
		}
	})
	return instance
}

// CreateSocket asks the engine for a socket of type t and registers it.
// Engine failures are returned as-is.
func (c *Context) CreateSocket(t zmq.SocketType) (*Socket, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, ErrContextClosed
	}

	raw, err := c.engine.NewSocket(t)
	if err != nil {
		return nil, err
	}
	s := &Socket{
		id:   uuid.NewString(),
		typ:  t,
		raw:  raw,
		ctx:  c,
		name: t.String(),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		// Close ran while the engine call was in flight.
		_ = raw.Close()
		return nil, ErrContextClosed
	}
	c.sockets[s] = struct{}{}
	c.mu.Unlock()

	observability.RecordSocketCreated(s.name)
	c.logger.Debug().Str("socket_id", s.id).Str("type", s.name).Msg("socket created")
	return s, nil
}

// Destroy closes s with the configured linger and forgets it. Close
// failures are logged and swallowed. Unknown or already destroyed sockets
// are ignored.
func (c *Context) Destroy(s *Socket) {
	if s == nil {
		return
	}
	if s.ctx != c {
		c.logger.Warn().Str("socket_id", s.id).Msg("destroy of socket owned by another context ignored")
		return
	}
	c.mu.Lock()
	_, owned := c.sockets[s]
	delete(c.sockets, s)
	c.mu.Unlock()
	if !owned {
		return
	}
	c.release(s)
}

// Close destroys every owned socket and then the engine. Only the first call
// has any effect.
func (c *Context) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	owned := c.sockets
	c.sockets = make(map[*Socket]struct{})
	c.mu.Unlock()

	for s := range owned {
		c.release(s)
	}
	if err := c.engine.Close(); err != nil {
		c.logger.Warn().Err(err).Msg("engine close failed")
	}
	c.logger.Debug().Int("sockets", len(owned)).Msg("managed context closed")
}

// Closed reports whether Close has run.
func (c *Context) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Len returns the number of sockets currently owned.
func (c *Context) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sockets)
}

// release is only called by the path that removed s from the owned set, so
// each raw socket is closed once.
func (c *Context) release(s *Socket) {
	s.closed.Store(true)
	if err := s.raw.SetOption(zmq.OptLinger, c.linger); err != nil {
		c.logger.Warn().Err(err).Str("socket_id", s.id).Str("type", s.name).Msg("set linger failed")
	}
	err := s.raw.Close()
	if err != nil {
		c.logger.Warn().Err(err).Str("socket_id", s.id).Str("type", s.name).Msg("socket close failed")
	}
	observability.RecordSocketDestroyed(s.name, err)
	c.logger.Debug().Str("socket_id", s.id).Str("type", s.name).Msg("socket destroyed")
}
