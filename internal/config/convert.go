package config

import (
	"github.com/danmuck/zmqkit/internal/zmq"
)

// SocketType resolves the configured type name.
func (c SocketConfig) SocketType() (zmq.SocketType, error) {
	return zmq.ParseSocketType(c.Type)
}

// Attach binds or connects according to the config.
func (c SocketConfig) Attach(s interface {
	Bind(string) error
	Connect(string) error
}) error {
	if c.Bind {
		return s.Bind(c.Endpoint)
	}
	return s.Connect(c.Endpoint)
}
