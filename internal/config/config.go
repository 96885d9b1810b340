package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/zmqkit/internal/zmq"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid")

// ContextConfig configures the process-wide managed context. Linger is the
// bounded wait in milliseconds applied on destroy; 0 drops pending messages.
type ContextConfig struct {
	IOThreads     int  `toml:"io_threads" yaml:"io_threads"`
	Linger        int  `toml:"linger" yaml:"linger"`
	HandleSignals bool `toml:"handle_signals" yaml:"handle_signals"`
}

// AdminConfig enables the health and metrics listener when Addr is set.
type AdminConfig struct {
	Addr        string   `toml:"addr" yaml:"addr"`
	CorsOrigins []string `toml:"cors_origins" yaml:"cors_origins"`
}

// SocketConfig describes one demo socket.
type SocketConfig struct {
	Type     string `toml:"type" yaml:"type"`
	Endpoint string `toml:"endpoint" yaml:"endpoint"`
	Bind     bool   `toml:"bind" yaml:"bind"`
}

// ZguideConfig configures the demo CLI.
type ZguideConfig struct {
	Name     string        `toml:"name" yaml:"name"`
	Requests int           `toml:"requests" yaml:"requests"`
	Context  ContextConfig `toml:"context" yaml:"context"`
	Server   SocketConfig  `toml:"server" yaml:"server"`
	Client   SocketConfig  `toml:"client" yaml:"client"`
	Push     SocketConfig  `toml:"push" yaml:"push"`
	Pull     SocketConfig  `toml:"pull" yaml:"pull"`
	Admin    AdminConfig   `toml:"admin" yaml:"admin"`
}

func DefaultContextConfig() ContextConfig {
	return ContextConfig{
		IOThreads:     zmq.DefaultIOThreads,
		Linger:        0,
		HandleSignals: true,
	}
}

func DefaultZguideConfig() ZguideConfig {
	return ZguideConfig{
		Name:     "zguide",
		Requests: 10,
		Context:  DefaultContextConfig(),
		Server:   SocketConfig{Type: "REP", Endpoint: "tcp://*:5555", Bind: true},
		Client:   SocketConfig{Type: "REQ", Endpoint: "tcp://127.0.0.1:5555"},
		Push:     SocketConfig{Type: "PUSH", Endpoint: "tcp://127.0.0.1:7210"},
		Pull:     SocketConfig{Type: "PULL", Endpoint: "tcp://*:7210", Bind: true},
	}
}

// LoadZguideConfig overlays the file at path onto the defaults. The format
// follows the extension: .yaml/.yml for YAML, anything else is TOML.
// Unknown keys are rejected.
func LoadZguideConfig(path string) (ZguideConfig, error) {
	cfg := DefaultZguideConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := loadYAML(path, &cfg); err != nil {
			return ZguideConfig{}, err
		}
	default:
		if err := loadToml(path, &cfg); err != nil {
			return ZguideConfig{}, err
		}
	}
	if err := ValidateZguideConfig(cfg); err != nil {
		return ZguideConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	meta, err := toml.DecodeFile(path, out)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%w: unknown keys in %s: %v", ErrInvalidConfig, path, undecoded)
	}
	return nil
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateContextConfig(cfg ContextConfig) error {
	if cfg.IOThreads <= 0 {
		return fmt.Errorf("%w: io_threads must be positive, got %d", ErrInvalidConfig, cfg.IOThreads)
	}
	if cfg.Linger < 0 {
		return fmt.Errorf("%w: linger must be >= 0 so close never blocks, got %d", ErrInvalidConfig, cfg.Linger)
	}
	return nil
}

func ValidateZguideConfig(cfg ZguideConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if cfg.Requests < 0 {
		return fmt.Errorf("%w: requests must not be negative", ErrInvalidConfig)
	}
	if err := ValidateContextConfig(cfg.Context); err != nil {
		return err
	}
	sockets := map[string]SocketConfig{
		"server": cfg.Server,
		"client": cfg.Client,
		"push":   cfg.Push,
		"pull":   cfg.Pull,
	}
	for name, sc := range sockets {
		if err := ValidateSocketConfig(sc); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func ValidateSocketConfig(cfg SocketConfig) error {
	if _, err := cfg.SocketType(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	ep := strings.TrimSpace(cfg.Endpoint)
	if ep == "" {
		return fmt.Errorf("%w: endpoint is required", ErrInvalidConfig)
	}
	if !strings.Contains(ep, "://") {
		return fmt.Errorf("%w: endpoint %q missing transport prefix", ErrInvalidConfig, ep)
	}
	return nil
}
