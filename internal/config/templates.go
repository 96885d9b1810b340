package config

import (
	"fmt"
	"os"
	"strings"

	gotoml "github.com/pelletier/go-toml/v2"
)

// Render encodes cfg as TOML in the layout LoadZguideConfig reads.
func Render(cfg ZguideConfig) ([]byte, error) {
	out, err := gotoml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config render failed: %w", err)
	}
	return out, nil
}

// Template returns the default config for kind. Only "zguide" exists today.
func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "zguide":
		out, err := Render(DefaultZguideConfig())
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	return writeFile(path, []byte(template), overwrite)
}

// Write renders cfg to path.
func Write(path string, cfg ZguideConfig, overwrite bool) error {
	out, err := Render(cfg)
	if err != nil {
		return err
	}
	return writeFile(path, out, overwrite)
}

func writeFile(path string, data []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, data, 0o600)
}
