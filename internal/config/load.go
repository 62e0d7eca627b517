// internal/config/load.go
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
	"gopkg.in/yaml.v3"
)

// Load reads a config file. The format follows the extension:
// .toml is TOML, anything else is YAML.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := decodeTOML(raw, &cfg); err != nil {
			return nil, err
		}
	default:
		if err := decodeYAML(raw, &cfg); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func decodeYAML(raw []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	// an empty file is an all-defaults config
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse yaml config: %w", err)
	}
	return nil
}

func decodeTOML(raw []byte, cfg *Config) error {
	meta, err := toml.Decode(string(raw), cfg)
	if err != nil {
		return fmt.Errorf("parse toml config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("parse toml config: unknown key %q", undecoded[0].String())
	}
	return nil
}
