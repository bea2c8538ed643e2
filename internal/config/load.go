// Package config loads physarum configurations from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"physarum/internal/core"
	"physarum/internal/sims/physarum"
)

// ErrUnsupportedFormat reports a config file whose extension is neither TOML
// nor YAML.
var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// Load reads path over the default configuration and validates the result.
// Keys missing from the file keep their defaults.
func Load(path string) (physarum.Config, error) {
	cfg := physarum.DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return physarum.Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return physarum.Config{}, fmt.Errorf("%w: %s: unknown key %q", physarum.ErrInvalidConfig, path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return physarum.Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return physarum.Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return physarum.Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err := cfg.Validate(); err != nil {
		return physarum.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Agents = min(cfg.Agents, physarum.MaxAgents)
	return cfg, nil
}

// Save writes cfg to path in the format picked by its extension.
func Save(path string, cfg physarum.Config) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var sb strings.Builder
		err = toml.NewEncoder(&sb).Encode(cfg)
		data = []byte(sb.String())
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Resolve builds the configuration a frontend starts with: the file at path
// (or the defaults when path is empty) overridden by a startup string such as
// "cells=1000&resolution=win2". Resolution presets are measured against
// viewport.
func Resolve(path, startup string, viewport core.Size) (physarum.Config, error) {
	cfg := physarum.DefaultConfig()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return physarum.Config{}, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyStartup(startup, viewport); err != nil {
		return physarum.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return physarum.Config{}, err
	}
	return cfg, nil
}
