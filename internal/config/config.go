// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package config reads defaults for the command line tool from
// ~/.config/resourceform/config.yaml (or the platform's equivalent).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config mirrors the command line flags. Pointers and empty strings
// mean "not set", so that a flag given explicitly always wins.
type Config struct {
	Fork       string `yaml:"fork"`
	Decompress *bool  `yaml:"decompress"`
	Sort       *bool  `yaml:"sort"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	CacheDir     string `yaml:"cache_dir"`
	CacheEntries *int   `yaml:"cache_entries"`

	ServerAddress string `yaml:"server_address"`
	ServerRoot    string `yaml:"server_root"`
	OpenFiles     *int   `yaml:"open_files"`
}

// Path returns the default location, or "" if there is no config directory.
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "resourceform", "config.yaml")
}

// Load reads the default file. A missing file is a zero Config.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}
	cfg, err := LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	return cfg, err
}

func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Fork {
	case "", "auto", "data", "rsrc":
	default:
		return fmt.Errorf("config: fork must be auto, data or rsrc, not %q", c.Fork)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: log_format must be text or json, not %q", c.LogFormat)
	}
	if c.CacheEntries != nil && *c.CacheEntries < 0 {
		return fmt.Errorf("config: cache_entries cannot be negative")
	}
	if c.OpenFiles != nil && *c.OpenFiles <= 0 {
		return fmt.Errorf("config: open_files must be positive")
	}
	return nil
}
