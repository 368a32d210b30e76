// Package config loads the schematic configuration file.
//
// Config file locations (priority order):
//  1. $SCHEMATIC_CONFIG
//  2. ./schematic.toml
//  3. $XDG_CONFIG_HOME/schematic/config.toml
//  4. ~/.config/schematic/config.toml
//
// A missing file is not an error; defaults apply. Command-line flags
// override file values.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root of the configuration file.
type Config struct {
	Draw   DrawConfig   `toml:"draw"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// DrawConfig holds drawing defaults.
type DrawConfig struct {
	Nodes   bool     `toml:"nodes"`
	Labels  bool     `toml:"labels"`
	Args    string   `toml:"args"`
	Formats []string `toml:"formats"`
	Wires   string   `toml:"wires"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Enabled   bool     `toml:"enabled"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`

	// Scope prefixes every key so several projects can share one Redis.
	Scope string `toml:"scope"`
}

// ServerConfig configures `schematic serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string ("24h") in TOML.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Draw: DrawConfig{
			Nodes:   true,
			Labels:  true,
			Formats: []string{"tikz"},
			Wires:   "chain",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     Duration(24 * time.Hour),
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load finds and loads the config file, or returns defaults if none is
// found. The returned path is empty when defaults are used.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return Default(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path. Keys absent from the file
// keep their default values.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, path, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, path, fmt.Errorf("parse config %s: unknown key %s", path, undecoded[0])
	}
	cfg.applyDefaults()
	return cfg, path, nil
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func (c *Config) applyDefaults() {
	if len(c.Draw.Formats) == 0 {
		c.Draw.Formats = []string{"tikz"}
	}
	if c.Draw.Wires == "" {
		c.Draw.Wires = "chain"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}
