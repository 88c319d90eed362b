// Package config loads recipro configuration.
//
// Precedence (highest to lowest):
//  1. RECIPRO_* environment variables (RECIPRO_SERVER_PORT -> server.port)
//  2. YAML config file
//  3. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variable names.
const EnvPrefix = "RECIPRO_"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

const defaults = `
store:
  driver: sqlite
  path: recipro.db
  seed: true
server:
  host: 127.0.0.1
  port: 8080
log:
  level: normal
  file: ""
user:
  name: guest
`

// Config is the full application configuration.
type Config struct {
	Store  StoreConfig  `koanf:"store"`
	Server ServerConfig `koanf:"server"`
	Log    LogConfig    `koanf:"log"`
	User   UserConfig   `koanf:"user"`
}

// StoreConfig selects the recipe store. The memory driver keeps nothing
// between runs.
type StoreConfig struct {
	Driver string `koanf:"driver"`
	Path   string `koanf:"path"`
	Seed   bool   `koanf:"seed"`
}

// ServerConfig is the HTTP listener.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig controls verbosity and where logs go. An empty file means
// stderr.
type LogConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"`
}

// UserConfig names the operator. Admin status is derived from the name.
type UserConfig struct {
	Name string `koanf:"name"`
}

// Load builds the configuration. An empty path skips the file layer; a
// path that does not exist is an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider([]byte(defaults)), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// envKey maps RECIPRO_SECTION_FIELD to section.field.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

var validLevels = map[string]bool{
	"off": true, "quiet": true, "none": true,
	"normal": true, "info": true, "": true,
	"verbose": true, "debug": true,
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			errs = append(errs, errors.New("store.path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver %q must be %q or %q", c.Store.Driver, DriverMemory, DriverSQLite))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}

	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Errorf("log.level %q is not one of off, normal, verbose", c.Log.Level))
	}

	return errors.Join(errs...)
}
