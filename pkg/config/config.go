// Package config manages persistent configuration for the ACL/UDF control
// plane core: log level, which NPU backend to bind, and where the
// observability dump sink lives.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultTableSize is a suggested ACL table size. Nothing in this module reads
// it: pkg/acl's CreateTable does not fall back to it when no size is given.
const DefaultTableSize = 512

// Config holds the settings loaded from and saved to a YAML file.
type Config struct {
	// LogLevel is a logrus level name: "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level,omitempty"`

	// NPUBackend names an NPU implementation; "sim" is pkg/npusim.
	// aclcorectl does not read it and always binds pkg/npusim.
	NPUBackend string `yaml:"npu_backend,omitempty"`

	// DumpSinkAddr is the address of an optional Redis instance that mirrors
	// live state for observability (npusim.RedisDumpSink). aclcorectl does
	// not read it and never starts the mirror.
	DumpSinkAddr string `yaml:"dump_sink_addr,omitempty"`

	// DumpSinkDB is the Redis logical database index used for the mirror.
	DumpSinkDB int `yaml:"dump_sink_db,omitempty"`
}

const (
	// DefaultLogLevel is used when LogLevel is unset.
	DefaultLogLevel = "info"

	// DefaultNPUBackend is used when NPUBackend is unset.
	DefaultNPUBackend = "sim"
)

// DefaultPath returns the default config file location, under the user's
// home directory, falling back to /tmp if the home directory can't be
// determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/aclcore_config.yaml"
	}
	return filepath.Join(home, ".aclcore", "config.yaml")
}

// Load reads config from the default location.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads config from a specific path. A missing file yields a
// zero-value Config rather than an error, matching the teacher's settings
// package: callers read values through the Get* accessors, which apply
// defaults.
func LoadFrom(path string) (*Config, error) {
	c := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes config to the default location.
func (c *Config) Save() error {
	return c.SaveTo(DefaultPath())
}

// SaveTo writes config to a specific path, creating parent directories as
// needed.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetLogLevel returns LogLevel with the default applied.
func (c *Config) GetLogLevel() string {
	if c.LogLevel != "" {
		return c.LogLevel
	}
	return DefaultLogLevel
}

// GetNPUBackend returns NPUBackend with the default applied.
func (c *Config) GetNPUBackend() string {
	if c.NPUBackend != "" {
		return c.NPUBackend
	}
	return DefaultNPUBackend
}
