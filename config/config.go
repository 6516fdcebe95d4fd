// Package config handles librender.toml configuration.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/librender/bytecode"
	"github.com/wippyai/librender/errors"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "librender.toml"

// Defaults
const (
	DefaultMaxCapacity = 16 << 20
	DefaultOutputPath  = "out.bin"
	DefaultLogLevel    = "info"
)

// Config represents a librender.toml file.
type Config struct {
	Log    Log    `toml:"log"`
	Output Output `toml:"output"`

	// Dir is the directory containing the file, empty for defaults.
	Dir string `toml:"-"`

	Buffer Buffer `toml:"buffer"`
}

// Buffer configures buffers created by the CLI.
type Buffer struct {
	InitialCapacity int `toml:"initial_capacity"`
	MaxCapacity     int `toml:"max_capacity"`
}

// Output configures where compiled streams are written.
type Output struct {
	Path string `toml:"path"`
}

// Log configures the zap logger.
type Log struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Buffer: Buffer{
			InitialCapacity: bytecode.DefaultCapacity,
			MaxCapacity:     DefaultMaxCapacity,
		},
		Output: Output{Path: DefaultOutputPath},
		Log:    Log{Level: DefaultLogLevel},
	}
}

// Load parses the configuration file at path. Keys missing from the file keep
// their defaults; unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseConfig, "Load", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		e := errors.WithPath(errors.PhaseConfig, err)
		e.Op = "Load"
		e.Detail = path + ": " + e.Detail
		return nil, e
	}

	cfg.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, errors.IO(errors.PhaseConfig, "Load", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates TOML configuration data.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "malformed toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.InvalidData(errors.PhaseConfig, undecoded[0], "unknown key")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindAndLoad walks up from startDir to find a librender.toml file and loads
// it. Default() is returned when no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, errors.IO(errors.PhaseConfig, "FindAndLoad", startDir, err)
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Buffer.InitialCapacity < 0 {
		return errors.InvalidData(errors.PhaseConfig, []string{"buffer", "initial_capacity"}, "must not be negative")
	}
	if c.Buffer.MaxCapacity < 0 {
		return errors.InvalidData(errors.PhaseConfig, []string{"buffer", "max_capacity"}, "must not be negative")
	}
	if c.Buffer.MaxCapacity > 0 && c.Buffer.InitialCapacity > c.Buffer.MaxCapacity {
		return errors.InvalidData(errors.PhaseConfig, []string{"buffer", "initial_capacity"}, "exceeds max_capacity")
	}
	if c.Output.Path == "" {
		return errors.InvalidData(errors.PhaseConfig, []string{"output", "path"}, "must not be empty")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		e := errors.InvalidData(errors.PhaseConfig, []string{"log", "level"}, err.Error())
		e.Value = c.Log.Level
		return e
	}
	return nil
}

// BufferOptions returns the options applying the configured limit.
func (c *Config) BufferOptions() []bytecode.Option {
	if c.Buffer.MaxCapacity <= 0 {
		return nil
	}
	return []bytecode.Option{bytecode.WithMaxCapacity(c.Buffer.MaxCapacity)}
}

// NewBuffer creates a buffer with the configured capacity and limit.
func (c *Config) NewBuffer() (*bytecode.Buffer, error) {
	return bytecode.New(c.Buffer.InitialCapacity, c.BufferOptions()...)
}

// NewPool creates a buffer pool with the configured capacity and limit.
func (c *Config) NewPool() *bytecode.Pool {
	return bytecode.NewPool(c.Buffer.InitialCapacity, c.BufferOptions()...)
}

// OutputPath returns the output path, resolved against Dir when relative.
func (c *Config) OutputPath() string {
	if c.Dir == "" || filepath.IsAbs(c.Output.Path) {
		return c.Output.Path
	}
	return filepath.Join(c.Dir, c.Output.Path)
}

// NewLogger builds a zap logger from the log section.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "log.level")
	}

	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}

	l, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "build logger")
	}
	return l, nil
}
