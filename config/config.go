// Package config handles loxvm.toml configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"

	"github.com/chazu/loxvm/vm"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "loxvm.toml"

var log = commonlog.GetLogger("loxvm.config")

// Config represents a loxvm.toml file.
type Config struct {
	VM  VMConfig  `toml:"vm"`
	Log LogConfig `toml:"log"`

	// Path is the file the configuration was read from (set at load time).
	// Empty for Default.
	Path string `toml:"-"`
}

// VMConfig configures the virtual machine.
type VMConfig struct {
	StackMax int  `toml:"stack-max"`
	Trace    bool `toml:"trace"`
}

// LogConfig configures the commonlog backend.
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadFile parses a configuration file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	c.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	if c.VM.StackMax < 0 {
		return nil, fmt.Errorf("%s: vm.stack-max must not be negative, got %d", path, c.VM.StackMax)
	}
	c.applyDefaults()
	return &c, nil
}

// Load parses loxvm.toml from the given directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// FindAndLoad walks up from startDir to find a loxvm.toml file, then loads
// and returns it. Returns Default() if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return Default(), nil
		}
		dir = parent
	}
}

func (c *Config) applyDefaults() {
	if c.VM.StackMax == 0 {
		c.VM.StackMax = vm.DefaultStackMax
	}
}

// VMOptions converts the [vm] table into a vm.Config.
func (c *Config) VMOptions() vm.Config {
	return vm.Config{
		StackMax: c.VM.StackMax,
		Trace:    c.VM.Trace,
	}
}

// LogPath returns the log file for commonlog.Configure, or nil for stderr.
// Relative paths are resolved against the configuration file's directory.
func (c *Config) LogPath() *string {
	if c.Log.File == "" {
		return nil
	}
	path := c.Log.File
	if !filepath.IsAbs(path) && c.Path != "" {
		path = filepath.Join(filepath.Dir(c.Path), path)
	}
	return &path
}

// ConfigureLogging sets up commonlog from the [log] table. extraVerbosity is
// added to the configured verbosity (the CLI's -v count). The configuration
// source is logged once the backend is ready.
func (c *Config) ConfigureLogging(extraVerbosity int) {
	commonlog.Configure(c.Log.Verbosity+extraVerbosity, c.LogPath())
	if c.Path != "" {
		log.Debugf("loaded %s", c.Path)
	} else {
		log.Debug("no loxvm.toml found, using defaults")
	}
}
