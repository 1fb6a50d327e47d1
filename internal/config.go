package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFile is the name looked up when no explicit config path is given
const ConfigFile = "lox.toml"

// ConfigEnv names an environment variable pointing at a config file
const ConfigEnv = "LOX_CONFIG"

// Config holds interpreter settings read from lox.toml
type Config struct {
	Runtime RuntimeConfig `toml:"runtime"`
	Log     LogConfig     `toml:"log"`
	Repl    ReplConfig    `toml:"repl"`
	Output  OutputConfig  `toml:"output"`

	// Path is the file the config was loaded from, empty for defaults
	Path string `toml:"-"`
}

// RuntimeConfig changes how programs evaluate and print
type RuntimeConfig struct {
	NilMarker  string `toml:"nil_marker"`
	StrictPlus bool   `toml:"strict_plus"`
}

// LogConfig sets the logrus level
type LogConfig struct {
	Level string `toml:"level"`
}

// ReplConfig configures the interactive prompt
type ReplConfig struct {
	Prompt  string `toml:"prompt"`
	History string `toml:"history"`
}

// OutputConfig configures terminal output
type OutputConfig struct {
	Color bool `toml:"color"`
}

// DefaultConfig returns the settings used when no file overrides them
func DefaultConfig() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			NilMarker:  "nil",
			StrictPlus: false,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Repl: ReplConfig{
			Prompt:  "> ",
			History: ".lox_history",
		},
		Output: OutputConfig{
			Color: true,
		},
	}
}

// LoadConfig decodes path on top of DefaultConfig, so keys missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}

	if cfg.Runtime.NilMarker == "" {
		cfg.Runtime.NilMarker = "nil"
	}
	cfg.Path = path
	return cfg, nil
}

// FindConfig walks up from startDir looking for lox.toml. It returns an
// empty path and no error when there is none.
func FindConfig(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		path := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// ResolveConfig picks the config in order: explicit path, LOX_CONFIG, the
// nearest lox.toml above startDir, then defaults.
func ResolveConfig(explicit, startDir string) (*Config, error) {
	if explicit != "" {
		return LoadConfig(explicit)
	}
	if env := os.Getenv(ConfigEnv); env != "" {
		return LoadConfig(env)
	}
	path, err := FindConfig(startDir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}
