package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectConfig is the top-level oric.yaml configuration.
type ProjectConfig struct {
	// Module is the project's module name, used to namespace diagnostics
	// and cache entries.
	Module string `yaml:"module"`

	// Entry is the path to the project's entry source file.
	Entry string `yaml:"entry"`

	Cache       CacheConfig       `yaml:"cache"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Emit        EmitConfig        `yaml:"emit"`
}

// CacheConfig controls the AST-level reuse cache.
type CacheConfig struct {
	// Enabled turns the sqlite-backed reuse cache on or off. Defaults to
	// false when omitted; a project opts in explicitly.
	Enabled bool `yaml:"enabled"`

	// Path is the sqlite database file. It is opened as given, so a
	// relative path is relative to the working directory.
	Path string `yaml:"path,omitempty"`
}

// DiagnosticsConfig controls how compiler diagnostics are rendered.
type DiagnosticsConfig struct {
	// Color is one of "auto", "always", "never". Defaults to "auto".
	Color string `yaml:"color,omitempty"`
}

// EmitConfig selects the IR handoff target.
type EmitConfig struct {
	// Target is either an output directory (each function's serialized
	// bundle is written there as "<function name>.irbundle") or a
	// "host:port" network address (the emitter dials it over gRPC
	// instead). Defaults to "ir-proto", a directory relative to the
	// working directory.
	Target string `yaml:"target,omitempty"`
}

const defaultCachePath = ".oric-cache.db"

// Load reads and parses an oric.yaml file, filling in defaults for
// anything the project left unspecified.
func Load(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses oric.yaml content from bytes. path is used only for error
// messages.
func Parse(data []byte, path string) (*ProjectConfig, error) {
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *ProjectConfig) validate(path string) error {
	if c.Module == "" {
		return fmt.Errorf("%s: module is required", path)
	}
	if c.Entry == "" {
		return fmt.Errorf("%s: entry is required", path)
	}
	switch c.Diagnostics.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("%s: diagnostics.color must be auto, always, or never, got %q", path, c.Diagnostics.Color)
	}
	return nil
}

func (c *ProjectConfig) setDefaults() {
	if c.Cache.Path == "" {
		c.Cache.Path = defaultCachePath
	}
	if c.Diagnostics.Color == "" {
		c.Diagnostics.Color = "auto"
	}
	if c.Emit.Target == "" {
		c.Emit.Target = "ir-proto"
	}
}
