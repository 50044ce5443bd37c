// Package config holds globmod's user-facing settings and loads the
// optional project config file (globmod.toml, or globmod.yaml as a
// fallback).
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/globmod/globmod/pkg/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config file names looked up in the project root, in order.
const (
	TOMLFileName = "globmod.toml"
	YAMLFileName = "globmod.yaml"
)

// Config carries every user-tunable setting. Zero values mean "use the
// default"; call Normalize before reading fields.
type Config struct {
	// Prefix is the specifier scheme, "glob" unless overridden.
	Prefix string `toml:"prefix" yaml:"prefix"`

	// Extensions are the project source file extensions the rewrite
	// transform is installed for.
	Extensions []string `toml:"extensions" yaml:"extensions"`

	// ExcludeDirs are directory names the transform never runs in.
	ExcludeDirs []string `toml:"exclude_dirs" yaml:"exclude_dirs"`

	// BuildDir and DepsDir feed the cache location policy.
	BuildDir string `toml:"build_dir" yaml:"build_dir"`
	DepsDir  string `toml:"deps_dir" yaml:"deps_dir"`

	// EagerSeed controls whether previously known virtual modules are
	// regenerated and registered at plugin construction. On unless
	// explicitly disabled.
	EagerSeed *bool `toml:"eager_seed" yaml:"eager_seed"`
}

// Default returns the built-in configuration.
func Default() *Config {
	on := true
	return &Config{
		Prefix:      "glob",
		Extensions:  []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts"},
		ExcludeDirs: []string{"node_modules"},
		BuildDir:    ".build",
		DepsDir:     "node_modules",
		EagerSeed:   &on,
	}
}

// Normalize fills unset fields from the defaults.
func (c *Config) Normalize() {
	d := Default()
	if c.Prefix == "" {
		c.Prefix = d.Prefix
	}
	if len(c.Extensions) == 0 {
		c.Extensions = d.Extensions
	}
	if len(c.ExcludeDirs) == 0 {
		c.ExcludeDirs = d.ExcludeDirs
	}
	if c.BuildDir == "" {
		c.BuildDir = d.BuildDir
	}
	if c.DepsDir == "" {
		c.DepsDir = d.DepsDir
	}
	if c.EagerSeed == nil {
		c.EagerSeed = d.EagerSeed
	}
}

// EagerSeedEnabled reports whether construction should replay the
// manifest into the registry.
func (c *Config) EagerSeedEnabled() bool {
	return c.EagerSeed == nil || *c.EagerSeed
}

// Validate reports configuration errors with stable codes.
func (c *Config) Validate() error {
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return errors.Newf(errors.ErrConfigValid, "extension %q must start with a dot", ext)
		}
	}
	if strings.ContainsAny(c.BuildDir, "/\\") || strings.ContainsAny(c.DepsDir, "/\\") {
		return errors.New(errors.ErrConfigValid, "build_dir and deps_dir must be bare directory names")
	}
	return nil
}

// Load parses the config file at path, chosen by extension, and merges
// it over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "reading config %q", path)
	}

	cfg := &Config{}
	switch filepath.Ext(path) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, errors.Newf(errors.ErrConfigLoad, "unsupported config format %q", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "parsing config %q", path)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadProject looks for a config file in the project root, trying TOML
// first. A project without a config file gets the defaults.
func LoadProject(root string) (*Config, error) {
	for _, name := range []string{TOMLFileName, YAMLFileName} {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "checking config %q", path)
		}
		return Load(path)
	}
	return Default(), nil
}
