// Package config loads and validates the gauntlet project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gauntlet-dev/gauntlet/internal/pathutil"
)

// DefaultFileName is the conventional config file name, discovered in the
// working directory when --config is not given.
const DefaultFileName = ".gauntlet.yaml"

// DefaultSelectionVar is the backend-selection variable used when the config
// does not name one.
const DefaultSelectionVar = "GAUNTLET_BACKEND"

// Load reads the configuration from the given path. Unlike an optional
// per-user config, a harness with no config has nothing to test, so a
// missing file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}

	baseDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directory: %w", err)
	}

	applyDefaults(&cfg, baseDir)

	if err := expandPaths(&cfg, baseDir); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

// Discover returns the config path to use: the explicit path if non-empty,
// otherwise DefaultFileName in the current working directory.
func Discover(explicit string) (string, error) {
	if explicit != "" {
		return pathutil.ExpandTilde(explicit)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(wd, DefaultFileName), nil
}

// applyDefaults fills in missing optional fields.
func applyDefaults(cfg *Config, baseDir string) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.Backend.SelectionVar == "" {
		cfg.Backend.SelectionVar = DefaultSelectionVar
	}
	if len(cfg.Backend.VersionArgs) == 0 {
		cfg.Backend.VersionArgs = []string{"--version"}
	}
	if cfg.Check.Dir == "" {
		cfg.Check.Dir = baseDir
	}
	if cfg.Lint.Dir == "" {
		cfg.Lint.Dir = baseDir
	}
	if cfg.Install.Name == "" && cfg.Install.Tool != "" {
		cfg.Install.Name = filepath.Base(cfg.Install.Tool)
	}
}

// expandPaths expands ~ and resolves relative paths against the config
// file's directory.
func expandPaths(cfg *Config, baseDir string) error {
	expand := func(p string) (string, error) {
		expanded, err := pathutil.ExpandTilde(p)
		if err != nil {
			return "", err
		}
		return pathutil.ResolveRelative(baseDir, expanded), nil
	}

	var err error
	for i, v := range cfg.Backend.Versions {
		if v.Root == "" {
			continue
		}
		if cfg.Backend.Versions[i].Root, err = expand(v.Root); err != nil {
			return fmt.Errorf("version %q: %w", v.Name, err)
		}
	}
	if cfg.Check.Dir, err = expand(cfg.Check.Dir); err != nil {
		return err
	}
	if cfg.Lint.Dir, err = expand(cfg.Lint.Dir); err != nil {
		return err
	}
	if cfg.Install.BinDir != "" {
		if cfg.Install.BinDir, err = expand(cfg.Install.BinDir); err != nil {
			return err
		}
	}
	if cfg.Install.Tool != "" {
		if cfg.Install.Tool, err = expand(cfg.Install.Tool); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the loaded configuration for structural problems.
// It does not verify that backend roots exist; that surfaces naturally
// when a version is linked and queried.
func (c *Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version %d", c.Version)
	}
	if len(c.Check.Command) == 0 {
		return errors.New("check.command is required")
	}
	if c.Backend.Binary == "" {
		return errors.New("backend.binary is required")
	}

	names := make(map[string]bool, len(c.Backend.Versions))
	for i, v := range c.Backend.Versions {
		if v.Name == "" {
			return fmt.Errorf("backend.versions[%d]: name is required", i)
		}
		if v.Root == "" {
			return fmt.Errorf("backend version %q: root is required", v.Name)
		}
		if err := pathutil.ValidateAbsolute(v.Root); err != nil {
			return fmt.Errorf("backend version %q: %w", v.Name, err)
		}
		// Distinct names must not hide each other; duplicate roots are
		// fine and collapse during resolution.
		if names[v.Name] {
			return fmt.Errorf("backend version name %q used more than once", v.Name)
		}
		names[v.Name] = true
	}

	if c.Install.DefaultBackend != "" && !names[c.Install.DefaultBackend] {
		return fmt.Errorf("install.default_backend %q does not name a configured version", c.Install.DefaultBackend)
	}

	return nil
}
