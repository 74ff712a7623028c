package cmd

import (
	"github.com/gauntlet-dev/gauntlet/internal/config"
	"github.com/gauntlet-dev/gauntlet/internal/version"
)

// loadConfig resolves the config path (explicit flag or discovery in the
// working directory) and loads it.
func loadConfig() (*config.Config, error) {
	path, err := config.Discover(configPath)
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// resolveSet turns the configured version entries into a deduplicated,
// order-preserving version set.
func resolveSet(cfg *config.Config) version.Set {
	descriptors := make([]version.Descriptor, 0, len(cfg.Backend.Versions))
	for _, v := range cfg.Backend.Versions {
		descriptors = append(descriptors, version.Descriptor{Name: v.Name, Root: v.Root})
	}
	return version.Resolve(descriptors)
}
