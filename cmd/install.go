package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gauntlet-dev/gauntlet/internal/logger"
	"github.com/gauntlet-dev/gauntlet/internal/release"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the tool wrapped with a pinned default backend",
	Long: `Install the built tool into the configured bindir as a wrapped
executable. The wrapper pre-selects the configured default backend, so
invoking the tool needs no environment setup; exporting the selection
variable before launch still overrides the pin.

The default backend is chosen by release configuration and is independent
of which versions "check" exercised.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if cfg.Install.BinDir == "" {
			return fmt.Errorf("install.bindir is not configured")
		}
		if cfg.Install.Tool == "" {
			return fmt.Errorf("install.tool is not configured")
		}
		if cfg.Install.DefaultBackend == "" {
			return fmt.Errorf("install.default_backend is not configured")
		}

		set := resolveSet(cfg)
		pinned, ok := set.ByName(cfg.Install.DefaultBackend)
		if !ok {
			return fmt.Errorf("default backend %q is not in the configured version set", cfg.Install.DefaultBackend)
		}

		installer := &release.Installer{
			BinDir:       cfg.Install.BinDir,
			Tool:         cfg.Install.Tool,
			Name:         cfg.Install.Name,
			SelectionVar: cfg.Backend.SelectionVar,
			Default:      pinned,
		}
		if err := installer.Install(); err != nil {
			return err
		}

		log := logger.New(os.Stdout, verbose)
		log.Progressf("installed %s (default backend %s -> %s)",
			filepath.Join(cfg.Install.BinDir, cfg.Install.Name), pinned.Name, pinned.Root)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
