package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	Version = "dev"

	// Global flags
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "gauntlet",
	Short: "Verify a tool against multiple backend runtime versions",
	Long: `Gauntlet takes one build of a command-line tool and runs its self-check
suite once per configured backend version, binding the right environment
for each run. The first failing version fails the whole build. Only after
every version passes does the strict lint gate run, and a release wrapper
can then install the tool pinned to a default backend.`,
	Version: Version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default .gauntlet.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}
