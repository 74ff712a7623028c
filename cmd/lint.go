package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gauntlet-dev/gauntlet/internal/lint"
	"github.com/gauntlet-dev/gauntlet/internal/logger"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Run the strict lint gate on its own",
	Long: `Run the static lint pass over the tool's full source, including test
code, treating any diagnostic as failure. This is the same gate "check"
runs after all backend versions pass.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		gate := &lint.Gate{
			Command:      cfg.Lint.Command,
			Dir:          cfg.Lint.Dir,
			FailOnOutput: cfg.LintFailOnOutput(),
		}
		if err := gate.Run(cmd.Context()); err != nil {
			return err
		}

		logger.New(os.Stdout, verbose).Passf("lint gate")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
}
