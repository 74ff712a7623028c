package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gauntlet-dev/gauntlet/internal/state"
)

var (
	historyLimit  int
	historyDBPath string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past harness runs",
	Long: `List recorded harness runs, newest first, with the per-version outcomes
of each. The history is a passive journal: it never influences which
versions a later run tests.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := state.Open(historyDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.ListRuns(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no recorded runs")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, run := range runs {
			duration := run.FinishedAt.Sub(run.StartedAt).Round(time.Second)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				run.StartedAt.Local().Format("2006-01-02 15:04:05"), run.Result, duration, run.Detail)

			outcomes, err := db.RunOutcomes(run.ID)
			if err != nil {
				return err
			}
			for _, o := range outcomes {
				verdict := "pass"
				if !o.Passed {
					verdict = fmt.Sprintf("fail (exit %d)", o.ExitCode)
				}
				fmt.Fprintf(w, "  %s\t%s\t%s\t\n", o.VersionName, o.VersionString, verdict)
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of runs to show (0 for all)")
	historyCmd.Flags().StringVar(&historyDBPath, "db", "", "history database path (default ~/.local/share/gauntlet/state.db)")
}
