package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gauntlet-dev/gauntlet/internal/version"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "Show the resolved backend version set",
	Long: `Resolve the configured backend versions into the deduplicated set the
compatibility loop would iterate over, and query each backend's version
string directly from its install root.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		set := resolveSet(cfg)
		if set.Empty() {
			fmt.Println("no backend versions configured")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tVERSION\tROOT")
		for _, d := range set.Members() {
			reported, err := version.Query(cmd.Context(), d.Binary(cfg.Backend.Binary), cfg.Backend.VersionArgs, nil)
			if err != nil {
				reported = "(unavailable)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, reported, d.Root)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(versionsCmd)
}
