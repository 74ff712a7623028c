package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gauntlet-dev/gauntlet/internal/config"
	"github.com/gauntlet-dev/gauntlet/internal/harness"
	"github.com/gauntlet-dev/gauntlet/internal/lint"
	"github.com/gauntlet-dev/gauntlet/internal/logger"
	"github.com/gauntlet-dev/gauntlet/internal/state"
)

var (
	checkSkipLint   bool
	checkAllowEmpty bool
	checkNoHistory  bool
	checkDBPath     string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the check suite against every configured backend version",
	Long: `Run the tool's self-check suite once per configured backend version,
strictly one version at a time. The first failing version aborts the
remaining ones and fails the build. After all versions pass, the strict
lint gate runs once over the tool's full source.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runCheck(cmd, cfg)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkSkipLint, "skip-lint", false, "skip the lint gate after version checks")
	checkCmd.Flags().BoolVar(&checkAllowEmpty, "allow-empty", false, "permit an empty backend version set")
	checkCmd.Flags().BoolVar(&checkNoHistory, "no-history", false, "do not record this run in the history database")
	checkCmd.Flags().StringVar(&checkDBPath, "db", "", "history database path (default ~/.local/share/gauntlet/state.db)")
}

func runCheck(cmd *cobra.Command, cfg *config.Config) error {
	log := logger.New(os.Stdout, verbose)

	set := resolveSet(cfg)
	if set.Empty() {
		// An empty set would otherwise pass vacuously while testing
		// nothing; require the operator to opt in.
		if !checkAllowEmpty {
			return fmt.Errorf("no backend versions configured; add backend.versions or pass --allow-empty")
		}
		log.Warnf("no backend versions configured; the check suite was not exercised against any backend")
	}

	slot, err := harness.NewSlot()
	if err != nil {
		return err
	}
	defer slot.Close()

	runner := &harness.Runner{
		Slot:         slot,
		Binary:       cfg.Backend.Binary,
		VersionArgs:  cfg.Backend.VersionArgs,
		Init:         cfg.Backend.Init,
		Check:        cfg.Check.Command,
		Dir:          cfg.Check.Dir,
		SelectionVar: cfg.Backend.SelectionVar,
		Log:          log,
	}

	started := time.Now()
	outcomes, runErr := harness.RunAll(cmd.Context(), runner, set)

	if !checkNoHistory {
		if err := recordHistory(started, outcomes, runErr); err != nil {
			// History is a passive journal; failing to write it must not
			// change the build verdict.
			log.Warnf("failed to record run history: %v", err)
		}
	}

	if runErr != nil {
		return runErr
	}

	if checkSkipLint {
		log.Warnf("lint gate skipped")
	} else {
		gate := &lint.Gate{
			Command:      cfg.Lint.Command,
			Dir:          cfg.Lint.Dir,
			FailOnOutput: cfg.LintFailOnOutput(),
		}
		if err := gate.Run(cmd.Context()); err != nil {
			return err
		}
		log.Passf("lint gate")
	}

	if set.Empty() {
		log.Warnf("build passed without backend coverage")
	} else {
		log.Progressf("all %d backend versions passed", set.Len())
	}
	return nil
}

// recordHistory journals one harness run and its outcomes.
func recordHistory(started time.Time, outcomes []harness.Outcome, runErr error) error {
	db, err := state.Open(checkDBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	run := state.Run{
		ID:         uuid.New().String(),
		StartedAt:  started,
		FinishedAt: time.Now(),
		Result:     state.ResultPassed,
	}
	if runErr != nil {
		run.Result = state.ResultFailed
		run.Detail = runErr.Error()
	}

	return db.RecordRun(run, toStateOutcomes(outcomes))
}

func toStateOutcomes(outcomes []harness.Outcome) []state.Outcome {
	converted := make([]state.Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		converted = append(converted, state.Outcome{
			VersionName:   o.Version.Name,
			VersionRoot:   o.Version.Root,
			VersionString: o.VersionString,
			ExitCode:      o.ExitCode,
			Passed:        o.Passed,
		})
	}
	return converted
}
