package harness

import (
	"context"
	"fmt"

	"github.com/gauntlet-dev/gauntlet/internal/version"
)

// RunAll sequences the runner over the version set in set order, one
// version at a time. It stops at the first version whose checks fail and
// returns a non-nil error; versions after it are never invoked. The
// returned outcomes cover every version actually run, including the
// failing one.
//
// Versions are deliberately never tested concurrently: the shared slot is
// a single mutable path and two runners would race on it.
func RunAll(ctx context.Context, r *Runner, set version.Set) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, set.Len())

	for _, d := range set.Members() {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		outcome, err := r.Run(ctx, d)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, outcome)

		if !outcome.Passed {
			r.Log.Failf("backend %s (%s): check suite exited %d", d.Name, outcome.VersionString, outcome.ExitCode)
			return outcomes, fmt.Errorf("backend %s failed the check suite (exit status %d)", d.Name, outcome.ExitCode)
		}
		r.Log.Passf("backend %s (%s)", d.Name, outcome.VersionString)
	}

	return outcomes, nil
}
