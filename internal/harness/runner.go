// Package harness runs a tool's self-check suite once per backend version.
// Each run links the version into a shared slot, binds an environment that
// resolves that exact backend, executes the checks, and removes the link
// before the next version — strictly one version at a time, since the slot
// is a single mutable path.
package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/gauntlet-dev/gauntlet/internal/logger"
	"github.com/gauntlet-dev/gauntlet/internal/version"
)

// Outcome is the pass/fail result of one version's check-suite run.
type Outcome struct {
	// Version is the descriptor this outcome is attributed to.
	Version version.Descriptor

	// VersionString is what the linked backend binary reported for its
	// version flag.
	VersionString string

	// ExitCode is the check suite's exit status.
	ExitCode int

	// Passed is true when the check suite exited zero.
	Passed bool
}

// Runner executes the check suite for a single backend version at a time.
type Runner struct {
	// Slot is the shared link slot. The runner acquires it at the start of
	// each run and releases it on every exit path.
	Slot *Slot

	// Binary is the name of the backend executable inside each version's
	// bin directory.
	Binary string

	// VersionArgs make Binary print its version.
	VersionArgs []string

	// Init, if non-empty, is run once per version before the check suite,
	// under the bound environment.
	Init []string

	// Check is the argv of the tool's self-check suite.
	Check []string

	// Dir is the working directory for Init and Check.
	Dir string

	// SelectionVar is the environment variable the tool resolves its
	// backend from.
	SelectionVar string

	// Output receives the check suite's combined stdout/stderr.
	// Defaults to os.Stdout.
	Output io.Writer

	// Log receives progress lines. May be nil.
	Log *logger.Logger
}

// Run executes one version's checks. The returned Outcome reports the check
// suite's verdict; a non-nil error means the harness itself could not
// complete the run (link collision, unqueryable backend, failed
// initialization). Either way the slot link is gone when Run returns.
func (r *Runner) Run(ctx context.Context, d version.Descriptor) (outcome Outcome, err error) {
	outcome.Version = d

	if err := r.Slot.Acquire(d.Root); err != nil {
		return outcome, err
	}
	defer func() {
		if relErr := r.Slot.Release(); relErr != nil && err == nil {
			err = relErr
		}
	}()

	env := Bind(os.Environ(), r.SelectionVar, r.Slot.Path(), d.BinDir())

	// Query through the link rather than the install root: the reported
	// version is then provably the one the tool will resolve.
	linkedBinary := filepath.Join(r.Slot.Path(), "bin", r.Binary)
	versionString, err := version.Query(ctx, linkedBinary, r.VersionArgs, env)
	if err != nil {
		return outcome, fmt.Errorf("backend %s: %w", d.Name, err)
	}
	outcome.VersionString = versionString

	r.Log.Progressf("checking tool against backend %s (%s)", d.Name, versionString)

	if len(r.Init) > 0 {
		if err := r.runInit(ctx, env); err != nil {
			return outcome, fmt.Errorf("backend %s: initialization failed: %w", d.Name, err)
		}
	}

	exitCode, err := r.runCheck(ctx, env)
	if err != nil {
		return outcome, fmt.Errorf("backend %s: check suite: %w", d.Name, err)
	}
	outcome.ExitCode = exitCode
	outcome.Passed = exitCode == 0

	return outcome, nil
}

// runInit executes the backend initialization step under the bound
// environment. Its binaries resolve via the PATH prefix, so it targets the
// linked version, not any system-wide default.
func (r *Runner) runInit(ctx context.Context, env Environment) error {
	cmd := exec.CommandContext(ctx, r.Init[0], r.Init[1:]...)
	cmd.Dir = r.Dir
	cmd.Env = env
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w\noutput: %s", r.Init[0], err, output)
	}
	return nil
}

// runCheck invokes the self-check suite and returns its exit status.
// A non-zero exit is an expected result, not an error; errors are reserved
// for the suite being unrunnable.
func (r *Runner) runCheck(ctx context.Context, env Environment) (int, error) {
	out := r.Output
	if out == nil {
		out = os.Stdout
	}

	cmd := exec.CommandContext(ctx, r.Check[0], r.Check[1:]...)
	cmd.Dir = r.Dir
	cmd.Env = env
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, err
	}
	return 0, nil
}
