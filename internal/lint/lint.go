// Package lint implements the static lint gate that runs after every
// backend version has passed its checks. The gate is a property of the
// tool's source, not of any backend, so it runs exactly once per build.
package lint

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Gate runs the configured lint command over the tool's full source,
// including test code, in strict mode.
type Gate struct {
	// Command is the lint argv. The configured command is expected to
	// carry the lint tool's warnings-as-errors flag.
	Command []string

	// Dir is the working directory for the lint run.
	Dir string

	// FailOnOutput additionally treats any emitted diagnostic text as
	// failure, so a lint tool that prints warnings but exits zero still
	// fails the gate.
	FailOnOutput bool
}

// Run executes the lint pass. Any diagnostic fails the build: a non-zero
// exit always, and any output at all when FailOnOutput is set.
func (g *Gate) Run(ctx context.Context) error {
	if len(g.Command) == 0 {
		return fmt.Errorf("no lint command configured")
	}

	cmd := exec.CommandContext(ctx, g.Command[0], g.Command[1:]...)
	cmd.Dir = g.Dir

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("lint failed: %w\n%s", err, output.String())
	}

	if g.FailOnOutput {
		if diagnostics := strings.TrimSpace(output.String()); diagnostics != "" {
			return fmt.Errorf("lint reported diagnostics:\n%s", diagnostics)
		}
	}

	return nil
}
