package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gauntlet-dev/gauntlet/internal/config"
	"github.com/gauntlet-dev/gauntlet/internal/state"
)

// runCommand executes the CLI with the given arguments, resetting flag
// state mutated by earlier executions in the same test binary.
func runCommand(t *testing.T, args ...string) error {
	t.Helper()

	configPath = ""
	verbose = false
	checkSkipLint = false
	checkAllowEmpty = false
	checkNoHistory = false
	checkDBPath = ""
	historyDBPath = ""
	historyLimit = 10

	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// fakeBackendRoot creates a backend install root whose bin/srv prints the
// given version line.
func fakeBackendRoot(t *testing.T, versionLine string) string {
	t.Helper()

	root := t.TempDir()
	binDir := filepath.Join(root, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		t.Fatal(err)
	}
	script := "#!/bin/sh\necho \"" + versionLine + "\"\n"
	if err := os.WriteFile(filepath.Join(binDir, "srv"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return root
}

// writeTestConfig writes a config file and returns its path.
func writeTestConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), config.DefaultFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckAllVersionsPass(t *testing.T) {
	v1 := fakeBackendRoot(t, "srv 1.0")
	v2 := fakeBackendRoot(t, "srv 2.0")
	lintMarker := filepath.Join(t.TempDir(), "lint-ran")

	cfgPath := writeTestConfig(t, fmt.Sprintf(`check:
  command: ["true"]
backend:
  binary: srv
  versions:
    - name: v1
      root: %s
    - name: v2
      root: %s
lint:
  command: ["touch", %q]
`, v1, v2, lintMarker))

	if err := runCommand(t, "check", "--config", cfgPath, "--no-history"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(lintMarker); err != nil {
		t.Error("expected lint gate to run after all versions passed")
	}
}

func TestCheckFailFastSkipsLint(t *testing.T) {
	v1 := fakeBackendRoot(t, "srv 1.0")
	lintMarker := filepath.Join(t.TempDir(), "lint-ran")

	cfgPath := writeTestConfig(t, fmt.Sprintf(`check:
  command: ["false"]
backend:
  binary: srv
  versions:
    - name: v1
      root: %s
lint:
  command: ["touch", %q]
`, v1, lintMarker))

	err := runCommand(t, "check", "--config", cfgPath, "--no-history")
	if err == nil {
		t.Fatal("expected check failure")
	}
	if !strings.Contains(err.Error(), "v1") {
		t.Errorf("expected failing version in error, got: %v", err)
	}

	// A lint failure must never mask a compatibility failure; the gate
	// does not even run.
	if _, statErr := os.Stat(lintMarker); !os.IsNotExist(statErr) {
		t.Error("expected lint gate to be skipped after a version failed")
	}
}

func TestCheckEmptyVersionSetPolicy(t *testing.T) {
	cfgPath := writeTestConfig(t, `check:
  command: ["true"]
backend:
  binary: srv
lint:
  command: ["true"]
`)

	err := runCommand(t, "check", "--config", cfgPath, "--no-history")
	if err == nil {
		t.Fatal("expected error for empty version set")
	}
	if !strings.Contains(err.Error(), "--allow-empty") {
		t.Errorf("expected hint about --allow-empty, got: %v", err)
	}

	if err := runCommand(t, "check", "--config", cfgPath, "--no-history", "--allow-empty"); err != nil {
		t.Fatalf("unexpected error with --allow-empty: %v", err)
	}
}

func TestCheckRecordsHistory(t *testing.T) {
	v1 := fakeBackendRoot(t, "srv 1.0")
	dbPath := filepath.Join(t.TempDir(), "state.db")

	cfgPath := writeTestConfig(t, fmt.Sprintf(`check:
  command: ["true"]
backend:
  binary: srv
  versions:
    - name: v1
      root: %s
lint:
  command: ["true"]
`, v1))

	if err := runCommand(t, "check", "--config", cfgPath, "--db", dbPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	db, err := state.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	runs, err := db.ListRuns(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one recorded run, got %d", len(runs))
	}
	if runs[0].Result != state.ResultPassed {
		t.Errorf("expected passed result, got %q", runs[0].Result)
	}

	outcomes, err := db.RunOutcomes(runs[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(outcomes) != 1 || outcomes[0].VersionName != "v1" {
		t.Errorf("unexpected outcomes: %+v", outcomes)
	}
}

func TestLintCommandStandalone(t *testing.T) {
	cfgPath := writeTestConfig(t, `check:
  command: ["true"]
backend:
  binary: srv
lint:
  command: ["sh", "-c", "echo 'warning: unused import'"]
`)

	err := runCommand(t, "lint", "--config", cfgPath)
	if err == nil {
		t.Fatal("expected lint warning to fail the gate")
	}
	if !strings.Contains(err.Error(), "unused import") {
		t.Errorf("expected diagnostics in error, got: %v", err)
	}
}

func TestInstallCommand(t *testing.T) {
	v1 := fakeBackendRoot(t, "srv 1.0")
	binDir := filepath.Join(t.TempDir(), "bin")

	toolPath := filepath.Join(t.TempDir(), "tool")
	if err := os.WriteFile(toolPath, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatal(err)
	}

	cfgPath := writeTestConfig(t, fmt.Sprintf(`check:
  command: ["true"]
backend:
  binary: srv
  versions:
    - name: v1
      root: %s
install:
  bindir: %s
  tool: %s
  default_backend: v1
`, v1, binDir, toolPath))

	if err := runCommand(t, "install", "--config", cfgPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wrapper, err := os.ReadFile(filepath.Join(binDir, "tool"))
	if err != nil {
		t.Fatalf("wrapper not installed: %v", err)
	}
	if !strings.Contains(string(wrapper), v1) {
		t.Errorf("wrapper does not pin %s:\n%s", v1, wrapper)
	}
}

func TestVersionsCommand(t *testing.T) {
	v1 := fakeBackendRoot(t, "srv 1.0")

	cfgPath := writeTestConfig(t, fmt.Sprintf(`check:
  command: ["true"]
backend:
  binary: srv
  versions:
    - name: v1
      root: %s
`, v1))

	if err := runCommand(t, "versions", "--config", cfgPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
