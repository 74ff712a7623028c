package release

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gauntlet-dev/gauntlet/internal/version"
)

// installFixture installs a fake tool that prints its selection variable,
// returning the wrapper path.
func installFixture(t *testing.T, defaultRoot string) string {
	t.Helper()

	toolPath := filepath.Join(t.TempDir(), "tool")
	tool := "#!/bin/sh\necho \"$TOOL_BACKEND\"\n"
	if err := os.WriteFile(toolPath, []byte(tool), 0755); err != nil {
		t.Fatal(err)
	}

	binDir := filepath.Join(t.TempDir(), "bin")
	installer := &Installer{
		BinDir:       binDir,
		Tool:         toolPath,
		Name:         "tool",
		SelectionVar: "TOOL_BACKEND",
		Default:      version.Descriptor{Name: "stable", Root: defaultRoot},
	}
	if err := installer.Install(); err != nil {
		t.Fatalf("unexpected install error: %v", err)
	}

	return filepath.Join(binDir, "tool")
}

func TestInstallLayout(t *testing.T) {
	wrapper := installFixture(t, "/opt/srv-stable")
	binDir := filepath.Dir(wrapper)

	info, err := os.Stat(wrapper)
	if err != nil {
		t.Fatalf("wrapper not installed: %v", err)
	}
	if info.Mode()&0111 == 0 {
		t.Error("wrapper is not executable")
	}

	if _, err := os.Stat(filepath.Join(binDir, ".tool-wrapped")); err != nil {
		t.Errorf("wrapped binary not installed: %v", err)
	}

	content, err := os.ReadFile(wrapper)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(content), "#!/bin/sh\n") {
		t.Errorf("wrapper missing shebang:\n%s", content)
	}
	if !strings.Contains(string(content), "TOOL_BACKEND='/opt/srv-stable'") {
		t.Errorf("wrapper does not pin the default backend:\n%s", content)
	}
}

func TestWrapperDefaultsSelectionVar(t *testing.T) {
	wrapper := installFixture(t, "/opt/srv-stable")

	cmd := exec.Command(wrapper)
	cmd.Env = []string{"PATH=/usr/bin:/bin"}
	output, err := cmd.Output()
	if err != nil {
		t.Fatalf("wrapper failed: %v", err)
	}

	if got := strings.TrimSpace(string(output)); got != "/opt/srv-stable" {
		t.Errorf("expected pinned default, tool saw %q", got)
	}
}

func TestWrapperEnvironmentOverrideWins(t *testing.T) {
	wrapper := installFixture(t, "/opt/srv-stable")

	cmd := exec.Command(wrapper)
	cmd.Env = []string{"PATH=/usr/bin:/bin", "TOOL_BACKEND=/opt/srv-custom"}
	output, err := cmd.Output()
	if err != nil {
		t.Fatalf("wrapper failed: %v", err)
	}

	if got := strings.TrimSpace(string(output)); got != "/opt/srv-custom" {
		t.Errorf("expected operator override to win, tool saw %q", got)
	}
}

func TestWrapperQuotesAwkwardPaths(t *testing.T) {
	wrapper := installFixture(t, "/opt/srv with spaces")

	cmd := exec.Command(wrapper)
	cmd.Env = []string{"PATH=/usr/bin:/bin"}
	output, err := cmd.Output()
	if err != nil {
		t.Fatalf("wrapper failed: %v", err)
	}

	if got := strings.TrimSpace(string(output)); got != "/opt/srv with spaces" {
		t.Errorf("expected space-safe default, tool saw %q", got)
	}
}

func TestInstallMissingTool(t *testing.T) {
	installer := &Installer{
		BinDir:       filepath.Join(t.TempDir(), "bin"),
		Tool:         filepath.Join(t.TempDir(), "missing"),
		Name:         "tool",
		SelectionVar: "TOOL_BACKEND",
	}
	if err := installer.Install(); err == nil {
		t.Fatal("expected error for missing tool binary")
	}
}

func TestInstallRelativeBinDir(t *testing.T) {
	installer := &Installer{
		BinDir:       "bin",
		Tool:         "/bin/sh",
		Name:         "tool",
		SelectionVar: "TOOL_BACKEND",
	}
	if err := installer.Install(); err == nil {
		t.Fatal("expected error for relative bindir")
	}
}
