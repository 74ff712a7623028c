// Package release installs the tool as a wrapped executable pinned to a
// default backend version. The wrapper only defaults the selection
// variable; an operator who exports it before launch wins.
package release

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gauntlet-dev/gauntlet/internal/pathutil"
	"github.com/gauntlet-dev/gauntlet/internal/version"
)

// wrappedSuffix is appended to the real binary's hidden install name.
const wrappedSuffix = "-wrapped"

// Installer installs one wrapped executable.
type Installer struct {
	// BinDir is the destination directory. Created if absent.
	BinDir string

	// Tool is the path of the built tool binary.
	Tool string

	// Name is the installed executable name.
	Name string

	// SelectionVar is the tool's backend-selection variable.
	SelectionVar string

	// Default is the backend version the wrapper pins by default. The
	// pin is chosen by release configuration, independent of which
	// versions the harness exercised.
	Default version.Descriptor
}

// Install copies the tool binary into BinDir under a hidden name and
// writes a wrapper script at BinDir/Name that defaults the selection
// variable to the pinned backend before exec'ing the real binary.
func (in *Installer) Install() error {
	if in.Name == "" {
		return fmt.Errorf("install name is empty")
	}
	if err := pathutil.ValidateAbsolute(in.BinDir); err != nil {
		return fmt.Errorf("bindir: %w", err)
	}
	if !pathutil.ExistsAndIsFile(in.Tool) {
		return fmt.Errorf("tool binary not found: %s", in.Tool)
	}

	if err := os.MkdirAll(in.BinDir, 0755); err != nil {
		return fmt.Errorf("failed to create bindir: %w", err)
	}

	wrapped := filepath.Join(in.BinDir, "."+in.Name+wrappedSuffix)
	if err := copyExecutable(in.Tool, wrapped); err != nil {
		return fmt.Errorf("failed to install tool binary: %w", err)
	}

	wrapperPath := filepath.Join(in.BinDir, in.Name)
	if err := writeWrapper(wrapperPath, wrapped, in.SelectionVar, in.Default.Root); err != nil {
		return fmt.Errorf("failed to write wrapper: %w", err)
	}

	return nil
}

// writeWrapper writes the launch script. The default is only assigned when
// the variable is unset or empty, which gives an exported override
// precedence over the baked-in default.
func writeWrapper(path, target, varName, defaultValue string) error {
	var sb strings.Builder
	sb.WriteString("#!/bin/sh\n")
	sb.WriteString("# Generated by gauntlet install. Do not edit manually.\n")
	sb.WriteString(fmt.Sprintf("if [ -z \"${%s:-}\" ]; then\n", varName))
	sb.WriteString(fmt.Sprintf("    %s=%s\n", varName, shellQuote(defaultValue)))
	sb.WriteString("fi\n")
	sb.WriteString(fmt.Sprintf("export %s\n", varName))
	sb.WriteString(fmt.Sprintf("exec %s \"$@\"\n", shellQuote(target)))

	if err := os.WriteFile(path, []byte(sb.String()), 0755); err != nil {
		return err
	}
	return nil
}

// shellQuote single-quotes a value for safe use in the wrapper script.
func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\\''") + "'"
}

// copyExecutable copies src to dst with executable permissions, streaming
// to handle large binaries.
func copyExecutable(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
