// Package version models the backend distributions the harness tests against.
// A Descriptor names one installed backend; a Set is the ordered, deduplicated
// collection the compatibility loop iterates over.
package version

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Descriptor identifies one backend distribution. It is immutable once
// resolved into a Set.
type Descriptor struct {
	// Name is the human-chosen label for this version (e.g. "stable", "2.24").
	Name string

	// Root is the install root of the backend distribution. Its executables
	// live under Root/bin. Root is the uniqueness key: two descriptors with
	// the same Root point at the same binary provider.
	Root string
}

// BinDir returns the directory containing the backend's executables.
func (d Descriptor) BinDir() string {
	return filepath.Join(d.Root, "bin")
}

// Binary returns the path to the named executable inside this distribution.
func (d Descriptor) Binary(name string) string {
	return filepath.Join(d.BinDir(), name)
}

// Set is an ordered sequence of Descriptors with uniqueness enforced on the
// provider root. Iteration order equals first-occurrence order in the input
// the Set was resolved from.
type Set struct {
	members []Descriptor
}

// Resolve deduplicates an ordered list of descriptors into a Set, keeping the
// earliest occurrence of each provider root. It is a pure function: an empty
// input yields an empty Set, which makes the compatibility loop a no-op.
// Whether that is acceptable is the caller's policy, not enforced here.
func Resolve(descriptors []Descriptor) Set {
	seen := make(map[string]bool, len(descriptors))
	members := make([]Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if seen[d.Root] {
			continue
		}
		seen[d.Root] = true
		members = append(members, d)
	}
	return Set{members: members}
}

// Members returns the descriptors in resolution order.
// The returned slice must not be modified.
func (s Set) Members() []Descriptor {
	return s.members
}

// Len returns the number of distinct versions in the set.
func (s Set) Len() int {
	return len(s.members)
}

// Empty reports whether the set contains no versions.
func (s Set) Empty() bool {
	return len(s.members) == 0
}

// ByName returns the descriptor with the given name, if present.
func (s Set) ByName(name string) (Descriptor, bool) {
	for _, d := range s.members {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Query invokes the backend's binary with its version arguments and returns
// the first line of output, trimmed. binaryPath must point at the executable
// to query; env, if non-nil, replaces the child process environment.
func Query(ctx context.Context, binaryPath string, args []string, env []string) (string, error) {
	cmd := exec.CommandContext(ctx, binaryPath, args...)
	if env != nil {
		cmd.Env = env
	}
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to query version from %s: %w", binaryPath, err)
	}
	line := string(output)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line), nil
}
