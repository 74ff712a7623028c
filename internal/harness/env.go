package harness

import "strings"

// Environment is the process environment for a single check run, passed
// explicitly to every subprocess. The harness never mutates its own
// process environment, so no run can depend on leftovers from a previous
// iteration.
type Environment []string

// Bind builds the environment for one backend version from a base
// environment (usually os.Environ()):
//
//   - binDir is prepended to PATH so the backend's helper binaries shadow
//     any system-wide install during initialization and checks.
//   - selectionVar is set to the slot path, not the version's install
//     root. The indirection keeps the variable's value constant while the
//     runner swaps versions underneath it.
//
// Any pre-existing value of selectionVar in base is dropped.
func Bind(base []string, selectionVar, slotPath, binDir string) Environment {
	env := make(Environment, 0, len(base)+2)
	sawPath := false

	for _, entry := range base {
		switch {
		case strings.HasPrefix(entry, selectionVar+"="):
			continue
		case strings.HasPrefix(entry, "PATH="):
			sawPath = true
			env = append(env, "PATH="+binDir+":"+strings.TrimPrefix(entry, "PATH="))
		default:
			env = append(env, entry)
		}
	}

	if !sawPath {
		env = append(env, "PATH="+binDir)
	}
	env = append(env, selectionVar+"="+slotPath)

	return env
}

// Lookup returns the value of the named variable in the environment.
func (e Environment) Lookup(name string) (string, bool) {
	prefix := name + "="
	for _, entry := range e {
		if strings.HasPrefix(entry, prefix) {
			return strings.TrimPrefix(entry, prefix), true
		}
	}
	return "", false
}
