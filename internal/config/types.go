package config

// Config is the project configuration loaded from .gauntlet.yaml in the
// working directory (or the path given via --config).
type Config struct {
	Version int           `yaml:"version"`
	Check   CheckConfig   `yaml:"check"`
	Backend BackendConfig `yaml:"backend"`
	Lint    LintConfig    `yaml:"lint"`
	Install InstallConfig `yaml:"install"`
}

// CheckConfig describes how to invoke the tool's self-check suite.
type CheckConfig struct {
	// Command is the argv of the self-check entry point. The tool must exit
	// non-zero on any failing check.
	Command []string `yaml:"command"`

	// Dir is the working directory for the check suite. Defaults to the
	// directory containing the config file.
	Dir string `yaml:"dir"`
}

// BackendConfig describes the backend runtime the tool is verified against.
type BackendConfig struct {
	// Binary is the name of the backend's main executable inside each
	// version's bin directory (e.g. "nix").
	Binary string `yaml:"binary"`

	// SelectionVar is the environment variable the tool treats as
	// authoritative for backend discovery. Defaults to GAUNTLET_BACKEND.
	SelectionVar string `yaml:"selection_var"`

	// VersionArgs are the arguments that make Binary print its version.
	// Defaults to ["--version"].
	VersionArgs []string `yaml:"version_args"`

	// Init is an optional argv run once per version before the check suite,
	// under the bound environment (e.g. a store/database initialization).
	Init []string `yaml:"init"`

	// Versions is the ordered list of backend versions to test. Entries
	// sharing an install root are collapsed to the first occurrence.
	Versions []VersionEntry `yaml:"versions"`
}

// VersionEntry names one installed backend version.
type VersionEntry struct {
	Name string `yaml:"name"`
	Root string `yaml:"root"`
}

// LintConfig describes the static lint gate.
type LintConfig struct {
	// Command is the lint argv. It should include the tool's
	// warnings-as-errors flag and cover test code.
	Command []string `yaml:"command"`

	// Dir is the working directory for the lint run. Defaults to the
	// directory containing the config file.
	Dir string `yaml:"dir"`

	// FailOnOutput treats any emitted diagnostic text as failure even when
	// the lint tool exits zero. Defaults to true.
	FailOnOutput *bool `yaml:"fail_on_output"`
}

// InstallConfig describes the release wrapper.
type InstallConfig struct {
	// BinDir is the directory the wrapped executable is installed into.
	BinDir string `yaml:"bindir"`

	// Tool is the path to the built tool binary to wrap.
	Tool string `yaml:"tool"`

	// Name is the installed executable name. Defaults to the base name
	// of Tool.
	Name string `yaml:"name"`

	// DefaultBackend is the version name (from backend.versions) the
	// installed wrapper pins as its default. An operator-exported
	// selection variable still takes precedence at launch.
	DefaultBackend string `yaml:"default_backend"`
}

// LintFailOnOutput returns the fail_on_output setting with its default.
func (c *Config) LintFailOnOutput() bool {
	if c.Lint.FailOnOutput == nil {
		return true
	}
	return *c.Lint.FailOnOutput
}
