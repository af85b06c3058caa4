package cli

// Options holds what the command line contributes on top of kmeta.toml
type Options struct {
	// ConfigPath is an explicit configuration file. When empty, kmeta.toml is
	// searched for upward from the working directory.
	ConfigPath string

	// Patterns replaces [input].patterns when not empty
	Patterns []string

	// Workers overrides [resolve].workers when positive
	Workers int
}
