// Package config loads kmeta.toml.
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/PranavPurwar/proguard-core/internal/errors"
	"github.com/PranavPurwar/proguard-core/internal/utils"
)

// FileName is the configuration file looked up by Find
const FileName = "kmeta.toml"

// DefaultTop is the number of report entries printed when [report].top is not set
const DefaultTop = 20

// Config is the decoded configuration. Every key is optional.
type Config struct {
	Input   InputConfig   `toml:"input"`
	Resolve ResolveConfig `toml:"resolve"`
	Report  ReportConfig  `toml:"report"`

	// Directory of the file the configuration was read from, empty for defaults
	Dir string `toml:"-"`
}

type InputConfig struct {
	Patterns []string `toml:"patterns"`
}

type ResolveConfig struct {
	Workers int      `toml:"workers"`
	Library []string `toml:"library"`
}

type ReportConfig struct {
	Top      int    `toml:"top"`
	Snapshot string `toml:"snapshot"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Resolve: ResolveConfig{Workers: runtime.NumCPU()},
		Report:  ReportConfig{Top: DefaultTop},
	}
}

// Find walks up from startDir looking for kmeta.toml
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, errors.WrapFileSystemError("resolve", startDir, err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !stderrors.Is(err, os.ErrNotExist) {
			return "", false, errors.WrapFileSystemError("stat", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load decodes path on top of the defaults and validates the result.
// Keys the configuration does not know are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		var parseErr toml.ParseError
		if stderrors.As(err, &parseErr) {
			return nil, errors.WrapConfigurationError(path, "parse", err).
				WithLocation(errors.SourceLocation{File: path, Line: parseErr.Position.Line})
		}
		return nil, errors.WrapConfigurationError(path, "read", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, errors.ConfigurationError(path, "unknown keys: "+strings.Join(keys, ", "))
	}
	cfg.Dir = filepath.Dir(path)

	if err := cfg.Validate(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads the file at path, or searches from the working directory when
// path is empty. Without a file the defaults are returned.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	found, ok, err := Find(".")
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(found)
}

// Validate checks value ranges. source names the configuration in error messages.
func (c *Config) Validate(source string) error {
	checks := []error{
		utils.Positive("[resolve].workers")(c.Resolve.Workers),
		utils.NonNegative("[report].top")(c.Report.Top),
		utils.ValidateEach("[input].patterns", utils.NotBlank("pattern"))(c.Input.Patterns),
		utils.ValidateEach("[resolve].library", utils.NotBlank("class name"))(c.Resolve.Library),
	}

	var problems *errors.MultipleErrors
	for _, err := range checks {
		if err != nil {
			errors.AddToMultiple(&problems, errors.ConfigurationError(source, err.Error()))
		}
	}
	return problems.ErrorOrNil()
}

// Patterns returns the input patterns with relative entries anchored at the configuration directory
func (c *Config) Patterns() []string {
	patterns := make([]string, len(c.Input.Patterns))
	for i, pattern := range c.Input.Patterns {
		if c.Dir != "" && !filepath.IsAbs(pattern) {
			pattern = filepath.Join(c.Dir, pattern)
		}
		patterns[i] = pattern
	}
	return patterns
}

// SnapshotPath returns [report].snapshot anchored like Patterns, or "" when unset
func (c *Config) SnapshotPath() string {
	path := c.Report.Snapshot
	if path == "" || c.Dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir, path)
}
