package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PranavPurwar/proguard-core/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, runtime.NumCPU(), cfg.Resolve.Workers)
	assert.Equal(t, DefaultTop, cfg.Report.Top)
	assert.Empty(t, cfg.Input.Patterns)
	assert.NoError(t, cfg.Validate("defaults"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[input]
patterns = ["manifests/**/*.yaml", "/abs/extra.yaml"]

[resolve]
workers = 3
library = ["kotlin/Metadata", "kotlin/jvm/JvmInline"]

[report]
snapshot = "out/dedup.msgpack"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Resolve.Workers)
	assert.Equal(t, []string{"kotlin/Metadata", "kotlin/jvm/JvmInline"}, cfg.Resolve.Library)
	assert.Equal(t, DefaultTop, cfg.Report.Top, "unset keys keep their defaults")
	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, []string{filepath.Join(dir, "manifests/**/*.yaml"), "/abs/extra.yaml"}, cfg.Patterns())
	assert.Equal(t, filepath.Join(dir, "out", "dedup.msgpack"), cfg.SnapshotPath())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"syntax", "[input\npatterns = 1", "failed to parse configuration"},
		{"unknown key", "[resolve]\nthreads = 2", "unknown keys: resolve.threads"},
		{"zero workers", "[resolve]\nworkers = 0", "[resolve].workers must be positive"},
		{"negative top", "[report]\ntop = -1", "[report].top cannot be negative"},
		{"empty pattern", "[input]\npatterns = [\" \"]", "[input].patterns[0] cannot be empty"},
		{"empty library", "[resolve]\nlibrary = [\"\"]", "[resolve].library[0] cannot be empty"},
		{"wrong type", "[resolve]\nworkers = \"many\"", "configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)

			cfg, err := Load(path)
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ConfigurationErrorCode), "got %v", err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Resolve.Workers = -1
	cfg.Report.Top = -5

	err := cfg.Validate("inline")
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.ErrorAs(t, err, &multi)
	assert.Equal(t, 2, multi.Count())
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	_, ok, err := Find(nested)
	require.NoError(t, err)
	if ok {
		t.Skip("a kmeta.toml exists above the temporary directory")
	}

	path := writeConfig(t, root, "")
	found, ok, err := Find(nested)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, path, found)
}

func TestLoadOrDefault_ExplicitPath(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[report]\ntop = 5\n")

	cfg, err := LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Report.Top)

	_, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, errors.HasCode(err, errors.ConfigurationErrorCode))
}
