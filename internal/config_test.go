package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[runtime]
nil_marker = "null"
strict_plus = true

[repl]
prompt = "lox> "
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "null", cfg.Runtime.NilMarker)
	assert.True(t, cfg.Runtime.StrictPlus)
	assert.Equal(t, "lox> ", cfg.Repl.Prompt)
	assert.Equal(t, path, cfg.Path)

	// Untouched keys keep their defaults
	assert.Equal(t, ".lox_history", cfg.Repl.History)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Output.Color)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, dir, "[runtime\n"))
	assert.ErrorContains(t, err, "parse error")

	_, err = LoadConfig(writeConfig(t, dir, "[runtime]\nnil_mark = \"x\"\n"))
	assert.ErrorContains(t, err, "runtime.nil_mark")
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, err := FindConfig(nested)
	require.NoError(t, err)
	assert.Empty(t, path)

	want := writeConfig(t, root, "[output]\ncolor = false\n")
	path, err = FindConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, want, path)
}

func TestResolveConfig(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[log]\nlevel = \"debug\"\n")

	other := t.TempDir()
	explicit := filepath.Join(other, "explicit.toml")
	require.NoError(t, os.WriteFile(explicit, []byte("[log]\nlevel = \"error\"\n"), 0o644))

	t.Setenv(ConfigEnv, "")
	cfg, err := ResolveConfig("", root)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)

	cfg, err = ResolveConfig(explicit, root)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)

	t.Setenv(ConfigEnv, explicit)
	cfg, err = ResolveConfig("", root)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestRunWithLoadedConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, t.TempDir(), `
[runtime]
nil_marker = "none"
[output]
color = false
`))
	require.NoError(t, err)

	tp := &testPrinter{}
	require.NoError(t, NewLox(cfg, tp, nil).Run(`fun f() {} print f();`))
	assert.True(t, tp.Equals("none"))
}
