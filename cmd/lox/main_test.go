package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lox")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestExitCodes(t *testing.T) {
	t.Setenv("LOX_CONFIG", "")

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"ok", []string{"-no-color", writeScript(t, "print 1 + 2;")}, 0},
		{"static", []string{"-no-color", writeScript(t, "return 1;")}, exitStatic},
		{"parse", []string{"-no-color", writeScript(t, "print")}, exitStatic},
		{"runtime", []string{"-no-color", writeScript(t, "print 1 / 0;")}, exitRuntime},
		{"deep recursion", []string{"-no-color", writeScript(t, "fun f(n) { return f(n + 1); }\nf(0);")}, exitRuntime},
		{"missing file", []string{filepath.Join(t.TempDir(), "nope.lox")}, exitNoInput},
		{"too many args", []string{"a.lox", "b.lox"}, exitUsage},
		{"bad flag", []string{"-nope"}, exitUsage},
		{"ast", []string{"-ast", writeScript(t, "print 1;")}, 0},
		{"ast static", []string{"-ast", writeScript(t, "print (;")}, exitStatic},
		{"ast without script", []string{"-ast"}, exitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, run(tt.args))
		})
	}
}

func TestBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lox.toml")
	require.NoError(t, os.WriteFile(path, []byte("[runtime\n"), 0o644))

	assert.Equal(t, exitUsage, run([]string{"-config", path, writeScript(t, "print 1;")}))
}
