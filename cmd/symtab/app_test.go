package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"symtab/internal/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppRunScript(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "scopes.sym")
	require.NoError(t, os.WriteFile(path, []byte("10\nI x int\nS\nI x float\nL x\nP A\n"), 0644))

	cfg := config.DefaultConfig()
	cfg.Trace.Labels = "hierarchical"
	var out bytes.Buffer
	app := NewApp(cfg, &out, nil)
	app.Echo = false

	require.NoError(t, app.RunScript(context.Background(), path))
	got := out.String()
	assert.Contains(t, got, "Inserted < x : int > in ScopeTable# 1 at position 1, 1")
	assert.Contains(t, got, "'x' found in ScopeTable# 1.1 at position 1, 1")
	assert.Contains(t, got, "ScopeTable# 1.1 (id 2)\n0 --> < x : float >")
	assert.Equal(t, "up", app.Health(context.Background()).Status)
}

func TestAppRunScriptFromStdin(t *testing.T) {
	var out bytes.Buffer
	app := NewApp(config.DefaultConfig(), &out, strings.NewReader("I a int\nL a\n"))

	require.NoError(t, app.RunScript(context.Background(), "-"))
	assert.True(t, strings.HasPrefix(out.String(), "Cmd 1: I a int\n"))
	assert.Contains(t, out.String(), "Cmd 2: L a\n'a' found in ScopeTable# 1")
}

func TestAppRunScriptParseErrorMarksUnhealthy(t *testing.T) {
	var out bytes.Buffer
	app := NewApp(config.DefaultConfig(), &out, strings.NewReader("I a int\nZ\n"))

	err := app.RunScript(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "<stdin>")
	assert.Contains(t, err.Error(), "line 2")

	st := app.Health(context.Background())
	assert.Equal(t, "down", st.Status)
	assert.Empty(t, out.String(), "nothing runs when the script does not parse")
}

func TestAppRunScriptMissingFile(t *testing.T) {
	app := NewApp(config.DefaultConfig(), &bytes.Buffer{}, nil)
	assert.Error(t, app.RunScript(context.Background(), filepath.Join(t.TempDir(), "missing.sym")))
}

func TestAppWatchRequiresFile(t *testing.T) {
	app := NewApp(config.DefaultConfig(), &bytes.Buffer{}, nil)
	assert.Error(t, app.WatchScript(context.Background(), "-"))
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := loadConfig(defaultConfigPath)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultBuckets, cfg.Table.Buckets)

	_, err = loadConfig(filepath.Join(tmpDir, "explicit.toml"))
	assert.Error(t, err, "an explicitly named config file must exist")
}

func TestModelExecutesCommands(t *testing.T) {
	app := NewApp(config.DefaultConfig(), &bytes.Buffer{}, nil)
	app.Echo = false
	m, err := newModel(app)
	require.NoError(t, err)

	m.input.SetValue("I foo FUNCTION")
	next, _ := m.submit()
	m = next.(model)
	m.input.SetValue("bogus")
	next, _ = m.submit()
	m = next.(model)

	require.NotEmpty(t, m.history)
	assert.Contains(t, m.history[0], "foo")
	assert.NotEmpty(t, m.errMsg)
	assert.Contains(t, m.View(), "current scope 1")

	m.input.SetValue("Q")
	_, cmd := m.submit()
	assert.NotNil(t, cmd)
	assert.True(t, m.runner.Done())
}
