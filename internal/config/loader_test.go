package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.Equal(t, "fs", cfg.Storage.Adapter)
	assert.Equal(t, "note@array-notes", cfg.Storage.Slot)
	assert.Equal(t, "pt-BR", cfg.Dictation.Language)
	assert.Empty(t, cfg.Dictation.Command)
	assert.Equal(t, slog.LevelInfo, cfg.Log.LogLevel())
}

func TestLoadFrom_ProjectOverridesGlobal(t *testing.T) {
	t.Parallel()

	global := writeConfig(t, t.TempDir(), `
storage:
  adapter: sqlite
  path: /srv/global
dictation:
  language: en-US
`)
	project := writeConfig(t, t.TempDir(), `
storage:
  path: /srv/project
log:
  level: debug
`)

	cfg, err := LoadFrom(global, project)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Adapter, "kept from global")
	assert.Equal(t, "/srv/project", cfg.Storage.Path, "project wins")
	assert.Equal(t, "note@array-notes", cfg.Storage.Slot, "default survives")
	assert.Equal(t, "en-US", cfg.Dictation.Language)
	assert.Equal(t, slog.LevelDebug, cfg.Log.LogLevel())
}

func TestLoadFrom_MissingFilesAreSkipped(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Storage.Adapter, cfg.Storage.Adapter)
}

func TestLoadFrom_MalformedFileFails(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), "storage: [unclosed")
	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestLoadFrom_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	path := writeConfig(t, t.TempDir(), "storage:\n  path: ~/notes\n")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes"), cfg.Storage.Path)
}

func TestWriteDefault_IsLoadable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".scribble", "config.yaml")
	require.NoError(t, WriteDefault(path))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "fs", cfg.Storage.Adapter)
	assert.Equal(t, "pt-BR", cfg.Dictation.Language)
}

func TestLogLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelWarn, LogConfig{Level: "warn"}.LogLevel())
	assert.Equal(t, slog.LevelError, LogConfig{Level: "ERROR"}.LogLevel())
	assert.Equal(t, slog.LevelInfo, LogConfig{Level: "chatty"}.LogLevel())
}

func TestProjectConfigPath_FindsEnclosingProject(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	project := filepath.Join(home, "work", "app")
	nested := filepath.Join(project, "cmd", "tool")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(project, ".scribble"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".scribble"), 0755))

	want := filepath.Join(project, ".scribble", "config.yaml")
	assert.Equal(t, want, projectConfigPath(nested, home), "from a subdirectory")
	assert.Equal(t, want, projectConfigPath(project, home), "from the root")

	// Outside any project the global directory must not be mistaken for one.
	elsewhere := filepath.Join(home, "scratch")
	require.NoError(t, os.MkdirAll(elsewhere, 0755))
	assert.Equal(t, filepath.Join(elsewhere, ".scribble", "config.yaml"), projectConfigPath(elsewhere, home))
}

func TestLoadFrom_ProjectConfigFromSubdirectory(t *testing.T) {
	t.Parallel()

	project := t.TempDir()
	nested := filepath.Join(project, "docs")
	require.NoError(t, os.MkdirAll(filepath.Join(project, ".scribble"), 0755))
	require.NoError(t, os.MkdirAll(nested, 0755))
	writeConfig(t, filepath.Join(project, ".scribble"), "storage:\n  slot: note@project\n")

	cfg, err := LoadFrom(projectConfigPath(nested, ""))
	require.NoError(t, err)
	assert.Equal(t, "note@project", cfg.Storage.Slot)
}
