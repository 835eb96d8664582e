package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TRAMIND_DATA_DIR", "TRAMIND_DB", "TRAMIND_LOG_LEVEL", "TRAMIND_LOG_FILE", "TRAMIND_CURVES_FILE"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tramind"), cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "tramind", "tramind.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "tramind", "tramind.log"), cfg.LogFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.CurvesFile)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("TRAMIND_DATA_DIR", dir)
	t.Setenv("TRAMIND_DB", filepath.Join(dir, "other.db"))
	t.Setenv("TRAMIND_LOG_LEVEL", "DEBUG")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "other.db"), cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	curves := filepath.Join(dir, "curves.yaml")
	require.NoError(t, os.WriteFile(curves, []byte("impulse:\n  rounds: {base: 3}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(
		"log_level: warn\ncurves_file: "+curves+"\n"), 0o644))

	t.Setenv("TRAMIND_DATA_DIR", dir)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, curves, cfg.CurvesFile)

	t.Setenv("TRAMIND_LOG_LEVEL", "error")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoadExplicitFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: "+dir+"\nlog_level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad level", Config{DataDir: "/d", DBPath: "/d/x.db", LogLevel: "loud"}},
		{"no db", Config{DataDir: "/d", LogLevel: "info"}},
		{"missing curves file", Config{DataDir: "/d", DBPath: "/d/x.db", LogLevel: "info", CurvesFile: "/nonexistent/curves.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}

	ok := Config{DataDir: "/d", DBPath: "/d/x.db", LogLevel: "info"}
	assert.NoError(t, ok.Validate())
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		DataDir: filepath.Join(dir, "data"),
		DBPath:  filepath.Join(dir, "db", "x.db"),
		LogFile: filepath.Join(dir, "logs", "x.log"),
	}
	require.NoError(t, cfg.EnsureDirs())
	assert.DirExists(t, filepath.Join(dir, "data"))
	assert.DirExists(t, filepath.Join(dir, "db"))
	assert.DirExists(t, filepath.Join(dir, "logs"))
}
