package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestLoadFile_Basic(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "ddscan.yaml", `threads: 4
max_bytes: 123
context_lines: 5
detailed: true
scopes: "@acme"
github:
  base_url: https://github.com/acme
output:
  formats: json,sarif
`)
	cfg, err := LoadFile(p)
	require.NoError(t, err)
	require.NotNil(t, cfg.Threads)
	assert.Equal(t, 4, *cfg.Threads)
	require.NotNil(t, cfg.MaxBytes)
	assert.Equal(t, int64(123), *cfg.MaxBytes)
	require.NotNil(t, cfg.ContextLines)
	assert.Equal(t, 5, *cfg.ContextLines)
	require.NotNil(t, cfg.Detailed)
	assert.True(t, *cfg.Detailed)
	require.NotNil(t, cfg.BaseURL())
	assert.Equal(t, "https://github.com/acme", *cfg.BaseURL())
	assert.Nil(t, cfg.DefaultBranch())
	assert.Nil(t, cfg.OutputDir())
	require.NotNil(t, cfg.OutputFormats())
	assert.Equal(t, "json,sarif", *cfg.OutputFormats())
	assert.Nil(t, cfg.NoColor)
}

func TestLoadFile_Invalid(t *testing.T) {
	p := writeTemp(t, t.TempDir(), "ddscan.yml", "threads: [oops\n")
	_, err := LoadFile(p)
	assert.Error(t, err)
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "ddscan.yaml", "threads: 1\n")
	writeTemp(t, dir, ".ddscan.yaml", "threads: 7\n")
	cfg, err := LoadLocal(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg.Threads)
	assert.Equal(t, 7, *cfg.Threads)
}

func TestLoadLocal_NoConfig(t *testing.T) {
	_, err := LoadLocal(t.TempDir())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "ddscan"), 0o755))
	writeTemp(t, filepath.Join(dir, "ddscan"), "config.yml", "threads: 9\n")
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	cfg, err := LoadGlobal()
	require.NoError(t, err)
	require.NotNil(t, cfg.Threads)
	assert.Equal(t, 9, *cfg.Threads)
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	_, err := LoadGlobal()
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMerge(t *testing.T) {
	one, two, eight := 1, 2, 8
	main, dev := "main", "develop"
	base := FileConfig{Threads: &eight, ContextLines: &one, GitHub: &GitHubConfig{DefaultBranch: &main}}
	over := FileConfig{ContextLines: &two, GitHub: &GitHubConfig{DefaultBranch: &dev}}

	got := Merge(base, over)
	assert.Equal(t, 8, *got.Threads)
	assert.Equal(t, 2, *got.ContextLines)
	assert.Equal(t, "develop", *got.DefaultBranch())
	assert.Equal(t, "main", *base.DefaultBranch(), "base must not be mutated")
}

func TestWriteStarter(t *testing.T) {
	dir := t.TempDir()
	p, err := WriteStarter(dir, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".ddscan.yml"), p)

	cfg, err := LoadLocal(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg.Threads)
	assert.Equal(t, 8, *cfg.Threads)
	assert.Equal(t, "datadog_reports", *cfg.OutputDir())

	_, err = WriteStarter(dir, false)
	assert.True(t, errors.Is(err, os.ErrExist))
	_, err = WriteStarter(dir, true)
	assert.NoError(t, err)
}
