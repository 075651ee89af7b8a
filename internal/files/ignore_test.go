package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendIgnoreIdempotentAndCreates(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".gitignore")

	added, err := AppendIgnore(dir, "dist/", ".ddscancache.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"dist/", ".ddscancache.json"}, added)

	added, err = AppendIgnore(dir, "dist/")
	require.NoError(t, err)
	assert.Empty(t, added)

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "dist/\n.ddscancache.json\n", string(b))
}

func TestAppendIgnoreAddsMissingNewline(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".gitignore")
	require.NoError(t, os.WriteFile(p, []byte("node_modules"), 0o644))

	_, err := AppendIgnore(dir, ScanArtifacts()...)
	require.NoError(t, err)

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "node_modules\n.ddscancache.json\ndatadog_reports/\n", string(b))
}
