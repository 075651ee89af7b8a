package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redactyl/ddscan/internal/types"
)

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	db, err := Load(dir, "sig")
	assert.Error(t, err)
	require.NotNil(t, db.Entries)

	fs := []types.Finding{{FilePath: "src/a.ts", LineNumber: 3, OperationType: types.OpLogInfo}}
	db.Put("src/a.ts", Hash([]byte("content")), fs)
	require.NoError(t, Save(dir, db))

	_, err = os.Stat(filepath.Join(dir, FileName))
	require.NoError(t, err)

	db2, err := Load(dir, "sig")
	require.NoError(t, err)
	got, ok := db2.Lookup("src/a.ts", Hash([]byte("content")))
	require.True(t, ok)
	assert.Equal(t, 3, got[0].LineNumber)

	_, ok = db2.Lookup("src/a.ts", Hash([]byte("changed")))
	assert.False(t, ok)
}

func TestLoadPrefersGitDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	db, _ := Load(dir, "sig")
	db.Put("a.ts", "h", nil)
	require.NoError(t, Save(dir, db))
	_, err := os.Stat(filepath.Join(dir, ".git", "ddscancache.json"))
	assert.NoError(t, err)
}

func TestLoadSignatureMismatch(t *testing.T) {
	dir := t.TempDir()
	db, _ := Load(dir, Signature("3", "false"))
	db.Put("a.ts", "h", nil)
	require.NoError(t, Save(dir, db))

	db2, err := Load(dir, Signature("5", "false"))
	assert.Error(t, err)
	assert.Empty(t, db2.Entries)
}

func TestHash(t *testing.T) {
	assert.Equal(t, "0000000000000000", Hash(nil))
	assert.Len(t, Hash([]byte("x")), 16)
	assert.Equal(t, Hash([]byte("x")), Hash([]byte("x")))
	assert.NotEqual(t, Signature("a", "bc"), Signature("ab", "c"))
}

func TestResultsRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	res := types.ScanResults{
		ScanID:       "id-1",
		Projects:     []types.ProjectInfo{{Name: "web", FindingsCount: 1}},
		Findings:     []types.Finding{{FilePath: "web/a.ts", LineNumber: 1}},
		FilesScanned: 4,
		Duration:     2 * time.Second,
	}
	require.NoError(t, SaveResults(dir, []string{"/src"}, res))
	last, err := LoadResults(dir)
	require.NoError(t, err)
	assert.Equal(t, "id-1", last.Results.ScanID)
	assert.Equal(t, 4, last.Results.FilesScanned)
	assert.Equal(t, []string{"/src"}, last.Roots)
	assert.Equal(t, 2*time.Second, last.Results.Duration)
}
