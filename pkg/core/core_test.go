package core

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanSmoke(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.js"), []byte("logger.error('failed to load');\n"), 0o644))

	cfg := DefaultConfig(root)
	cfg.NoCache = true
	res, err := Scan(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilesScanned)
	require.Len(t, res.Findings, 1)

	var buf bytes.Buffer
	require.NoError(t, MarshalFindings(&buf, res.Findings))
	back, err := UnmarshalFindings(&buf)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, res.Findings[0].CodeSnippet, back[0].CodeSnippet)
	assert.Equal(t, res.Findings[0].OperationType, back[0].OperationType)
}

func TestSupportedExtensions(t *testing.T) {
	exts := SupportedExtensions()
	assert.Contains(t, exts, ".ts")
	assert.Contains(t, exts, ".cs")
	assert.IsIncreasing(t, exts)
}

func TestMarshalEmptyFindings(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarshalFindings(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
