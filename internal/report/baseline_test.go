package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaselineRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), BaselineFile)
	fs := sampleResults().Findings

	require.NoError(t, SaveBaseline(path, fs[:2]))
	base, err := LoadBaseline(path)
	require.NoError(t, err)
	assert.Len(t, base.Keys(), 2)

	fresh := FilterNew(fs, base)
	require.Len(t, fresh, 1)
	assert.Equal(t, "game", fresh[0].ProjectName)
}

func TestBaselineMissingFile(t *testing.T) {
	base, err := LoadBaseline(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Empty(t, base.Items)
	assert.Len(t, FilterNew(sampleResults().Findings, base), 3)
}

func TestBaselineCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), BaselineFile)
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	base, err := LoadBaseline(path)
	assert.Error(t, err)
	assert.NotNil(t, base.Items)
}

func TestFingerprintIgnoresLineAndCheckout(t *testing.T) {
	a := sampleResults().Findings[1]
	b := a
	b.LineNumber = 40
	b.FilePath = "/home/ci/checkout/web/src/a.ts"
	b.Link = "https://github.com/acme/web/blob/main/src/a.ts#L40"
	assert.Equal(t, Fingerprint(a), Fingerprint(b))

	c := a
	c.CodeSnippet = "logger.error('other')"
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
}
