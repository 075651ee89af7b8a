package detectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry(DefaultOptions())

	ts := r.ForFile("src/app.ts")
	require.NotNil(t, ts)
	cs := r.ForFile("Assets/Game.cs")
	require.NotNil(t, cs)
	assert.Equal(t, "script", ts.ID())
	assert.Equal(t, "unity", cs.ID())
	assert.NotEqual(t, ts.ID(), cs.ID())

	assert.Nil(t, r.ForFile("main.py"))
	assert.Nil(t, r.ForFile("Makefile"))
	assert.Equal(t, "script", r.ForFile("INDEX.TSX").ID())

	exts := r.SupportedExtensions()
	assert.Equal(t, []string{".cjs", ".cs", ".js", ".jsx", ".mjs", ".ts", ".tsx"}, exts)
	for _, ext := range exts {
		owners := 0
		for _, d := range r.Detectors() {
			if d.CanHandle("file" + ext) {
				owners++
			}
		}
		assert.Equal(t, 1, owners, ext)
	}
}

func TestRegistryByLanguage(t *testing.T) {
	r := DefaultRegistry(DefaultOptions())
	require.NotNil(t, r.ByLanguage("c#"))
	assert.Equal(t, "unity", r.ByLanguage("c#").ID())
	assert.Equal(t, "script", r.ByLanguage("script").ID())
	assert.Nil(t, r.ByLanguage("python"))
}

func TestRegistryInfos(t *testing.T) {
	infos := DefaultRegistry(DefaultOptions()).Infos()
	require.Len(t, infos, 2)
	assert.Equal(t, "TypeScript/JavaScript", infos[0].Language)
	assert.Equal(t, []string{".cs"}, infos[1].Extensions)
}
