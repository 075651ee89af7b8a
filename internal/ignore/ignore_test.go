package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnoreMatch(t *testing.T) {
	dir := t.TempDir()
	ig := filepath.Join(dir, FileName)
	content := "node_modules/\n*.min.js\n# comment\n\ngenerated/**\nsrc/legacy.ts\n"
	if err := os.WriteFile(ig, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(ig)
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string]bool{
		"node_modules/pkg/index.js":     true,
		"web/node_modules/pkg/index.js": true,
		"dist/app.min.js":               true,
		"generated/api/client.ts":       true,
		"src/legacy.ts":                 true,
		"src/app.ts":                    false,
		"src/legacy.tsx":                false,
	}
	for p, want := range cases {
		if got := m.Match(p); got != want {
			t.Fatalf("Match(%q)=%v want %v", p, got, want)
		}
	}
	assert.Equal(t, []string{"node_modules/**", "*.min.js", "generated/**", "src/legacy.ts"}, m.Patterns())
}

func TestLoadDirMissing(t *testing.T) {
	m, err := LoadDir(t.TempDir())
	require.NoError(t, err)
	assert.True(t, m.Empty())
	assert.False(t, m.Match("anything.ts"))
}
