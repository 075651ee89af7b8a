package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchIgnore(t *testing.T) {
	tests := []struct {
		pattern string
		rel     string
		want    bool
	}{
		{"node_modules/**", "node_modules/pkg/index.js", true},
		{"node_modules/**", "packages/a/node_modules/pkg/index.js", true},
		{"*.min.js", "public/vendor/app.min.js", true},
		{"Library/**", "Assets/Library.cs", false},
		{"src/legacy/*.ts", "src/legacy/old.ts", true},
		{"src/legacy/*.ts", "src/new/old.ts", false},
		{"*.meta", "Assets/Player.cs", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, matchIgnore([]string{tt.pattern}, filepath.FromSlash(tt.rel)))
		})
	}
}

func TestHasSDKContent(t *testing.T) {
	assert.True(t, hasSDKContent("import x from '@DataDog/browser-rum'", nil))
	assert.True(t, hasSDKContent("window.DD_LOGS.init({})", nil))
	assert.True(t, hasSDKContent("import { t } from '@acme/telemetry'", []string{"@acme"}))
	assert.False(t, hasSDKContent("console.log('hello')", []string{"@acme"}))
}

func TestDecodeSource(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"utf8", []byte("héllo"), "héllo"},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "hi"...), "hi"},
		{"utf16le bom", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "hi"},
		{"windows-1252", []byte{'c', 'a', 'f', 0xE9}, "café"},
		{"binary", []byte{'a', 0, 'b'}, ""},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeSource(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := readFile(filepath.Join(t.TempDir(), "absent.ts"))
	assert.ErrorContains(t, err, "absent.ts")
}
