package engine

import (
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverProjects(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "shop", "package.json"), `{"dependencies":{"next":"14","react":"18"}}`)
	writeFile(t, filepath.Join(root, "game", "Assets", "Main.cs"), "")
	writeFile(t, filepath.Join(root, "game", "ProjectSettings", "x.asset"), "")
	writeFile(t, filepath.Join(root, "docs", "README.md"), "")
	writeFile(t, filepath.Join(root, ".hidden", "package.json"), `{}`)

	got := DiscoverProjects([]string{root}, nil, hclog.NewNullLogger())
	require.Len(t, got, 2)
	assert.Equal(t, "game", got[0].Name)
	assert.Equal(t, ProjectUnity, got[0].Type)
	assert.Equal(t, "shop", got[1].Name)
	assert.Equal(t, ProjectNextJS, got[1].Type)
}

func TestDiscoverProjectsRootIsProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tsconfig.json"), `{}`)
	writeFile(t, filepath.Join(root, "child", "package.json"), `{}`)

	got := DiscoverProjects([]string{root, root}, nil, nil)
	require.Len(t, got, 1)
	assert.Equal(t, root, got[0].Path)
	assert.Equal(t, ProjectUnknown, got[0].Type)
}

func TestDetectProjectType(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{"next", map[string]string{"package.json": `{"dependencies":{"next":"14"}}`}, ProjectNextJS},
		{"react dev dependency", map[string]string{"package.json": `{"devDependencies":{"react":"18"}}`}, ProjectReact},
		{"node", map[string]string{"package.json": `{"dependencies":{"express":"4"}}`}, ProjectNode},
		{"broken manifest", map[string]string{"package.json": `{`}, ProjectNode},
		{"csproj", map[string]string{"Game.csproj": "<Project/>"}, ProjectUnity},
		{"unknown", map[string]string{"main.go": "package main"}, ProjectUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, filepath.Join(dir, name), content)
			}
			assert.Equal(t, tt.want, DetectProjectType(dir))
		})
	}
}

func TestDefaultIgnorePatterns(t *testing.T) {
	assert.Contains(t, DefaultIgnorePatterns(ProjectNextJS), "out/**")
	assert.NotContains(t, DefaultIgnorePatterns(ProjectReact), "out/**")
	assert.Contains(t, DefaultIgnorePatterns(ProjectUnity), "*.meta")
	assert.Nil(t, DefaultIgnorePatterns(ProjectUnknown))
}
