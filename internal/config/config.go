package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// LocalNames are the repo-local config file names, in lookup order.
var LocalNames = []string{".ddscan.yml", ".ddscan.yaml", "ddscan.yml", "ddscan.yaml"}

// ErrNotFound is returned when no config file exists at the searched locations.
var ErrNotFound = errors.New("config not found")

// FileConfig is the on-disk YAML configuration shape for ddscan. Unset fields
// stay nil so callers can tell "absent" from a zero value.
type FileConfig struct {
	Extensions   *string `yaml:"extensions"`
	Ignore       *string `yaml:"ignore"`
	ContextLines *int    `yaml:"context_lines"`
	Threads      *int    `yaml:"threads"`
	MaxBytes     *int64  `yaml:"max_bytes"`
	Scopes       *string `yaml:"scopes"`
	Detailed     *bool   `yaml:"detailed"`
	LogLevel     *string `yaml:"log_level"`
	LogJSON      *bool   `yaml:"log_json"`
	NoColor      *bool   `yaml:"no_color"`

	GitHub *GitHubConfig `yaml:"github"`
	Output *OutputConfig `yaml:"output"`
}

// GitHubConfig controls how source links are built.
type GitHubConfig struct {
	BaseURL       *string `yaml:"base_url"`
	DefaultBranch *string `yaml:"default_branch"`
}

// OutputConfig controls where and how reports are written.
type OutputConfig struct {
	Dir     *string `yaml:"dir"`
	Formats *string `yaml:"formats"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a repo-local config file in the given root.
func LoadLocal(root string) (FileConfig, error) {
	for _, name := range LocalNames {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, ErrNotFound
}

// GlobalPath is the per-user config file under the XDG config home.
func GlobalPath() string {
	return filepath.Join(xdg.ConfigHome, "ddscan", "config.yml")
}

// LoadGlobal loads the global config file.
func LoadGlobal() (FileConfig, error) {
	p := GlobalPath()
	if _, err := os.Stat(p); err != nil {
		return FileConfig{}, ErrNotFound
	}
	return LoadFile(p)
}

// Merge overlays the set fields of over onto base.
func Merge(base, over FileConfig) FileConfig {
	out := base
	setPtr(&out.Extensions, over.Extensions)
	setPtr(&out.Ignore, over.Ignore)
	setPtr(&out.ContextLines, over.ContextLines)
	setPtr(&out.Threads, over.Threads)
	setPtr(&out.MaxBytes, over.MaxBytes)
	setPtr(&out.Scopes, over.Scopes)
	setPtr(&out.Detailed, over.Detailed)
	setPtr(&out.LogLevel, over.LogLevel)
	setPtr(&out.LogJSON, over.LogJSON)
	setPtr(&out.NoColor, over.NoColor)

	if over.GitHub != nil {
		gh := GitHubConfig{}
		if out.GitHub != nil {
			gh = *out.GitHub
		}
		setPtr(&gh.BaseURL, over.GitHub.BaseURL)
		setPtr(&gh.DefaultBranch, over.GitHub.DefaultBranch)
		out.GitHub = &gh
	}
	if over.Output != nil {
		o := OutputConfig{}
		if out.Output != nil {
			o = *out.Output
		}
		setPtr(&o.Dir, over.Output.Dir)
		setPtr(&o.Formats, over.Output.Formats)
		out.Output = &o
	}
	return out
}

func setPtr[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

// BaseURL returns the configured link base or nil.
func (fc FileConfig) BaseURL() *string {
	if fc.GitHub == nil {
		return nil
	}
	return fc.GitHub.BaseURL
}

// DefaultBranch returns the configured fallback branch or nil.
func (fc FileConfig) DefaultBranch() *string {
	if fc.GitHub == nil {
		return nil
	}
	return fc.GitHub.DefaultBranch
}

// OutputDir returns the configured report directory or nil.
func (fc FileConfig) OutputDir() *string {
	if fc.Output == nil {
		return nil
	}
	return fc.Output.Dir
}

// OutputFormats returns the configured report formats or nil.
func (fc FileConfig) OutputFormats() *string {
	if fc.Output == nil {
		return nil
	}
	return fc.Output.Formats
}

// Starter is the file written by "ddscan config init".
const Starter = `# ddscan configuration
# Comma separated lists are accepted wherever a list is expected.
extensions: ".ts,.tsx,.js,.jsx,.mjs,.cjs,.cs"
ignore: ""
scopes: "@datadog,@telemetry"
context_lines: 3
threads: 8
max_bytes: 1048576
detailed: false
github:
  base_url: "https://github.com/Volley-Inc"
  default_branch: "main"
output:
  dir: "datadog_reports"
  formats: "table,json,csv"
log_level: "info"
`

// WriteStarter writes Starter to root unless a local config already exists.
func WriteStarter(root string, force bool) (string, error) {
	p := filepath.Join(root, LocalNames[0])
	if !force {
		for _, name := range LocalNames {
			if _, err := os.Stat(filepath.Join(root, name)); err == nil {
				return "", os.ErrExist
			}
		}
	}
	return p, os.WriteFile(p, []byte(Starter), 0o644)
}
