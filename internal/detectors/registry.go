package detectors

import (
	"sort"
	"strings"
)

// Info describes a registered detector for listings.
type Info struct {
	ID         string   `json:"id"`
	Language   string   `json:"language"`
	Extensions []string `json:"extensions"`
}

// Registry maps file extensions to the detector that owns them. The first
// registered detector for an extension wins.
type Registry struct {
	all   []Detector
	byExt map[string]Detector
}

// NewRegistry registers ds in order.
func NewRegistry(ds ...Detector) *Registry {
	r := &Registry{byExt: map[string]Detector{}}
	for _, d := range ds {
		r.Register(d)
	}
	return r
}

// DefaultRegistry returns the web script and Unity detectors configured by opts.
func DefaultRegistry(opts Options) *Registry {
	return NewRegistry(NewScriptDetector(opts), NewUnityDetector(opts))
}

func (r *Registry) Register(d Detector) {
	r.all = append(r.all, d)
	for _, ext := range d.Extensions() {
		ext = strings.ToLower(ext)
		if _, taken := r.byExt[ext]; !taken {
			r.byExt[ext] = d
		}
	}
}

// ForFile returns the detector that handles path, or nil.
func (r *Registry) ForFile(path string) Detector {
	for _, d := range r.all {
		if d.CanHandle(path) {
			return d
		}
	}
	return nil
}

// SupportedExtensions lists every registered extension once, sorted.
func (r *Registry) SupportedExtensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// ByLanguage returns the detector whose language matches name, ignoring case.
func (r *Registry) ByLanguage(name string) Detector {
	for _, d := range r.all {
		if strings.EqualFold(d.Language(), name) || strings.EqualFold(d.ID(), name) {
			return d
		}
	}
	return nil
}

func (r *Registry) Detectors() []Detector {
	return append([]Detector(nil), r.all...)
}

func (r *Registry) Infos() []Info {
	out := make([]Info, 0, len(r.all))
	for _, d := range r.all {
		out = append(out, Info{ID: d.ID(), Language: d.Language(), Extensions: d.Extensions()})
	}
	return out
}
