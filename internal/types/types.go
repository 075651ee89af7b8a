package types

import (
	"sort"
	"strings"
	"time"
)

// OperationType is the kind of SDK call a finding represents.
type OperationType string

const (
	OpImport          OperationType = "import"
	OpInit            OperationType = "init"
	OpRUMAction       OperationType = "rum_action"
	OpRUMError        OperationType = "rum_error"
	OpRUMTiming       OperationType = "rum_timing"
	OpLogInfo         OperationType = "log_info"
	OpLogWarn         OperationType = "log_warn"
	OpLogError        OperationType = "log_error"
	OpLogDebug        OperationType = "log_debug"
	OpCustomAttribute OperationType = "custom_attribute"
	OpConfiguration   OperationType = "configuration"
)

// OperationTypes lists every operation type in display order.
func OperationTypes() []OperationType {
	return []OperationType{
		OpImport, OpInit, OpRUMAction, OpRUMError, OpRUMTiming,
		OpLogInfo, OpLogWarn, OpLogError, OpLogDebug,
		OpCustomAttribute, OpConfiguration,
	}
}

// DataCategory describes the nature of the data a call sends.
type DataCategory string

const (
	CatUser          DataCategory = "user_data"
	CatSystem        DataCategory = "system_data"
	CatError         DataCategory = "error_data"
	CatPerformance   DataCategory = "performance_data"
	CatConfiguration DataCategory = "configuration_data"
	CatUnknown       DataCategory = "unknown"
)

// DataCategories lists every category in display order.
func DataCategories() []DataCategory {
	return []DataCategory{CatUser, CatSystem, CatError, CatPerformance, CatConfiguration, CatUnknown}
}

// ParseCategory accepts both "user_data" and the CLI spelling "user-data".
func ParseCategory(s string) (DataCategory, bool) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, c := range DataCategories() {
		if string(c) == norm {
			return c, true
		}
	}
	return CatUnknown, false
}

// BindingStyle is how an imported symbol was introduced into a file.
type BindingStyle string

const (
	BindNamed     BindingStyle = "named"
	BindDefault   BindingStyle = "default"
	BindNamespace BindingStyle = "namespace"
)

// ImportedSymbol is a locally visible identifier that originates from the
// telemetry SDK. It only lives for the duration of one detection call.
type ImportedSymbol struct {
	Local    string       `json:"local"`
	Original string       `json:"original"`
	Package  string       `json:"package"`
	Style    BindingStyle `json:"style"`
	Kind     string       `json:"kind,omitempty"` // enum, interface, class for well-known Unity types
	Line     int          `json:"line"`
}

// Finding is a single SDK call site. Link is the only field written after a
// detector returns it.
type Finding struct {
	FilePath            string         `json:"file_path"`
	LineNumber          int            `json:"line_number"`
	CodeSnippet         string         `json:"code_snippet"`
	OperationType       OperationType  `json:"operation_type"`
	Data                map[string]any `json:"data_being_sent"`
	Category            DataCategory   `json:"data_category"`
	ContextLines        []string       `json:"context_lines"`
	Link                string         `json:"github_url"`
	ProjectName         string         `json:"project_name"`
	ExtractedParameters map[string]any `json:"extracted_parameters,omitempty"`
}

// ProjectInfo describes a discovered project root.
type ProjectInfo struct {
	Name          string `json:"name"`
	Path          string `json:"path"`
	Type          string `json:"project_type"`
	Link          string `json:"github_url"`
	FindingsCount int    `json:"findings_count"`
}

// ScanResults is the aggregate of a whole scan invocation.
type ScanResults struct {
	ScanID       string        `json:"scan_id"`
	Projects     []ProjectInfo `json:"projects"`
	Findings     []Finding     `json:"findings"`
	FilesScanned int           `json:"total_files_scanned"`
	FilesFailed  int           `json:"files_failed"`
	Duration     time.Duration `json:"scan_duration"`
}

// ByCategory returns the findings with the given category.
func (r ScanResults) ByCategory(c DataCategory) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Category == c {
			out = append(out, f)
		}
	}
	return out
}

// ByProject returns the findings owned by the named project.
func (r ScanResults) ByProject(name string) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.ProjectName == name {
			out = append(out, f)
		}
	}
	return out
}

// ByOperation returns the findings with the given operation type.
func (r ScanResults) ByOperation(op OperationType) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.OperationType == op {
			out = append(out, f)
		}
	}
	return out
}

func (r ScanResults) CategoryCounts() map[DataCategory]int {
	out := map[DataCategory]int{}
	for _, f := range r.Findings {
		out[f.Category]++
	}
	return out
}

func (r ScanResults) OperationCounts() map[OperationType]int {
	out := map[OperationType]int{}
	for _, f := range r.Findings {
		out[f.OperationType]++
	}
	return out
}

// SortFindings orders findings by project, file and line. Aggregate order
// after a scan follows worker completion, so callers that need stable output
// sort first.
func SortFindings(fs []Finding) {
	sort.SliceStable(fs, func(i, j int) bool {
		a, b := fs[i], fs[j]
		if a.ProjectName != b.ProjectName {
			return a.ProjectName < b.ProjectName
		}
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		return a.LineNumber < b.LineNumber
	})
}
