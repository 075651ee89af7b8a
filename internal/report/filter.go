package report

import (
	"github.com/redactyl/ddscan/internal/types"
)

// FilterCategory keeps findings of category c and recomputes project counts.
func FilterCategory(res types.ScanResults, c types.DataCategory) types.ScanResults {
	return filter(res, func(f types.Finding) bool { return f.Category == c })
}

// FilterProject keeps the named project and its findings.
func FilterProject(res types.ScanResults, name string) types.ScanResults {
	out := filter(res, func(f types.Finding) bool { return f.ProjectName == name })
	var projects []types.ProjectInfo
	for _, p := range out.Projects {
		if p.Name == name {
			projects = append(projects, p)
		}
	}
	out.Projects = projects
	return out
}

// FilterFindings replaces the findings of res and recomputes project counts.
func FilterFindings(res types.ScanResults, findings []types.Finding) types.ScanResults {
	res.Findings = findings
	return recount(res)
}

func filter(res types.ScanResults, keep func(types.Finding) bool) types.ScanResults {
	var fs []types.Finding
	for _, f := range res.Findings {
		if keep(f) {
			fs = append(fs, f)
		}
	}
	return FilterFindings(res, fs)
}

func recount(res types.ScanResults) types.ScanResults {
	counts := map[string]int{}
	for _, f := range res.Findings {
		counts[f.ProjectName]++
	}
	projects := make([]types.ProjectInfo, len(res.Projects))
	for i, p := range res.Projects {
		p.FindingsCount = counts[p.Name]
		projects[i] = p
	}
	res.Projects = projects
	return res
}
