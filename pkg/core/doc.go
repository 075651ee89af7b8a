// Package core provides a small, stable facade over ddscan's internal engine
// for external integrations. It re-exports a narrow API surface so tools can
// depend on a stable import path without importing internal packages.
//
// Example:
//
//	cfg := core.DefaultConfig("./apps")
//	res, err := core.Scan(cfg)
//	if err != nil { /* handle */ }
//	_ = core.MarshalFindings(os.Stdout, res.Findings)
package core
