package report

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/redactyl/ddscan/internal/types"
)

const toolInformationURI = "https://github.com/redactyl/ddscan"

var operationDescriptions = map[types.OperationType]string{
	types.OpImport:          "Telemetry SDK import",
	types.OpInit:            "Telemetry SDK initialization",
	types.OpRUMAction:       "RUM action sends interaction data",
	types.OpRUMError:        "RUM error report",
	types.OpRUMTiming:       "RUM timing measurement",
	types.OpLogInfo:         "Info log forwarded to telemetry",
	types.OpLogWarn:         "Warning log forwarded to telemetry",
	types.OpLogError:        "Error log forwarded to telemetry",
	types.OpLogDebug:        "Debug log forwarded to telemetry",
	types.OpCustomAttribute: "Custom attribute attached to telemetry",
	types.OpConfiguration:   "Telemetry user or session configuration",
}

func sarifLevel(c types.DataCategory) string {
	switch c {
	case types.CatUser, types.CatError:
		return "warning"
	default:
		return "note"
	}
}

// WriteSARIF writes findings as SARIF 2.1.0 with one rule per operation type.
func WriteSARIF(w io.Writer, findings []types.Finding) error {
	fs := append([]types.Finding(nil), findings...)
	types.SortFindings(fs)

	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("create sarif report: %w", err)
	}
	run := sarif.NewRunWithInformationURI("ddscan", toolInformationURI)
	for _, f := range fs {
		ruleID := string(f.OperationType)
		desc := operationDescriptions[f.OperationType]
		if desc == "" {
			desc = ruleID
		}
		rule := run.AddRule(ruleID).WithDescription(desc)

		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.FilePath)).
				WithRegion(sarif.NewRegion().WithStartLine(f.LineNumber)),
		)
		msg := fmt.Sprintf("%s (%s) in %s", desc, f.Category, f.ProjectName)
		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(msg)).
			WithLevel(sarifLevel(f.Category)).
			WithLocations([]*sarif.Location{location})
		run.AddResult(result)
	}
	report.AddRun(run)
	return report.PrettyWrite(w)
}
