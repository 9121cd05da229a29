package report

import (
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/Raoof128/SCRVS/internal/model"
)

func toSarifLevel(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical, model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

// WriteSARIF renders findings as a SARIF 2.1.0 document.
func WriteSARIF(w io.Writer, findings []model.Finding) error {
	doc, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}
	run := sarif.NewRunWithInformationURI("scrvs", "https://github.com/Raoof128/SCRVS")

	seenRules := map[string]bool{}
	for _, f := range findings {
		if !seenRules[f.RuleID] {
			run.AddRule(f.RuleID).
				WithDescription(f.Title).
				WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: toSarifLevel(f.Severity)})
			seenRules[f.RuleID] = true
		}

		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.File)).
				WithRegion(sarif.NewRegion().WithStartLine(f.Line)),
		)
		result := sarif.NewRuleResult(f.RuleID).
			WithMessage(sarif.NewTextMessage(f.Title + ": " + f.Description)).
			WithLevel(toSarifLevel(f.Severity)).
			WithLocations([]*sarif.Location{location})
		run.AddResult(result)
	}
	doc.AddRun(run)
	return doc.PrettyWrite(w)
}
