package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Raoof128/SCRVS/internal/model"
)

var severityColors = map[model.Severity]*color.Color{
	model.SeverityCritical: color.New(color.FgRed, color.Bold),
	model.SeverityHigh:     color.New(color.FgMagenta),
	model.SeverityMedium:   color.New(color.FgYellow),
	model.SeverityLow:      color.New(color.FgBlue),
	model.SeverityInfo:     color.New(color.FgGreen),
}

// FilterCriticalOnly keeps CRITICAL and HIGH findings.
func FilterCriticalOnly(findings []model.Finding) []model.Finding {
	var out []model.Finding
	for _, f := range findings {
		if f.Severity == model.SeverityCritical || f.Severity == model.SeverityHigh {
			out = append(out, f)
		}
	}
	return out
}

// WriteTerminal prints findings grouped by severity, most severe first, with
// a summary tally and the security score.
func WriteTerminal(w io.Writer, findings []model.Finding, scannedPath string) {
	if len(findings) == 0 {
		color.New(color.FgGreen).Fprintln(w, "✓ No vulnerabilities found!")
		return
	}

	fmt.Fprintf(w, "\nScanning: %s\n", scannedPath)
	fmt.Fprintln(w, strings.Repeat("=", 80))

	grouped := make(map[model.Severity][]model.Finding)
	for _, f := range findings {
		grouped[f.Severity] = append(grouped[f.Severity], f)
	}

	for _, severity := range model.SeverityOrder {
		group := grouped[severity]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintln(w)
		severityColors[severity].Fprintln(w, string(severity))
		fmt.Fprintln(w, strings.Repeat("-", 80))
		for _, f := range group {
			fmt.Fprintf(w, "\n[%s] %s\n", f.Severity, f.Title)
			fmt.Fprintf(w, "  File: %s:%d\n", f.File, f.Line)
			if f.Function != "" {
				fmt.Fprintf(w, "  Function: %s\n", f.Function)
			}
			fmt.Fprintf(w, "  Description: %s\n", f.Description)
			if f.Snippet != "" {
				fmt.Fprintf(w, "\n  Code:\n%s\n", f.Snippet)
			}
			if f.Recommendation != "" {
				fmt.Fprintf(w, "\n  Recommendation:\n  %s\n", f.Recommendation)
			}
		}
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", 80))
	fmt.Fprintln(w, "\nSummary:")
	tally := model.Tally(findings)
	for _, severity := range model.SeverityOrder {
		if tally[severity] > 0 {
			fmt.Fprint(w, "  ")
			severityColors[severity].Fprint(w, string(severity))
			fmt.Fprintf(w, ": %d\n", tally[severity])
		}
	}
	fmt.Fprintf(w, "\n  Total findings: %d\n", len(findings))
	fmt.Fprintf(w, "  Security score: %d/100\n", model.Score(findings))
}
