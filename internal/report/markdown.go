package report

import (
	"fmt"
	"io"
	"time"

	"github.com/Raoof128/SCRVS/internal/model"
)

// WriteMarkdown renders an audit-style report: executive summary, severity
// breakdown table, then every finding grouped by severity.
func WriteMarkdown(w io.Writer, result *model.ScanResult, scannedPath string) error {
	findings := result.Findings
	tally := model.Tally(findings)

	fmt.Fprintln(w, "# Smart Contract Security Audit Report")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "**Target:** `%s`\n", scannedPath)
	fmt.Fprintf(w, "**Scan Date:** %s\n", time.Now().UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "**Security Score:** %d/100\n", model.Score(findings))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Executive Summary")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "This scan identified **%d** security findings across %d file(s).\n", len(findings), result.Files)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Severity | Count |")
	fmt.Fprintln(w, "|----------|-------|")
	for _, severity := range model.SeverityOrder {
		if tally[severity] > 0 {
			fmt.Fprintf(w, "| %s | %d |\n", severity, tally[severity])
		}
	}
	fmt.Fprintln(w)
	if urgent := tally[model.SeverityCritical] + tally[model.SeverityHigh]; urgent > 0 {
		fmt.Fprintf(w, "**%d critical/high severity issues require immediate attention.**\n", urgent)
		fmt.Fprintln(w)
	}

	for _, severity := range model.SeverityOrder {
		var group []model.Finding
		for _, f := range findings {
			if f.Severity == severity {
				group = append(group, f)
			}
		}
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(w, "## %s Findings\n\n", severity)
		for i, f := range group {
			fmt.Fprintf(w, "### %d. %s\n\n", i+1, f.Title)
			fmt.Fprintf(w, "**Location:** `%s:%d`\n", f.File, f.Line)
			if f.Function != "" {
				fmt.Fprintf(w, "**Function:** `%s`\n", f.Function)
			}
			fmt.Fprintf(w, "\n%s\n\n", f.Description)
			if f.Snippet != "" {
				fmt.Fprintf(w, "```solidity\n%s\n```\n\n", f.Snippet)
			}
			if f.Recommendation != "" {
				fmt.Fprintf(w, "**Recommendation:**\n\n%s\n\n", f.Recommendation)
			}
			if f.Reference != "" {
				fmt.Fprintf(w, "**References:** %s\n\n", f.Reference)
			}
			fmt.Fprintln(w, "---")
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintln(w, "## General Recommendations")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "1. **Follow the CEI pattern**: validate conditions, update state, then make external calls.")
	fmt.Fprintln(w, "2. **Use reentrancy guards**: apply `nonReentrant` modifiers on functions that transfer value.")
	fmt.Fprintln(w, "3. **Validate inputs**: guard parameters with `require()` statements.")
	fmt.Fprintln(w, "4. **Protect admin functions**: restrict ownership changes with access-control modifiers.")
	fmt.Fprintln(w, "5. **Target Solidity >= 0.8.0**: built-in overflow protection replaces SafeMath.")
	fmt.Fprintln(w, "6. **Emit events**: log every significant state change for off-chain monitoring.")
	return nil
}
