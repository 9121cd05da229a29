package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raoof128/SCRVS/internal/model"
)

func sampleResult() *model.ScanResult {
	return &model.ScanResult{
		Files: 2,
		Findings: []model.Finding{
			{
				RuleID:         "SOL-REENTRANCY",
				Severity:       model.SeverityCritical,
				Title:          "External Call Before State Update",
				Description:    "line one\nline two",
				File:           "contracts/vault.sol",
				Line:           42,
				Function:       "withdraw",
				Recommendation: "Move the state update\nbefore the call.",
				Fingerprint:    "fp-1",
			},
			{
				RuleID:      "SOL-VALIDATION",
				Severity:    model.SeverityLow,
				Title:       "Hardcoded Address",
				Description: "Hardcoded address found.",
				File:        "contracts/vault.sol",
				Line:        7,
				Fingerprint: "fp-2",
			},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	result := sampleResult()
	require.NoError(t, WriteJSON(&buf, result, "contracts/"))

	var decoded struct {
		Path          string                 `json:"path"`
		FilesScanned  int                    `json:"filesScanned"`
		TotalFindings int                    `json:"totalFindings"`
		Score         int                    `json:"score"`
		Summary       map[model.Severity]int `json:"summary"`
		Findings      []model.Finding        `json:"findings"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "contracts/", decoded.Path)
	assert.Equal(t, 2, decoded.FilesScanned)
	assert.Equal(t, 2, decoded.TotalFindings)
	assert.Equal(t, 75, decoded.Score)
	assert.Equal(t, 1, decoded.Summary[model.SeverityCritical])
	assert.Equal(t, result.Findings, decoded.Findings)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResult().Findings))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Severity", "Title", "File", "Line", "Function", "Description", "Recommendation"}, rows[0])
	assert.Equal(t, "CRITICAL", rows[1][0])
	assert.Equal(t, "42", rows[1][3])
	// multi-line fields are flattened
	assert.Equal(t, "line one line two", rows[1][5])
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, sampleResult(), "contracts/"))
	out := buf.String()

	assert.Contains(t, out, "# Smart Contract Security Audit Report")
	assert.Contains(t, out, "| CRITICAL | 1 |")
	assert.Contains(t, out, "| LOW | 1 |")
	assert.Contains(t, out, "## CRITICAL Findings")
	assert.Contains(t, out, "`contracts/vault.sol:42`")
	assert.Contains(t, out, "1 critical/high severity issues require immediate attention")
	assert.Contains(t, out, "## General Recommendations")

	// CRITICAL section precedes LOW
	assert.Less(t, strings.Index(out, "## CRITICAL Findings"), strings.Index(out, "## LOW Findings"))
}

func TestWriteSARIF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSARIF(&buf, sampleResult().Findings))

	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID string `json:"ruleId"`
				Level  string `json:"level"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "2.1.0", doc.Version)
	require.Len(t, doc.Runs, 1)
	assert.Equal(t, "scrvs", doc.Runs[0].Tool.Driver.Name)
	require.Len(t, doc.Runs[0].Results, 2)
	assert.Equal(t, "SOL-REENTRANCY", doc.Runs[0].Results[0].RuleID)
	assert.Equal(t, "error", doc.Runs[0].Results[0].Level)
	assert.Equal(t, "note", doc.Runs[0].Results[1].Level)
}

func TestWriteTerminal(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	WriteTerminal(&buf, sampleResult().Findings, "contracts/")
	out := buf.String()

	assert.Contains(t, out, "Scanning: contracts/")
	assert.Contains(t, out, "[CRITICAL] External Call Before State Update")
	assert.Contains(t, out, "Function: withdraw")
	assert.Contains(t, out, "Total findings: 2")
	assert.Contains(t, out, "Security score: 75/100")

	// CRITICAL group comes before LOW
	assert.Less(t, strings.Index(out, "[CRITICAL]"), strings.Index(out, "[LOW]"))
}

func TestWriteTerminalEmpty(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	WriteTerminal(&buf, nil, "contracts/")
	assert.Contains(t, buf.String(), "No vulnerabilities found")
}

func TestFilterCriticalOnly(t *testing.T) {
	findings := []model.Finding{
		{Severity: model.SeverityCritical},
		{Severity: model.SeverityHigh},
		{Severity: model.SeverityMedium},
		{Severity: model.SeverityLow},
	}
	out := FilterCriticalOnly(findings)
	require.Len(t, out, 2)
	assert.Equal(t, model.SeverityCritical, out[0].Severity)
	assert.Equal(t, model.SeverityHigh, out[1].Severity)
}
