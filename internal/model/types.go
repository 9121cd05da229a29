package model

import "time"

type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// SeverityOrder lists severities from most to least severe; reporters group
// findings in this order.
var SeverityOrder = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

var severityRank = map[Severity]int{
	SeverityInfo:     1,
	SeverityLow:      2,
	SeverityMedium:   3,
	SeverityHigh:     4,
	SeverityCritical: 5,
}

func ParseSeverity(s string) Severity {
	switch s {
	case "critical", "CRITICAL":
		return SeverityCritical
	case "high", "HIGH":
		return SeverityHigh
	case "medium", "MEDIUM":
		return SeverityMedium
	case "info", "INFO":
		return SeverityInfo
	default:
		return SeverityLow
	}
}

func SeverityGTE(a, b Severity) bool {
	return severityRank[a] >= severityRank[b]
}

type RuleMeta struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Severity Severity `json:"severity"`
	Tags     []string `json:"tags"`
}

// Finding is an immutable record produced by a detector. Line always refers
// to a line that exists in the scanned source.
type Finding struct {
	RuleID         string   `json:"ruleId"`
	Severity       Severity `json:"severity"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	File           string   `json:"file"`
	Line           int      `json:"line"`
	Function       string   `json:"function,omitempty"`
	Snippet        string   `json:"snippet,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
	Reference      string   `json:"reference,omitempty"`
	Fingerprint    string   `json:"fingerprint"`
}

type ScanRequest struct {
	Path         string
	ConfigPath   string
	BaselinePath string
}

type ScanResult struct {
	Findings []Finding     `json:"findings"`
	Files    int           `json:"files"`
	Elapsed  time.Duration `json:"elapsed"`
}

// severityWeights drive the 0-100 security score. The score is a reporting
// convenience, not part of detector output.
var severityWeights = map[Severity]int{
	SeverityCritical: 20,
	SeverityHigh:     15,
	SeverityMedium:   10,
	SeverityLow:      5,
	SeverityInfo:     2,
}

// Score returns max(0, 100 - sum of severity weights).
func Score(findings []Finding) int {
	penalty := 0
	for _, f := range findings {
		penalty += severityWeights[f.Severity]
	}
	score := 100 - penalty
	if score < 0 {
		score = 0
	}
	return score
}

// Tally counts findings per severity.
func Tally(findings []Finding) map[Severity]int {
	counts := make(map[Severity]int, len(SeverityOrder))
	for _, f := range findings {
		counts[f.Severity]++
	}
	return counts
}
