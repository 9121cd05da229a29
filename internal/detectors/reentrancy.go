package detectors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Raoof128/SCRVS/internal/model"
	"github.com/Raoof128/SCRVS/internal/solidity"
	"github.com/Raoof128/SCRVS/internal/util"
)

// reentrancyDetector flags external-call ordering and guard issues: missing
// nonReentrant guards, checks-effects-interactions violations, deprecated
// call patterns and payable fallback vectors.
type reentrancyDetector struct{}

var (
	reExternalCall  = regexp.MustCompile(`\.(call|send|transfer|delegatecall)(\s*\{[^}]*\})?\s*\(`)
	reAssignment    = regexp.MustCompile(`=\s*[^=]`)
	reRequireSender = regexp.MustCompile(`require\s*\(.*msg\.sender`)

	// CEI call patterns, matched by character offset inside the body
	ceiCallPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\.call\s*\{value:`),
		regexp.MustCompile(`\.call\s*\(`),
		regexp.MustCompile(`\.call\.value\s*\(`),
		regexp.MustCompile(`\.send\s*\(`),
		regexp.MustCompile(`\.transfer\s*\(`),
	}

	deprecatedCalls = []struct {
		re       *regexp.Regexp
		name     string
		severity model.Severity
	}{
		{regexp.MustCompile(`\.call\.value\s*\(`), "call.value()", model.SeverityHigh},
		{regexp.MustCompile(`\.send\s*\(`), "send()", model.SeverityMedium},
		{regexp.MustCompile(`\.transfer\s*\(`), "transfer()", model.SeverityMedium},
	}
)

func (d *reentrancyDetector) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "SOL-REENTRANCY",
		Title:    "Reentrancy patterns",
		Severity: model.SeverityCritical,
		Tags:     []string{"solidity", "reentrancy", "SWC-107"},
	}
}

func (d *reentrancyDetector) Detect(contracts []solidity.Contract, source, file string) []model.Finding {
	var findings []model.Finding
	for ci := range contracts {
		contract := &contracts[ci]
		for fi := range contract.Functions {
			fn := &contract.Functions[fi]
			if fn.IsView || fn.IsPure {
				continue
			}
			findings = append(findings, d.checkMissingGuard(fn, contract, file)...)
			findings = append(findings, d.checkCEIViolation(fn, contract, source, file)...)
			findings = append(findings, d.checkDeprecatedCalls(fn, file)...)
			findings = append(findings, d.checkFallbackVector(fn, file)...)
		}
	}
	return findings
}

// checkMissingGuard reports functions that make external calls without the
// nonReentrant modifier when the contract declares one.
func (d *reentrancyDetector) checkMissingGuard(fn *solidity.Function, contract *solidity.Contract, file string) []model.Finding {
	if !reExternalCall.MatchString(fn.Body) {
		return nil
	}
	if hasModifier(fn.Modifiers, "nonReentrant") || !hasModifier(contract.Modifiers, "nonReentrant") {
		return nil
	}
	return []model.Finding{{
		RuleID:   d.Meta().ID,
		Severity: model.SeverityHigh,
		Title:    "Missing Reentrancy Guard",
		Description: fmt.Sprintf("Function '%s' makes external calls but does not use the 'nonReentrant' modifier. "+
			"This could allow reentrancy attacks.", fn.Name),
		File:           file,
		Line:           fn.LineStart,
		Function:       fn.Name,
		Recommendation: fmt.Sprintf("Add the 'nonReentrant' modifier to function '%s'.", fn.Name),
		Reference:      "https://consensys.github.io/smart-contract-best-practices/attacks/reentrancy/",
		Fingerprint:    util.Fingerprint(d.Meta().ID, file, fn.LineStart, "missing-guard:"+fn.Name),
	}}
}

// checkCEIViolation compares character offsets of external calls against
// state-variable writes. For each call, the first write found after it in
// declaration order yields one finding; further writes for that call are not
// reported.
func (d *reentrancyDetector) checkCEIViolation(fn *solidity.Function, contract *solidity.Contract, source, file string) []model.Finding {
	if len(contract.StateVariables) == 0 {
		return nil
	}

	var callPositions []int
	for _, re := range ceiCallPatterns {
		for _, loc := range re.FindAllStringIndex(fn.Body, -1) {
			callPositions = append(callPositions, loc[0])
		}
	}

	type write struct {
		name string
		pos  int
	}
	var writePositions []write
	for _, sv := range contract.StateVariables {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(sv.Name) + `\s*(?:\[[^\]]*\])?\s*[-+]?=`)
		for _, loc := range re.FindAllStringIndex(fn.Body, -1) {
			writePositions = append(writePositions, write{name: sv.Name, pos: loc[0]})
		}
	}

	if len(callPositions) == 0 || len(writePositions) == 0 {
		return nil
	}

	var findings []model.Finding
	for _, callPos := range callPositions {
		for _, w := range writePositions {
			if callPos >= w.pos {
				continue
			}
			callLine := fn.LineStart + strings.Count(fn.Body[:callPos], "\n")
			findings = append(findings, model.Finding{
				RuleID:   d.Meta().ID,
				Severity: model.SeverityCritical,
				Title:    "External Call Before State Update",
				Description: fmt.Sprintf("Function '%s' violates the Checks-Effects-Interactions pattern. "+
					"An external call occurs before state variable '%s' is updated, allowing an attacker "+
					"to re-enter the function and observe stale state.", fn.Name, w.name),
				File:     file,
				Line:     callLine,
				Function: fn.Name,
				Snippet:  util.ExtractSnippet(source, callLine, 3),
				Recommendation: fmt.Sprintf("Validate conditions, update state, then interact: move the update "+
					"of '%s' before the external call.", w.name),
				Reference:   "https://consensys.github.io/smart-contract-best-practices/attacks/reentrancy/",
				Fingerprint: util.Fingerprint(d.Meta().ID, file, callLine, "cei:"+fn.Name+":"+w.name),
			})
			break
		}
	}
	return findings
}

func (d *reentrancyDetector) checkDeprecatedCalls(fn *solidity.Function, file string) []model.Finding {
	var findings []model.Finding
	for _, dep := range deprecatedCalls {
		for _, loc := range dep.re.FindAllStringIndex(fn.Body, -1) {
			line := fn.LineStart + strings.Count(fn.Body[:loc[0]], "\n")
			findings = append(findings, model.Finding{
				RuleID:   d.Meta().ID,
				Severity: dep.severity,
				Title:    fmt.Sprintf("Deprecated Call Pattern: %s", dep.name),
				Description: fmt.Sprintf("Function '%s' uses the deprecated %s pattern. It forwards a fixed "+
					"2300 gas stipend and can fail silently.", fn.Name, dep.name),
				File:           file,
				Line:           line,
				Function:       fn.Name,
				Recommendation: "Use a low-level call with an explicit success check:\n(bool success, ) = recipient.call{value: amount}(\"\");\nrequire(success, \"Transfer failed\");",
				Reference:      "https://consensys.github.io/smart-contract-best-practices/development-recommendations/general/external-calls/",
				Fingerprint:    util.Fingerprint(d.Meta().ID, file, line, "deprecated:"+dep.name),
			})
		}
	}
	return findings
}

// checkFallbackVector reports payable public/external functions that assign
// state without a require on msg.sender.
func (d *reentrancyDetector) checkFallbackVector(fn *solidity.Function, file string) []model.Finding {
	if fn.Visibility != "public" && fn.Visibility != "external" {
		return nil
	}
	if !fn.IsPayable || !reAssignment.MatchString(fn.Body) || reRequireSender.MatchString(fn.Body) {
		return nil
	}
	return []model.Finding{{
		RuleID:   d.Meta().ID,
		Severity: model.SeverityMedium,
		Title:    "Potential Reentrancy via Fallback",
		Description: fmt.Sprintf("Function '%s' is %s and payable, making it reachable via fallback "+
			"execution. It modifies state without a caller check, so it could be re-entered.", fn.Name, fn.Visibility),
		File:           file,
		Line:           fn.LineStart,
		Function:       fn.Name,
		Recommendation: fmt.Sprintf("Add a reentrancy guard or a require() on msg.sender to '%s'.", fn.Name),
		Reference:      "https://consensys.github.io/smart-contract-best-practices/attacks/reentrancy/",
		Fingerprint:    util.Fingerprint(d.Meta().ID, file, fn.LineStart, "fallback:"+fn.Name),
	}}
}
