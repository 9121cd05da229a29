package detectors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Raoof128/SCRVS/internal/model"
	"github.com/Raoof128/SCRVS/internal/solidity"
	"github.com/Raoof128/SCRVS/internal/util"
)

// insecureCallsDetector flags delegatecall usage and low-level calls whose
// return value is never checked.
type insecureCallsDetector struct{}

var (
	reDelegatecall = regexp.MustCompile(`\.delegatecall\s*\(`)
	reUserInput    = regexp.MustCompile(`msg\.data|msg\.sender|abi\.decode`)
	reLowLevelCall = regexp.MustCompile(`(\w+)\.(call|send|delegatecall)\s*\(`)
	reBoolCapture  = regexp.MustCompile(`\(bool\s+\w+`)
	reRequireCall  = regexp.MustCompile(`require\s*\(`)
)

// Lookahead windows after a call site: the shorter one for a (bool ...)
// destructuring, the longer one for a trailing require.
const (
	returnCheckWindow  = 200
	requireAfterWindow = 500
)

func (d *insecureCallsDetector) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "SOL-INSECURE-CALLS",
		Title:    "Insecure external calls",
		Severity: model.SeverityCritical,
		Tags:     []string{"solidity", "calls", "SWC-104", "SWC-112"},
	}
}

func (d *insecureCallsDetector) Detect(contracts []solidity.Contract, source, file string) []model.Finding {
	var findings []model.Finding
	for ci := range contracts {
		for fi := range contracts[ci].Functions {
			fn := &contracts[ci].Functions[fi]
			findings = append(findings, d.checkDelegatecall(fn, file)...)
			findings = append(findings, d.checkUncheckedReturns(fn, file)...)
		}
	}
	return findings
}

// checkDelegatecall reports one finding per function at the first match.
// Severity escalates to CRITICAL when the body also touches user input.
func (d *insecureCallsDetector) checkDelegatecall(fn *solidity.Function, file string) []model.Finding {
	loc := reDelegatecall.FindStringIndex(fn.Body)
	if loc == nil {
		return nil
	}
	line := fn.LineStart + strings.Count(fn.Body[:loc[0]], "\n")
	severity := model.SeverityHigh
	description := fmt.Sprintf("Function '%s' uses delegatecall. The callee runs in this contract's "+
		"storage context, risking storage collisions.", fn.Name)
	if reUserInput.MatchString(fn.Body) {
		severity = model.SeverityCritical
		description = fmt.Sprintf("Function '%s' uses delegatecall with user-controlled input. An "+
			"attacker may execute arbitrary code in the context of this contract.", fn.Name)
	}
	return []model.Finding{{
		RuleID:         d.Meta().ID,
		Severity:       severity,
		Title:          "Unsafe delegatecall Usage",
		Description:    description,
		File:           file,
		Line:           line,
		Function:       fn.Name,
		Recommendation: "Avoid delegatecall where possible; otherwise validate the target against a whitelist and use an audited proxy pattern.",
		Reference:      "https://consensys.github.io/smart-contract-best-practices/development-recommendations/solidity-specific/delegatecall/",
		Fingerprint:    util.Fingerprint(d.Meta().ID, file, line, "delegatecall:"+fn.Name),
	}}
}

// checkUncheckedReturns looks at a fixed window after each low-level call for
// a (bool ...) destructuring or a require.
func (d *insecureCallsDetector) checkUncheckedReturns(fn *solidity.Function, file string) []model.Finding {
	var findings []model.Finding
	for _, loc := range reLowLevelCall.FindAllStringIndex(fn.Body, -1) {
		start := loc[0]
		checkEnd := start + returnCheckWindow
		if checkEnd > len(fn.Body) {
			checkEnd = len(fn.Body)
		}
		if reBoolCapture.MatchString(fn.Body[start:checkEnd]) {
			continue
		}
		requireEnd := start + requireAfterWindow
		if requireEnd > len(fn.Body) {
			requireEnd = len(fn.Body)
		}
		if reRequireCall.MatchString(fn.Body[start:requireEnd]) {
			continue
		}
		line := fn.LineStart + strings.Count(fn.Body[:start], "\n")
		findings = append(findings, model.Finding{
			RuleID:   d.Meta().ID,
			Severity: model.SeverityMedium,
			Title:    "Unchecked Return Value from External Call",
			Description: fmt.Sprintf("Function '%s' makes an external call without checking the return "+
				"value. A failed call would go unnoticed.", fn.Name),
			File:           file,
			Line:           line,
			Function:       fn.Name,
			Recommendation: "Capture the success flag and require it:\n(bool success, ) = target.call{value: amount}(\"\");\nrequire(success, \"Call failed\");",
			Reference:      "https://consensys.github.io/smart-contract-best-practices/development-recommendations/general/external-calls/",
			Fingerprint:    util.Fingerprint(d.Meta().ID, file, line, fmt.Sprintf("unchecked:%s:%d", fn.Name, start)),
		})
	}
	return findings
}
