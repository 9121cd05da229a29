package detectors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Raoof128/SCRVS/internal/model"
	"github.com/Raoof128/SCRVS/internal/solidity"
	"github.com/Raoof128/SCRVS/internal/util"
)

// badPatternsDetector flags insecure randomness sources, unprotected admin
// functions, missing event emissions and tx.origin authorization.
type badPatternsDetector struct{}

var (
	randomnessSources = []struct {
		re   *regexp.Regexp
		name string
	}{
		{regexp.MustCompile(`block\.timestamp`), "block.timestamp"},
		{regexp.MustCompile(`block\.number`), "block.number"},
		{regexp.MustCompile(`blockhash\s*\(`), "blockhash()"},
		{regexp.MustCompile(`block\.difficulty`), "block.difficulty"},
	}

	adminNameHints     = []string{"admin", "owner", "onlyowner", "setowner", "transferownership"}
	accessModifiers    = []string{"onlyOwner", "onlyAdmin", "onlyRole"}
	eventWorthyActions = []string{"transfer", "withdraw", "deposit", "mint", "burn", "approve"}

	reEmit     = regexp.MustCompile(`emit\s+\w+\s*\(`)
	reTxOrigin = regexp.MustCompile(`\btx\.origin\b`)
)

func (d *badPatternsDetector) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "SOL-BAD-PATTERNS",
		Title:    "Insecure contract patterns",
		Severity: model.SeverityHigh,
		Tags:     []string{"solidity", "patterns", "SWC-115", "SWC-120"},
	}
}

func (d *badPatternsDetector) Detect(contracts []solidity.Contract, source, file string) []model.Finding {
	var findings []model.Finding
	for ci := range contracts {
		for fi := range contracts[ci].Functions {
			fn := &contracts[ci].Functions[fi]
			findings = append(findings, d.checkInsecureRandomness(fn, file)...)
			findings = append(findings, d.checkUnprotectedAdmin(fn, file)...)
			findings = append(findings, d.checkMissingEvents(fn, file)...)
		}
	}
	findings = append(findings, d.checkTxOrigin(source, file)...)
	return findings
}

// checkInsecureRandomness reports one finding per randomness source present
// in the body, not one per occurrence.
func (d *badPatternsDetector) checkInsecureRandomness(fn *solidity.Function, file string) []model.Finding {
	var findings []model.Finding
	for _, src := range randomnessSources {
		if !src.re.MatchString(fn.Body) {
			continue
		}
		findings = append(findings, model.Finding{
			RuleID:   d.Meta().ID,
			Severity: model.SeverityHigh,
			Title:    fmt.Sprintf("Insecure Randomness: %s", src.name),
			Description: fmt.Sprintf("Function '%s' uses %s for randomness. Block properties are "+
				"predictable and can be influenced by miners.", fn.Name, src.name),
			File:           file,
			Line:           fn.LineStart,
			Function:       fn.Name,
			Recommendation: "Use a commit-reveal scheme or Chainlink VRF for secure randomness.",
			Reference:      "https://consensys.github.io/smart-contract-best-practices/development-recommendations/solidity-specific/randomness/",
			Fingerprint:    util.Fingerprint(d.Meta().ID, file, fn.LineStart, "randomness:"+fn.Name+":"+src.name),
		})
	}
	return findings
}

func (d *badPatternsDetector) checkUnprotectedAdmin(fn *solidity.Function, file string) []model.Finding {
	lowerName := strings.ToLower(fn.Name)
	adminLike := false
	for _, hint := range adminNameHints {
		if strings.Contains(lowerName, hint) {
			adminLike = true
			break
		}
	}
	if !adminLike {
		return nil
	}
	for _, mod := range accessModifiers {
		if hasModifier(fn.Modifiers, mod) {
			return nil
		}
	}
	if reRequireSender.MatchString(fn.Body) {
		return nil
	}
	return []model.Finding{{
		RuleID:   d.Meta().ID,
		Severity: model.SeverityCritical,
		Title:    "Unprotected Admin Function",
		Description: fmt.Sprintf("Function '%s' appears to be an admin function but lacks access "+
			"control. Anyone can call it.", fn.Name),
		File:           file,
		Line:           fn.LineStart,
		Function:       fn.Name,
		Recommendation: fmt.Sprintf("Protect '%s' with an onlyOwner modifier or a require() on msg.sender.", fn.Name),
		Reference:      "https://consensys.github.io/smart-contract-best-practices/development-recommendations/general/external-calls/",
		Fingerprint:    util.Fingerprint(d.Meta().ID, file, fn.LineStart, "admin:"+fn.Name),
	}}
}

func (d *badPatternsDetector) checkMissingEvents(fn *solidity.Function, file string) []model.Finding {
	if !reAssignment.MatchString(fn.Body) || reEmit.MatchString(fn.Body) {
		return nil
	}
	lowerName := strings.ToLower(fn.Name)
	important := false
	for _, action := range eventWorthyActions {
		if strings.Contains(lowerName, action) {
			important = true
			break
		}
	}
	if !important {
		return nil
	}
	return []model.Finding{{
		RuleID:   d.Meta().ID,
		Severity: model.SeverityLow,
		Title:    "Missing Event Emission",
		Description: fmt.Sprintf("Function '%s' modifies state but does not emit an event. Events "+
			"matter for off-chain monitoring.", fn.Name),
		File:           file,
		Line:           fn.LineStart,
		Function:       fn.Name,
		Recommendation: fmt.Sprintf("Declare an event and emit it from '%s'.", fn.Name),
		Reference:      "https://consensys.github.io/smart-contract-best-practices/development-recommendations/general/events/",
		Fingerprint:    util.Fingerprint(d.Meta().ID, file, fn.LineStart, "events:"+fn.Name),
	}}
}

// checkTxOrigin scans every source line; occurrences after a comment marker
// on the same line are skipped.
func (d *badPatternsDetector) checkTxOrigin(source, file string) []model.Finding {
	var findings []model.Finding
	for i, line := range strings.Split(source, "\n") {
		loc := reTxOrigin.FindStringIndex(line)
		if loc == nil {
			continue
		}
		prefix := line[:loc[0]]
		if strings.Contains(prefix, "//") || strings.Contains(prefix, "/*") {
			continue
		}
		findings = append(findings, model.Finding{
			RuleID:   d.Meta().ID,
			Severity: model.SeverityHigh,
			Title:    "Use of tx.origin",
			Description: "tx.origin is used for authorization. tx.origin is the original transaction " +
				"sender across the whole call chain, so a malicious intermediate contract can pass the check.",
			File:           file,
			Line:           i + 1,
			Snippet:        strings.TrimSpace(line),
			Recommendation: "Use msg.sender instead of tx.origin for authorization checks.",
			Reference:      "https://consensys.github.io/smart-contract-best-practices/development-recommendations/solidity-specific/tx-origin/",
			Fingerprint:    util.Fingerprint(d.Meta().ID, file, i+1, "tx-origin"),
		})
	}
	return findings
}
