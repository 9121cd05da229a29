package detectors

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Raoof128/SCRVS/internal/model"
	"github.com/Raoof128/SCRVS/internal/solidity"
	"github.com/Raoof128/SCRVS/internal/util"
)

// validationDetector flags missing input validation, unguarded arithmetic on
// pre-0.8 compilers and hardcoded addresses.
type validationDetector struct{}

var (
	reHasParams    = regexp.MustCompile(`function\s+\w+\s*\([^)]+\w+[^)]*\)`)
	reLineComment  = regexp.MustCompile(`(?m)//.*$`)
	reBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reValidation   = regexp.MustCompile(`(require|revert|assert)\s*\(`)
	reStateOrCall  = regexp.MustCompile(`=\s*[^=]|\.(call|send|transfer)\s*\(`)
	rePragma       = regexp.MustCompile(`pragma\s+solidity\s*[\^>=~<\s]*(\d+)\.(\d+)`)
	reAddress      = regexp.MustCompile(`0x[a-fA-F0-9]{40}`)

	arithmeticOps = []struct {
		re   *regexp.Regexp
		name string
	}{
		{regexp.MustCompile(`(\w+)\s*\+\s*(\w+)`), "Addition"},
		{regexp.MustCompile(`(\w+)\s*-\s*(\w+)`), "Subtraction"},
		{regexp.MustCompile(`(\w+)\s*\*\s*(\w+)`), "Multiplication"},
	}
)

// arithLookback is the number of characters inspected before an arithmetic
// operator for a require/assert guard.
const arithLookback = 50

func (d *validationDetector) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "SOL-VALIDATION",
		Title:    "Input validation gaps",
		Severity: model.SeverityMedium,
		Tags:     []string{"solidity", "validation", "SWC-101"},
	}
}

func (d *validationDetector) Detect(contracts []solidity.Contract, source, file string) []model.Finding {
	var findings []model.Finding
	overflowSafe := pragmaHasOverflowChecks(source)
	for ci := range contracts {
		for fi := range contracts[ci].Functions {
			fn := &contracts[ci].Functions[fi]
			findings = append(findings, d.checkMissingValidation(fn, file)...)
			if !overflowSafe {
				findings = append(findings, d.checkUnsafeArithmetic(fn, file)...)
			}
		}
	}
	findings = append(findings, d.checkHardcodedAddresses(source, file)...)
	return findings
}

// pragmaHasOverflowChecks reads the pragma declaration; 0.8 and later have
// built-in overflow protection. Unparsable versions are treated as pre-0.8.
func pragmaHasOverflowChecks(source string) bool {
	m := rePragma.FindStringSubmatch(source)
	if m == nil {
		return false
	}
	major, err := strconv.Atoi(m[1])
	if err != nil {
		return false
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return false
	}
	return major > 0 || minor >= 8
}

func stripComments(body string) string {
	return reBlockComment.ReplaceAllString(reLineComment.ReplaceAllString(body, ""), "")
}

func (d *validationDetector) checkMissingValidation(fn *solidity.Function, file string) []model.Finding {
	if fn.IsView || fn.IsPure {
		return nil
	}
	// the body starts with the signature line, so parameters are visible here
	if !reHasParams.MatchString(fn.Body) {
		return nil
	}
	stripped := stripComments(fn.Body)
	if !reStateOrCall.MatchString(stripped) || reValidation.MatchString(stripped) {
		return nil
	}
	return []model.Finding{{
		RuleID:   d.Meta().ID,
		Severity: model.SeverityMedium,
		Title:    "Missing Input Validation",
		Description: fmt.Sprintf("Function '%s' accepts parameters and modifies state but lacks "+
			"require(), revert() or assert() checks.", fn.Name),
		File:           file,
		Line:           fn.LineStart,
		Function:       fn.Name,
		Recommendation: fmt.Sprintf("Add require() statements to validate inputs in '%s'.", fn.Name),
		Reference:      "https://consensys.github.io/smart-contract-best-practices/development-recommendations/",
		Fingerprint:    util.Fingerprint(d.Meta().ID, file, fn.LineStart, "validation:"+fn.Name),
	}}
}

// checkUnsafeArithmetic reports the first unguarded occurrence of each
// operator kind per function. An occurrence counts as guarded when the 50
// characters before it mention require or assert.
func (d *validationDetector) checkUnsafeArithmetic(fn *solidity.Function, file string) []model.Finding {
	var findings []model.Finding
	for _, op := range arithmeticOps {
		for _, loc := range op.re.FindAllStringIndex(fn.Body, -1) {
			from := loc[0] - arithLookback
			if from < 0 {
				from = 0
			}
			window := fn.Body[from:loc[0]]
			if strings.Contains(window, "require") || strings.Contains(window, "assert") {
				continue
			}
			line := fn.LineStart + strings.Count(fn.Body[:loc[0]], "\n")
			findings = append(findings, model.Finding{
				RuleID:   d.Meta().ID,
				Severity: model.SeverityMedium,
				Title:    fmt.Sprintf("Potential Integer Overflow/Underflow: %s", op.name),
				Description: fmt.Sprintf("Function '%s' performs %s without overflow checks. In Solidity "+
					"before 0.8.0, arithmetic wraps silently.", fn.Name, strings.ToLower(op.name)),
				File:           file,
				Line:           line,
				Function:       fn.Name,
				Recommendation: "Use SafeMath or upgrade to Solidity >= 0.8.0 for built-in overflow protection.",
				Reference:      "https://consensys.github.io/smart-contract-best-practices/development-recommendations/solidity-specific/integer-arithmetic/",
				Fingerprint:    util.Fingerprint(d.Meta().ID, file, line, "arith:"+fn.Name+":"+op.name),
			})
			break
		}
	}
	return findings
}

func (d *validationDetector) checkHardcodedAddresses(source, file string) []model.Finding {
	var findings []model.Finding
	for i, line := range strings.Split(source, "\n") {
		for _, loc := range reAddress.FindAllStringIndex(line, -1) {
			prefix := line[:loc[0]]
			if strings.Contains(prefix, "//") || strings.Contains(prefix, "/*") {
				continue
			}
			address := line[loc[0]:loc[1]]
			findings = append(findings, model.Finding{
				RuleID:   d.Meta().ID,
				Severity: model.SeverityLow,
				Title:    "Hardcoded Address",
				Description: fmt.Sprintf("Hardcoded address found: %s. Hardcoded addresses reduce "+
					"flexibility and make contracts harder to maintain.", address),
				File:           file,
				Line:           i + 1,
				Snippet:        strings.TrimSpace(line),
				Recommendation: "Use a state variable set by the constructor or an admin function instead.",
				Reference:      "https://consensys.github.io/smart-contract-best-practices/development-recommendations/general/external-calls/",
				Fingerprint:    util.Fingerprint(d.Meta().ID, file, i+1, "address:"+address),
			})
		}
	}
	return findings
}
