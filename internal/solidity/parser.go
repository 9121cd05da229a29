package solidity

import (
	"regexp"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Parser recovers a structural model of Solidity source text using brace
// matching and signature regexes. It is deliberately lexical: no grammar, no
// AST. Braces inside strings or comments can desynchronize the depth count;
// that is an accepted limitation of the approach.
type Parser struct {
	source string
	lines  []string
	log    hclog.Logger
}

var (
	reContract = regexp.MustCompile(`contract\s+(\w+)\s*(?:is\s+[\w\s,]+)?\s*\{`)
	reFunction = regexp.MustCompile(`function\s+(\w+)\s*\([^)]*\)\s*(?:public|private|internal|external)?\s*(?:payable|view|pure)?\s*(?:returns\s*\([^)]*\))?\s*(?:[^{]*)?\{`)
	reStateVar = regexp.MustCompile(`(\w+(?:\s*\[\s*\])?)\s+(\w+)\s*(?:public|private|internal)?\s*;`)
	reModifier = regexp.MustCompile(`modifier\s+(\w+)\s*\([^)]*\)\s*\{`)

	reSigKeywords = regexp.MustCompile(`\b(public|private|internal|external|payable|view|pure|returns)\b`)
	reIdentifier  = regexp.MustCompile(`\b[a-zA-Z_][a-zA-Z0-9_]*\b`)
)

// sigExcluded are keyword tokens never treated as modifier names.
var sigExcluded = map[string]struct{}{
	"function": {}, "public": {}, "private": {}, "internal": {}, "external": {},
	"payable": {}, "view": {}, "pure": {}, "returns": {},
}

func NewParser(source string, log hclog.Logger) *Parser {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Parser{source: source, lines: strings.Split(source, "\n"), log: log}
}

// Parse extracts contracts with their functions, state variables and modifier
// names. It never panics to the caller: on an internal failure it logs and
// returns whatever contracts were completed, possibly none.
func (p *Parser) Parse() (contracts []Contract) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("parser degraded to partial result", "error", r)
		}
	}()
	contracts = p.extractContracts()
	for i := range contracts {
		p.extractFunctions(&contracts[i])
		p.extractStateVariables(&contracts[i])
		p.extractModifiers(&contracts[i])
	}
	return contracts
}

// braceSpan scans lines[start:] counting braces with a flat depth counter and
// returns the index of the line where depth returns to zero after having
// opened, or -1 when the span never closes.
func braceSpan(lines []string, start int) int {
	depth := 0
	opened := false
	for j := start; j < len(lines); j++ {
		for _, ch := range lines[j] {
			switch ch {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
				if opened && depth == 0 {
					return j
				}
			}
		}
	}
	return -1
}

func (p *Parser) extractContracts() []Contract {
	var contracts []Contract
	for i, line := range p.lines {
		m := reContract.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		end := braceSpan(p.lines, i)
		if end < 0 {
			// unterminated declaration, keep scanning from the next line
			p.log.Debug("contract never closes, skipping", "name", m[1], "line", i+1)
			continue
		}
		contracts = append(contracts, Contract{Name: m[1], LineStart: i + 1, LineEnd: end + 1})
	}
	return contracts
}

func (p *Parser) extractFunctions(c *Contract) {
	contractLines := p.lines[c.LineStart-1 : c.LineEnd]
	for idx, line := range contractLines {
		m := reFunction.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		// pre-0.8 constructor syntax names the function after its contract
		if name == c.Name || name == "constructor" {
			continue
		}
		end := braceSpan(contractLines, idx)
		if end < 0 {
			p.log.Debug("function body never closes, dropping", "name", name)
			continue
		}
		visibility, payable, view, pure := signatureProperties(line)
		c.Functions = append(c.Functions, Function{
			Name:       name,
			Visibility: visibility,
			IsPayable:  payable,
			IsView:     view,
			IsPure:     pure,
			Modifiers:  signatureModifiers(line),
			LineStart:  c.LineStart + idx,
			LineEnd:    c.LineStart + end,
			Body:       strings.Join(contractLines[idx:end+1], "\n"),
		})
	}
}

// signatureProperties reads visibility and mutability keywords off the
// signature line. Visibility defaults to public.
func signatureProperties(line string) (visibility string, payable, view, pure bool) {
	payable = strings.Contains(line, "payable")
	view = strings.Contains(line, "view")
	pure = strings.Contains(line, "pure")
	visibility = "public"
	for _, vis := range []string{"public", "private", "internal", "external"} {
		if strings.Contains(line, vis) {
			visibility = vis
			break
		}
	}
	return
}

// signatureModifiers takes the text between the parameter list's closing
// parenthesis and the opening brace, strips keyword tokens, and treats the
// remaining identifiers as modifier names in order of appearance.
func signatureModifiers(line string) []string {
	var modifiers []string
	parenEnd := strings.Index(line, ")")
	if parenEnd <= 0 {
		return modifiers
	}
	afterSig := reSigKeywords.ReplaceAllString(line[parenEnd+1:], "")
	beforeBrace, _, _ := strings.Cut(afterSig, "{")
	for _, tok := range reIdentifier.FindAllString(beforeBrace, -1) {
		if _, excluded := sigExcluded[tok]; !excluded {
			modifiers = append(modifiers, tok)
		}
	}
	return modifiers
}

func (p *Parser) extractStateVariables(c *Contract) {
	contractLines := p.lines[c.LineStart-1 : c.LineEnd]
	for idx, line := range contractLines {
		// lines with "function" are parameter lists, not declarations
		if strings.Contains(line, "function") {
			continue
		}
		m := reStateVar.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		visibility := "internal"
		if strings.Contains(line, "public") {
			visibility = "public"
		} else if strings.Contains(line, "private") {
			visibility = "private"
		}
		c.StateVariables = append(c.StateVariables, StateVariable{
			Name:       strings.TrimSpace(m[2]),
			Type:       strings.TrimSpace(m[1]),
			Visibility: visibility,
			Line:       c.LineStart + idx,
		})
	}
}

func (p *Parser) extractModifiers(c *Contract) {
	contractText := strings.Join(p.lines[c.LineStart-1:c.LineEnd], "\n")
	for _, m := range reModifier.FindAllStringSubmatch(contractText, -1) {
		c.Modifiers = append(c.Modifiers, m[1])
	}
}
