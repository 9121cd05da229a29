package detectors

import (
	"github.com/Raoof128/SCRVS/internal/model"
	"github.com/Raoof128/SCRVS/internal/solidity"
)

// Detector inspects the parsed contract model plus the raw source of one file
// and returns findings. Implementations hold no state between calls; every
// Detect returns a freshly allocated slice, so a single instance is safe to
// reuse across concurrent scans.
type Detector interface {
	Meta() model.RuleMeta
	Detect(contracts []solidity.Contract, source, file string) []model.Finding
}

// Pipeline runs the built-in detectors in a fixed order so finding order is
// deterministic: reentrancy, validation, bad patterns, insecure calls.
type Pipeline struct {
	detectors []Detector
}

func NewPipeline() *Pipeline {
	return &Pipeline{detectors: []Detector{
		&reentrancyDetector{},
		&validationDetector{},
		&badPatternsDetector{},
		&insecureCallsDetector{},
	}}
}

// Run applies every detector to the same model and source and concatenates
// their findings in detector order.
func (p *Pipeline) Run(contracts []solidity.Contract, source, file string) []model.Finding {
	var out []model.Finding
	for _, d := range p.detectors {
		out = append(out, d.Detect(contracts, source, file)...)
	}
	return out
}

func (p *Pipeline) Detectors() []Detector { return p.detectors }

func hasModifier(modifiers []string, name string) bool {
	for _, m := range modifiers {
		if m == name {
			return true
		}
	}
	return false
}
