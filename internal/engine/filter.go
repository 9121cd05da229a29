package engine

import (
	"strings"

	"github.com/Raoof128/SCRVS/internal/config"
	"github.com/Raoof128/SCRVS/internal/model"
)

// filterBySeverity removes findings below the configured severity threshold
func filterBySeverity(findings []model.Finding, cfg config.Config) []model.Finding {
	if cfg.SeverityThreshold == "" {
		return findings
	}
	threshold := model.ParseSeverity(cfg.SeverityThreshold)
	var out []model.Finding
	for _, f := range findings {
		if model.SeverityGTE(f.Severity, threshold) {
			out = append(out, f)
		}
	}
	return out
}

// filterByRules keeps only findings whose RuleID is in cfg.Rules when the
// list is non-empty
func filterByRules(findings []model.Finding, cfg config.Config) []model.Finding {
	if len(cfg.Rules) == 0 {
		return findings
	}
	allowed := map[string]struct{}{}
	for _, id := range cfg.Rules {
		allowed[strings.TrimSpace(id)] = struct{}{}
	}
	var out []model.Finding
	for _, f := range findings {
		if _, ok := allowed[f.RuleID]; ok {
			out = append(out, f)
		}
	}
	return out
}
