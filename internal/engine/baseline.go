package engine

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/Raoof128/SCRVS/internal/model"
)

type baseline struct {
	GeneratedAt  time.Time       `json:"generatedAt"`
	Fingerprints map[string]bool `json:"fingerprints"`
}

func loadBaseline(path string) (baseline, error) {
	var b baseline
	if path == "" {
		return b, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	// plain fingerprint arrays are accepted for hand-written baselines
	var fp []string
	if err := json.Unmarshal(data, &fp); err == nil {
		b.Fingerprints = make(map[string]bool, len(fp))
		for _, f := range fp {
			b.Fingerprints[f] = true
		}
		return b, nil
	}
	_ = json.Unmarshal(data, &b)
	if b.Fingerprints == nil {
		b.Fingerprints = map[string]bool{}
	}
	return b, nil
}

func filterByBaseline(findings []model.Finding, b baseline) []model.Finding {
	if len(b.Fingerprints) == 0 {
		return findings
	}
	var out []model.Finding
	for _, f := range findings {
		if f.Fingerprint != "" && b.Fingerprints[f.Fingerprint] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// WriteBaseline records the fingerprints of findings so later scans can
// suppress known issues.
func WriteBaseline(path string, findings []model.Finding) error {
	if path == "" {
		return nil
	}
	seen := make(map[string]bool)
	var arr []string
	for _, f := range findings {
		if f.Fingerprint != "" && !seen[f.Fingerprint] {
			seen[f.Fingerprint] = true
			arr = append(arr, f.Fingerprint)
		}
	}
	sort.Strings(arr)
	b := baseline{GeneratedAt: time.Now().UTC(), Fingerprints: make(map[string]bool, len(arr))}
	for _, f := range arr {
		b.Fingerprints[f] = true
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
