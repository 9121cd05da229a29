package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/Raoof128/SCRVS/internal/model"
)

type jsonReport struct {
	Path          string                 `json:"path"`
	ScanDate      time.Time              `json:"scanDate"`
	FilesScanned  int                    `json:"filesScanned"`
	TotalFindings int                    `json:"totalFindings"`
	Score         int                    `json:"score"`
	Summary       map[model.Severity]int `json:"summary"`
	Findings      []model.Finding        `json:"findings"`
}

// WriteJSON renders the scan result as an indented JSON document.
func WriteJSON(w io.Writer, result *model.ScanResult, scannedPath string) error {
	r := jsonReport{
		Path:          scannedPath,
		ScanDate:      time.Now().UTC(),
		FilesScanned:  result.Files,
		TotalFindings: len(result.Findings),
		Score:         model.Score(result.Findings),
		Summary:       model.Tally(result.Findings),
		Findings:      result.Findings,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
