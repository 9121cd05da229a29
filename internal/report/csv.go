package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/Raoof128/SCRVS/internal/model"
)

// WriteCSV renders findings as CSV rows with a header line. Multi-line text
// fields are flattened to single lines.
func WriteCSV(w io.Writer, findings []model.Finding) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Severity", "Title", "File", "Line", "Function", "Description", "Recommendation"}); err != nil {
		return err
	}
	for _, f := range findings {
		row := []string{
			string(f.Severity),
			f.Title,
			f.File,
			strconv.Itoa(f.Line),
			f.Function,
			strings.ReplaceAll(f.Description, "\n", " "),
			strings.ReplaceAll(f.Recommendation, "\n", " "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
