package report

import (
	"encoding/json"
	"os"

	"github.com/rootliu/pan-cleaner/pkg/models"
)

// JSONReport combines the snapshot with its derived summary for JSON output
type JSONReport struct {
	*models.ScanSnapshot
	Summary models.Summary `json:"summary"`
}

// generateJSON generates a JSON report
func (g *Generator) generateJSON(snapshot *models.ScanSnapshot, outputFile string) error {
	report := &JSONReport{
		ScanSnapshot: snapshot,
		Summary:      snapshot.Summary(),
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(outputFile, data, 0644)
}
