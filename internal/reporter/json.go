package reporter

import (
	"encoding/json"

	"github.com/ethanolivertroy/version-checker/internal/models"
)

// JSONReporter outputs outcomes in JSON format
type JSONReporter struct{}

// Report generates JSON output for the given outcomes
func (r *JSONReporter) Report(outcomes []models.Outcome, _ Options) ([]byte, error) {
	out, err := json.MarshalIndent(buildDocument(outcomes), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
