package reporter

import (
	"bytes"

	"github.com/ethanolivertroy/version-checker/internal/models"
	"gopkg.in/yaml.v3"
)

// YAMLReporter outputs the same document as JSONReporter, encoded as YAML
type YAMLReporter struct{}

// Report generates YAML output for the given outcomes
func (r *YAMLReporter) Report(outcomes []models.Outcome, _ Options) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(buildDocument(outcomes)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
