package reporter

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/jewlexx/lawyer/internal/models"
)

// YAMLReporter outputs results in YAML format
type YAMLReporter struct{}

// Report generates YAML output for the given results
func (r *YAMLReporter) Report(results []*models.ScanResult) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(results)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
