package reporter

import (
	"encoding/json"

	"github.com/jewlexx/lawyer/internal/models"
)

// JSONReporter outputs results in JSON format
type JSONReporter struct{}

// Report generates JSON output for the given results
func (r *JSONReporter) Report(results []*models.ScanResult) ([]byte, error) {
	return json.MarshalIndent(newDocument(results), "", "  ")
}
