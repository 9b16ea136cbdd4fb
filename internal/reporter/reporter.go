package reporter

import "github.com/jewlexx/lawyer/internal/models"

// Reporter is the interface for output formatters
type Reporter interface {
	// Report generates output for the given scan results
	Report(results []*models.ScanResult) ([]byte, error)
}

// Get returns a reporter for the specified format
func Get(format string) Reporter {
	switch format {
	case "json":
		return &JSONReporter{}
	case "yaml":
		return &YAMLReporter{}
	case "sarif":
		return &SARIFReporter{}
	default:
		return &TerminalReporter{}
	}
}

// document is the structured output shared by the JSON and YAML reporters
type document struct {
	Summary   models.Summary       `json:"summary" yaml:"summary"`
	Lockfiles []*models.ScanResult `json:"lockfiles" yaml:"lockfiles"`
}

func newDocument(results []*models.ScanResult) document {
	doc := document{Lockfiles: results}
	if doc.Lockfiles == nil {
		doc.Lockfiles = []*models.ScanResult{}
	}
	for _, r := range results {
		s := r.Summarize()
		doc.Summary.Total += s.Total
		doc.Summary.OSIApproved += s.OSIApproved
		doc.Summary.Other += s.Other
		doc.Summary.Unrecognized += s.Unrecognized
		doc.Summary.None += s.None
	}
	return doc
}
