package reporter

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jewlexx/lawyer/internal/models"
)

// SARIFReporter outputs license problems in SARIF format for GitHub Code Scanning
type SARIFReporter struct{}

// SARIF structures
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool              `json:"tool"`
	AutomationDetails sarifAutomationDetails `json:"automationDetails"`
	Results           []sarifResult          `json:"results"`
}

type sarifAutomationDetails struct {
	GUID string `json:"guid"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	ShortDescription sarifText       `json:"shortDescription"`
	FullDescription  sarifText       `json:"fullDescription"`
	DefaultConfig    sarifRuleConfig `json:"defaultConfiguration"`
	Properties       sarifProperties `json:"properties"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifRuleConfig struct {
	Level string `json:"level"`
}

type sarifProperties struct {
	Tags []string `json:"tags"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level"`
	Message             sarifText         `json:"message"`
	Locations           []sarifLocation   `json:"locations"`
	PartialFingerprints map[string]string `json:"partialFingerprints"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

// Rule ids, in the order they appear in the driver's rule list
const (
	RuleUnrecognized   = "license/unrecognized"
	RuleMissing        = "license/missing"
	RuleNotOSIApproved = "license/not-osi-approved"
)

var sarifRules = []sarifRule{
	{
		ID:               RuleUnrecognized,
		Name:             "UnrecognizedLicense",
		ShortDescription: sarifText{Text: "License is not a recognized SPDX identifier"},
		FullDescription:  sarifText{Text: "The package declares a license string that does not exactly match any SPDX license identifier. Compound expressions are not evaluated."},
		DefaultConfig:    sarifRuleConfig{Level: "error"},
		Properties:       sarifProperties{Tags: []string{"license", "compliance"}},
	},
	{
		ID:               RuleMissing,
		Name:             "MissingLicense",
		ShortDescription: sarifText{Text: "Package has no license information"},
		FullDescription:  sarifText{Text: "No license string was available for the package."},
		DefaultConfig:    sarifRuleConfig{Level: "warning"},
		Properties:       sarifProperties{Tags: []string{"license", "compliance"}},
	},
	{
		ID:               RuleNotOSIApproved,
		Name:             "NotOSIApproved",
		ShortDescription: sarifText{Text: "License is not OSI approved"},
		FullDescription:  sarifText{Text: "The package uses a recognized SPDX license that the Open Source Initiative has not approved."},
		DefaultConfig:    sarifRuleConfig{Level: "note"},
		Properties:       sarifProperties{Tags: []string{"license", "compliance", "osi"}},
	},
}

// Report generates SARIF output for the given results
func (r *SARIFReporter) Report(results []*models.ScanResult) ([]byte, error) {
	report := sarifReport{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{
				Driver: sarifDriver{
					Name:           "lawyer",
					Version:        "0.1.0",
					InformationURI: "https://github.com/jewlexx/lawyer",
					Rules:          sarifRules,
				},
			},
			AutomationDetails: sarifAutomationDetails{GUID: uuid.NewString()},
			Results:           r.buildResults(results),
		}},
	}

	return json.MarshalIndent(report, "", "  ")
}

func (r *SARIFReporter) buildResults(results []*models.ScanResult) []sarifResult {
	out := []sarifResult{}

	for _, res := range results {
		for _, p := range res.Packages {
			ruleIndex, msg := classifyProblem(p)
			if ruleIndex < 0 {
				continue
			}
			rule := sarifRules[ruleIndex]

			out = append(out, sarifResult{
				RuleID:    rule.ID,
				RuleIndex: ruleIndex,
				Level:     rule.DefaultConfig.Level,
				Message:   sarifText{Text: msg},
				Locations: []sarifLocation{{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifact{URI: res.Lockfile},
					},
				}},
				PartialFingerprints: map[string]string{
					"packageIdentity": fmt.Sprintf("%s:%s", p.UID, rule.ID),
				},
			})
		}
	}

	return out
}

// classifyProblem returns the rule index for a package, or -1 when its
// license is OSI approved.
func classifyProblem(p models.PackageReport) (int, string) {
	pkg := p.PackageName + "@" + p.Version
	switch p.License.Kind {
	case models.LicenseUnrecognized:
		return 0, fmt.Sprintf("Dependency %s declares a license that is not a recognized SPDX identifier", pkg)
	case models.LicenseNone:
		return 1, fmt.Sprintf("Dependency %s has no license information", pkg)
	default:
		if p.License.IsOSIApproved() {
			return -1, ""
		}
		return 2, fmt.Sprintf("Dependency %s uses %s (%s), which is not OSI approved", pkg, p.License.ID, p.License.Name)
	}
}
