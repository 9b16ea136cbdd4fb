package reporter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jewlexx/lawyer/internal/models"
)

// TerminalReporter outputs results in a human-readable terminal format
type TerminalReporter struct{}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
	osiStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	otherStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	problemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Report generates terminal output for the given results
func (r *TerminalReporter) Report(results []*models.ScanResult) ([]byte, error) {
	var sb strings.Builder

	for _, res := range results {
		s := res.Summarize()

		sb.WriteString("\n" + headerStyle.Render(fmt.Sprintf("📦 %s", res.Lockfile)) + "\n")
		sb.WriteString(strings.Repeat("=", 60) + "\n")
		sb.WriteString(fmt.Sprintf("%d packages: %d OSI approved, %d other, %d unrecognized, %d without license\n",
			s.Total, s.OSIApproved, s.Other, s.Unrecognized, s.None))
		sb.WriteString(dimStyle.Render(fmt.Sprintf("SPDX license list %s", res.LicenseListVersion)) + "\n\n")

		for _, p := range res.Packages {
			sb.WriteString(fmt.Sprintf("%s %s  %s\n", p.PackageName, dimStyle.Render(p.Version), renderLicense(p.License)))
			if p.Authors.Len() > 0 {
				sb.WriteString(fmt.Sprintf("   Authors: %s\n", strings.Join(p.Authors.Names, ", ")))
			}
			if p.Repo != "" {
				sb.WriteString(fmt.Sprintf("   Repository: %s\n", p.Repo))
			} else if p.Home != "" {
				sb.WriteString(fmt.Sprintf("   Home: %s\n", p.Home))
			}
			if len(p.Depended) > 0 {
				sb.WriteString(fmt.Sprintf("   Required by: %s\n", strings.Join(p.Depended, ", ")))
			}
		}
		sb.WriteString(strings.Repeat("-", 60) + "\n")
	}

	if len(results) == 0 {
		sb.WriteString("No lockfiles scanned.\n")
	}

	return []byte(sb.String()), nil
}

func renderLicense(l models.LicenseOutcome) string {
	switch l.Kind {
	case models.LicenseValid:
		if l.IsOSIApproved() {
			return osiStyle.Render(l.ID + " ✓")
		}
		return otherStyle.Render(l.ID + " (" + l.Category + ")")
	case models.LicenseUnrecognized:
		return problemStyle.Render("unrecognized license")
	default:
		return problemStyle.Render("no license")
	}
}
