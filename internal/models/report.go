package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// License categories derived from OSI approval
const (
	CategoryOSIApproved = "OSI Approved"
	CategoryOther       = "Other"
)

// LicenseKind discriminates LicenseOutcome
type LicenseKind int

const (
	// LicenseNone means no license string was supplied
	LicenseNone LicenseKind = iota
	// LicenseUnrecognized means the string is not a known license id
	LicenseUnrecognized
	// LicenseValid means the string matched a registry entry
	LicenseValid
)

// String returns the tag used in the interchange format
func (k LicenseKind) String() string {
	switch k {
	case LicenseValid:
		return "Valid"
	case LicenseUnrecognized:
		return "Unrecognized"
	default:
		return "None"
	}
}

// LicenseOutcome is the result of classifying a package's license string.
// Name, ID and Category are set only when Kind is LicenseValid.
// The zero value is a None outcome.
type LicenseOutcome struct {
	Kind     LicenseKind
	Name     string
	ID       string
	Category string
}

// ValidLicense returns a Valid outcome
func ValidLicense(name, id, category string) LicenseOutcome {
	return LicenseOutcome{Kind: LicenseValid, Name: name, ID: id, Category: category}
}

// UnrecognizedLicense returns an Unrecognized outcome
func UnrecognizedLicense() LicenseOutcome {
	return LicenseOutcome{Kind: LicenseUnrecognized}
}

// NoLicense returns a None outcome
func NoLicense() LicenseOutcome {
	return LicenseOutcome{}
}

// IsOSIApproved reports whether the outcome is a valid OSI approved license
func (l LicenseOutcome) IsOSIApproved() bool {
	return l.Kind == LicenseValid && l.Category == CategoryOSIApproved
}

// String returns a human-readable representation
func (l LicenseOutcome) String() string {
	if l.Kind == LicenseValid {
		return fmt.Sprintf("%s (%s, %s)", l.ID, l.Name, l.Category)
	}
	return l.Kind.String()
}

type validLicense struct {
	Name     string `json:"name" yaml:"name"`
	ID       string `json:"id" yaml:"id"`
	Category string `json:"category" yaml:"category"`
}

type taggedLicense struct {
	Valid *validLicense `json:"Valid" yaml:"Valid"`
}

func (l LicenseOutcome) tagged() any {
	if l.Kind == LicenseValid {
		return taggedLicense{Valid: &validLicense{Name: l.Name, ID: l.ID, Category: l.Category}}
	}
	return l.Kind.String()
}

func (l *LicenseOutcome) fromTag(tag string) error {
	switch tag {
	case "None":
		*l = NoLicense()
	case "Unrecognized":
		*l = UnrecognizedLicense()
	default:
		return fmt.Errorf("unknown license outcome %q", tag)
	}
	return nil
}

func (l *LicenseOutcome) fromTagged(t taggedLicense) error {
	if t.Valid == nil {
		return fmt.Errorf("license outcome object must carry a Valid payload")
	}
	*l = ValidLicense(t.Valid.Name, t.Valid.ID, t.Valid.Category)
	return nil
}

// MarshalJSON encodes the outcome as "None", "Unrecognized" or {"Valid":{...}}
func (l LicenseOutcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.tagged())
}

// UnmarshalJSON decodes the form written by MarshalJSON
func (l *LicenseOutcome) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var tag string
		if err := json.Unmarshal(data, &tag); err != nil {
			return err
		}
		return l.fromTag(tag)
	}
	var t taggedLicense
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	return l.fromTagged(t)
}

// MarshalYAML encodes the outcome like MarshalJSON
func (l LicenseOutcome) MarshalYAML() (any, error) {
	return l.tagged(), nil
}

// UnmarshalYAML decodes the form written by MarshalYAML
func (l *LicenseOutcome) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return l.fromTag(value.Value)
	}
	var t taggedLicense
	if err := value.Decode(&t); err != nil {
		return err
	}
	return l.fromTagged(t)
}

// AuthorsKind discriminates Authors
type AuthorsKind int

const (
	// AuthorsMultiple holds any number of names, including none
	AuthorsMultiple AuthorsKind = iota
	// AuthorsSingle holds exactly one name
	AuthorsSingle
)

// String returns the tag used in the interchange format
func (k AuthorsKind) String() string {
	if k == AuthorsSingle {
		return "Single"
	}
	return "Multiple"
}

// Authors lists the people responsible for a package, encoded as
// {"Single": name} or {"Multiple": [names...]}.
// A Multiple holding one name stays a Multiple.
// The zero value is an empty Multiple.
type Authors struct {
	Kind  AuthorsKind
	Names []string
}

// SingleAuthor returns a Single holding name
func SingleAuthor(name string) Authors {
	return Authors{Kind: AuthorsSingle, Names: []string{name}}
}

// MultipleAuthors returns a Multiple holding names
func MultipleAuthors(names ...string) Authors {
	if len(names) == 0 {
		return Authors{}
	}
	return Authors{Kind: AuthorsMultiple, Names: names}
}

// AuthorsFromNames returns a Single for exactly one name and a Multiple
// otherwise
func AuthorsFromNames(names ...string) Authors {
	if len(names) == 1 {
		return SingleAuthor(names[0])
	}
	return MultipleAuthors(names...)
}

// IsSingle reports whether a is the Single variant
func (a Authors) IsSingle() bool {
	return a.Kind == AuthorsSingle
}

// Len returns the number of names
func (a Authors) Len() int {
	return len(a.Names)
}

type taggedAuthors struct {
	Single   *string   `json:"Single,omitempty" yaml:"Single,omitempty"`
	Multiple *[]string `json:"Multiple,omitempty" yaml:"Multiple,omitempty"`
}

func (a Authors) tagged() any {
	if a.IsSingle() {
		name := ""
		if len(a.Names) > 0 {
			name = a.Names[0]
		}
		return map[string]string{"Single": name}
	}
	names := a.Names
	if names == nil {
		names = []string{}
	}
	return map[string][]string{"Multiple": names}
}

func (a *Authors) fromTagged(t taggedAuthors) error {
	switch {
	case t.Single != nil && t.Multiple != nil:
		return fmt.Errorf("authors must be either Single or Multiple, not both")
	case t.Single != nil:
		*a = SingleAuthor(*t.Single)
	case t.Multiple != nil:
		*a = MultipleAuthors(*t.Multiple...)
	default:
		return fmt.Errorf("authors object must carry a Single or Multiple payload")
	}
	return nil
}

// MarshalJSON implements json.Marshaler
func (a Authors) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.tagged())
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Authors) UnmarshalJSON(data []byte) error {
	var t taggedAuthors
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	return a.fromTagged(t)
}

// MarshalYAML implements yaml.Marshaler
func (a Authors) MarshalYAML() (any, error) {
	return a.tagged(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (a *Authors) UnmarshalYAML(value *yaml.Node) error {
	var t taggedAuthors
	if err := value.Decode(&t); err != nil {
		return err
	}
	return a.fromTagged(t)
}

// PackageReport is the audit record produced for one package
type PackageReport struct {
	PackageName string         `json:"package_name" yaml:"package_name"`
	Version     string         `json:"version" yaml:"version"`
	UID         string         `json:"uid" yaml:"uid"`
	Authors     Authors        `json:"authors" yaml:"authors"`
	Home        string         `json:"home,omitempty" yaml:"home,omitempty"`
	Repo        string         `json:"repo,omitempty" yaml:"repo,omitempty"`
	Depends     []string       `json:"depends" yaml:"depends"`
	Depended    []string       `json:"depended" yaml:"depended"`
	License     LicenseOutcome `json:"license" yaml:"license"`
}

// ScanResult holds every report produced from one lockfile
type ScanResult struct {
	Lockfile           string          `json:"lockfile" yaml:"lockfile"`
	LicenseListVersion string          `json:"license_list_version" yaml:"license_list_version"`
	Packages           []PackageReport `json:"packages" yaml:"packages"`
}

// Summary counts packages per license outcome
type Summary struct {
	Total        int `json:"total" yaml:"total"`
	OSIApproved  int `json:"osi_approved" yaml:"osi_approved"`
	Other        int `json:"other" yaml:"other"`
	Unrecognized int `json:"unrecognized" yaml:"unrecognized"`
	None         int `json:"none" yaml:"none"`
}

// Summarize computes license counts over the result
func (r *ScanResult) Summarize() Summary {
	s := Summary{Total: len(r.Packages)}
	for _, p := range r.Packages {
		switch p.License.Kind {
		case LicenseValid:
			if p.License.IsOSIApproved() {
				s.OSIApproved++
			} else {
				s.Other++
			}
		case LicenseUnrecognized:
			s.Unrecognized++
		default:
			s.None++
		}
	}
	return s
}
