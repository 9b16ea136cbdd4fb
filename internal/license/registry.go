// Package license classifies license strings against an embedded snapshot
// of the SPDX license list.
//
// The snapshot is decoded once, on first use, and never refreshed at
// runtime. Updating it means replacing licenses.json and rebuilding.
package license

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
)

//go:embed licenses.json
var licenseListJSON []byte

// Entry is one row of the SPDX license list
type Entry struct {
	Reference             string   `json:"reference"`
	IsDeprecatedLicenseID bool     `json:"isDeprecatedLicenseId"`
	DetailsURL            string   `json:"detailsUrl"`
	ReferenceNumber       int      `json:"referenceNumber"`
	Name                  string   `json:"name"`
	LicenseID             string   `json:"licenseId"`
	SeeAlso               []string `json:"seeAlso"`
	IsOsiApproved         bool     `json:"isOsiApproved"`
	IsFsfLibre            *bool    `json:"isFsfLibre,omitempty"`
}

// list is the top-level shape of licenses.json
type list struct {
	LicenseListVersion string  `json:"licenseListVersion"`
	Licenses           []Entry `json:"licenses"`
	ReleaseDate        string  `json:"releaseDate"`
}

// Registry is an immutable set of license entries indexed by id.
// It is safe for concurrent use.
type Registry struct {
	version     string
	releaseDate string
	byID        map[string]Entry
}

// Parse decodes an SPDX license list document into a Registry
func Parse(data []byte) (*Registry, error) {
	var l list
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to decode license list: %w", err)
	}

	r := &Registry{
		version:     l.LicenseListVersion,
		releaseDate: l.ReleaseDate,
		byID:        make(map[string]Entry, len(l.Licenses)),
	}
	for _, e := range l.Licenses {
		if e.LicenseID == "" {
			return nil, fmt.Errorf("license entry %q has no id", e.Name)
		}
		r.byID[e.LicenseID] = e
	}
	return r, nil
}

// loader decodes a license list on its first call and returns the same
// result to every later or concurrent caller.
type loader struct {
	decodes atomic.Int32
	load    func() (*Registry, error)
}

func newLoader(data []byte) *loader {
	l := &loader{}
	l.load = sync.OnceValues(func() (*Registry, error) {
		l.decodes.Add(1)
		return Parse(data)
	})
	return l
}

var defaultLoader = newLoader(licenseListJSON)

// Default returns the registry built from the embedded license list.
// The first call decodes the list; concurrent callers wait for it.
func Default() (*Registry, error) {
	return defaultLoader.load()
}

// Find looks up an entry by its exact, case-sensitive license id
func (r *Registry) Find(id string) (Entry, bool) {
	e, ok := r.byID[id]
	return e, ok
}

// Version returns the SPDX license list version of the snapshot
func (r *Registry) Version() string {
	return r.version
}

// ReleaseDate returns the release date of the snapshot
func (r *Registry) ReleaseDate() string {
	return r.releaseDate
}

// Len returns the number of entries
func (r *Registry) Len() int {
	return len(r.byID)
}
