package models

import "strings"

// CratesIOSource is the source string Cargo writes for crates.io packages
const CratesIOSource = "registry+https://github.com/rust-lang/crates.io-index"

// DependencySpec references another package from a lockfile entry.
// Version and Source are empty when the lockfile omits them.
type DependencySpec struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Source  string `json:"source,omitempty" yaml:"source,omitempty"`
}

// String returns the spec in Cargo's "name version (source)" form
func (d DependencySpec) String() string {
	var sb strings.Builder
	sb.WriteString(d.Name)
	if d.Version != "" {
		sb.WriteString(" " + d.Version)
	}
	if d.Source != "" {
		sb.WriteString(" (" + d.Source + ")")
	}
	return sb.String()
}

// PackageRecord is a single package entry read from a lockfile.
//
// Empty Checksum, Source and License mean the lockfile did not supply them.
// The dependency list is owned by the record until TakeDependencies moves
// it out; after that the record no longer exposes it.
type PackageRecord struct {
	Name     string
	Version  string
	Checksum string
	Source   string
	License  string

	dependencies []DependencySpec
	taken        bool
}

// NewPackageRecord creates a record owning the given dependency list
func NewPackageRecord(name, version string, deps []DependencySpec) *PackageRecord {
	return &PackageRecord{
		Name:         name,
		Version:      version,
		dependencies: deps,
	}
}

// UID resolves the canonical identity of the record.
//
// A checksum always wins. Without one, a record with a source is identified
// by name, version and source, and a record with neither by name and version.
func (r *PackageRecord) UID() PackageUID {
	switch {
	case r.Checksum != "":
		return ChecksumUID{Hash: r.Checksum}
	case r.Source != "":
		return NameVersionAndSourceUID{Name: r.Name, Version: r.Version, Source: r.Source}
	default:
		return NameAndVersionUID{Name: r.Name, Version: r.Version}
	}
}

// Dependencies returns the dependency list, or nil once it has been taken
func (r *PackageRecord) Dependencies() []DependencySpec {
	return r.dependencies
}

// SetDependencies replaces the dependency list and makes it takeable again
func (r *PackageRecord) SetDependencies(deps []DependencySpec) {
	r.dependencies = deps
	r.taken = false
}

// TakeDependencies moves the dependency list out of the record.
// The record is left with no dependencies and further calls return nil.
func (r *PackageRecord) TakeDependencies() []DependencySpec {
	if r.taken {
		return nil
	}
	deps := r.dependencies
	r.dependencies = nil
	r.taken = true
	return deps
}

// DependenciesTaken reports whether TakeDependencies has been called
func (r *PackageRecord) DependenciesTaken() bool {
	return r.taken
}

// FromCratesIO reports whether the record comes from the crates.io registry
func (r *PackageRecord) FromCratesIO() bool {
	return r.Source == CratesIOSource
}

// String returns a human-readable representation
func (r *PackageRecord) String() string {
	return r.Name + "@" + r.Version
}
