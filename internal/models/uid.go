package models

import "fmt"

// PackageUID uniquely identifies a package within a lockfile.
//
// It is one of ChecksumUID, NameAndVersionUID or NameVersionAndSourceUID.
// All variants are comparable, so two UIDs are equal only when both the
// variant and its payload match. UIDs can be used directly as map keys.
type PackageUID interface {
	fmt.Stringer
	isPackageUID()
}

// ChecksumUID identifies a package by the checksum of its contents
type ChecksumUID struct {
	Hash string
}

// NameAndVersionUID identifies a package with neither checksum nor source
type NameAndVersionUID struct {
	Name    string
	Version string
}

// NameVersionAndSourceUID identifies a package with a source but no checksum
type NameVersionAndSourceUID struct {
	Name    string
	Version string
	Source  string
}

func (ChecksumUID) isPackageUID()             {}
func (NameAndVersionUID) isPackageUID()       {}
func (NameVersionAndSourceUID) isPackageUID() {}

func (u ChecksumUID) String() string {
	return "checksum:" + u.Hash
}

func (u NameAndVersionUID) String() string {
	return u.Name + "@" + u.Version
}

func (u NameVersionAndSourceUID) String() string {
	return u.Name + "@" + u.Version + " (" + u.Source + ")"
}
