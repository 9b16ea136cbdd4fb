package parsers

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/semver"

	"github.com/jewlexx/lawyer/internal/models"
)

// CargoLockParser parses Cargo.lock files
type CargoLockParser struct{}

// CanParse returns true for Cargo.lock files
func (p *CargoLockParser) CanParse(filename string) bool {
	return filename == "Cargo.lock"
}

// cargoLock represents the structure of Cargo.lock (v1 to v4)
type cargoLock struct {
	Version  int            `toml:"version"`
	Packages []cargoPackage `toml:"package"`
	// V1 format keeps checksums here, keyed by "checksum <name> <version> (<source>)"
	Metadata map[string]string `toml:"metadata"`
}

type cargoPackage struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Source       string   `toml:"source"`
	Checksum     string   `toml:"checksum"`
	Dependencies []string `toml:"dependencies"`
}

// Parse extracts package records from Cargo.lock content
func (p *CargoLockParser) Parse(filepath string, content []byte) ([]*models.PackageRecord, error) {
	var lock cargoLock
	if err := toml.Unmarshal(content, &lock); err != nil {
		return nil, &models.LockfileParseError{Path: filepath, Err: err}
	}

	checksums := metadataChecksums(lock.Metadata)

	records := make([]*models.PackageRecord, 0, len(lock.Packages))
	for i, pkg := range lock.Packages {
		if pkg.Name == "" || pkg.Version == "" {
			return nil, &models.LockfileParseError{
				Path: filepath,
				Err:  fmt.Errorf("package entry %d is missing a name or version", i+1),
			}
		}

		deps := make([]models.DependencySpec, 0, len(pkg.Dependencies))
		for _, d := range pkg.Dependencies {
			spec, err := ParseDependency(d)
			if err != nil {
				return nil, &models.LockfileParseError{
					Path: filepath,
					Err:  fmt.Errorf("package %s %s: %w", pkg.Name, pkg.Version, err),
				}
			}
			deps = append(deps, spec)
		}

		r := models.NewPackageRecord(pkg.Name, pkg.Version, deps)
		r.Source = pkg.Source
		r.Checksum = pkg.Checksum
		if r.Checksum == "" {
			r.Checksum = checksums[checksumKey(pkg.Name, pkg.Version, pkg.Source)]
		}
		records = append(records, r)
	}

	return records, nil
}

// ParseDependency parses a Cargo.lock dependency entry.
// Entries take the forms "name", "name version" and "name version (source)".
func ParseDependency(s string) (models.DependencySpec, error) {
	var spec models.DependencySpec

	rest, source, hasSource := strings.Cut(strings.TrimSpace(s), " (")
	if hasSource {
		if !strings.HasSuffix(source, ")") {
			return spec, fmt.Errorf("malformed dependency %q", s)
		}
		spec.Source = strings.TrimSuffix(source, ")")
	}

	fields := strings.Fields(rest)
	switch len(fields) {
	case 1:
		spec.Name = fields[0]
	case 2:
		spec.Name, spec.Version = fields[0], fields[1]
	default:
		return spec, fmt.Errorf("malformed dependency %q", s)
	}
	if hasSource && spec.Version == "" {
		return spec, fmt.Errorf("dependency %q has a source but no version", s)
	}
	return spec, nil
}

// ValidVersion reports whether version is a valid semantic version
func ValidVersion(version string) bool {
	return semver.IsValid("v" + version)
}

func checksumKey(name, version, source string) string {
	return fmt.Sprintf("checksum %s %s (%s)", name, version, source)
}

// metadataChecksums keeps the usable checksums of a v1 [metadata] table
func metadataChecksums(metadata map[string]string) map[string]string {
	checksums := make(map[string]string, len(metadata))
	for k, v := range metadata {
		if !strings.HasPrefix(k, "checksum ") || v == "" || v == "<none>" {
			continue
		}
		checksums[k] = v
	}
	return checksums
}
