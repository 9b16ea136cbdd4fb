package parsers

import "github.com/jewlexx/lawyer/internal/models"

// Parser is the interface for lockfile parsers
type Parser interface {
	// CanParse returns true if this parser can handle the given filename
	CanParse(filename string) bool

	// Parse extracts package records from the file content, in file order
	Parse(filepath string, content []byte) ([]*models.PackageRecord, error)
}

// GetAllParsers returns all available parsers
func GetAllParsers() []Parser {
	return []Parser{
		&CargoLockParser{},
	}
}

// ForFile returns the first parser able to handle filename, or nil
func ForFile(filename string) Parser {
	for _, p := range GetAllParsers() {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}
