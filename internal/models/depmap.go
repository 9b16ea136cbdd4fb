package models

import (
	"sort"
)

// DependencyMap maps each package identity to its declared dependencies.
// Once built it is shared read-only.
type DependencyMap map[PackageUID][]DependencySpec

// Len returns the number of packages in the map
func (m DependencyMap) Len() int {
	return len(m)
}

// Get returns the dependencies recorded for uid
func (m DependencyMap) Get(uid PackageUID) ([]DependencySpec, bool) {
	deps, ok := m[uid]
	return deps, ok
}

// Keys returns all identities sorted by their string form
func (m DependencyMap) Keys() []PackageUID {
	keys := make([]PackageUID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}
