package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageRecord_UID(t *testing.T) {
	tests := []struct {
		name   string
		record PackageRecord
		want   PackageUID
	}{
		{
			name:   "checksum only",
			record: PackageRecord{Name: "serde", Version: "1.0.0", Checksum: "abc"},
			want:   ChecksumUID{Hash: "abc"},
		},
		{
			name:   "checksum wins over source",
			record: PackageRecord{Name: "serde", Version: "1.0.0", Checksum: "abc", Source: CratesIOSource},
			want:   ChecksumUID{Hash: "abc"},
		},
		{
			name:   "source without checksum",
			record: PackageRecord{Name: "local", Version: "0.1.0", Source: "git+https://example.com/local"},
			want:   NameVersionAndSourceUID{Name: "local", Version: "0.1.0", Source: "git+https://example.com/local"},
		},
		{
			name:   "neither checksum nor source",
			record: PackageRecord{Name: "app", Version: "0.1.0"},
			want:   NameAndVersionUID{Name: "app", Version: "0.1.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.UID())
		})
	}
}

func TestPackageRecord_UIDChecksumDetermined(t *testing.T) {
	a := PackageRecord{Name: "a", Version: "1.0.0", Checksum: "same"}
	b := PackageRecord{Name: "b", Version: "2.0.0", Source: "elsewhere", Checksum: "same"}

	assert.Equal(t, a.UID(), b.UID())
}

func TestPackageRecord_AddingChecksumChangesVariant(t *testing.T) {
	r := PackageRecord{Name: "rand", Version: "0.8.5", Source: CratesIOSource}
	_, ok := r.UID().(NameVersionAndSourceUID)
	require.True(t, ok)

	r.Checksum = "deadbeef"
	_, ok = r.UID().(ChecksumUID)
	assert.True(t, ok)
}

func TestPackageUID_VariantsNeverEqual(t *testing.T) {
	var a PackageUID = NameAndVersionUID{Name: "x", Version: "1"}
	var b PackageUID = NameVersionAndSourceUID{Name: "x", Version: "1"}

	assert.NotEqual(t, a, b)
	assert.False(t, a == b)

	m := map[PackageUID]int{a: 1, b: 2}
	assert.Len(t, m, 2)
}

func TestPackageRecord_UIDDoesNotMutate(t *testing.T) {
	deps := []DependencySpec{{Name: "libc"}}
	r := NewPackageRecord("rand", "0.8.5", deps)
	r.Source = CratesIOSource

	_ = r.UID()
	_ = r.UID()

	assert.Equal(t, deps, r.Dependencies())
	assert.False(t, r.DependenciesTaken())
}

func TestPackageRecord_TakeDependencies(t *testing.T) {
	deps := []DependencySpec{{Name: "libc", Version: "0.2.150"}, {Name: "cfg-if"}}
	r := NewPackageRecord("rand", "0.8.5", deps)

	got := r.TakeDependencies()
	assert.Equal(t, deps, got)
	assert.True(t, r.DependenciesTaken())
	assert.Nil(t, r.Dependencies())
	assert.Nil(t, r.TakeDependencies(), "second take must yield nothing")

	r.SetDependencies([]DependencySpec{{Name: "getrandom"}})
	assert.False(t, r.DependenciesTaken())
	assert.Len(t, r.TakeDependencies(), 1)
}

func TestDependencySpec_String(t *testing.T) {
	tests := []struct {
		spec DependencySpec
		want string
	}{
		{DependencySpec{Name: "libc"}, "libc"},
		{DependencySpec{Name: "libc", Version: "0.2.150"}, "libc 0.2.150"},
		{DependencySpec{Name: "libc", Version: "0.2.150", Source: CratesIOSource}, "libc 0.2.150 (" + CratesIOSource + ")"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.String())
		})
	}
}

func TestDependencyMap_Keys(t *testing.T) {
	m := DependencyMap{
		NameAndVersionUID{Name: "b", Version: "1"}: nil,
		ChecksumUID{Hash: "ff"}:                    nil,
		NameAndVersionUID{Name: "a", Version: "1"}: nil,
	}

	keys := m.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, "a@1", keys[0].String())
	assert.Equal(t, "b@1", keys[1].String())
	assert.Equal(t, "checksum:ff", keys[2].String())
}
