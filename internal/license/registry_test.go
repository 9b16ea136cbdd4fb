package license

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jewlexx/lawyer/internal/models"
)

func TestDefault(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "3.25.0", r.Version())
	assert.NotEmpty(t, r.ReleaseDate())
	assert.Equal(t, 666, r.Len())
}

func TestDefault_LessCommonIDs(t *testing.T) {
	tests := []struct {
		id  string
		osi bool
	}{
		{"X11", false},
		{"OFL-1.1", true},
		{"LGPL-2.0-only", true},
		{"CC-BY-3.0", false},
		{"BSD-3-Clause-Clear", false},
		{"MPL-2.0-no-copyleft-exception", true},
		{"Beerware", false},
		{"Unicode-3.0", true},
		{"GPL-2.0-with-classpath-exception", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := Classify(tt.id)
			require.Equal(t, models.LicenseValid, got.Kind)
			assert.Equal(t, tt.id, got.ID)
			assert.Equal(t, tt.osi, got.IsOSIApproved())
		})
	}
}

func TestLoader_ConcurrentFirstAccess(t *testing.T) {
	const workers = 32

	l := newLoader(licenseListJSON)
	require.Zero(t, l.decodes.Load())

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
	)
	registries := make([]*Registry, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			registries[i], errs[i] = l.load()
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, registries[i])
		assert.Same(t, registries[0], registries[i])
	}
	assert.Equal(t, int32(1), l.decodes.Load())

	_, err := l.load()
	require.NoError(t, err)
	assert.Equal(t, int32(1), l.decodes.Load())
}

func TestLoader_ErrorIsCached(t *testing.T) {
	l := newLoader([]byte(`{not json`))

	_, err1 := l.load()
	_, err2 := l.load()
	require.Error(t, err1)
	assert.Equal(t, err1, err2)
	assert.Equal(t, int32(1), l.decodes.Load())
}

func TestDefault_SharedRegistry(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, models.LicenseValid, Classify("MIT").Kind)
}

func TestRegistry_Find(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	mit, ok := r.Find("MIT")
	require.True(t, ok)
	assert.Equal(t, "MIT License", mit.Name)
	assert.True(t, mit.IsOsiApproved)
	assert.Equal(t, "https://spdx.org/licenses/MIT.html", mit.Reference)
	require.NotNil(t, mit.IsFsfLibre)
	assert.True(t, *mit.IsFsfLibre)

	_, ok = r.Find("mit")
	assert.False(t, ok, "lookup is case sensitive")

	_, ok = r.Find("Not-A-Real-License")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	data := []byte(`{
  "licenseListVersion": "0.1",
  "releaseDate": "2020-01-01",
  "licenses": [
    {
      "reference": "https://example.com/Foo.html",
      "isDeprecatedLicenseId": true,
      "detailsUrl": "https://example.com/Foo.json",
      "referenceNumber": 7,
      "name": "Foo License",
      "licenseId": "Foo",
      "seeAlso": ["https://example.com/foo"],
      "isOsiApproved": false
    }
  ]
}`)

	r, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "0.1", r.Version())
	assert.Equal(t, 1, r.Len())

	foo, ok := r.Find("Foo")
	require.True(t, ok)
	assert.True(t, foo.IsDeprecatedLicenseID)
	assert.Equal(t, 7, foo.ReferenceNumber)
	assert.Nil(t, foo.IsFsfLibre)
	assert.Equal(t, []string{"https://example.com/foo"}, foo.SeeAlso)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"licenses":[{"name":"nameless"}]}`))
	assert.ErrorContains(t, err, "has no id")
}
