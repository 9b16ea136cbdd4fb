package license

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jewlexx/lawyer/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.LicenseOutcome
	}{
		{
			name: "osi approved",
			raw:  "MIT",
			want: models.ValidLicense("MIT License", "MIT", models.CategoryOSIApproved),
		},
		{
			name: "not osi approved",
			raw:  "CC0-1.0",
			want: models.ValidLicense("Creative Commons Zero v1.0 Universal", "CC0-1.0", models.CategoryOther),
		},
		{
			name: "unknown id",
			raw:  "Not-A-Real-License",
			want: models.UnrecognizedLicense(),
		},
		{
			name: "compound expression",
			raw:  "MIT OR Apache-2.0",
			want: models.UnrecognizedLicense(),
		},
		{
			name: "wrong case",
			raw:  "mit",
			want: models.UnrecognizedLicense(),
		},
		{
			name: "empty",
			raw:  "",
			want: models.NoLicense(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.raw))
		})
	}
}

func TestRegistry_Classify(t *testing.T) {
	r, err := Parse([]byte(`{"licenseListVersion":"x","releaseDate":"y","licenses":[
		{"licenseId":"Only","name":"Only License","isOsiApproved":true}
	]}`))
	require.NoError(t, err)

	assert.Equal(t, models.ValidLicense("Only License", "Only", models.CategoryOSIApproved), r.Classify("Only"))
	assert.Equal(t, models.UnrecognizedLicense(), r.Classify("MIT"))
	assert.Equal(t, models.NoLicense(), r.Classify(""))
}
