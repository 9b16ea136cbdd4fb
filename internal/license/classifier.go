package license

import "github.com/jewlexx/lawyer/internal/models"

// Classify checks a raw license string against the registry.
//
// Only single license ids are matched; expressions such as
// "MIT OR Apache-2.0" are reported as unrecognized.
func (r *Registry) Classify(raw string) models.LicenseOutcome {
	if raw == "" {
		return models.NoLicense()
	}
	e, ok := r.Find(raw)
	if !ok {
		return models.UnrecognizedLicense()
	}
	category := models.CategoryOther
	if e.IsOsiApproved {
		category = models.CategoryOSIApproved
	}
	return models.ValidLicense(e.Name, e.LicenseID, category)
}

// Classify checks a raw license string against the embedded registry.
// It panics if the embedded license list is corrupt.
func Classify(raw string) models.LicenseOutcome {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r.Classify(raw)
}
