// Package depmap folds lockfile package records into a dependency map keyed
// by package identity.
package depmap

import (
	"context"

	"github.com/jewlexx/lawyer/internal/logging"
	"github.com/jewlexx/lawyer/internal/models"
)

// Build folds records, in order, into a map from each record's UID to its
// dependency list.
//
// Each record's dependency list is moved into the map, leaving the record
// without one. Every record must carry a source; the first record without
// one aborts the build with a *models.MissingPackageSourceError and no map
// is returned. Records sharing a UID overwrite earlier entries.
func Build(records []*models.PackageRecord) (models.DependencyMap, error) {
	return BuildContext(context.Background(), records)
}

// BuildContext is Build using the logger carried by ctx
func BuildContext(ctx context.Context, records []*models.PackageRecord) (models.DependencyMap, error) {
	logger := logging.FromContext(ctx)

	m := make(models.DependencyMap, len(records))
	for _, r := range records {
		uid := r.UID()
		if _, dup := m[uid]; dup {
			logger.Debug("replacing duplicate package entry", "uid", uid)
		}
		m[uid] = r.TakeDependencies()

		// The source check is independent of the UID: a record can resolve
		// to a NameAndVersion UID and still fail here.
		if r.Source == "" {
			return nil, &models.MissingPackageSourceError{Name: r.Name, Version: r.Version}
		}
	}

	logger.Debug("built dependency map", "packages", len(m))
	return m, nil
}
