package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"golang.org/x/mod/semver"
	"golang.org/x/sync/errgroup"

	"github.com/jewlexx/lawyer/internal/cache"
	"github.com/jewlexx/lawyer/internal/clients"
	"github.com/jewlexx/lawyer/internal/depmap"
	"github.com/jewlexx/lawyer/internal/license"
	"github.com/jewlexx/lawyer/internal/logging"
	"github.com/jewlexx/lawyer/internal/models"
	"github.com/jewlexx/lawyer/internal/parsers"
)

// MetadataFetcher looks up registry metadata for a package version
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, name, version string) (*clients.CrateMetadata, error)
}

// Scanner orchestrates the license audit of lockfiles
type Scanner struct {
	config   *models.Config
	parsers  []parsers.Parser
	registry *license.Registry
	metadata MetadataFetcher
}

// Option customizes a Scanner
type Option func(*Scanner)

// WithMetadataFetcher overrides the crates.io client
func WithMetadataFetcher(f MetadataFetcher) Option {
	return func(s *Scanner) { s.metadata = f }
}

// WithRegistry overrides the embedded license registry
func WithRegistry(r *license.Registry) Option {
	return func(s *Scanner) { s.registry = r }
}

// New creates a new Scanner with the given configuration
func New(config *models.Config, opts ...Option) (*Scanner, error) {
	s := &Scanner{
		config:  config,
		parsers: parsers.GetAllParsers(),
	}

	if config.FetchMetadata {
		var c *cache.Cache
		if !config.NoCache {
			var err error
			c, err = cache.Open(config.CacheDir, "lawyer", config.CacheTTL)
			if err != nil {
				// Non-fatal: continue without cache
				c = nil
			}
		}
		s.metadata = clients.NewCratesClient(config.RegistryURL, config.Timeout, c)
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.registry == nil {
		r, err := license.Default()
		if err != nil {
			return nil, fmt.Errorf("failed to load license registry: %w", err)
		}
		s.registry = r
	}

	return s, nil
}

// ScanAll scans every configured path, stopping at the first failure
func (s *Scanner) ScanAll(ctx context.Context) ([]*models.ScanResult, error) {
	results := make([]*models.ScanResult, 0, len(s.config.Paths))
	for _, path := range s.config.Paths {
		res, err := s.Scan(ctx, path)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Scan audits a single lockfile.
//
// Lockfile parse errors and missing package sources are returned unchanged
// so callers can inspect them with errors.As.
func (s *Scanner) Scan(ctx context.Context, path string) (*models.ScanResult, error) {
	logger := logging.FromContext(ctx).With("lockfile", path)
	ctx = logging.WithLogger(ctx, logger)
	prog := logging.StartProgress(logger)

	// Step 1: Load package records
	records, err := s.load(path)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if !parsers.ValidVersion(r.Version) {
			logger.Warn("package version is not semver", "package", r.Name, "version", r.Version)
		}
	}
	logger.Debug("loaded lockfile", "packages", len(records))

	// Step 2: Build the dependency map
	deps, err := depmap.BuildContext(ctx, records)
	if err != nil {
		return nil, err
	}

	// Step 3: Enrich with registry metadata
	metas, err := s.fetchMetadata(ctx, records)
	if err != nil {
		return nil, err
	}

	// Step 4: Classify licenses and assemble reports
	reverse := reverseDependencies(records, deps)
	reports := make([]models.PackageReport, 0, len(records))
	for i, r := range records {
		report := models.PackageReport{
			PackageName: r.Name,
			Version:     r.Version,
			UID:         r.UID().String(),
			Depends:     dependencyNames(deps[r.UID()]),
			Depended:    dependents(reverse, r),
		}
		if meta := metas[i]; meta != nil {
			r.License = meta.License
			report.Authors = models.AuthorsFromNames(meta.Authors...)
			report.Home = meta.HomePage
			report.Repo = meta.Repository
		}
		report.License = s.registry.Classify(r.License)
		reports = append(reports, report)
	}
	sortReports(reports)

	prog.Done(fmt.Sprintf("Audited %d packages", len(reports)))

	return &models.ScanResult{
		Lockfile:           path,
		LicenseListVersion: s.registry.Version(),
		Packages:           reports,
	}, nil
}

// load reads path and parses it with the first matching parser
func (s *Scanner) load(path string) ([]*models.PackageRecord, error) {
	filename := filepath.Base(path)

	for _, parser := range s.parsers {
		if parser.CanParse(filename) {
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}
			return parser.Parse(path, content)
		}
	}

	return nil, fmt.Errorf("no parser for %s", path)
}

// fetchMetadata queries the registry for every crates.io package.
// Lookup failures are logged and leave the package without metadata.
func (s *Scanner) fetchMetadata(ctx context.Context, records []*models.PackageRecord) ([]*clients.CrateMetadata, error) {
	metas := make([]*clients.CrateMetadata, len(records))
	if s.metadata == nil {
		return metas, nil
	}

	logger := logging.FromContext(ctx)
	prog := logging.StartProgress(logger)

	limit := s.config.MaxConcurrent
	if limit < 1 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, r := range records {
		if !r.FromCratesIO() {
			continue
		}
		g.Go(func() error {
			meta, err := s.metadata.FetchMetadata(gctx, r.Name, r.Version)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Warn("metadata lookup failed", "package", r.Name, "version", r.Version, "err", err)
				return nil
			}
			metas[i] = meta
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("metadata lookup aborted: %w", err)
	}

	prog.Done("Fetched crate metadata")
	return metas, nil
}

func dependencyNames(specs []models.DependencySpec) []string {
	names := make([]string, 0, len(specs))
	for _, d := range specs {
		names = append(names, d.Name)
	}
	return names
}

// reverseDependencies indexes dependents by "name version" for versioned
// specs and by bare name otherwise.
func reverseDependencies(records []*models.PackageRecord, deps models.DependencyMap) map[string][]string {
	reverse := make(map[string][]string)
	for _, r := range records {
		for _, d := range deps[r.UID()] {
			key := d.Name
			if d.Version != "" {
				key += " " + d.Version
			}
			reverse[key] = append(reverse[key], r.Name)
		}
	}
	return reverse
}

func dependents(reverse map[string][]string, r *models.PackageRecord) []string {
	names := append(append([]string(nil), reverse[r.Name]...), reverse[r.Name+" "+r.Version]...)
	sort.Strings(names)
	names = slices.Compact(names)
	if names == nil {
		names = []string{}
	}
	return names
}

// sortReports orders reports by name, then by semantic version
func sortReports(reports []models.PackageReport) {
	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].PackageName != reports[j].PackageName {
			return reports[i].PackageName < reports[j].PackageName
		}
		if c := semver.Compare("v"+reports[i].Version, "v"+reports[j].Version); c != 0 {
			return c < 0
		}
		return reports[i].Version < reports[j].Version
	})
}
