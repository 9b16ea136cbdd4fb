package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jewlexx/lawyer/internal/cache"
	"github.com/jewlexx/lawyer/internal/logging"
	"github.com/jewlexx/lawyer/internal/models"
	"github.com/jewlexx/lawyer/internal/reporter"
	"github.com/jewlexx/lawyer/internal/scanner"
)

// ErrUnrecognizedLicenses is returned when --fail-unrecognized is set and a
// package has an unrecognized license.
var ErrUnrecognizedLicenses = errors.New("unrecognized licenses found")

type options struct {
	output           string
	format           string
	configFile       string
	fetchMetadata    bool
	noCache          bool
	clearCache       bool
	failUnrecognized bool
	timeout          int
	concurrency      int
	verbose          bool
}

// NewRootCmd creates the lawyer command
func NewRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "lawyer [lockfiles...]",
		Short: "Audit the licenses of the dependencies in a Cargo.lock",
		Long: `lawyer reads a Cargo.lock and reports every package it pins together
with its dependencies, the packages that depend on it, and its license.

Licenses are checked against an embedded snapshot of the SPDX license list
and categorized as OSI approved or not. Only single SPDX identifiers are
recognized; expressions such as "MIT OR Apache-2.0" are reported as
unrecognized.

Every package must have a source. A package without one (for example a
local path dependency) stops the audit with an error naming the package.

Examples:
  # Audit ./Cargo.lock
  lawyer

  # Include authors, links and licenses from crates.io
  lawyer --fetch-metadata

  # Output as JSON
  lawyer --format json

  # Output SARIF for GitHub Code Scanning
  lawyer --format sarif --output results.sarif`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "terminal", "Output format: terminal, json, yaml, sarif")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "TOML config file")
	cmd.Flags().BoolVar(&opts.fetchMetadata, "fetch-metadata", false, "Fetch authors, links and licenses from crates.io")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Disable crates.io response caching")
	cmd.Flags().BoolVar(&opts.clearCache, "clear-cache", false, "Remove cached crates.io responses before auditing")
	cmd.Flags().BoolVar(&opts.failUnrecognized, "fail-unrecognized", false, "Exit with code 1 if any license is unrecognized")
	cmd.Flags().IntVar(&opts.timeout, "timeout", 60, "HTTP request timeout in seconds")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 10, "Maximum concurrent crates.io requests")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

// Execute runs the root command and exits with a non-zero status on failure.
func Execute() {
	if code := exitCode(NewRootCmd().Execute()); code != 0 {
		os.Exit(code)
	}
}

// exitCode maps a command error to the process exit status
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUnrecognizedLicenses):
		return 1
	default:
		return 2
	}
}

// buildConfig merges defaults, the optional config file and explicitly set flags
func buildConfig(cmd *cobra.Command, args []string, opts options) (*models.Config, error) {
	config := models.DefaultConfig()
	if opts.configFile != "" {
		var err error
		config, err = models.LoadConfig(opts.configFile, config)
		if err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if len(args) > 0 {
		config.Paths = args
	}
	if flags.Changed("output") {
		config.OutputFile = opts.output
	}
	if flags.Changed("format") {
		config.OutputFormat = opts.format
	}
	if flags.Changed("fetch-metadata") {
		config.FetchMetadata = opts.fetchMetadata
	}
	if flags.Changed("no-cache") {
		config.NoCache = opts.noCache
	}
	if flags.Changed("fail-unrecognized") {
		config.FailOnUnrecognized = opts.failUnrecognized
	}
	if flags.Changed("timeout") {
		config.Timeout = time.Duration(opts.timeout) * time.Second
	}
	if flags.Changed("concurrency") {
		config.MaxConcurrent = opts.concurrency
	}
	if flags.Changed("verbose") {
		config.Verbose = opts.verbose
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func run(cmd *cobra.Command, args []string, opts options) error {
	config, err := buildConfig(cmd, args, opts)
	if err != nil {
		return err
	}

	level := log.InfoLevel
	if config.Verbose {
		level = log.DebugLevel
	}
	logger := logging.New(cmd.ErrOrStderr(), level)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logger)

	if opts.clearCache {
		if err := clearCache(logger, config); err != nil {
			return err
		}
	}

	// Create scanner
	s, err := scanner.New(config)
	if err != nil {
		return fmt.Errorf("failed to initialize scanner: %w", err)
	}

	// Run scan
	results, err := s.ScanAll(ctx)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	// Generate report
	rep := reporter.Get(config.OutputFormat)
	output, err := rep.Report(results)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	// Write output
	if err := writeOutput(cmd.OutOrStdout(), config.OutputFile, output); err != nil {
		return err
	}
	if config.OutputFile != "" {
		logger.Info("Report written", "path", config.OutputFile)
	}

	if config.FailOnUnrecognized {
		for _, r := range results {
			if r.Summarize().Unrecognized > 0 {
				return ErrUnrecognizedLicenses
			}
		}
	}

	return nil
}

func clearCache(logger *log.Logger, config *models.Config) error {
	c, err := cache.Open(config.CacheDir, "lawyer", config.CacheTTL)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := c.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	logger.Info("Cache cleared", "dir", c.Dir)
	return nil
}

func writeOutput(stdout io.Writer, path string, output []byte) error {
	if path == "" {
		_, err := stdout.Write(output)
		return err
	}
	if err := os.WriteFile(path, output, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
