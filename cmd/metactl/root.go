package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/joshuapare/metakit/internal/config"
	"github.com/joshuapare/metakit/internal/logging"
	"github.com/joshuapare/metakit/internal/metrics"
	"github.com/joshuapare/metakit/meta/assets"
	"github.com/joshuapare/metakit/meta/collection"
	"github.com/joshuapare/metakit/meta/editstore"
	"github.com/joshuapare/metakit/meta/files"
	"github.com/joshuapare/metakit/meta/resource"
)

var (
	// Global flags
	configPath string
	verbose    bool
	quiet      bool
	jsonOut    bool
	noColor    bool
	metricsOut string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metactl",
		Short: "Inspect and edit metadata table manipulations",
		Long: `metactl reads the EQP, EQDP, IMC, EST, GMP and racial scaling tables
of an asset store, stages manipulations against them per collection and
writes the resolved tables a collection produces.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().StringVar(&metricsOut, "metrics-out", "", "Write Prometheus metrics in text format to this file on exit")

	cmd.AddCommand(
		newDefaultCmd(),
		newDiffCmd(),
		newImportCmd(),
		newExportCmd(),
		newComposeCmd(),
		newResolveCmd(),
		newCollectionsCmd(),
	)
	return cmd
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// env holds the components a command works with.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	assets   assets.Store
	defaults *files.Defaults
	loader   *resource.Loader
	store    editstore.Store
	manager  *collection.Manager
	registry *prometheus.Registry
}

// Close releases the environment and, with --metrics-out, writes the
// counters gathered during the command.
func (e *env) Close() error {
	e.manager.Close()
	err := e.store.Close()
	if metricsOut != "" {
		if werr := prometheus.WriteToTextfile(metricsOut, e.registry); werr != nil && err == nil {
			err = fmt.Errorf("write metrics: %w", werr)
		}
	}
	return err
}

// openEnv builds the command environment. Tests replace it.
var openEnv = func(ctx context.Context) (*env, error) {
	cfg, path, exists, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Debug("loaded config", logging.FieldPath, path)
	}

	assetStore, err := assets.Open(ctx, cfg.AssetOptions())
	if err != nil {
		return nil, fmt.Errorf("open assets: %w", err)
	}
	storeOpts := cfg.StoreOptions()
	storeOpts.Logger = logger
	if storeOpts.Driver == editstore.DriverSQLite {
		if err := ensureParent(storeOpts.Path); err != nil {
			return nil, err
		}
	}
	store, err := editstore.Open(ctx, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("open edit store: %w", err)
	}
	e, err := newEnv(cfg, logger, assetStore, store)
	if err != nil {
		store.Close()
		return nil, err
	}
	return e, nil
}

func newEnv(cfg *config.Config, logger *slog.Logger, assetStore assets.Store, store editstore.Store) (*env, error) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	defaults := files.NewDefaults(assetStore, logger)
	loader := resource.NewLoader(assetStore, logger)
	return &env{
		cfg:      cfg,
		logger:   logger,
		assets:   assetStore,
		defaults: defaults,
		loader:   loader,
		store:    store,
		manager: collection.NewManager(store, loader, defaults, collection.Options{
			CacheCapacity: cfg.Cache.Capacity,
			Logger:        logger,
			Metrics:       m,
		}),
		registry: reg,
	}, nil
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	opts := cfg.LoggingOptions()
	switch {
	case quiet:
		opts.Level = "error"
	case verbose:
		opts.Level = "debug"
	}
	logger, err := logging.New(opts)
	if err != nil {
		return nil, err
	}
	logging.L = logger
	return logger, nil
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}

// withEnv opens the environment, runs fn and closes it.
func withEnv(cmd *cobra.Command, fn func(ctx context.Context, e *env) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(ctx, e)
}

// printInfo prints an info message if not in quiet mode
func printInfo(w io.Writer, format string, args ...any) {
	if !quiet {
		fmt.Fprintf(w, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(w io.Writer, format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(w, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
