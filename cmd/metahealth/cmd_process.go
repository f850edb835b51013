package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"metahealth/internal/aggregate"
	"metahealth/internal/config"
	"metahealth/internal/logging"
	"metahealth/internal/output"
	"metahealth/internal/registry"
	"metahealth/internal/scan"
	"metahealth/internal/schema"
)

var processFlags struct {
	configPath string
	inputDir   string
	outputDir  string
	cachePath  string
	apiBaseURL string
	workers    int
	logLevel   string
	logFormat  string
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Aggregate statistics over all data files and write the snapshot",
	Long: `Process walks the input directory for .jsonl.gz data files, aggregates
metadata completeness statistics per provider and client, and writes the
attribute and stats snapshot documents to the output directory.

The registry API base URL is read from --api-base-url, the config file, or
the METAHEALTH_API_URL environment variable, in that order of precedence.`,
	RunE: runProcess,
}

func init() {
	f := processCmd.Flags()
	f.StringVarP(&processFlags.configPath, "config", "c", "", "Path to config file (YAML/JSON)")
	f.StringVarP(&processFlags.inputDir, "input", "i", "", "Directory walked for .jsonl.gz data files")
	f.StringVarP(&processFlags.outputDir, "output", "o", "", "Directory for snapshot output files")
	f.StringVar(&processFlags.cachePath, "cache", "", "Registry snapshot cache path (empty disables)")
	f.StringVar(&processFlags.apiBaseURL, "api-base-url", "", "Registry API base URL (default: $METAHEALTH_API_URL)")
	f.IntVarP(&processFlags.workers, "workers", "w", 0, "Concurrent file processors (default: NumCPU-1)")
	f.StringVar(&processFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&processFlags.logFormat, "log-format", "", "Log format: text or json")
}

// resolveConfig layers CLI flags over the config file over the defaults.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if processFlags.configPath != "" {
		loaded, err := config.LoadFromPath(processFlags.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if env := os.Getenv("METAHEALTH_API_URL"); env != "" && !cmd.Flags().Changed("api-base-url") {
		cfg.APIBaseURL = env
	}

	set := cmd.Flags().Changed
	if set("input") {
		cfg.InputDir = processFlags.inputDir
	}
	if set("output") {
		cfg.OutputDir = processFlags.outputDir
	}
	if set("cache") {
		cfg.CachePath = processFlags.cachePath
	}
	if set("api-base-url") {
		cfg.APIBaseURL = processFlags.apiBaseURL
	}
	if set("workers") {
		cfg.Workers = processFlags.workers
	}
	if set("log-level") {
		cfg.LogLevel = processFlags.logLevel
	}
	if set("log-format") {
		cfg.LogFormat = processFlags.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newRegistryClient builds the API client with the configured cache
// attached. The returned closer is a no-op when the cache is disabled.
func newRegistryClient(cfg config.Config) (*registry.Client, func() error, error) {
	closer := func() error { return nil }

	opts := []registry.Option{
		registry.WithLogger(logging.New("registry")),
		registry.WithTimeout(60 * time.Second),
	}
	if cfg.CachePath != "" {
		cache, err := registry.OpenCache(cfg.CachePath)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, registry.WithCache(cache))
		closer = cache.Close
	}

	client, err := registry.New(cfg.APIBaseURL, opts...)
	if err != nil {
		closer()
		return nil, nil, err
	}
	return client, closer, nil
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logging.Init(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	logger := logging.New("process")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	files, err := scan.Discover(cfg.InputDir)
	if err != nil {
		return fmt.Errorf("scan input dir: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no .jsonl.gz files found under %s", cfg.InputDir)
	}
	logger.Info("discovered data files", "count", len(files), "dir", cfg.InputDir)

	client, closeCache, err := newRegistryClient(cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	providers, err := client.ListProviders(ctx)
	if err != nil {
		return fmt.Errorf("list providers: %w", err)
	}
	clients, err := client.ListClients(ctx)
	if err != nil {
		return fmt.Errorf("list clients: %w", err)
	}

	s := schema.Default()
	col := aggregate.NewCollection(s, logging.New("aggregate"))
	col.InitFromRegistry(providers, clients)

	start := time.Now()
	if err := aggregate.Run(ctx, files, s, col, cfg.Workers, logging.New("aggregate")); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("interrupted, no output written: %w", ctx.Err())
		}
		return err
	}
	logger.Info("aggregation complete", "files", len(files), "elapsed", time.Since(start))

	col.FilterActive()
	col.AddAggregates()
	col.Finalize()

	if err := output.Write(col, cfg.OutputDir, logging.New("output")); err != nil {
		return err
	}
	logger.Info("snapshot written", "dir", cfg.OutputDir)
	return nil
}
