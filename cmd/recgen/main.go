package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/dvloznov/recgen/internal/config"
	"github.com/dvloznov/recgen/internal/logger"
	"github.com/dvloznov/recgen/internal/metrics"
	"github.com/dvloznov/recgen/internal/pipeline"
	"github.com/dvloznov/recgen/internal/render"
	"github.com/dvloznov/recgen/internal/runs"
	"github.com/dvloznov/recgen/internal/runs/inmemory"
	"github.com/rs/zerolog"
)

func main() {
	log := logger.New()

	cfg, err := loadConfig(os.Args[1:], flag.ExitOnError, os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	log = logger.NewWithLevel(level)

	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}

	table, err := cfg.Table()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	m := metrics.NewPrometheusMetrics()
	store := inmemory.NewStore()
	runner, err := pipeline.NewRunner(pipeline.Options{
		Counterparties:  cfg.Counterparties,
		MaxTransactions: cfg.MaxTransactions,
		Table:           table,
		Currency:        cfg.Currency,
		OutputDir:       cfg.OutputDir,
		Settings: render.Settings{
			BookingSystem:      cfg.Render.BookingSystem,
			LegalEntity:        cfg.Render.LegalEntity,
			StatementReference: cfg.Render.StatementReference,
		},
		Seed:   cfg.Seed,
		XLSX:   cfg.XLSX,
		Schema: cfg.Schema,
	}, m, store)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.OutputDir).Msg("Failed to create output directory")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Int("counterparties", cfg.Counterparties).
		Int("max_transactions", cfg.MaxTransactions).
		Int("days", cfg.Days).
		Uint64("seed", cfg.Seed).
		Int64("predicted_volume", runner.Plan().TotalVolume()).
		Str("output_dir", cfg.OutputDir).
		Msg("Starting generation")

	for day := 1; day <= cfg.Days; day++ {
		date, err := cfg.Date(day)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid configuration")
		}
		if _, err := runner.RunDay(ctx, day, date); err != nil {
			writeMetrics(log, m, cfg.MetricsFile)
			log.Fatal().Err(err).Int("day", day).Msg("Generation failed")
		}
	}

	summarize(ctx, log, store)
	writeMetrics(log, m, cfg.MetricsFile)
}

// loadConfig layers defaults, the optional -config file and the flags that
// were set explicitly, then validates the result.
func loadConfig(args []string, handling flag.ErrorHandling, output io.Writer) (config.Config, error) {
	fs := flag.NewFlagSet("recgen", handling)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: recgen -c <counterparties> -t <max transactions> [-d <days>] [options]\n\n")
		fmt.Fprintf(fs.Output(), "Generates cash accounts, a reconciliation ledger and one MT940 statement per\n")
		fmt.Fprintf(fs.Output(), "counterparty for each business day.\n\nOptions:\n")
		fs.PrintDefaults()
	}

	def := config.Default()
	var (
		configPath  = fs.String("config", "", "YAML configuration file")
		c           = fs.Int("c", 0, "number of counterparties (multiple of 100)")
		t           = fs.Int("t", 0, "max transactions per counterparty (multiple of 100)")
		d           = fs.Int("d", def.Days, "number of business days to generate")
		out         = fs.String("out", def.OutputDir, "output directory")
		seed        = fs.Uint64("seed", 0, "random seed (0 draws one)")
		xlsx        = fs.Bool("xlsx", false, "also write the ledger as an XLSX workbook")
		schema      = fs.Bool("schema", false, "also write the BigQuery schema of the ledger")
		metricsFile = fs.String("metrics-file", "", "write Prometheus metrics to this textfile")
		logLevel    = fs.String("log-level", def.LogLevel, "log level (trace, debug, info, warn, error)")
	)
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}
	if fs.NArg() > 0 {
		return config.Config{}, fmt.Errorf("loadConfig: unexpected arguments %v", fs.Args())
	}

	cfg := def
	if *configPath != "" {
		if err := config.LoadFile(*configPath, &cfg); err != nil {
			return config.Config{}, fmt.Errorf("loadConfig: %w", err)
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "c":
			cfg.Counterparties = *c
		case "t":
			cfg.MaxTransactions = *t
		case "d":
			cfg.Days = *d
		case "out":
			cfg.OutputDir = *out
		case "seed":
			cfg.Seed = *seed
		case "xlsx":
			cfg.XLSX = *xlsx
		case "schema":
			cfg.Schema = *schema
		case "metrics-file":
			cfg.MetricsFile = *metricsFile
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("loadConfig: %w", err)
	}
	return cfg, nil
}

func summarize(ctx context.Context, log zerolog.Logger, store runs.Store) {
	all, err := store.ListRuns(ctx, runs.Filter{})
	if err != nil {
		log.Error().Err(err).Msg("Failed to list runs")
		return
	}
	files, mismatched := 0, 0
	for _, r := range all {
		files += len(r.Files)
		if r.Outcome != "" && r.Outcome != "valid" {
			mismatched++
		}
	}
	log.Info().
		Int("days", len(all)).
		Int("files", files).
		Int("mismatched_days", mismatched).
		Msg("Generation completed")
}

func writeMetrics(log zerolog.Logger, m *metrics.PrometheusMetrics, path string) {
	if path == "" {
		return
	}
	if err := m.WriteTextfile(path); err != nil {
		log.Error().Err(err).Msg("Failed to write metrics")
		return
	}
	log.Debug().Str("path", path).Msg("Metrics written")
}
