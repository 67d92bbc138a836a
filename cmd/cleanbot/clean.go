package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cleanbot/internal/export"
	"cleanbot/internal/history"
	"cleanbot/internal/metrics"
	"cleanbot/internal/metrics/prompush"
	"cleanbot/internal/pipeline"
	"cleanbot/internal/report"
	"cleanbot/internal/script"
)

// cleanOptions carries the clean subcommand flags.
type cleanOptions struct {
	jobs           int
	writeReport    bool
	provider       string
	model          string
	pgDSN          string
	pgTable        string
	historyDB      string
	metricsBackend string
	pushgatewayURL string
}

func cleanCmd() *cobra.Command {
	opts := cleanOptions{jobs: runtime.NumCPU()}

	cmd := &cobra.Command{
		Use:   "clean FILE...",
		Short: "Clean one or more CSV files",
		Long: "Clean runs the pipeline over each FILE and writes, next to it,\n" +
			"NAME.cleaned.csv and NAME_clean.py (a pandas script that replays\n" +
			"the same cleaning).",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd.Context(), opts, args)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "files cleaned concurrently")
	f.BoolVar(&opts.writeReport, "report", false, "also write NAME_report.md")
	f.StringVar(&opts.provider, "provider", "", "narrative provider for --report (openai, groq; empty = deterministic report)")
	f.StringVar(&opts.model, "model", "", "override the provider's default model")
	f.StringVar(&opts.pgDSN, "pg-dsn", "", "export cleaned data to this PostgreSQL DSN")
	f.StringVar(&opts.pgTable, "pg-table", "", "target table for --pg-dsn (default: file name)")
	f.StringVar(&opts.historyDB, "history-db", "", "record runs in this SQLite database")
	f.StringVar(&opts.metricsBackend, "metrics-backend", "", "metrics backend (pushgateway, none)")
	f.StringVar(&opts.pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	return cmd
}

func runClean(ctx context.Context, opts cleanOptions, files []string) error {
	log := slog.Default()

	setupMetrics(log, opts.metricsBackend, opts.pushgatewayURL)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics flush failed", "err", err)
		}
	}()

	var gen report.Generator
	if opts.writeReport && opts.provider != "" {
		var err error
		gen, err = report.NewAIGenerator(report.AIConfig{
			Provider: opts.provider,
			Model:    opts.model,
			APIKey:   apiKeyFromEnv(opts.provider),
		})
		if err != nil {
			return fmt.Errorf("report generator: %w", err)
		}
	}

	var store *history.Store
	if opts.historyDB != "" {
		var err error
		store, err = history.Open(ctx, opts.historyDB)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
	}

	if opts.jobs < 1 {
		opts.jobs = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs)
	for _, path := range files {
		g.Go(func() error {
			return cleanFile(ctx, log, opts, gen, store, path)
		})
	}
	return g.Wait()
}

// cleanFile runs the pipeline over one file and writes its outputs.
func cleanFile(ctx context.Context, log *slog.Logger, opts cleanOptions, gen report.Generator, store *history.Store, path string) error {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	res, err := pipeline.New().Run(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("clean %s: %w", path, err)
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))

	cleaned, err := res.Cleaned.MarshalCSV()
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(base+".cleaned.csv", cleaned, 0o644); err != nil {
		return err
	}

	replay, err := script.Render(res.Steps, res.Cleaned.Columns)
	if err != nil {
		return fmt.Errorf("render script for %s: %w", path, err)
	}
	if err := os.WriteFile(base+"_clean.py", replay, 0o644); err != nil {
		return err
	}

	if opts.writeReport {
		narrative := report.Generate(ctx, gen, report.DefaultTimeout, report.Input{
			Original: report.Stats{
				Rows:         res.Summary.OriginalRows,
				Columns:      res.Summary.Columns,
				MissingTotal: res.Original.MissingTotal(),
			},
			Cleaned: report.Stats{
				Rows:         res.Summary.CleanedRows,
				Columns:      res.Summary.Columns,
				MissingTotal: res.Cleaned.MissingTotal(),
			},
			Columns: res.Cleaned.Columns,
			Steps:   res.Steps,
			Summary: res.Summary,
		})
		if err := os.WriteFile(base+"_report.md", []byte(narrative), 0o644); err != nil {
			return err
		}
	}

	if opts.pgDSN != "" {
		table := opts.pgTable
		if table == "" {
			table = filepath.Base(base)
		}
		n, err := export.ToPostgres(ctx, export.Config{DSN: opts.pgDSN, Table: table}, res.Cleaned)
		if err != nil {
			return fmt.Errorf("export %s: %w", path, err)
		}
		log.Info("exported", "file", path, "table", table, "rows", n)
	}

	if store != nil {
		if err := store.Record(ctx, filepath.Base(path), res.Summary); err != nil {
			log.Warn("history record failed", "file", path, "err", err)
		}
	}

	log.Info("cleaned",
		"file", path,
		"rows_in", res.Summary.OriginalRows,
		"rows_out", res.Summary.CleanedRows,
		"duration", time.Since(start).Truncate(time.Millisecond))
	return nil
}

// setupMetrics installs the metrics backend: flag → env → nop.
func setupMetrics(log *slog.Logger, backend, gwURL string) {
	if backend == "" {
		backend = os.Getenv("METRICS_BACKEND")
	}
	switch backend {
	case "pushgateway":
		// Gateway URL precedence: flag → env → default.
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend("cleanbot", gwURL)
		if err != nil {
			log.Warn("metrics backend init failed, metrics disabled", "err", err)
			return
		}
		metrics.SetBackend(b)
		log.Debug("metrics enabled", "backend", backend, "url", gwURL)
	case "", "none":
		// nop backend remains
	default:
		log.Warn("unknown metrics backend, metrics disabled", "backend", backend)
	}
}

// apiKeyFromEnv mirrors the server-side key lookup for the CLI.
func apiKeyFromEnv(provider string) string {
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "groq":
		return os.Getenv("GROQ_API_KEY")
	}
	return ""
}
