package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cleanbot/internal/config"
	"cleanbot/internal/history"
	"cleanbot/internal/metrics"
	"cleanbot/internal/metrics/prompush"
	"cleanbot/internal/report"
	"cleanbot/internal/server"
)

func serveCmd() *cobra.Command {
	var (
		cfgPath string
		addr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the cleaning HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "YAML config path")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, cfg config.Config) error {
	log := slog.Default()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Backend == "pushgateway" {
		job := cfg.Metrics.Job
		if job == "" {
			job = "cleanbot"
		}
		b, err := prompush.NewBackend(job, cfg.Metrics.PushgatewayURL)
		if err != nil {
			log.Warn("metrics backend init failed, metrics disabled", "err", err)
		} else {
			metrics.SetBackend(b)
			defer func() {
				if err := metrics.Flush(); err != nil {
					log.Warn("metrics flush failed", "err", err)
				}
			}()
		}
	}

	var opts []server.Option

	if cfg.Report.Provider != "" {
		gen, err := report.NewAIGenerator(report.AIConfig{
			Provider: cfg.Report.Provider,
			Model:    cfg.Report.Model,
			APIKey:   cfg.Report.APIKey,
			BaseURL:  cfg.Report.BaseURL,
		})
		if err != nil {
			return fmt.Errorf("report generator: %w", err)
		}
		opts = append(opts, server.WithGenerator(gen))
	}

	if cfg.HistoryDB != "" {
		store, err := history.Open(ctx, cfg.HistoryDB)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
		opts = append(opts, server.WithHistory(store))
	}

	return server.New(cfg, log, opts...).ListenAndServe(ctx)
}
