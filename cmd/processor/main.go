// Command processor runs the batch pipeline: it reads the monthly
// sales report files, classifies every location and company trend, and
// writes the consolidated dashboard dataset.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"salespulse/internal/config"
	"salespulse/internal/infrastructure"
	"salespulse/internal/pipeline"
)

func main() {
	configFile := flag.String("config", "salespulse.yml", "path to config file (optional)")
	reportsDir := flag.String("in", "", "input directory for report files (overrides config)")
	outputFile := flag.String("out", "", "output path for the dashboard dataset (overrides config)")
	cacheFile := flag.String("cache", "", "path to the geocode cache file (overrides config)")
	online := flag.Bool("geocode-online", false, "resolve uncached addresses via Nominatim")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *reportsDir != "" {
		cfg.Ingest.ReportsDir = *reportsDir
	}
	if *outputFile != "" {
		cfg.Dataset.OutputFile = *outputFile
	}
	if *cacheFile != "" {
		cfg.Geocode.CacheFile = *cacheFile
	}
	if *online {
		cfg.Geocode.Online = true
	}

	logger := infrastructure.NewLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := pipeline.New(cfg, logger).Run(ctx); err != nil {
		logger.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
}
