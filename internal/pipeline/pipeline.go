// Package pipeline runs the end-to-end batch flow: discover report
// files, parse and clean rows, enrich the geocode cache, build the
// dashboard dataset, and write it out.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"salespulse/internal/config"
	"salespulse/internal/dataset"
	"salespulse/internal/geocode"
	"salespulse/internal/ingest"
	"salespulse/pkg/contracts/domain"
)

// Runner executes the batch pipeline.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	// geocoder fills cache misses when geocoding is online; nil keeps
	// the pipeline fully offline.
	geocoder *geocode.Client
}

// New creates a pipeline runner. An online Nominatim client is only
// constructed when the configuration enables it.
func New(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{cfg: cfg, logger: logger}
	if cfg.Geocode.Online {
		r.geocoder = geocode.NewClient(logger)
	}
	return r
}

// Run executes the pipeline and writes the dataset to the configured
// output file. The built dataset is returned for callers that want to
// log or serve it directly.
func (r *Runner) Run(ctx context.Context) (*dataset.Dataset, error) {
	rows, err := r.ingestRows()
	if err != nil {
		return nil, err
	}

	cache := geocode.LoadCache(r.cfg.Geocode.CacheFile, r.logger)
	if cache.Len() > 0 {
		r.logger.Info("loaded geocode cache", slog.Int("entries", cache.Len()))
	}
	if r.geocoder != nil {
		r.fillGeocodeCache(ctx, cache, rows)
	}

	builder := dataset.NewBuilder(r.logger, cache)
	builder.SetMaxConcurrency(r.cfg.Dataset.MaxConcurrency)

	ds, err := builder.Build(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("build dataset: %w", err)
	}

	if err := dataset.WriteJSON(r.cfg.Dataset.OutputFile, ds); err != nil {
		return nil, fmt.Errorf("write dataset: %w", err)
	}
	r.logger.Info("dataset written", slog.String("path", r.cfg.Dataset.OutputFile))

	r.logTrendSummary(ds)
	return ds, nil
}

// ingestRows discovers and parses every report file. A file that
// fails to parse is logged and skipped; one bad month must not sink
// the whole dashboard.
func (r *Runner) ingestRows() ([]domain.SalesRow, error) {
	files, err := ingest.NewDiscovery("").FindReportFiles(r.cfg.Ingest.ReportsDir)
	if err != nil {
		return nil, fmt.Errorf("discover report files: %w", err)
	}
	r.logger.Info("discovered report files",
		slog.String("dir", r.cfg.Ingest.ReportsDir),
		slog.Int("count", len(files)))

	parser := ingest.NewParser(r.logger, r.cfg.Ingest.DefaultYear)

	var rows []domain.SalesRow
	for _, file := range files {
		fileRows, err := parser.ParseFile(file.Path)
		if err != nil {
			r.logger.Warn("skipping report file",
				slog.String("file", file.Name),
				slog.String("error", err.Error()))
			continue
		}
		rows = append(rows, fileRows...)
	}
	return rows, nil
}

// fillGeocodeCache resolves addresses missing from the cache through
// Nominatim and persists the grown cache. Lookup failures degrade to
// locations without coordinates.
func (r *Runner) fillGeocodeCache(ctx context.Context, cache *geocode.Cache, rows []domain.SalesRow) {
	type address struct{ street, city, zip string }
	seen := make(map[address]struct{})
	for _, row := range rows {
		if row.Address == "" {
			continue
		}
		seen[address{row.Address, row.City, row.Zip}] = struct{}{}
	}

	resolved := 0
	for addr := range seen {
		if _, ok := cache.Lookup(addr.street, addr.city, addr.zip); ok {
			continue
		}
		coords, found, err := r.geocoder.Geocode(ctx, geocode.BuildQuery(addr.street, addr.city, addr.zip))
		if err != nil {
			r.logger.Warn("geocoding failed",
				slog.String("address", addr.street),
				slog.String("error", err.Error()))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if !found {
			continue
		}
		cache.Put(addr.street, addr.city, addr.zip, coords)
		resolved++
	}

	if resolved > 0 {
		if err := cache.Save(); err != nil {
			r.logger.Warn("failed to persist geocode cache", slog.String("error", err.Error()))
		} else {
			r.logger.Info("geocode cache updated", slog.Int("new_entries", resolved))
		}
	}
}

// logTrendSummary mirrors the processor's end-of-run report: how many
// entities landed in each direction bucket.
func (r *Runner) logTrendSummary(ds *dataset.Dataset) {
	locationCounts := make(map[domain.Direction]int)
	for _, loc := range ds.Locations.Data {
		locationCounts[loc.TrendDirection]++
	}
	companyCounts := make(map[domain.Direction]int)
	for _, c := range ds.Companies.Data {
		companyCounts[c.TrendDirection]++
	}

	r.logger.Info("trend summary",
		slog.Int("locations", ds.Locations.TotalDispensaries),
		slog.Int("companies", ds.Companies.TotalCompanies),
		slog.Any("location_trends", directionCounts(locationCounts)),
		slog.Any("company_trends", directionCounts(companyCounts)))
}

func directionCounts(counts map[domain.Direction]int) map[string]int {
	out := make(map[string]int, len(counts))
	for direction, count := range counts {
		out[string(direction)] = count
	}
	return out
}
