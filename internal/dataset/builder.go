// Package dataset assembles the consolidated dashboard document:
// per-location and per-company trend records, regional rollups, and
// the covering month list.
package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"salespulse/internal/geocode"
	"salespulse/internal/metrics"
	"salespulse/internal/normalize"
	"salespulse/internal/trends"
	"salespulse/pkg/contracts/domain"
)

// minRowsForTrend is the minimum number of raw rows an entity needs
// before it appears on the dashboard at all; below this the classifier
// could only ever report insufficient data.
const minRowsForTrend = 2

// Builder turns cleaned report rows into a Dataset. Classification of
// different entities is independent, so the builder fans out across a
// bounded worker group.
type Builder struct {
	logger         *slog.Logger
	cache          *geocode.Cache
	maxConcurrency int
	now            func() time.Time
}

// NewBuilder creates a dataset builder. cache may be nil, in which
// case location records carry no coordinates.
func NewBuilder(logger *slog.Logger, cache *geocode.Cache) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		logger:         logger,
		cache:          cache,
		maxConcurrency: 4,
		now:            time.Now,
	}
}

// SetMaxConcurrency bounds the classification worker group.
func (b *Builder) SetMaxConcurrency(n int) {
	if n > 0 {
		b.maxConcurrency = n
	}
}

// Build produces the full dashboard dataset from cleaned rows.
func (b *Builder) Build(ctx context.Context, rows []domain.SalesRow) (*Dataset, error) {
	start := time.Now()
	metrics.RowsIngested.Add(float64(len(rows)))

	b.logger.InfoContext(ctx, "building dashboard dataset", slog.Int("rows", len(rows)))

	locations, err := b.buildLocationTrends(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("build location trends: %w", err)
	}

	companies, err := b.buildCompanyTrends(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("build company trends: %w", err)
	}

	regions := append(normalize.AllRegions(), normalize.RegionOther)

	ds := &Dataset{
		GeneratedAt:   b.now().UTC(),
		MonthsCovered: monthsCovered(rows),
		Regions:       regions,
		Locations: LocationsSection{
			TotalDispensaries: len(locations),
			RegionalStats:     locationRegionalStats(regions, locations),
			Data:              locations,
		},
		Companies: CompaniesSection{
			TotalCompanies: len(companies),
			RegionalStats:  companyRegionalStats(regions, companies),
			Data:           companies,
		},
	}

	metrics.DatasetBuildSeconds.Observe(time.Since(start).Seconds())
	b.logger.InfoContext(ctx, "dataset built",
		slog.Int("locations", len(locations)),
		slog.Int("companies", len(companies)),
		slog.Int("months", len(ds.MonthsCovered)),
		slog.Duration("elapsed", time.Since(start)))
	return ds, nil
}

// buildLocationTrends classifies each (licensee, address) pair.
func (b *Builder) buildLocationTrends(ctx context.Context, rows []domain.SalesRow) ([]LocationTrend, error) {
	groups := trends.GroupByKey(rows, locationKey)

	// Licensees operating several addresses get city-qualified display
	// names so the dashboard can tell the locations apart.
	addressesPerLicensee := make(map[string]map[string]struct{})
	for _, row := range rows {
		set, ok := addressesPerLicensee[row.Licensee]
		if !ok {
			set = make(map[string]struct{})
			addressesPerLicensee[row.Licensee] = set
		}
		set[row.Address] = struct{}{}
	}

	keys := sortedKeys(groups)
	results := make([]*LocationTrend, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.maxConcurrency)
	var mu sync.Mutex

	for i, key := range keys {
		group := groups[key]
		if len(group) < minRowsForTrend {
			continue
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			trend := b.locationTrend(group, addressesPerLicensee)
			mu.Lock()
			results[i] = trend
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	trendsOut := make([]LocationTrend, 0, len(results))
	for _, t := range results {
		if t != nil {
			trendsOut = append(trendsOut, *t)
		}
	}
	return trendsOut, nil
}

// locationTrend classifies one location's rows and attaches display
// and map metadata from its most recent row.
func (b *Builder) locationTrend(group []domain.SalesRow, addressesPerLicensee map[string]map[string]struct{}) *LocationTrend {
	sort.SliceStable(group, func(i, j int) bool { return group[i].Month < group[j].Month })
	latest := group[len(group)-1]

	series := trends.AggregateMonthly(group)
	totals := trends.Totals(series)
	avg := trends.AverageMonthlySales(series)
	result := trends.ClassifyTotals(totals, avg)
	metrics.EntitiesClassified.WithLabelValues("location", string(result.Direction)).Inc()

	displayName := latest.Licensee
	if len(addressesPerLicensee[latest.Licensee]) > 1 {
		displayName = fmt.Sprintf("%s - %s", latest.Licensee, latest.City)
	}

	trend := &LocationTrend{
		Licensee:        displayName,
		City:            latest.City,
		Region:          normalize.RegionForCity(latest.City),
		Address:         latest.Address,
		Zip:             latest.Zip,
		TrendDirection:  result.Direction,
		TrendConfidence: result.Confidence,
		AvgMonthlySales: avg,
		TotalMonths:     len(series),
		LatestSales:     totals[len(totals)-1],
		FirstSales:      totals[0],
		GrowthRate:      result.GrowthRatePct,
		MonthlyData:     series,
	}

	if b.cache != nil {
		if coords, ok := b.cache.Lookup(latest.Address, latest.City, latest.Zip); ok {
			lat, lng := coords.Lat, coords.Lng
			trend.Latitude = &lat
			trend.Longitude = &lng
		}
	}
	return trend
}

// buildCompanyTrends classifies each normalized company across all of
// its locations.
func (b *Builder) buildCompanyTrends(ctx context.Context, rows []domain.SalesRow) ([]CompanyTrend, error) {
	groups := trends.GroupByKey(rows, func(r domain.SalesRow) string {
		return normalize.CompanyName(r.Licensee)
	})

	keys := sortedKeys(groups)
	results := make([]*CompanyTrend, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.maxConcurrency)
	var mu sync.Mutex

	for i, key := range keys {
		group := groups[key]
		if len(group) < minRowsForTrend {
			continue
		}
		i, name := i, key
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			trend := b.companyTrend(name, group)
			mu.Lock()
			results[i] = trend
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	trendsOut := make([]CompanyTrend, 0, len(results))
	for _, t := range results {
		if t != nil {
			trendsOut = append(trendsOut, *t)
		}
	}
	return trendsOut, nil
}

// companyTrend classifies one normalized company's combined rows.
func (b *Builder) companyTrend(name string, group []domain.SalesRow) *CompanyTrend {
	sort.SliceStable(group, func(i, j int) bool { return group[i].Month < group[j].Month })

	series := trends.AggregateMonthly(group)
	totals := trends.Totals(series)
	avg := trends.AverageMonthlySales(series)
	result := trends.ClassifyTotals(totals, avg)
	metrics.EntitiesClassified.WithLabelValues("company", string(result.Direction)).Inc()

	addresses := uniqueSorted(group, func(r domain.SalesRow) string { return r.Address })
	cities := uniqueSorted(group, func(r domain.SalesRow) string { return r.City })
	licensees := uniqueSorted(group, func(r domain.SalesRow) string { return r.Licensee })
	primaryCity := mostFrequentCity(group)

	locationCount := len(uniqueSorted(group, func(r domain.SalesRow) string {
		return r.Address + "\x1f" + r.City
	}))

	return &CompanyTrend{
		Licensee:              name,
		CompanyName:           name,
		OriginalLicenseeNames: licensees,
		LocationCount:         locationCount,
		Cities:                cities,
		PrimaryCity:           primaryCity,
		Region:                normalize.RegionForCity(primaryCity),
		Addresses:             addresses,
		TrendDirection:        result.Direction,
		TrendConfidence:       result.Confidence,
		AvgMonthlySales:       avg,
		TotalMonths:           len(series),
		LatestSales:           totals[len(totals)-1],
		FirstSales:            totals[0],
		GrowthRate:            result.GrowthRatePct,
		MonthlyData:           series,
	}
}

func locationKey(r domain.SalesRow) string {
	return r.Licensee + "\x1f" + r.Address
}

// monthsCovered lists the distinct months present in the rows, sorted.
func monthsCovered(rows []domain.SalesRow) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		seen[row.Month] = struct{}{}
	}
	months := make([]string, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Strings(months)
	return months
}

func locationRegionalStats(regions []string, locations []LocationTrend) map[string]RegionalStats {
	stats := make(map[string]RegionalStats)
	for _, region := range regions {
		var s RegionalStats
		for _, loc := range locations {
			if loc.Region != region {
				continue
			}
			s.TotalEntities++
			s.TotalMonthlySales += loc.AvgMonthlySales
			switch loc.TrendDirection {
			case domain.DirectionUp:
				s.TrendingUp++
			case domain.DirectionDown:
				s.TrendingDown++
			case domain.DirectionStable:
				s.Stable++
			}
		}
		if s.TotalEntities > 0 {
			stats[region] = s
		}
	}
	return stats
}

func companyRegionalStats(regions []string, companies []CompanyTrend) map[string]RegionalStats {
	stats := make(map[string]RegionalStats)
	for _, region := range regions {
		var s RegionalStats
		for _, c := range companies {
			if c.Region != region {
				continue
			}
			s.TotalEntities++
			s.TotalMonthlySales += c.AvgMonthlySales
			switch c.TrendDirection {
			case domain.DirectionUp:
				s.TrendingUp++
			case domain.DirectionDown:
				s.TrendingDown++
			case domain.DirectionStable:
				s.Stable++
			}
		}
		if s.TotalEntities > 0 {
			stats[region] = s
		}
	}
	return stats
}

func sortedKeys(groups map[string][]domain.SalesRow) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func uniqueSorted(rows []domain.SalesRow, field func(domain.SalesRow) string) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		v := field(row)
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// mostFrequentCity picks the company's primary city: highest row
// count, ties broken alphabetically.
func mostFrequentCity(rows []domain.SalesRow) string {
	counts := make(map[string]int)
	for _, row := range rows {
		if row.City != "" {
			counts[row.City]++
		}
	}
	best := ""
	bestCount := 0
	for city, count := range counts {
		if count > bestCount || (count == bestCount && (best == "" || city < best)) {
			best = city
			bestCount = count
		}
	}
	return best
}
