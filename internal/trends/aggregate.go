package trends

import (
	"sort"

	"salespulse/pkg/contracts/domain"
)

// GroupByKey partitions raw rows by an arbitrary entity key. Rows for
// which keyFn returns an empty string are dropped; the surrounding
// ingestion layer has already excluded blank licensees, so an empty
// key here means the caller's key function chose to skip the row.
func GroupByKey(rows []domain.SalesRow, keyFn func(domain.SalesRow) string) map[string][]domain.SalesRow {
	groups := make(map[string][]domain.SalesRow)
	for _, row := range rows {
		key := keyFn(row)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], row)
	}
	return groups
}

// AggregateMonthly collapses one entity's raw rows into a single
// MonthlyRecord per distinct month, summing each sales figure across
// rows that share the month, and returns the records sorted ascending
// by month token. Months with no contributing rows produce no record.
//
// The operation is idempotent: feeding an already-aggregated series
// (one row per month) back through yields the same series.
func AggregateMonthly(rows []domain.SalesRow) []domain.MonthlyRecord {
	byMonth := make(map[string]*domain.MonthlyRecord)
	for _, row := range rows {
		rec, ok := byMonth[row.Month]
		if !ok {
			rec = &domain.MonthlyRecord{Month: row.Month}
			byMonth[row.Month] = rec
		}
		rec.TotalSales += row.TotalSales
		rec.MedicalSales += row.MedicalSales
		rec.AdultSales += row.AdultSales
	}

	series := make([]domain.MonthlyRecord, 0, len(byMonth))
	for _, rec := range byMonth {
		series = append(series, *rec)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month < series[j].Month
	})
	return series
}

// Totals extracts the total_sales column of a series in order.
func Totals(series []domain.MonthlyRecord) []float64 {
	totals := make([]float64, len(series))
	for i, rec := range series {
		totals[i] = rec.TotalSales
	}
	return totals
}

// AverageMonthlySales is the arithmetic mean of a series' totals, the
// volume figure the classifier's stability brackets key off.
func AverageMonthlySales(series []domain.MonthlyRecord) float64 {
	return mean(Totals(series))
}
