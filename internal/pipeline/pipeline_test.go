package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/config"
	"salespulse/internal/dataset"
	"salespulse/pkg/contracts/domain"
)

// writeMonthlyCSV writes one report file for the given month name with
// a header row and the provided data lines.
func writeMonthlyCSV(t *testing.T, dir, monthName string, lines []string) {
	t.Helper()
	content := "Licensee,Address,City,Zip,Medical Sales,Adult-Use Sales,Total Sales\n"
	for _, line := range lines {
		content += line + "\n"
	}
	path := filepath.Join(dir, "Sales "+monthName+" 2025.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testConfig(t *testing.T, reportsDir string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Ingest.ReportsDir = reportsDir
	cfg.Geocode.CacheFile = filepath.Join(t.TempDir(), "geocoded_cache.json")
	cfg.Dataset.OutputFile = filepath.Join(t.TempDir(), "dispensary_data.json")
	return &cfg
}

func TestRunner_Run_EndToEnd(t *testing.T) {
	reportsDir := t.TempDir()
	totals := map[string]string{
		"January": "$100.00", "February": "$100.00", "March": "$100.00",
		"April": "$200.00", "May": "$200.00", "June": "$200.00",
	}
	for month, total := range totals {
		writeMonthlyCSV(t, reportsDir, month, []string{
			`OCC ABQ LLC - COORS BLVD RETAIL,100 Coors Blvd,Albuquerque,87121,,"` + total + `","` + total + `"`,
			`STATEWIDE TOTAL,,,,,,"$99,999.00"`,
		})
	}
	// A file the parser cannot date; the run must survive it.
	require.NoError(t, os.WriteFile(filepath.Join(reportsDir, "summary.csv"), []byte("junk\n"), 0o644))

	cfg := testConfig(t, reportsDir)
	ds, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, ds.Locations.TotalDispensaries)
	loc := ds.Locations.Data[0]
	assert.Equal(t, domain.DirectionStrongUp, loc.TrendDirection)
	assert.Equal(t, 6, loc.TotalMonths)
	assert.Equal(t, []string{"2025-01", "2025-02", "2025-03", "2025-04", "2025-05", "2025-06"}, ds.MonthsCovered)

	// The dataset landed on disk and round-trips.
	written, err := dataset.ReadJSON(cfg.Dataset.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, ds.Locations.TotalDispensaries, written.Locations.TotalDispensaries)
}

func TestRunner_Run_UsesGeocodeCache(t *testing.T) {
	reportsDir := t.TempDir()
	writeMonthlyCSV(t, reportsDir, "January", []string{
		`MESA ORGANICS,5 Mesa Rd,Santa Fe,87501,,,"$500.00"`,
	})
	writeMonthlyCSV(t, reportsDir, "February", []string{
		`MESA ORGANICS,5 Mesa Rd,Santa Fe,87501,,,"$600.00"`,
	})

	cfg := testConfig(t, reportsDir)
	require.NoError(t, os.WriteFile(cfg.Geocode.CacheFile,
		[]byte(`{"5 Mesa Rd, Santa Fe 87501": {"lat": 35.68, "lng": -105.93}}`), 0o644))

	ds, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, ds.Locations.TotalDispensaries)
	loc := ds.Locations.Data[0]
	// Two months is below the classification floor but still listed.
	assert.Equal(t, domain.DirectionInsufficientData, loc.TrendDirection)
	require.NotNil(t, loc.Latitude)
	assert.InDelta(t, 35.68, *loc.Latitude, 1e-9)
}

func TestRunner_Run_MissingReportsDir(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "nope"))
	_, err := New(cfg, nil).Run(context.Background())
	assert.Error(t, err)
}

func TestRunner_Run_EmptyReportsDir(t *testing.T) {
	cfg := testConfig(t, t.TempDir())
	ds, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, ds.Locations.TotalDispensaries)
}
