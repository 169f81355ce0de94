package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/config"
	"salespulse/internal/dataset"
	"salespulse/pkg/contracts/domain"
)

func serverConfig() config.ServerConfig {
	return config.ServerConfig{
		Port:           8080,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
}

func writeFixtureDataset(t *testing.T) string {
	t.Helper()

	rows := []domain.SalesRow{}
	months := []string{"2025-01", "2025-02", "2025-03", "2025-04", "2025-05", "2025-06"}
	for i, total := range []float64{100, 100, 100, 200, 200, 200} {
		rows = append(rows, domain.SalesRow{
			Licensee: "OCC ABQ LLC - COORS BLVD RETAIL", Address: "100 Coors Blvd",
			City: "Albuquerque", Zip: "87121", Month: months[i], TotalSales: total,
		})
	}

	builder := dataset.NewBuilder(nil, nil)
	ds, err := builder.Build(context.Background(), rows)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dispensary_data.json")
	require.NoError(t, dataset.WriteJSON(path, ds))
	return path
}

func TestRouter_Endpoints(t *testing.T) {
	path := writeFixtureDataset(t)
	router := NewRouter(serverConfig(), NewFileStore(path, nil), nil)
	server := httptest.NewServer(router)
	defer server.Close()

	t.Run("dashboard", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/dashboard")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

		var ds dataset.Dataset
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&ds))
		assert.Equal(t, 1, ds.Locations.TotalDispensaries)
		require.Len(t, ds.Locations.Data, 1)
		assert.Equal(t, domain.DirectionStrongUp, ds.Locations.Data[0].TrendDirection)
	})

	t.Run("locations", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/locations")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var section dataset.LocationsSection
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&section))
		assert.Equal(t, 1, section.TotalDispensaries)
	})

	t.Run("companies", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/companies")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var section dataset.CompaniesSection
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&section))
		assert.Equal(t, 1, section.TotalCompanies)
		require.Len(t, section.Data, 1)
		assert.Equal(t, "OCC ABQ LLC", section.Data[0].CompanyName)
	})

	t.Run("regions", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/regions")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Regions []string `json:"regions"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Contains(t, body.Regions, "Central New Mexico")
		assert.Contains(t, body.Regions, "Other")
	})

	t.Run("healthz", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestRouter_DatasetMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"), nil)
	router := NewRouter(serverConfig(), store, nil)
	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/dashboard")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body struct {
		ErrorCode string `json:"error_code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "DATASET_NOT_READY", body.ErrorCode)
}

func TestFileStore_ReloadsOnChange(t *testing.T) {
	path := writeFixtureDataset(t)
	store := NewFileStore(path, nil)

	first, err := store.Dataset()
	require.NoError(t, err)
	require.Equal(t, 1, first.Locations.TotalDispensaries)

	// Rewrite with an empty dataset and bump mtime past fs resolution.
	empty, err := dataset.NewBuilder(nil, nil).Build(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, dataset.WriteJSON(path, empty))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	second, err := store.Dataset()
	require.NoError(t, err)
	assert.Zero(t, second.Locations.TotalDispensaries)
}

func TestFileStore_CachesBetweenReads(t *testing.T) {
	path := writeFixtureDataset(t)
	store := NewFileStore(path, nil)

	first, err := store.Dataset()
	require.NoError(t, err)
	second, err := store.Dataset()
	require.NoError(t, err)

	assert.Same(t, first, second)
}
