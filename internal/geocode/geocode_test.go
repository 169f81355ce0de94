package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestCache_LoadLookupSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geocoded_cache.json")

	cache := LoadCache(path, nil)
	assert.Zero(t, cache.Len())

	cache.Put("100 Coors Blvd", "Albuquerque", "87121", Coordinates{Lat: 35.06, Lng: -106.71})
	require.NoError(t, cache.Save())

	reloaded := LoadCache(path, nil)
	require.Equal(t, 1, reloaded.Len())

	coords, ok := reloaded.Lookup("100 Coors Blvd", "Albuquerque", "87121")
	require.True(t, ok)
	assert.Equal(t, 35.06, coords.Lat)
	assert.Equal(t, -106.71, coords.Lng)
}

func TestCache_ZiplessFallbackKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"5 Mesa Rd, Santa Fe": {"lat": 35.68, "lng": -105.93}}`), 0o644))

	cache := LoadCache(path, nil)
	coords, ok := cache.Lookup("5 Mesa Rd", "Santa Fe", "87501")
	require.True(t, ok)
	assert.Equal(t, 35.68, coords.Lat)
}

func TestCache_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	cache := LoadCache(path, nil)
	assert.Zero(t, cache.Len())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "100 Coors Blvd, Albuquerque 87121", Key(" 100 Coors Blvd ", "Albuquerque", " 87121"))
	assert.Equal(t, "100 Coors Blvd, Albuquerque", Key("100 Coors Blvd", "Albuquerque", ""))
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		city     string
		zip      string
		expected string
	}{
		{"full address", "100 Coors Blvd", "Albuquerque", "87121", "100 Coors Blvd, Albuquerque, NM, 87121, USA"},
		{"zip digits only", "100 Coors Blvd", "Albuquerque", "87121-1234", "100 Coors Blvd, Albuquerque, NM, 871211234, USA"},
		{"missing zip", "5 Mesa Rd", "Santa Fe", "", "5 Mesa Rd, Santa Fe, NM, USA"},
		{"collapses whitespace", " 5   Mesa  Rd ", " Santa  Fe ", "", "5 Mesa Rd, Santa Fe, NM, USA"},
		{"missing address", "", "Taos", "87571", "Taos, NM, 87571, USA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildQuery(tt.address, tt.city, tt.zip))
		})
	}
}

func TestClient_Geocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "salespulse-geocoder/1.0 (contact: maps-contact@example.com)", r.Header.Get("User-Agent"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))

		switch r.URL.Query().Get("q") {
		case "100 Coors Blvd, Albuquerque, NM, 87121, USA":
			w.Write([]byte(`[{"lat": "35.0622", "lon": "-106.7155"}]`))
		default:
			w.Write([]byte(`[]`))
		}
	}))
	defer server.Close()

	client := NewClient(nil)
	client.baseURL = server.URL
	client.limiter = rate.NewLimiter(rate.Inf, 1)

	t.Run("match", func(t *testing.T) {
		coords, found, err := client.Geocode(context.Background(), "100 Coors Blvd, Albuquerque, NM, 87121, USA")
		require.NoError(t, err)
		require.True(t, found)
		assert.InDelta(t, 35.0622, coords.Lat, 1e-9)
		assert.InDelta(t, -106.7155, coords.Lng, 1e-9)
	})

	t.Run("no match is not an error", func(t *testing.T) {
		_, found, err := client.Geocode(context.Background(), "nowhere at all")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestClient_GeocodeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(nil)
	client.baseURL = server.URL
	client.limiter = rate.NewLimiter(rate.Inf, 1)

	_, _, err := client.Geocode(context.Background(), "anything")
	assert.Error(t, err)
}
