// Package geocode resolves dispensary street addresses to map
// coordinates. Lookups go through a JSON file cache first; misses can
// optionally be filled from the OpenStreetMap Nominatim API under a
// polite rate limit.
package geocode

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Coordinates is a geocoded point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Cache is a file-backed map from address keys to coordinates. The
// on-disk format matches the dashboard's geocoded_cache.json: a single
// JSON object keyed by "ADDRESS, CITY ZIP".
type Cache struct {
	path    string
	entries map[string]Coordinates
	logger  *slog.Logger
}

// LoadCache reads the cache file at path. A missing or unreadable file
// yields an empty cache rather than an error; geocoding is an optional
// enrichment and the pipeline must run without it.
func LoadCache(path string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	cache := &Cache{path: path, entries: make(map[string]Coordinates), logger: logger}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read geocode cache, starting empty",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
		return cache
	}

	if err := json.Unmarshal(data, &cache.entries); err != nil {
		logger.Warn("geocode cache is corrupt, starting empty",
			slog.String("path", path),
			slog.String("error", err.Error()))
		cache.entries = make(map[string]Coordinates)
	}
	return cache
}

// Key builds the canonical cache key for an address.
func Key(address, city, zip string) string {
	key := fmt.Sprintf("%s, %s %s", strings.TrimSpace(address), strings.TrimSpace(city), strings.TrimSpace(zip))
	return strings.TrimSpace(key)
}

// Lookup finds cached coordinates for an address, falling back to the
// zip-less key older cache files used.
func (c *Cache) Lookup(address, city, zip string) (Coordinates, bool) {
	if coords, ok := c.entries[Key(address, city, zip)]; ok {
		return coords, true
	}
	coords, ok := c.entries[fmt.Sprintf("%s, %s", strings.TrimSpace(address), strings.TrimSpace(city))]
	return coords, ok
}

// Put stores coordinates under the canonical key for an address.
func (c *Cache) Put(address, city, zip string, coords Coordinates) {
	c.entries[Key(address, city, zip)] = coords
}

// Len reports the number of cached addresses.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Save writes the cache back to its file, creating parent directories
// as needed.
func (c *Cache) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode geocode cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write geocode cache: %w", err)
	}
	return nil
}
