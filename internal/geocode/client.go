package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org/search"
	defaultUserAgent = "salespulse-geocoder/1.0 (contact: maps-contact@example.com)"
	requestTimeout   = 15 * time.Second
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// Client queries the Nominatim search API. Nominatim's usage policy
// caps anonymous clients at one request per second, enforced here with
// a rate limiter rather than sleeps so callers can cancel through ctx.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
	logger     *slog.Logger
}

// NewClient creates a Nominatim client with the policy-compliant
// 1 req/s limit.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		logger:     logger,
	}
}

// BuildQuery normalizes an address into a Nominatim free-form query:
// "ADDRESS, CITY, NM, ZIPDIGITS, USA" with collapsed whitespace and
// empty parts dropped.
func BuildQuery(address, city, zip string) string {
	clean := func(s string) string {
		return whitespacePattern.ReplaceAllString(strings.TrimSpace(s), " ")
	}

	var digits strings.Builder
	for _, ch := range zip {
		if ch >= '0' && ch <= '9' {
			digits.WriteRune(ch)
		}
	}

	parts := make([]string, 0, 5)
	for _, part := range []string{clean(address), clean(city), "NM"} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if digits.Len() > 0 {
		parts = append(parts, digits.String())
	}
	parts = append(parts, "USA")
	return strings.Join(parts, ", ")
}

// nominatimResult is the subset of the search response we read.
// Nominatim returns coordinates as strings.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves a free-form query to coordinates. found is false
// when Nominatim has no match; errors cover transport and decoding
// failures only.
func (c *Client) Geocode(ctx context.Context, query string) (coords Coordinates, found bool, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Coordinates{}, false, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{
		"q":              {query},
		"format":         {"json"},
		"addressdetails": {"0"},
		"limit":          {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, false, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Coordinates{}, false, fmt.Errorf("decode nominatim response: %w", err)
	}
	if len(results) == 0 {
		c.logger.Debug("no geocoding match", slog.String("query", query))
		return Coordinates{}, false, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("parse latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("parse longitude: %w", err)
	}
	return Coordinates{Lat: lat, Lng: lng}, true, nil
}
