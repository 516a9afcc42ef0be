// Package geo geocodes event addresses with OpenStreetMap Nominatim.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a single Nominatim request.
const DefaultTimeout = 10 * time.Second

// ErrNotFound is returned when Nominatim has no match for an address.
var ErrNotFound = errors.New("address not found")

// Location is a geocoded point.
type Location struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

// DefaultLocation is used when an address cannot be resolved (Torino).
var DefaultLocation = Location{Lat: 45.0703, Lon: 7.6869, DisplayName: "Torino, Piemonte, IT"}

// Geocoder queries a Nominatim instance. Requests are limited to one per
// second as required by the public service's usage policy.
type Geocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
}

// NewGeocoder creates a Geocoder for baseURL.
func NewGeocoder(baseURL, userAgent string) *Geocoder {
	return &Geocoder{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: DefaultTimeout},
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves address to a Location.
func (g *Geocoder) Geocode(ctx context.Context, address string) (Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Location{}, ErrNotFound
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return Location{}, err
	}

	q := url.Values{"q": {address}, "format": {"json"}, "limit": {"1"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return Location{}, err
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("nominatim request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("nominatim: unexpected status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Location{}, fmt.Errorf("decoding nominatim response: %w", err)
	}
	if len(results) == 0 {
		return Location{}, ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Location{}, fmt.Errorf("parsing latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Location{}, fmt.Errorf("parsing longitude: %w", err)
	}
	return Location{Lat: lat, Lon: lon, DisplayName: results[0].DisplayName}, nil
}

// GeocodeOrDefault resolves address and falls back to DefaultLocation on
// any failure. The boolean reports whether the address was found.
func (g *Geocoder) GeocodeOrDefault(ctx context.Context, address string) (Location, bool) {
	loc, err := g.Geocode(ctx, address)
	if err != nil {
		return DefaultLocation, false
	}
	return loc, true
}
