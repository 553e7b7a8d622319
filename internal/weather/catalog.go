package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLocation is returned when a city is neither in the catalog nor resolvable.
var ErrUnknownLocation = errors.New("unknown location")

// Cities is the built-in catalog. The first entry is the default city.
var Cities = []Location{
	{Name: "New York", Country: "US", Lat: 40.7128, Lon: -74.006, Timezone: "America/New_York"},
	{Name: "Chicago", Country: "US", Lat: 41.8781, Lon: -87.6298, Timezone: "America/Chicago"},
	{Name: "Los Angeles", Country: "US", Lat: 34.0522, Lon: -118.2437, Timezone: "America/Los_Angeles"},
	{Name: "Miami", Country: "US", Lat: 25.7617, Lon: -80.1918, Timezone: "America/New_York"},
	{Name: "Dallas", Country: "US", Lat: 32.7767, Lon: -96.797, Timezone: "America/Chicago"},
	{Name: "Denver", Country: "US", Lat: 39.7392, Lon: -104.9903, Timezone: "America/Denver"},
	{Name: "Austin", Country: "US", Lat: 30.2672, Lon: -97.7431, Timezone: "America/Chicago"},
}

// DefaultCity returns the catalog's default location.
func DefaultCity() Location {
	return Cities[0]
}

// LookupCity finds a catalog city by name, case-insensitively.
// An empty country matches any country.
func LookupCity(name, country string) (Location, bool) {
	name = strings.TrimSpace(name)
	country = strings.TrimSpace(country)
	for _, c := range Cities {
		if !strings.EqualFold(c.Name, name) {
			continue
		}
		if country != "" && !strings.EqualFold(c.Country, country) {
			continue
		}
		return c, true
	}
	return Location{}, false
}

// Resolver turns a user-supplied city into a Location, consulting the catalog
// first and the geocoder (if any) second.
type Resolver struct {
	geocoder Geocoder
}

// NewResolver creates a Resolver. geocoder may be nil.
func NewResolver(geocoder Geocoder) *Resolver {
	return &Resolver{geocoder: geocoder}
}

// Resolve returns the Location for city/country.
func (r *Resolver) Resolve(ctx context.Context, city, country string) (Location, error) {
	if loc, ok := LookupCity(city, country); ok {
		return loc, nil
	}
	if r == nil || r.geocoder == nil || strings.TrimSpace(city) == "" {
		return Location{}, fmt.Errorf("%w: %q", ErrUnknownLocation, city)
	}

	lat, lon, err := r.geocoder.Geocode(ctx, city, country)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %q: %v", ErrUnknownLocation, city, err)
	}
	return Location{
		Name:     strings.TrimSpace(city),
		Country:  strings.ToUpper(strings.TrimSpace(country)),
		Lat:      lat,
		Lon:      lon,
		Timezone: "auto",
	}, nil
}
