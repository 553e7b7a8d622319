package providers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"
)

var errNoAPIKey = errors.New("geocoder api key is not configured")

// GoogleGeocoder implements weather.Geocoder on top of the Google Geocoding API.
type GoogleGeocoder struct {
	// lookup is swapped in tests
	lookup func(geocoder.Address) (geocoder.Location, error)

	mu    sync.Mutex
	cache map[string][2]float64
}

// NewGoogleGeocoder configures the geocoder package with apiKey. The geocoder
// library keeps its key in a package variable, so only one key per process is supported.
func NewGoogleGeocoder(apiKey string) (*GoogleGeocoder, error) {
	if apiKey == "" {
		return nil, errNoAPIKey
	}
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{
		lookup: geocoder.Geocoding,
		cache:  make(map[string][2]float64),
	}, nil
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, city, country string) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	key := city + "|" + country
	g.mu.Lock()
	if ll, ok := g.cache[key]; ok {
		g.mu.Unlock()
		return ll[0], ll[1], nil
	}
	g.mu.Unlock()

	loc, err := g.lookup(geocoder.Address{City: city, Country: country})
	if err != nil {
		return 0, 0, fmt.Errorf("geocode %q: %w", city, err)
	}

	g.mu.Lock()
	g.cache[key] = [2]float64{loc.Latitude, loc.Longitude}
	g.mu.Unlock()

	return loc.Latitude, loc.Longitude, nil
}
