package weather

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	lat, lon float64
	err      error
}

func (s stubGeocoder) Geocode(ctx context.Context, city, country string) (float64, float64, error) {
	return s.lat, s.lon, s.err
}

func TestResolverCatalogFirst(t *testing.T) {
	r := NewResolver(stubGeocoder{err: errors.New("should not be called")})
	loc, err := r.Resolve(context.Background(), "Miami", "us")
	require.NoError(t, err)
	assert.Equal(t, 25.7617, loc.Lat)
}

func TestResolverGeocodesUnknownCities(t *testing.T) {
	r := NewResolver(stubGeocoder{lat: 47.6, lon: -122.3})
	loc, err := r.Resolve(context.Background(), "Seattle", "us")
	require.NoError(t, err)
	assert.Equal(t, Location{Name: "Seattle", Country: "US", Lat: 47.6, Lon: -122.3, Timezone: "auto"}, loc)
}

func TestResolverUnknownLocation(t *testing.T) {
	_, err := NewResolver(nil).Resolve(context.Background(), "Atlantis", "")
	assert.ErrorIs(t, err, ErrUnknownLocation)

	_, err = NewResolver(stubGeocoder{err: errors.New("ZERO_RESULTS")}).Resolve(context.Background(), "Atlantis", "")
	assert.ErrorIs(t, err, ErrUnknownLocation)

	_, err = NewResolver(stubGeocoder{}).Resolve(context.Background(), " ", "")
	assert.ErrorIs(t, err, ErrUnknownLocation)
}
