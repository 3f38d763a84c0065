// Package norm estimates the seasonal generation norm of a solar site: the
// power it would typically produce at a given month and hour of day. Two
// estimators are provided, a pure solar-geometry model and an empirical
// aggregator that averages many provider forecasts.
package norm

import (
	"context"
	"errors"
	"time"

	"github.com/openclimatefix/global-solar-forecast/internal/models"
)

var (
	// ErrZeroCapacity means the site has no installed capacity, so no norm
	// can be computed for it.
	ErrZeroCapacity = errors.New("site has zero installed capacity")

	// ErrNoSamples means every provider sample failed or returned no rows.
	ErrNoSamples = errors.New("no usable forecast samples")
)

// Site is one solar installation: a named location with installed capacity.
type Site struct {
	Name       string
	CapacityGW float64
	Latitude   float64 // degrees, positive north
	Longitude  float64 // degrees, positive east
}

// NewSite builds a Site with coordinates forced into range: latitude is
// clamped to [-90, 90] and longitude wrapped into [-180, 180).
func NewSite(name string, capacityGW, latitude, longitude float64) Site {
	if latitude > 90 {
		latitude = 90
	}
	if latitude < -90 {
		latitude = -90
	}
	longitude = wrapLongitude(longitude)
	return Site{Name: name, CapacityGW: capacityGW, Latitude: latitude, Longitude: longitude}
}

func wrapLongitude(lon float64) float64 {
	for lon >= 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}

// SeasonalNormProvider produces the expected generation series of a site
// aligned to the given timestamps. Implementations must return exactly one
// point per timestamp, in input order.
type SeasonalNormProvider interface {
	NormSeries(ctx context.Context, site Site, timestamps []time.Time) ([]models.GenerationPoint, error)
}
