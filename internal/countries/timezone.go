package countries

import (
	"sync"
	"time"

	"github.com/ringsaturn/tzf"

	"github.com/openclimatefix/global-solar-forecast/internal/logger"
)

var (
	tzOnce   sync.Once
	tzFinder tzf.F

	// tzLookup resolves a timezone name from coordinates. Package variable
	// so tests can stub the (data-heavy) finder.
	tzLookup = timezoneName
)

// timezoneName returns the IANA timezone at a coordinate, "UTC" when the
// lookup finds nothing. The finder is built lazily: it carries an embedded
// polygon dataset that is only worth loading when a registry is read.
func timezoneName(longitude, latitude float64) string {
	tzOnce.Do(func() {
		finder, err := tzf.NewDefaultFinder()
		if err != nil {
			logger.Warn("Timezone finder unavailable, falling back to UTC",
				map[string]interface{}{"error": err.Error()})
			return
		}
		tzFinder = finder
	})

	if tzFinder == nil {
		return "UTC"
	}
	if name := tzFinder.GetTimezoneName(longitude, latitude); name != "" {
		return name
	}
	return "UTC"
}

// Localize converts a timestamp into a named zone for display, keeping UTC
// when the zone cannot be loaded.
func Localize(ts time.Time, zoneName string) time.Time {
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		return ts.UTC()
	}
	return ts.In(loc)
}
