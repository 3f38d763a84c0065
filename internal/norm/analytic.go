package norm

import (
	"context"
	"time"

	"github.com/openclimatefix/global-solar-forecast/internal/models"
)

// AnalyticModel estimates the seasonal norm from solar geometry alone: a
// squared-sine daylight arc scaled by how high the sun climbs for the
// month. It needs no data source and never fails; a site without capacity
// simply yields zeros.
type AnalyticModel struct{}

// NewAnalyticModel creates an analytic seasonal norm model.
func NewAnalyticModel() *AnalyticModel {
	return &AnalyticModel{}
}

// NormSeries implements SeasonalNormProvider.
func (m *AnalyticModel) NormSeries(_ context.Context, site Site, timestamps []time.Time) ([]models.GenerationPoint, error) {
	series := make([]models.GenerationPoint, 0, len(timestamps))
	for _, ts := range timestamps {
		utc := ts.UTC()
		series = append(series, models.GenerationPoint{
			Timestamp: utc,
			PowerGW:   m.PowerAt(site, utc),
		})
	}
	return series, nil
}

// PowerAt returns the expected generation of a site at one instant, in GW.
func (m *AnalyticModel) PowerAt(site Site, ts time.Time) float64 {
	if site.CapacityGW <= 0 {
		return 0
	}

	utc := ts.UTC()
	declination := declinationDeg(utc.Month())
	hour := solarHour(utcHourOf(utc), site.Longitude)
	dayLength := dayLengthHours(site.Latitude, declination)

	pattern := patternAt(hour, dayLength)
	if pattern == 0 {
		return 0
	}

	return pattern * intensityFor(site.Latitude, declination) * site.CapacityGW * capacityFactor
}
