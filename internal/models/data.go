package models

import "time"

// ForecastPoint is one sample of a provider forecast as it arrives on the
// wire. Power is reported in kilowatts by the Quartz API.
type ForecastPoint struct {
	Timestamp time.Time `json:"timestamp"`
	PowerKW   float64   `json:"power_kw"` // kW, converted to GW downstream
}

// GenerationPoint is one sample of a generation series in service units.
type GenerationPoint struct {
	Timestamp time.Time `json:"timestamp"`
	PowerGW   float64   `json:"power_gw"` // GW
}

// CountryInfo describes one country tracked by the service.
type CountryInfo struct {
	Code       string  `json:"code"` // ISO 3166-1 alpha-3
	Name       string  `json:"name"`
	CapacityGW float64 `json:"capacity_gw"` // installed solar capacity
	Latitude   float64 `json:"latitude"`    // centroid
	Longitude  float64 `json:"longitude"`   // centroid
	Timezone   string  `json:"timezone"`    // IANA name, "UTC" when unknown
}

// HasCoordinates reports whether the country carries a usable centroid.
// Countries absent from the boundary file keep the zero value here and are
// skipped by forecasting and aggregation.
func (c CountryInfo) HasCoordinates() bool {
	return c.Latitude != 0 || c.Longitude != 0
}

// CountryForecast pairs a country's provider forecast with its seasonal
// norm, both in GW and aligned on the same timestamps.
type CountryForecast struct {
	Country      CountryInfo       `json:"country"`
	Forecast     []GenerationPoint `json:"forecast"`
	SeasonalNorm []GenerationPoint `json:"seasonal_norm"`
}

// PeakPowerGW returns the largest power value in a series, 0 for an empty
// series. Used to scale chart axes.
func PeakPowerGW(series []GenerationPoint) float64 {
	peak := 0.0
	for _, p := range series {
		if p.PowerGW > peak {
			peak = p.PowerGW
		}
	}
	return peak
}
