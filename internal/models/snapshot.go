package models

import "time"

// MapFrame holds the per-country generation values for one timestep of the
// world map, keyed by alpha-3 code.
type MapFrame struct {
	Timestamp time.Time          `json:"timestamp"`
	PowerGW   map[string]float64 `json:"power_gw"`
}

// GlobalSnapshot is the full output of one dashboard generation run: every
// country's forecast and seasonal norm plus the worldwide sums.
type GlobalSnapshot struct {
	GeneratedAt     time.Time         `json:"generated_at"`
	Countries       []CountryForecast `json:"countries"`
	Global          []GenerationPoint `json:"global"`          // sum over countries
	GlobalNorm      []GenerationPoint `json:"global_norm"`     // sum of seasonal norms
	TotalCapacityGW float64           `json:"total_capacity_gw"`
	MapFrames       []MapFrame        `json:"map_frames"`
}

// CountryByCode returns the forecast for one country, or nil when the
// snapshot does not include it.
func (s *GlobalSnapshot) CountryByCode(code string) *CountryForecast {
	for i := range s.Countries {
		if s.Countries[i].Country.Code == code {
			return &s.Countries[i]
		}
	}
	return nil
}
