package quartz

import (
	"context"
	"hash/fnv"
	"math"
	"time"

	"github.com/openclimatefix/global-solar-forecast/internal/models"
	"github.com/openclimatefix/global-solar-forecast/internal/norm"
)

// mockHorizonHours is the synthetic forecast horizon, roughly matching
// what the real provider returns.
const mockHorizonHours = 48

// MockSource synthesizes plausible forecasts from solar geometry so the
// service can run without network access. Output is deterministic per
// site: the same name always produces the same wobble.
type MockSource struct {
	model *norm.AnalyticModel
}

// NewMockSource creates a synthetic forecast source.
func NewMockSource() *MockSource {
	return &MockSource{model: norm.NewAnalyticModel()}
}

// GetForecast returns an hourly synthetic forecast starting at the current
// hour.
func (m *MockSource) GetForecast(_ context.Context, name string, capacityGW, latitude, longitude float64) ([]models.ForecastPoint, error) {
	site := norm.NewSite(name, capacityGW, latitude, longitude)
	start := time.Now().UTC().Truncate(time.Hour)
	phase := sitePhase(name)

	points := make([]models.ForecastPoint, 0, mockHorizonHours)
	for h := 0; h < mockHorizonHours; h++ {
		ts := start.Add(time.Duration(h) * time.Hour)
		powerGW := m.model.PowerAt(site, ts)

		// A mild site-specific wobble keeps mock charts from looking like
		// the norm overlay traced twice.
		wobble := 1 + 0.1*math.Sin(float64(h)/3+phase)

		points = append(points, models.ForecastPoint{
			Timestamp: ts,
			PowerKW:   powerGW * wobble * 1_000_000,
		})
	}
	return points, nil
}

func sitePhase(name string) float64 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return float64(h.Sum32()%628) / 100 // 0 .. 2*pi
}
