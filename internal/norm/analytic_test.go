package norm

import (
	"context"
	"testing"
	"time"
)

// Southern Norway: 60N 10E, 10 GW installed. Solar noon there is at
// 11:20 UTC (longitude shifts the clock by 40 minutes).
var norway = Site{Name: "Norway", CapacityGW: 10, Latitude: 60, Longitude: 10}

func TestAnalyticJuneNoonPeak(t *testing.T) {
	model := NewAnalyticModel()
	noon := time.Date(2025, 6, 21, 11, 20, 0, 0, time.UTC)

	got := model.PowerAt(norway, noon)
	// intensity 0.4508 * 10 GW * 0.20 capacity factor
	if !almostEqual(got, 0.90, 0.01) {
		t.Errorf("Expected ~0.90 GW at June solar noon, got %v", got)
	}
}

func TestAnalyticJuneDaylightWindow(t *testing.T) {
	model := NewAnalyticModel()

	// An 18.5 hour June day at 60N: sunrise near solar hour 2.75, so
	// 03:00 UTC (solar 3.67) generates and 01:00 UTC (solar 1.67) does not.
	morning := model.PowerAt(norway, time.Date(2025, 6, 21, 3, 0, 0, 0, time.UTC))
	if morning <= 0 {
		t.Errorf("Expected generation shortly after June sunrise, got %v", morning)
	}

	night := model.PowerAt(norway, time.Date(2025, 6, 21, 1, 0, 0, 0, time.UTC))
	if night != 0 {
		t.Errorf("Expected exactly 0 before June sunrise, got %v", night)
	}
}

func TestAnalyticDecemberShortDay(t *testing.T) {
	model := NewAnalyticModel()

	// A 5.5 hour December day: evening output is exactly zero.
	evening := model.PowerAt(norway, time.Date(2025, 12, 21, 20, 0, 0, 0, time.UTC))
	if evening != 0 {
		t.Errorf("Expected exactly 0 on a December evening, got %v", evening)
	}

	// At solar noon the intensity floor carries the output: 0.3 * 10 * 0.2.
	noon := model.PowerAt(norway, time.Date(2025, 12, 21, 11, 20, 0, 0, time.UTC))
	if !almostEqual(noon, 0.60, 0.01) {
		t.Errorf("Expected ~0.60 GW at December solar noon, got %v", noon)
	}
}

func TestAnalyticZeroCapacity(t *testing.T) {
	model := NewAnalyticModel()
	site := Site{Name: "Unbuilt", CapacityGW: 0, Latitude: 45, Longitude: 0}

	timestamps := []time.Time{
		time.Date(2025, 6, 21, 6, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 21, 18, 0, 0, 0, time.UTC),
	}

	series, err := model.NormSeries(context.Background(), site, timestamps)
	if err != nil {
		t.Fatalf("NormSeries failed: %v", err)
	}
	for _, p := range series {
		if p.PowerGW != 0 {
			t.Errorf("Expected 0 for zero-capacity site at %v, got %v", p.Timestamp, p.PowerGW)
		}
	}
}

func TestAnalyticLongitudeShiftInvariance(t *testing.T) {
	model := NewAnalyticModel()

	// Shifting 15 degrees east and one hour earlier lands on the same
	// solar hour, so the output must be identical.
	west := Site{Name: "A", CapacityGW: 5, Latitude: 40, Longitude: 0}
	east := Site{Name: "B", CapacityGW: 5, Latitude: 40, Longitude: 15}

	atNoon := model.PowerAt(west, time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC))
	shifted := model.PowerAt(east, time.Date(2025, 6, 21, 11, 0, 0, 0, time.UTC))

	if atNoon != shifted {
		t.Errorf("Expected identical output after longitude shift: %v vs %v", atNoon, shifted)
	}
}

func TestAnalyticPolarSeasons(t *testing.T) {
	model := NewAnalyticModel()
	svalbard := Site{Name: "Svalbard", CapacityGW: 1, Latitude: 75, Longitude: 15}

	// Polar night: zero around the clock.
	for hour := 0; hour < 24; hour++ {
		ts := time.Date(2025, 12, 21, hour, 0, 0, 0, time.UTC)
		if got := model.PowerAt(svalbard, ts); got != 0 {
			t.Errorf("Expected 0 during polar night at hour %d, got %v", hour, got)
		}
	}

	// Midnight sun: the 24 hour arc generates away from its endpoints.
	early := model.PowerAt(svalbard, time.Date(2025, 6, 21, 2, 0, 0, 0, time.UTC))
	if early <= 0 {
		t.Errorf("Expected generation in the midnight-sun small hours, got %v", early)
	}
}

func TestAnalyticNormSeriesShape(t *testing.T) {
	model := NewAnalyticModel()

	loc := time.FixedZone("CEST", 2*3600)
	timestamps := []time.Time{
		time.Date(2025, 6, 21, 14, 0, 0, 0, loc),
		time.Date(2025, 6, 21, 13, 0, 0, 0, loc), // deliberately out of order
		time.Date(2025, 6, 21, 15, 0, 0, 0, loc),
	}

	series, err := model.NormSeries(context.Background(), norway, timestamps)
	if err != nil {
		t.Fatalf("NormSeries failed: %v", err)
	}
	if len(series) != len(timestamps) {
		t.Fatalf("Expected %d points, got %d", len(timestamps), len(series))
	}
	for i, p := range series {
		want := timestamps[i].UTC()
		if !p.Timestamp.Equal(want) {
			t.Errorf("Point %d: expected timestamp %v, got %v", i, want, p.Timestamp)
		}
		if p.Timestamp.Location() != time.UTC {
			t.Errorf("Point %d: expected UTC timestamp, got %v", i, p.Timestamp.Location())
		}
	}
}
