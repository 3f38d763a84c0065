package norm

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestDeclination(t *testing.T) {
	tests := []struct {
		month    time.Month
		expected float64
	}{
		{time.June, 23.45},
		{time.December, -23.45},
		{time.March, 0},
		{time.September, 0}, // sin(pi) up to float error
	}

	for _, tt := range tests {
		got := declinationDeg(tt.month)
		if !almostEqual(got, tt.expected, 1e-9) {
			t.Errorf("declinationDeg(%v) = %v, expected %v", tt.month, got, tt.expected)
		}
	}
}

func TestDayLength(t *testing.T) {
	tests := []struct {
		name      string
		latitude  float64
		month     time.Month
		expected  float64
		tolerance float64
	}{
		{"equator in June", 0, time.June, 12, 1e-9},
		{"equator in December", 0, time.December, 12, 1e-9},
		{"Oslo latitude in June", 60, time.June, 18.49, 0.05},
		{"Oslo latitude in December", 60, time.December, 5.51, 0.05},
		{"polar night", 75, time.December, 0, 1e-9},
		{"midnight sun", 75, time.June, 24, 1e-9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dayLengthHours(tt.latitude, declinationDeg(tt.month))
			if !almostEqual(got, tt.expected, tt.tolerance) {
				t.Errorf("dayLengthHours(%v, %v) = %v, expected %v",
					tt.latitude, tt.month, got, tt.expected)
			}
		})
	}
}

func TestDayLengthHemisphereSymmetry(t *testing.T) {
	// A June day at 60N lasts as long as a December day at 60S.
	north := dayLengthHours(60, declinationDeg(time.June))
	south := dayLengthHours(-60, declinationDeg(time.December))

	if !almostEqual(north, south, 1e-9) {
		t.Errorf("Expected symmetric day lengths, got north %v south %v", north, south)
	}
}

func TestSolarHour(t *testing.T) {
	tests := []struct {
		utcHour   float64
		longitude float64
		expected  float64
	}{
		{12, 0, 12},
		{12, 15, 13},  // one hour east
		{12, -15, 11}, // one hour west
		{23, 30, 1},   // wraps past midnight
		{1, -180, 13}, // stays positive across the date line
		{0, 0, 0},
	}

	for _, tt := range tests {
		got := solarHour(tt.utcHour, tt.longitude)
		if !almostEqual(got, tt.expected, 1e-9) {
			t.Errorf("solarHour(%v, %v) = %v, expected %v",
				tt.utcHour, tt.longitude, got, tt.expected)
		}
	}
}

func TestIntensity(t *testing.T) {
	june := declinationDeg(time.June)

	// 60N in June: sun climbs to 53.45 degrees, about 45% intensity.
	got := intensityFor(60, june)
	if !almostEqual(got, 0.4508, 0.001) {
		t.Errorf("Expected intensity ~0.4508 at 60N in June, got %v", got)
	}

	// High latitude winter bottoms out at the floor instead of going
	// negative.
	if got := intensityFor(60, declinationDeg(time.December)); got != minIntensity {
		t.Errorf("Expected winter intensity floored at %v, got %v", minIntensity, got)
	}

	// Sun directly overhead caps at full intensity.
	if got := intensityFor(axialTiltDeg, june); !almostEqual(got, 1.0, 1e-9) {
		t.Errorf("Expected intensity 1.0 under overhead sun, got %v", got)
	}
}

func TestPattern(t *testing.T) {
	// Midday peak of a 12 hour day.
	if got := patternAt(12, 12); !almostEqual(got, 1.0, 1e-9) {
		t.Errorf("Expected pattern 1.0 at solar noon, got %v", got)
	}

	// Exactly at sunrise and sunset the arc touches zero.
	if got := patternAt(6, 12); !almostEqual(got, 0, 1e-9) {
		t.Errorf("Expected pattern 0 at sunrise, got %v", got)
	}

	// Outside the daylight window the pattern is exactly zero.
	if got := patternAt(3, 12); got != 0 {
		t.Errorf("Expected pattern 0 before sunrise, got %v", got)
	}
	if got := patternAt(22, 12); got != 0 {
		t.Errorf("Expected pattern 0 after sunset, got %v", got)
	}

	// A zero-length day never generates.
	if got := patternAt(12, 0); got != 0 {
		t.Errorf("Expected pattern 0 for zero day length, got %v", got)
	}
}

func TestWrapLongitude(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{10, 10},
		{-170, -170},
		{190, -170},
		{-190, 170},
		{360, 0},
		{180, -180},
	}

	for _, tt := range tests {
		if got := wrapLongitude(tt.input); !almostEqual(got, tt.expected, 1e-9) {
			t.Errorf("wrapLongitude(%v) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestNewSiteClampsLatitude(t *testing.T) {
	site := NewSite("North Pole Array", 1, 95, 0)
	if site.Latitude != 90 {
		t.Errorf("Expected latitude clamped to 90, got %v", site.Latitude)
	}

	site = NewSite("South Pole Array", 1, -100, 0)
	if site.Latitude != -90 {
		t.Errorf("Expected latitude clamped to -90, got %v", site.Latitude)
	}
}
