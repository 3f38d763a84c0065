package norm

import (
	"math"
	"time"
)

const (
	// axialTiltDeg is Earth's axial tilt, which bounds solar declination.
	axialTiltDeg = 23.45

	// capacityFactor converts installed capacity to typical peak output.
	capacityFactor = 0.20

	// minIntensity floors the seasonal intensity so high-latitude winters
	// keep a plausible diffuse-light contribution.
	minIntensity = 0.3
)

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// declinationDeg approximates solar declination for a month, peaking in
// June (+23.45) and bottoming in December (-23.45), zero near the March
// equinox.
func declinationDeg(month time.Month) float64 {
	return axialTiltDeg * math.Sin(2*math.Pi*float64(int(month)-3)/12)
}

// solarHour shifts a UTC hour of day by longitude, 15 degrees per hour,
// wrapped into [0, 24).
func solarHour(utcHour, longitude float64) float64 {
	h := math.Mod(utcHour+longitude/15, 24)
	if h < 0 {
		h += 24
	}
	return h
}

// utcHourOf returns the fractional UTC hour of day of a timestamp.
func utcHourOf(ts time.Time) float64 {
	u := ts.UTC()
	return float64(u.Hour()) + float64(u.Minute())/60 + float64(u.Second())/3600
}

// dayLengthHours solves the sunrise equation for the day length in hours.
// The hour-angle cosine is clamped to [-1, 1] so polar latitudes saturate
// to 0h (polar night) or 24h (midnight sun) instead of leaving the domain
// of acos.
func dayLengthHours(latitude, declination float64) float64 {
	cosHourAngle := -math.Tan(radians(latitude)) * math.Tan(radians(declination))
	if cosHourAngle > 1 {
		cosHourAngle = 1
	}
	if cosHourAngle < -1 {
		cosHourAngle = -1
	}
	return 2 * degrees(math.Acos(cosHourAngle)) / 15
}

// intensityFor scales output by how high the sun climbs at solar noon,
// normalized against the tropics and floored at minIntensity.
func intensityFor(latitude, declination float64) float64 {
	maxElevation := 90 - math.Abs(latitude-declination)
	intensity := (maxElevation - axialTiltDeg) / (90 - axialTiltDeg)
	if intensity < minIntensity {
		return minIntensity
	}
	if intensity > 1 {
		return 1
	}
	return intensity
}

// patternAt returns the diurnal generation shape at a solar hour: a squared
// sine arc between sunrise and sunset, zero outside the daylight window.
func patternAt(solarHour, dayLength float64) float64 {
	if dayLength <= 0 {
		return 0
	}
	sunrise := 12 - dayLength/2
	sunset := 12 + dayLength/2
	if solarHour < sunrise || solarHour > sunset {
		return 0
	}
	s := math.Sin(math.Pi * (solarHour - sunrise) / dayLength)
	return s * s
}
