package charts

import (
	"math"
)

// round3 trims float noise so option JSON stays compact.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
