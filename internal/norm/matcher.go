package norm

import (
	"time"

	"github.com/openclimatefix/global-solar-forecast/internal/models"
)

// Match aligns a norm table to a target timestamp series: one output point
// per input timestamp, in input order, with 0.0 where the table has no
// bucket for that month and hour. A nil table yields an all-zero series,
// which is how an absent norm is rendered downstream.
func Match(table Table, timestamps []time.Time) []models.GenerationPoint {
	series := make([]models.GenerationPoint, 0, len(timestamps))
	for _, ts := range timestamps {
		utc := ts.UTC()
		series = append(series, models.GenerationPoint{
			Timestamp: utc,
			PowerGW:   table.Lookup(utc),
		})
	}
	return series
}
