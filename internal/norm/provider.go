package norm

import (
	"context"
	"errors"
	"time"

	"github.com/openclimatefix/global-solar-forecast/internal/models"
)

// EmpiricalProvider exposes the aggregator as a SeasonalNormProvider:
// it computes (or reuses) the site's norm table and matches it to the
// requested timestamps. When no norm is available the series is
// zero-filled, so a chart overlay degrades to a flat line instead of
// disappearing.
type EmpiricalProvider struct {
	agg *Aggregator
}

// NewEmpiricalProvider wraps an aggregator.
func NewEmpiricalProvider(agg *Aggregator) *EmpiricalProvider {
	return &EmpiricalProvider{agg: agg}
}

// NormSeries implements SeasonalNormProvider.
func (p *EmpiricalProvider) NormSeries(ctx context.Context, site Site, timestamps []time.Time) ([]models.GenerationPoint, error) {
	table, err := p.agg.ComputeTable(ctx, site)
	if err != nil {
		if errors.Is(err, ErrZeroCapacity) || errors.Is(err, ErrNoSamples) {
			return Match(nil, timestamps), nil
		}
		return nil, err
	}
	return Match(table, timestamps), nil
}
