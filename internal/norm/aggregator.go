package norm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/openclimatefix/global-solar-forecast/internal/logger"
	"github.com/openclimatefix/global-solar-forecast/internal/models"
)

// ForecastSource is the provider dependency of the aggregator: one call
// returns one forecast for a site. The provider decides the horizon and
// resolution; calls carry no date, so repeated sampling spreads load and
// failure risk rather than selecting historical periods.
type ForecastSource interface {
	GetForecast(ctx context.Context, name string, capacityGW, latitude, longitude float64) ([]models.ForecastPoint, error)
}

// SamplePoint is one occasion in a sampling plan. Year, month and day
// identify the occasion in logs; the provider call itself is date-free.
type SamplePoint struct {
	Year  int
	Month time.Month
	Day   int
}

// MultiYearPlan spreads samplesPerMonth occasions over every month of the
// given number of years, ending with the current year. Days step in
// two-week strides from the 1st and never pass the 28th, so every month
// length is safe.
func MultiYearPlan(now time.Time, years, samplesPerMonth int) []SamplePoint {
	if years < 1 {
		years = 1
	}
	if samplesPerMonth < 1 {
		samplesPerMonth = 1
	}

	plan := make([]SamplePoint, 0, years*12*samplesPerMonth)
	for yearOffset := years - 1; yearOffset >= 0; yearOffset-- {
		year := now.Year() - yearOffset
		for month := time.January; month <= time.December; month++ {
			for sample := 0; sample < samplesPerMonth; sample++ {
				day := 1 + sample*14
				if day > 28 {
					day = 28
				}
				plan = append(plan, SamplePoint{Year: year, Month: month, Day: day})
			}
		}
	}
	return plan
}

// SingleYearPlan walks the previous calendar year in three-day strides,
// one occasion per visited day. Cheaper than the multiyear grid and meant
// to be paired with a short cache TTL.
func SingleYearPlan(now time.Time) []SamplePoint {
	year := now.Year() - 1
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var plan []SamplePoint
	for d := start; d.Before(end); d = d.AddDate(0, 0, 3) {
		plan = append(plan, SamplePoint{Year: d.Year(), Month: d.Month(), Day: d.Day()})
	}
	return plan
}

// AggregatorConfig tunes the empirical aggregator. Zero values fall back
// to the multiyear grid, a 720h TTL and an unthrottled source.
type AggregatorConfig struct {
	Sampling        string        // "multiyear" or "singleyear"
	SampleYears     int           // multiyear: how many years to cover
	SamplesPerMonth int           // multiyear: occasions per month
	TTL             time.Duration // how long computed tables stay cached
	RateLimit       float64       // provider calls per second, 0 = unlimited
	Logger          *logger.Logger
}

// Aggregator builds empirical norm tables by averaging many provider
// forecasts per site into month-hour buckets. Individual provider
// failures are skipped; only a site yielding no rows at all is reported
// as having no norm.
type Aggregator struct {
	source  ForecastSource
	cache   *tableCache
	limiter *rate.Limiter
	plan    func(now time.Time) []SamplePoint
	log     *logger.Logger
	now     func() time.Time
}

// NewAggregator creates an empirical norm aggregator over a forecast
// source.
func NewAggregator(source ForecastSource, cfg AggregatorConfig) *Aggregator {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 720 * time.Hour
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	log := cfg.Logger
	if log == nil {
		log = logger.GetGlobalLogger().WithComponent("aggregator")
	}

	years := cfg.SampleYears
	if years <= 0 {
		years = 3
	}
	perMonth := cfg.SamplesPerMonth
	if perMonth <= 0 {
		perMonth = 2
	}

	plan := func(now time.Time) []SamplePoint {
		return MultiYearPlan(now, years, perMonth)
	}
	if cfg.Sampling == "singleyear" {
		plan = SingleYearPlan
	}

	return &Aggregator{
		source:  source,
		cache:   newTableCache(ttl),
		limiter: rate.NewLimiter(limit, 1),
		plan:    plan,
		log:     log,
		now:     time.Now,
	}
}

// ComputeTable returns the empirical norm table for a site, from cache
// when fresh. It returns ErrZeroCapacity for sites without capacity and
// ErrNoSamples when every sampling occasion failed; both outcomes are
// cached so a hopeless site is not hammered on every cycle. Any other
// error means the batch was aborted, typically by context cancellation.
func (a *Aggregator) ComputeTable(ctx context.Context, site Site) (Table, error) {
	if site.CapacityGW <= 0 {
		return nil, ErrZeroCapacity
	}

	key := siteKey(site)
	if table, ok := a.cache.get(key); ok {
		if table == nil {
			return nil, ErrNoSamples
		}
		return table, nil
	}

	table, err := a.sample(ctx, site)
	if err != nil {
		return nil, err
	}

	a.cache.put(key, table)
	hits, misses := a.cache.stats()
	a.log.Debug("Norm table cached", map[string]interface{}{
		"site": site.Name, "buckets": len(table), "cache_hits": hits, "cache_misses": misses,
	})

	if table == nil {
		return nil, ErrNoSamples
	}
	return table, nil
}

// sample runs the sampling plan for one site and averages the responses.
func (a *Aggregator) sample(ctx context.Context, site Site) (Table, error) {
	plan := a.plan(a.now())
	builder := newTableBuilder()
	failures := 0

	for _, occasion := range plan {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("norm sampling aborted: %w", err)
		}

		points, err := a.source.GetForecast(ctx, site.Name, site.CapacityGW, site.Latitude, site.Longitude)
		if err != nil {
			failures++
			a.log.Debug("Skipping failed norm sample", map[string]interface{}{
				"site":  site.Name,
				"year":  occasion.Year,
				"month": int(occasion.Month),
				"day":   occasion.Day,
				"error": err.Error(),
			})
			continue
		}

		for _, p := range points {
			builder.add(p.Timestamp, p.PowerKW/1_000_000)
		}
	}

	a.log.Infof("Sampled %d/%d forecasts for %s (%d rows)",
		len(plan)-failures, len(plan), site.Name, builder.rows())

	return builder.build(), nil
}
