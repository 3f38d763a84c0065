package forecast

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/openclimatefix/global-solar-forecast/internal/logger"
	"github.com/openclimatefix/global-solar-forecast/internal/models"
	"github.com/openclimatefix/global-solar-forecast/internal/norm"
)

// CountrySource supplies the countries worth forecasting. Satisfied by
// countries.Registry.
type CountrySource interface {
	Forecastable() []models.CountryInfo
	TotalCapacityGW() float64
}

// Service builds global snapshots: one provider forecast per country,
// a seasonal norm overlay for each, and worldwide sums over the union
// timeline. Countries whose fetch fails are dropped from the snapshot;
// the world does not wait for one provider hiccup.
type Service struct {
	countries   CountrySource
	source      norm.ForecastSource
	norms       norm.SeasonalNormProvider
	concurrency int
	log         *logger.Logger
}

// NewService wires a snapshot builder.
func NewService(countries CountrySource, source norm.ForecastSource, norms norm.SeasonalNormProvider, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = 4
	}
	return &Service{
		countries:   countries,
		source:      source,
		norms:       norms,
		concurrency: concurrency,
		log:         logger.GetGlobalLogger().WithComponent("forecast"),
	}
}

type countryResult struct {
	forecast models.CountryForecast
	err      error
}

// BuildSnapshot fetches and assembles the full global picture. It only
// fails when norm computation aborts (context cancellation); provider
// failures degrade to fewer countries.
func (s *Service) BuildSnapshot(ctx context.Context) (*models.GlobalSnapshot, error) {
	list := s.countries.Forecastable()
	started := time.Now()

	results := make([]countryResult, len(list))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, country := range list {
		wg.Add(1)
		go func(i int, country models.CountryInfo) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = s.buildCountry(ctx, country)
		}(i, country)
	}
	wg.Wait()

	snapshot := &models.GlobalSnapshot{
		GeneratedAt:     time.Now().UTC(),
		TotalCapacityGW: s.countries.TotalCapacityGW(),
	}

	globalPower := make(map[time.Time]float64)
	globalNorm := make(map[time.Time]float64)
	frameValues := make(map[time.Time]map[string]float64)

	for i, result := range results {
		if result.err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("snapshot build aborted: %w", result.err)
			}
			s.log.Warn("Skipping country in snapshot", map[string]interface{}{
				"country": list[i].Name, "error": result.err.Error(),
			})
			continue
		}

		cf := result.forecast
		snapshot.Countries = append(snapshot.Countries, cf)

		for _, p := range cf.Forecast {
			globalPower[p.Timestamp] += p.PowerGW
			if frameValues[p.Timestamp] == nil {
				frameValues[p.Timestamp] = make(map[string]float64)
			}
			frameValues[p.Timestamp][cf.Country.Code] = p.PowerGW
		}
		for _, p := range cf.SeasonalNorm {
			globalNorm[p.Timestamp] += p.PowerGW
		}
	}

	timeline := sortedTimeline(globalPower)
	snapshot.Global = seriesFromMap(globalPower, timeline)
	snapshot.GlobalNorm = seriesFromMap(globalNorm, timeline)
	snapshot.MapFrames = framesFromMap(frameValues, timeline)

	s.log.Infof("Built snapshot: %d/%d countries, %d timesteps in %v",
		len(snapshot.Countries), len(list), len(timeline), time.Since(started).Round(time.Millisecond))

	return snapshot, nil
}

// buildCountry fetches one country's forecast and attaches its seasonal
// norm, aligned to the forecast's own timestamps.
func (s *Service) buildCountry(ctx context.Context, country models.CountryInfo) countryResult {
	points, err := s.source.GetForecast(ctx, country.Name, country.CapacityGW, country.Latitude, country.Longitude)
	if err != nil {
		return countryResult{err: fmt.Errorf("forecast fetch failed: %w", err)}
	}

	generation := toGenerationSeries(points)
	timestamps := make([]time.Time, len(generation))
	for i, p := range generation {
		timestamps[i] = p.Timestamp
	}

	site := norm.NewSite(country.Name, country.CapacityGW, country.Latitude, country.Longitude)
	normSeries, err := s.norms.NormSeries(ctx, site, timestamps)
	if err != nil {
		return countryResult{err: fmt.Errorf("norm computation failed: %w", err)}
	}

	return countryResult{forecast: models.CountryForecast{
		Country:      country,
		Forecast:     generation,
		SeasonalNorm: normSeries,
	}}
}

// toGenerationSeries converts wire kilowatts to GW, normalizes timestamps
// to UTC and sorts chronologically.
func toGenerationSeries(points []models.ForecastPoint) []models.GenerationPoint {
	series := make([]models.GenerationPoint, 0, len(points))
	for _, p := range points {
		series = append(series, models.GenerationPoint{
			Timestamp: p.Timestamp.UTC(),
			PowerGW:   p.PowerKW / 1_000_000,
		})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})
	return series
}

func sortedTimeline(values map[time.Time]float64) []time.Time {
	timeline := make([]time.Time, 0, len(values))
	for ts := range values {
		timeline = append(timeline, ts)
	}
	sort.Slice(timeline, func(i, j int) bool { return timeline[i].Before(timeline[j]) })
	return timeline
}

func seriesFromMap(values map[time.Time]float64, timeline []time.Time) []models.GenerationPoint {
	series := make([]models.GenerationPoint, 0, len(timeline))
	for _, ts := range timeline {
		series = append(series, models.GenerationPoint{Timestamp: ts, PowerGW: values[ts]})
	}
	return series
}

func framesFromMap(values map[time.Time]map[string]float64, timeline []time.Time) []models.MapFrame {
	frames := make([]models.MapFrame, 0, len(timeline))
	for _, ts := range timeline {
		frames = append(frames, models.MapFrame{Timestamp: ts, PowerGW: values[ts]})
	}
	return frames
}
