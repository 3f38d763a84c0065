package norm

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/openclimatefix/global-solar-forecast/internal/logger"
	"github.com/openclimatefix/global-solar-forecast/internal/models"
)

// fakeSource scripts provider responses per call number.
type fakeSource struct {
	mu      sync.Mutex
	calls   int
	respond func(call int) ([]models.ForecastPoint, error)
}

func (f *fakeSource) GetForecast(_ context.Context, _ string, _, _, _ float64) ([]models.ForecastPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.respond(f.calls)
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func quietLogger() *logger.Logger {
	return logger.New(logger.ERROR, logger.TextFormat, io.Discard)
}

// newTestAggregator wires a fake source with a fixed-size sampling plan.
func newTestAggregator(src ForecastSource, samples int) *Aggregator {
	agg := NewAggregator(src, AggregatorConfig{Logger: quietLogger()})
	agg.plan = func(time.Time) []SamplePoint {
		plan := make([]SamplePoint, samples)
		for i := range plan {
			plan[i] = SamplePoint{Year: 2024, Month: time.June, Day: 1 + i}
		}
		return plan
	}
	return agg
}

func point(ts time.Time, powerKW float64) models.ForecastPoint {
	return models.ForecastPoint{Timestamp: ts, PowerKW: powerKW}
}

var spain = Site{Name: "Spain", CapacityGW: 30, Latitude: 40.2, Longitude: -3.6}

func TestAggregatorZeroCapacity(t *testing.T) {
	src := &fakeSource{respond: func(int) ([]models.ForecastPoint, error) {
		return nil, errors.New("should never be called")
	}}
	agg := newTestAggregator(src, 4)

	_, err := agg.ComputeTable(context.Background(), Site{Name: "Empty", CapacityGW: 0})
	if !errors.Is(err, ErrZeroCapacity) {
		t.Fatalf("Expected ErrZeroCapacity, got %v", err)
	}
	if src.callCount() != 0 {
		t.Errorf("Expected no provider calls for zero capacity, got %d", src.callCount())
	}
}

func TestAggregatorAveraging(t *testing.T) {
	noon := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	src := &fakeSource{respond: func(call int) ([]models.ForecastPoint, error) {
		if call == 1 {
			return []models.ForecastPoint{point(noon, 1_000_000)}, nil // 1 GW
		}
		return []models.ForecastPoint{point(noon, 3_000_000)}, nil // 3 GW
	}}
	agg := newTestAggregator(src, 2)

	table, err := agg.ComputeTable(context.Background(), spain)
	if err != nil {
		t.Fatalf("ComputeTable failed: %v", err)
	}

	got := table[Key{Month: time.June, Hour: 12}]
	if got != 2.0 {
		t.Errorf("Expected mean of 1 and 3 GW to be 2 GW, got %v", got)
	}
}

func TestAggregatorConvertsKilowatts(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{respond: func(int) ([]models.ForecastPoint, error) {
		return []models.ForecastPoint{point(ts, 500_000)}, nil
	}}
	agg := newTestAggregator(src, 1)

	table, err := agg.ComputeTable(context.Background(), spain)
	if err != nil {
		t.Fatalf("ComputeTable failed: %v", err)
	}

	if got := table[Key{Month: time.March, Hour: 9}]; got != 0.5 {
		t.Errorf("Expected 500000 kW to become 0.5 GW, got %v", got)
	}
}

func TestAggregatorSkipsFailedSamples(t *testing.T) {
	noon := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	src := &fakeSource{respond: func(call int) ([]models.ForecastPoint, error) {
		if call%2 == 1 {
			return nil, errors.New("provider timeout")
		}
		return []models.ForecastPoint{point(noon, 2_000_000)}, nil
	}}
	agg := newTestAggregator(src, 4)

	table, err := agg.ComputeTable(context.Background(), spain)
	if err != nil {
		t.Fatalf("Expected partial failures to be tolerated, got %v", err)
	}

	if got := table[Key{Month: time.June, Hour: 12}]; got != 2.0 {
		t.Errorf("Expected 2 GW from surviving samples, got %v", got)
	}
	if src.callCount() != 4 {
		t.Errorf("Expected all 4 occasions attempted, got %d", src.callCount())
	}
}

func TestAggregatorAllSamplesFail(t *testing.T) {
	src := &fakeSource{respond: func(int) ([]models.ForecastPoint, error) {
		return nil, errors.New("provider down")
	}}
	agg := newTestAggregator(src, 3)

	_, err := agg.ComputeTable(context.Background(), spain)
	if !errors.Is(err, ErrNoSamples) {
		t.Fatalf("Expected ErrNoSamples, got %v", err)
	}
}

func TestAggregatorCacheHit(t *testing.T) {
	noon := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	src := &fakeSource{respond: func(int) ([]models.ForecastPoint, error) {
		return []models.ForecastPoint{point(noon, 1_000_000)}, nil
	}}
	agg := newTestAggregator(src, 3)

	if _, err := agg.ComputeTable(context.Background(), spain); err != nil {
		t.Fatalf("First compute failed: %v", err)
	}
	if src.callCount() != 3 {
		t.Fatalf("Expected 3 provider calls, got %d", src.callCount())
	}

	if _, err := agg.ComputeTable(context.Background(), spain); err != nil {
		t.Fatalf("Second compute failed: %v", err)
	}
	if src.callCount() != 3 {
		t.Errorf("Expected cache to absorb second compute, got %d calls", src.callCount())
	}
}

func TestAggregatorCachesAbsence(t *testing.T) {
	src := &fakeSource{respond: func(int) ([]models.ForecastPoint, error) {
		return nil, errors.New("provider down")
	}}
	agg := newTestAggregator(src, 2)

	if _, err := agg.ComputeTable(context.Background(), spain); !errors.Is(err, ErrNoSamples) {
		t.Fatalf("Expected ErrNoSamples, got %v", err)
	}
	callsAfterFirst := src.callCount()

	if _, err := agg.ComputeTable(context.Background(), spain); !errors.Is(err, ErrNoSamples) {
		t.Fatalf("Expected cached absence to stay ErrNoSamples, got %v", err)
	}
	if src.callCount() != callsAfterFirst {
		t.Errorf("Expected no re-sampling of a cached absence, got %d extra calls",
			src.callCount()-callsAfterFirst)
	}
}

func TestAggregatorRecomputesAfterExpiry(t *testing.T) {
	noon := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	src := &fakeSource{respond: func(int) ([]models.ForecastPoint, error) {
		return []models.ForecastPoint{point(noon, 1_000_000)}, nil
	}}
	agg := newTestAggregator(src, 2)

	if _, err := agg.ComputeTable(context.Background(), spain); err != nil {
		t.Fatalf("First compute failed: %v", err)
	}

	// Age the cached entry past its TTL.
	agg.cache.mu.Lock()
	for key, entry := range agg.cache.entries {
		entry.expiresAt = time.Now().Add(-time.Minute)
		agg.cache.entries[key] = entry
	}
	agg.cache.mu.Unlock()

	if _, err := agg.ComputeTable(context.Background(), spain); err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	if src.callCount() != 4 {
		t.Errorf("Expected expired entry to trigger re-sampling, got %d calls", src.callCount())
	}
}

func TestAggregatorContextCancellation(t *testing.T) {
	src := &fakeSource{respond: func(int) ([]models.ForecastPoint, error) {
		return nil, nil
	}}
	agg := newTestAggregator(src, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := agg.ComputeTable(ctx, spain)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

func TestAggregatorNormalizesRowTimezones(t *testing.T) {
	// 17:30 +05:30 is 12:00 UTC.
	ist := time.FixedZone("IST", 5*3600+1800)
	src := &fakeSource{respond: func(int) ([]models.ForecastPoint, error) {
		return []models.ForecastPoint{point(time.Date(2024, 6, 15, 17, 30, 0, 0, ist), 1_000_000)}, nil
	}}
	agg := newTestAggregator(src, 1)

	table, err := agg.ComputeTable(context.Background(), spain)
	if err != nil {
		t.Fatalf("ComputeTable failed: %v", err)
	}

	if got := table[Key{Month: time.June, Hour: 12}]; got != 1.0 {
		t.Errorf("Expected zoned row bucketed by UTC hour, got table %v", table)
	}
}

func TestMultiYearPlan(t *testing.T) {
	now := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	plan := MultiYearPlan(now, 3, 2)

	if len(plan) != 3*12*2 {
		t.Fatalf("Expected 72 occasions, got %d", len(plan))
	}

	// Oldest year first, two-week day stride.
	if plan[0].Year != 2023 || plan[0].Month != time.January || plan[0].Day != 1 {
		t.Errorf("Unexpected first occasion: %+v", plan[0])
	}
	if plan[1].Day != 15 {
		t.Errorf("Expected second occasion on day 15, got %d", plan[1].Day)
	}
	if last := plan[len(plan)-1]; last.Year != 2025 || last.Month != time.December {
		t.Errorf("Unexpected last occasion: %+v", last)
	}

	months := make(map[time.Month]bool)
	for _, p := range plan {
		months[p.Month] = true
	}
	if len(months) != 12 {
		t.Errorf("Expected all 12 months covered, got %d", len(months))
	}
}

func TestMultiYearPlanCapsDay(t *testing.T) {
	now := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	plan := MultiYearPlan(now, 1, 3)

	for _, p := range plan {
		if p.Day > 28 {
			t.Fatalf("Occasion day %d exceeds the safe cap", p.Day)
		}
	}
}

func TestSingleYearPlan(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	plan := SingleYearPlan(now)

	if len(plan) != 122 {
		t.Fatalf("Expected 122 three-day strides across 2024, got %d", len(plan))
	}
	if plan[0].Year != 2024 || plan[0].Month != time.January || plan[0].Day != 1 {
		t.Errorf("Unexpected first occasion: %+v", plan[0])
	}
	if plan[1].Day != 4 {
		t.Errorf("Expected three-day stride, second occasion on day 4, got %d", plan[1].Day)
	}
}
